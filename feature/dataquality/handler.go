package dataquality

import (
	"errors"
	"strconv"

	"quality-admin/core/logger"
	"quality-admin/feature/dataquality/archive"
	"quality-admin/feature/dataquality/models"
	"quality-admin/feature/dataquality/repository"
	"quality-admin/feature/dataquality/store"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Handler handles HTTP requests for data quality rules.
type Handler struct {
	service *Service
}

// NewHandler creates a new HTTP handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes registers the data quality routes.
func (h *Handler) RegisterRoutes(app fiber.Router) {
	group := app.Group("/data_quality")
	group.Get("/columns", h.HandleColumns)
	group.Get("/options", h.HandleOptions)

	org := group.Group("/organizations/:org")
	org.Get("/rules", h.HandleFetchRules)
	org.Put("/rules", h.HandleSaveRules)
	org.Delete("/rules", h.HandleResetRules)
	org.Post("/rules/restore_defaults", h.HandleRestoreDefaults)
	org.Get("/labels", h.HandleLabels)
	org.Get("/snapshots", h.HandleSnapshots)
	org.Delete("/snapshots", h.HandleDeleteSnapshot)

	sessions := group.Group("/sessions")
	sessions.Post("/", h.HandleOpenSession)
	sessions.Get("/:id", h.HandleGetSession)
	sessions.Delete("/:id", h.HandleCloseSession)
	sessions.Get("/:id/payload", h.HandleSessionPayload)
	sessions.Post("/:id/fetch", h.HandleSessionFetch)
	sessions.Post("/:id/save", h.HandleSessionSave)
	sessions.Post("/:id/restore_defaults", h.HandleSessionRestoreDefaults)
	sessions.Post("/:id/reset", h.HandleSessionReset)

	inv := sessions.Group("/:id/:inventory")
	inv.Post("/rules", h.HandleCreateRule)
	inv.Put("/fields/:field/data_type", h.HandleChangeDataType)
	inv.Post("/fields/:field/required", h.HandleToggleRequired)
	inv.Post("/fields/:field/not_null", h.HandleToggleNotNull)
	inv.Patch("/fields/:field/rules/:index", h.HandleUpdateRule)
	inv.Delete("/fields/:field/rules/:index", h.HandleDeleteRule)
	inv.Put("/fields/:field/rules/:index/field", h.HandleChangeField)
}

// statusFor maps service and store errors onto HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, ErrSessionNotFound), errors.Is(err, store.ErrFieldNotFound), errors.Is(err, store.ErrRuleNotFound),
		errors.Is(err, repository.ErrLabelNotFound), errors.Is(err, ErrArchiveDisabled), errors.Is(err, archive.ErrNoSnapshots):
		return fiber.StatusNotFound
	case errors.Is(err, ErrSessionBusy):
		return fiber.StatusConflict
	case errors.Is(err, repository.ErrInvalidRule), errors.Is(err, store.ErrNoColumns):
		return fiber.StatusUnprocessableEntity
	case errors.Is(err, store.ErrUnknownInventory), errors.Is(err, store.ErrUnknownLabel), errors.Is(err, archive.ErrForeignSnapshot):
		return fiber.StatusBadRequest
	default:
		return fiber.StatusInternalServerError
	}
}

func (h *Handler) fail(c *fiber.Ctx, msg string, err error) error {
	status := statusFor(err)
	l := logger.WithRayID(h.service.logger, c)
	if status >= fiber.StatusInternalServerError {
		l.Error(msg, zap.Error(err))
	} else {
		l.Warn(msg, zap.Error(err))
	}
	return c.Status(status).JSON(fiber.Map{"error": err.Error()})
}

func badRequest(c *fiber.Ctx, msg string) error {
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": msg})
}

func invalid(c *fiber.Ctx, fields map[string]string) error {
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request", "fields": fields})
}

func orgParam(c *fiber.Ctx) (int, bool) {
	id, err := strconv.Atoi(c.Params("org"))
	return id, err == nil && id > 0
}

func inventoryParam(c *fiber.Ctx) (models.InventoryType, error) {
	return models.ParseInventoryType(c.Params("inventory"))
}

func indexParam(c *fiber.Ctx) (int, bool) {
	idx, err := strconv.Atoi(c.Params("index"))
	return idx, err == nil && idx >= 0
}

// HandleColumns lists the columns rules can target.
// @Summary List Columns
// @Description Lists inventory columns per inventory type, optionally filtered by inventory_type.
// @Tags data_quality
// @Produce json
// @Param inventory_type query string false "properties or taxlots"
// @Success 200 {object} map[string][]models.Column
// @Failure 400 {object} map[string]string "Bad Request"
// @Failure 500 {object} map[string]string "Internal Server Error"
// @Router /data_quality/columns [get]
func (h *Handler) HandleColumns(c *fiber.Ctx) error {
	if raw := c.Query("inventory_type"); raw != "" {
		inv, err := models.ParseInventoryType(raw)
		if err != nil {
			return badRequest(c, err.Error())
		}
		cols, err := h.service.Columns(inv)
		if err != nil {
			return h.fail(c, "Failed to list columns", err)
		}
		return c.JSON(fiber.Map{string(inv): cols})
	}

	all, err := h.service.AllColumns()
	if err != nil {
		return h.fail(c, "Failed to list columns", err)
	}
	return c.JSON(all)
}

// HandleOptions returns the static choices of the rule editor.
// @Summary Editor Options
// @Description Lists the selectable data types, severities, units and label colors.
// @Tags data_quality
// @Produce json
// @Success 200 {object} models.Options
// @Router /data_quality/options [get]
func (h *Handler) HandleOptions(c *fiber.Ctx) error {
	return c.JSON(models.RuleOptions())
}

// HandleFetchRules returns the stored rules.
// @Summary Fetch Rules
// @Description Returns the stored data quality rules of an organization.
// @Tags data_quality
// @Produce json
// @Param org path int true "Organization ID"
// @Success 200 {object} models.RulesResponse
// @Failure 400 {object} map[string]string "Bad Request"
// @Failure 500 {object} map[string]string "Internal Server Error"
// @Router /data_quality/organizations/{org}/rules [get]
func (h *Handler) HandleFetchRules(c *fiber.Ctx) error {
	orgID, ok := orgParam(c)
	if !ok {
		return badRequest(c, "invalid organization id")
	}
	p, err := h.service.FetchRules(c.UserContext(), orgID)
	if err != nil {
		return h.fail(c, "Failed to fetch rules", err)
	}
	return c.JSON(models.RulesResponse{Status: "success", Rules: p})
}

// HandleSaveRules replaces the stored rules.
// @Summary Save Rules
// @Description Replaces the stored rules of an organization. Date bounds are YYYYMMDD integers.
// @Tags data_quality
// @Accept json
// @Produce json
// @Param org path int true "Organization ID"
// @Param body body SaveRulesDTO true "Rules"
// @Success 200 {object} map[string]string
// @Failure 400 {object} map[string]interface{} "Bad Request"
// @Failure 422 {object} map[string]string "Invalid Rules"
// @Router /data_quality/organizations/{org}/rules [put]
func (h *Handler) HandleSaveRules(c *fiber.Ctx) error {
	orgID, ok := orgParam(c)
	if !ok {
		return badRequest(c, "invalid organization id")
	}
	var dto SaveRulesDTO
	if err := c.BodyParser(&dto); err != nil {
		return badRequest(c, err.Error())
	}
	if fields, ok := dto.Ok(); !ok {
		return invalid(c, fields)
	}
	if err := h.service.SaveRules(c.UserContext(), orgID, dto.Rules); err != nil {
		return h.fail(c, "Failed to save rules", err)
	}
	logger.WithRayID(h.service.logger, c).Info("Saved rules", zap.Int("org_id", orgID), zap.Int("rules", dto.Rules.Len()))
	return c.JSON(fiber.Map{"status": "success"})
}

// HandleResetRules deletes every stored rule.
// @Summary Reset Rules
// @Description Deletes all rules of an organization.
// @Tags data_quality
// @Produce json
// @Param org path int true "Organization ID"
// @Success 200 {object} models.RulesResponse
// @Failure 500 {object} map[string]string "Internal Server Error"
// @Router /data_quality/organizations/{org}/rules [delete]
func (h *Handler) HandleResetRules(c *fiber.Ctx) error {
	orgID, ok := orgParam(c)
	if !ok {
		return badRequest(c, "invalid organization id")
	}
	p, err := h.service.ResetAllRules(c.UserContext(), orgID)
	if err != nil {
		return h.fail(c, "Failed to reset rules", err)
	}
	return c.JSON(models.RulesResponse{Status: "success", Rules: p})
}

// HandleRestoreDefaults replaces the stored rules with the defaults.
// @Summary Restore Default Rules
// @Description Replaces the rules of an organization with the built-in defaults.
// @Tags data_quality
// @Produce json
// @Param org path int true "Organization ID"
// @Success 200 {object} models.RulesResponse
// @Failure 500 {object} map[string]string "Internal Server Error"
// @Router /data_quality/organizations/{org}/rules/restore_defaults [post]
func (h *Handler) HandleRestoreDefaults(c *fiber.Ctx) error {
	orgID, ok := orgParam(c)
	if !ok {
		return badRequest(c, "invalid organization id")
	}
	p, err := h.service.RestoreDefaultRules(c.UserContext(), orgID)
	if err != nil {
		return h.fail(c, "Failed to restore default rules", err)
	}
	return c.JSON(models.RulesResponse{Status: "success", Rules: p})
}

// HandleLabels lists the labels of an organization, or looks one up by exact name.
// @Summary List Labels
// @Tags data_quality
// @Produce json
// @Param org path int true "Organization ID"
// @Param name query string false "Exact label name"
// @Success 200 {array} models.Label
// @Failure 404 {object} map[string]string "Label Not Found"
// @Failure 500 {object} map[string]string "Internal Server Error"
// @Router /data_quality/organizations/{org}/labels [get]
func (h *Handler) HandleLabels(c *fiber.Ctx) error {
	orgID, ok := orgParam(c)
	if !ok {
		return badRequest(c, "invalid organization id")
	}
	if name := c.Query("name"); name != "" {
		label, err := h.service.LabelByName(c.UserContext(), orgID, name)
		if err != nil {
			return h.fail(c, "Failed to find label", err)
		}
		return c.JSON([]models.Label{label})
	}
	labels, err := h.service.Labels(c.UserContext(), orgID)
	if err != nil {
		return h.fail(c, "Failed to list labels", err)
	}
	return c.JSON(labels)
}

// HandleSnapshots lists the archived rule sets of an organization.
// @Summary List Snapshots
// @Tags data_quality
// @Produce json
// @Param org path int true "Organization ID"
// @Success 200 {array} archive.Snapshot
// @Failure 404 {object} map[string]string "Archive Disabled"
// @Failure 500 {object} map[string]string "Internal Server Error"
// @Router /data_quality/organizations/{org}/snapshots [get]
func (h *Handler) HandleSnapshots(c *fiber.Ctx) error {
	orgID, ok := orgParam(c)
	if !ok {
		return badRequest(c, "invalid organization id")
	}
	if h.service.Archive() == nil {
		return h.fail(c, "Failed to list snapshots", ErrArchiveDisabled)
	}
	snaps, err := h.service.Archive().List(c.UserContext(), orgID)
	if err != nil {
		return h.fail(c, "Failed to list snapshots", err)
	}
	return c.JSON(snaps)
}

// HandleDeleteSnapshot removes one archived rule set.
// @Summary Delete Snapshot
// @Tags data_quality
// @Param org path int true "Organization ID"
// @Param key query string true "Snapshot key"
// @Success 204
// @Failure 400 {object} map[string]string "Bad Request"
// @Failure 404 {object} map[string]string "Archive Disabled"
// @Failure 500 {object} map[string]string "Internal Server Error"
// @Router /data_quality/organizations/{org}/snapshots [delete]
func (h *Handler) HandleDeleteSnapshot(c *fiber.Ctx) error {
	orgID, ok := orgParam(c)
	if !ok {
		return badRequest(c, "invalid organization id")
	}
	key := c.Query("key")
	if key == "" {
		return badRequest(c, "key is required")
	}
	if err := h.service.DeleteSnapshot(c.UserContext(), orgID, key); err != nil {
		return h.fail(c, "Failed to delete snapshot", err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// HandleOpenSession opens an editing session loaded with the stored rules.
// @Summary Open Session
// @Tags data_quality
// @Accept json
// @Produce json
// @Param body body OpenSessionDTO true "Organization"
// @Success 201 {object} SessionView
// @Failure 400 {object} map[string]interface{} "Bad Request"
// @Failure 500 {object} map[string]string "Internal Server Error"
// @Router /data_quality/sessions [post]
func (h *Handler) HandleOpenSession(c *fiber.Ctx) error {
	var dto OpenSessionDTO
	if err := c.BodyParser(&dto); err != nil {
		return badRequest(c, err.Error())
	}
	if fields, ok := dto.Ok(); !ok {
		return invalid(c, fields)
	}
	sess, err := h.service.OpenSession(c.UserContext(), dto.OrganizationID)
	if err != nil {
		return h.fail(c, "Failed to open session", err)
	}
	return c.Status(fiber.StatusCreated).JSON(sessionView(sess, true))
}

// HandleGetSession returns the session state.
// @Summary Get Session
// @Tags data_quality
// @Produce json
// @Param id path string true "Session ID"
// @Success 200 {object} SessionView
// @Failure 404 {object} map[string]string "Not Found"
// @Failure 409 {object} map[string]string "Busy"
// @Router /data_quality/sessions/{id} [get]
func (h *Handler) HandleGetSession(c *fiber.Ctx) error {
	return h.withSession(c, "Failed to read session", func(s *Session) (any, error) {
		return sessionView(s, c.QueryBool("full")), nil
	})
}

// HandleCloseSession discards a session.
// @Summary Close Session
// @Tags data_quality
// @Param id path string true "Session ID"
// @Success 204
// @Failure 404 {object} map[string]string "Not Found"
// @Router /data_quality/sessions/{id} [delete]
func (h *Handler) HandleCloseSession(c *fiber.Ctx) error {
	if err := h.service.CloseSession(c.Params("id")); err != nil {
		return h.fail(c, "Failed to close session", err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// HandleSessionPayload returns the wire form the next save would send.
// @Summary Session Payload
// @Tags data_quality
// @Produce json
// @Param id path string true "Session ID"
// @Success 200 {object} models.Payload
// @Failure 404 {object} map[string]string "Not Found"
// @Router /data_quality/sessions/{id}/payload [get]
func (h *Handler) HandleSessionPayload(c *fiber.Ctx) error {
	return h.withSession(c, "Failed to serialize session", func(s *Session) (any, error) {
		return s.Store.Payload(), nil
	})
}

// HandleSessionFetch reloads the stored rules, discarding unsaved edits.
// @Summary Fetch Session Rules
// @Tags data_quality
// @Produce json
// @Param id path string true "Session ID"
// @Success 200 {object} SessionView
// @Failure 404 {object} map[string]string "Not Found"
// @Failure 409 {object} map[string]string "Busy"
// @Router /data_quality/sessions/{id}/fetch [post]
func (h *Handler) HandleSessionFetch(c *fiber.Ctx) error {
	return h.withSession(c, "Failed to fetch rules", func(s *Session) (any, error) {
		if err := s.Store.Fetch(c.UserContext()); err != nil {
			return nil, err
		}
		return sessionView(s, false), nil
	})
}

// HandleSessionSave saves the session rules.
// @Summary Save Session Rules
// @Tags data_quality
// @Produce json
// @Param id path string true "Session ID"
// @Success 200 {object} SessionView
// @Failure 404 {object} map[string]string "Not Found"
// @Failure 409 {object} map[string]string "Busy"
// @Failure 422 {object} map[string]string "Invalid Rules"
// @Router /data_quality/sessions/{id}/save [post]
func (h *Handler) HandleSessionSave(c *fiber.Ctx) error {
	return h.withSession(c, "Failed to save rules", func(s *Session) (any, error) {
		if err := s.Store.Save(c.UserContext()); err != nil {
			return nil, err
		}
		return sessionView(s, false), nil
	})
}

// HandleSessionRestoreDefaults restores the default rules and loads them.
// @Summary Restore Session Defaults
// @Tags data_quality
// @Produce json
// @Param id path string true "Session ID"
// @Success 200 {object} SessionView
// @Failure 404 {object} map[string]string "Not Found"
// @Failure 409 {object} map[string]string "Busy"
// @Router /data_quality/sessions/{id}/restore_defaults [post]
func (h *Handler) HandleSessionRestoreDefaults(c *fiber.Ctx) error {
	return h.withSession(c, "Failed to restore default rules", func(s *Session) (any, error) {
		if err := s.Store.RestoreDefaults(c.UserContext()); err != nil {
			return nil, err
		}
		return sessionView(s, false), nil
	})
}

// HandleSessionReset deletes all stored rules and loads the empty set.
// @Summary Reset Session Rules
// @Tags data_quality
// @Produce json
// @Param id path string true "Session ID"
// @Success 200 {object} SessionView
// @Failure 404 {object} map[string]string "Not Found"
// @Failure 409 {object} map[string]string "Busy"
// @Router /data_quality/sessions/{id}/reset [post]
func (h *Handler) HandleSessionReset(c *fiber.Ctx) error {
	return h.withSession(c, "Failed to reset rules", func(s *Session) (any, error) {
		if err := s.Store.ResetAll(c.UserContext()); err != nil {
			return nil, err
		}
		return sessionView(s, false), nil
	})
}

// HandleCreateRule appends a new rule seeded from the first column.
// @Summary Create Rule
// @Tags data_quality
// @Produce json
// @Param id path string true "Session ID"
// @Param inventory path string true "properties or taxlots"
// @Success 201 {object} map[string]interface{} "Rule and its index"
// @Failure 404 {object} map[string]string "Not Found"
// @Failure 422 {object} map[string]string "No Columns"
// @Router /data_quality/sessions/{id}/{inventory}/rules [post]
func (h *Handler) HandleCreateRule(c *fiber.Ctx) error {
	inv, err := inventoryParam(c)
	if err != nil {
		return badRequest(c, err.Error())
	}
	return h.withSessionStatus(c, fiber.StatusCreated, "Failed to create rule", func(s *Session) (any, error) {
		rule, idx, err := s.Store.CreateRule(inv)
		if err != nil {
			return nil, err
		}
		return fiber.Map{"rule": rule, "index": idx}, nil
	})
}

// HandleChangeDataType sets the data type of a field.
// @Summary Change Data Type
// @Tags data_quality
// @Accept json
// @Produce json
// @Param id path string true "Session ID"
// @Param inventory path string true "properties or taxlots"
// @Param field path string true "Field"
// @Param body body ChangeDataTypeDTO true "Data type"
// @Success 200 {object} store.FieldView
// @Failure 404 {object} map[string]string "Not Found"
// @Router /data_quality/sessions/{id}/{inventory}/fields/{field}/data_type [put]
func (h *Handler) HandleChangeDataType(c *fiber.Ctx) error {
	inv, err := inventoryParam(c)
	if err != nil {
		return badRequest(c, err.Error())
	}
	var dto ChangeDataTypeDTO
	if err := c.BodyParser(&dto); err != nil {
		return badRequest(c, err.Error())
	}
	field := c.Params("field")
	return h.withSession(c, "Failed to change data type", func(s *Session) (any, error) {
		if err := s.Store.ChangeDataType(inv, field, dto.DataType); err != nil {
			return nil, err
		}
		return s.Store.Field(inv, field)
	})
}

// HandleToggleRequired flips the required flag of a field.
// @Summary Toggle Required
// @Tags data_quality
// @Produce json
// @Param id path string true "Session ID"
// @Param inventory path string true "properties or taxlots"
// @Param field path string true "Field"
// @Success 200 {object} map[string]bool
// @Failure 404 {object} map[string]string "Not Found"
// @Router /data_quality/sessions/{id}/{inventory}/fields/{field}/required [post]
func (h *Handler) HandleToggleRequired(c *fiber.Ctx) error {
	inv, err := inventoryParam(c)
	if err != nil {
		return badRequest(c, err.Error())
	}
	field := c.Params("field")
	return h.withSession(c, "Failed to toggle required", func(s *Session) (any, error) {
		v, err := s.Store.ChangeRequired(inv, field)
		if err != nil {
			return nil, err
		}
		return fiber.Map{"required": v}, nil
	})
}

// HandleToggleNotNull flips the not_null flag of a field.
// @Summary Toggle Not Null
// @Tags data_quality
// @Produce json
// @Param id path string true "Session ID"
// @Param inventory path string true "properties or taxlots"
// @Param field path string true "Field"
// @Success 200 {object} map[string]bool
// @Failure 404 {object} map[string]string "Not Found"
// @Router /data_quality/sessions/{id}/{inventory}/fields/{field}/not_null [post]
func (h *Handler) HandleToggleNotNull(c *fiber.Ctx) error {
	inv, err := inventoryParam(c)
	if err != nil {
		return badRequest(c, err.Error())
	}
	field := c.Params("field")
	return h.withSession(c, "Failed to toggle not null", func(s *Session) (any, error) {
		v, err := s.Store.ChangeNotNull(inv, field)
		if err != nil {
			return nil, err
		}
		return fiber.Map{"not_null": v}, nil
	})
}

// HandleUpdateRule edits the per-rule attributes.
// @Summary Update Rule
// @Tags data_quality
// @Accept json
// @Produce json
// @Param id path string true "Session ID"
// @Param inventory path string true "properties or taxlots"
// @Param field path string true "Field"
// @Param index path int true "Rule index within the field"
// @Param body body UpdateRuleDTO true "Changes"
// @Success 200 {object} models.Rule
// @Failure 400 {object} map[string]interface{} "Bad Request"
// @Failure 404 {object} map[string]string "Not Found"
// @Router /data_quality/sessions/{id}/{inventory}/fields/{field}/rules/{index} [patch]
func (h *Handler) HandleUpdateRule(c *fiber.Ctx) error {
	inv, err := inventoryParam(c)
	if err != nil {
		return badRequest(c, err.Error())
	}
	idx, ok := indexParam(c)
	if !ok {
		return badRequest(c, "invalid rule index")
	}
	var dto UpdateRuleDTO
	if err := c.BodyParser(&dto); err != nil {
		return badRequest(c, err.Error())
	}
	if fields, ok := dto.Ok(); !ok {
		return invalid(c, fields)
	}
	field := c.Params("field")
	return h.withSession(c, "Failed to update rule", func(s *Session) (any, error) {
		return s.Store.UpdateRule(inv, field, idx, dto.Update())
	})
}

// HandleDeleteRule removes a rule.
// @Summary Delete Rule
// @Tags data_quality
// @Param id path string true "Session ID"
// @Param inventory path string true "properties or taxlots"
// @Param field path string true "Field"
// @Param index path int true "Rule index within the field"
// @Success 204
// @Failure 404 {object} map[string]string "Not Found"
// @Router /data_quality/sessions/{id}/{inventory}/fields/{field}/rules/{index} [delete]
func (h *Handler) HandleDeleteRule(c *fiber.Ctx) error {
	inv, err := inventoryParam(c)
	if err != nil {
		return badRequest(c, err.Error())
	}
	idx, ok := indexParam(c)
	if !ok {
		return badRequest(c, "invalid rule index")
	}
	field := c.Params("field")
	return h.withSessionStatus(c, fiber.StatusNoContent, "Failed to delete rule", func(s *Session) (any, error) {
		return nil, s.Store.DeleteRule(inv, field, idx)
	})
}

// HandleChangeField moves a rule to another field.
// @Summary Change Field
// @Tags data_quality
// @Accept json
// @Produce json
// @Param id path string true "Session ID"
// @Param inventory path string true "properties or taxlots"
// @Param field path string true "Current field"
// @Param index path int true "Rule index within the field"
// @Param body body ChangeFieldDTO true "New field"
// @Success 200 {object} models.Rule
// @Failure 404 {object} map[string]string "Not Found"
// @Router /data_quality/sessions/{id}/{inventory}/fields/{field}/rules/{index}/field [put]
func (h *Handler) HandleChangeField(c *fiber.Ctx) error {
	inv, err := inventoryParam(c)
	if err != nil {
		return badRequest(c, err.Error())
	}
	idx, ok := indexParam(c)
	if !ok {
		return badRequest(c, "invalid rule index")
	}
	var dto ChangeFieldDTO
	if err := c.BodyParser(&dto); err != nil {
		return badRequest(c, err.Error())
	}
	if fields, ok := dto.Ok(); !ok {
		return invalid(c, fields)
	}
	field := c.Params("field")
	return h.withSession(c, "Failed to change field", func(s *Session) (any, error) {
		return s.Store.ChangeField(inv, field, idx, dto.Field)
	})
}

func (h *Handler) withSession(c *fiber.Ctx, msg string, fn func(*Session) (any, error)) error {
	return h.withSessionStatus(c, fiber.StatusOK, msg, fn)
}

func (h *Handler) withSessionStatus(c *fiber.Ctx, status int, msg string, fn func(*Session) (any, error)) error {
	var out any
	err := h.service.WithSession(c.Params("id"), func(s *Session) error {
		var err error
		out, err = fn(s)
		return err
	})
	if err != nil {
		return h.fail(c, msg, err)
	}
	if status == fiber.StatusNoContent {
		return c.SendStatus(status)
	}
	return c.Status(status).JSON(out)
}
