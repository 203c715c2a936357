package store

import (
	"context"

	"quality-admin/feature/dataquality/models"
)

// RulePersistence stores the rule set of an organization.
type RulePersistence interface {
	// FetchRules returns the stored rules.
	FetchRules(ctx context.Context, orgID int) (*models.Payload, error)
	// RestoreDefaultRules replaces the stored rules with the defaults and returns them.
	RestoreDefaultRules(ctx context.Context, orgID int) (*models.Payload, error)
	// ResetAllRules deletes every stored rule and returns the (empty) result.
	ResetAllRules(ctx context.Context, orgID int) (*models.Payload, error)
	// SaveRules replaces the stored rules with the payload.
	SaveRules(ctx context.Context, orgID int, payload *models.Payload) error
}

// Busy is shown for the duration of a persistence call.
type Busy interface {
	Show()
	Hide()
}

type noopBusy struct{}

func (noopBusy) Show() {}
func (noopBusy) Hide() {}
