package store

import (
	"context"
	"testing"
	"time"

	"quality-admin/feature/dataquality/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockPersistence struct {
	mock.Mock
}

func (m *mockPersistence) FetchRules(ctx context.Context, orgID int) (*models.Payload, error) {
	args := m.Called(ctx, orgID)
	p, _ := args.Get(0).(*models.Payload)
	return p, args.Error(1)
}

func (m *mockPersistence) RestoreDefaultRules(ctx context.Context, orgID int) (*models.Payload, error) {
	args := m.Called(ctx, orgID)
	p, _ := args.Get(0).(*models.Payload)
	return p, args.Error(1)
}

func (m *mockPersistence) ResetAllRules(ctx context.Context, orgID int) (*models.Payload, error) {
	args := m.Called(ctx, orgID)
	p, _ := args.Get(0).(*models.Payload)
	return p, args.Error(1)
}

func (m *mockPersistence) SaveRules(ctx context.Context, orgID int, payload *models.Payload) error {
	args := m.Called(ctx, orgID, payload)
	return args.Error(0)
}

type countingBusy struct {
	shown, hidden int
}

func (b *countingBusy) Show() { b.shown++ }
func (b *countingBusy) Hide() { b.hidden++ }

func f(v float64) *float64 { return &v }
func i(v int) *int         { return &v }

var testColumns = map[models.InventoryType][]models.Column{
	models.InventoryProperties: {
		{Name: "address_line_1", DisplayName: "Address Line 1", DataType: models.DataTypeString},
		{Name: "site_eui", DisplayName: "Site EUI", DataType: models.DataTypeNumber},
		{Name: "year_ending", DisplayName: "Year Ending", DataType: models.DataTypeDate},
		{Name: "energy_score", DisplayName: "Energy Score", DataType: models.DataTypeNumber},
	},
	models.InventoryTaxlots: {
		{Name: "jurisdiction_tax_lot_id", DisplayName: "Jurisdiction Tax Lot ID", DataType: models.DataTypeString},
	},
}

var testLabels = []models.Label{
	{ID: 7, Name: "High Priority", Color: models.ColorRed},
	{ID: 8, Name: "Missing Data", Color: models.ColorGreen},
}

func newTestStore(p RulePersistence, busy Busy) *Store {
	return New(Options{
		OrgID:       1,
		Persistence: p,
		Columns:     testColumns,
		Labels:      testLabels,
		Busy:        busy,
	})
}

func numberRule(field string, min, max float64) models.WireRule {
	return models.WireRule{
		Enabled:  true,
		Field:    field,
		DataType: models.DataTypeNumber,
		RuleType: 1,
		Min:      f(min),
		Max:      f(max),
		Severity: models.SeverityError,
		Units:    "kBtu/sq. ft./year",
	}
}

func TestLoad_DecodesDateBounds(t *testing.T) {
	s := newTestStore(new(mockPersistence), nil)
	s.Load(&models.Payload{
		Properties: []models.WireRule{{
			Enabled:  true,
			Field:    "site_eui",
			DataType: models.DataTypeDate,
			RuleType: 1,
			Min:      f(20160101),
			Max:      f(20161231),
			Severity: models.SeverityError,
		}},
	})

	view, err := s.Field(models.InventoryProperties, "site_eui")
	require.NoError(t, err)
	require.Len(t, view.Rules, 1)

	rule := view.Rules[0]
	assert.True(t, rule.Min.IsDate())
	assert.True(t, rule.Max.IsDate())
	assert.Equal(t, time.Date(2016, 1, 1, 0, 0, 0, 0, time.UTC), rule.Min.Date())
	assert.Equal(t, time.Date(2016, 12, 31, 0, 0, 0, 0, time.UTC), rule.Max.Date())
	assert.Equal(t, "Site EUI", rule.DisplayName)

	out := s.Payload()
	require.Len(t, out.Properties, 1)
	assert.Equal(t, 20160101.0, *out.Properties[0].Min)
	assert.Equal(t, 20161231.0, *out.Properties[0].Max)
	assert.Equal(t, models.DataTypeDate, out.Properties[0].DataType)
}

func TestLoad_NonDateBoundsPassThrough(t *testing.T) {
	s := newTestStore(new(mockPersistence), nil)
	s.Load(&models.Payload{Properties: []models.WireRule{numberRule("site_eui", 0, 1000)}})

	out := s.Payload()
	require.Len(t, out.Properties, 1)
	assert.Equal(t, 0.0, *out.Properties[0].Min)
	assert.Equal(t, 1000.0, *out.Properties[0].Max)
}

func TestLoad_UndecodableDateKeptAsNumber(t *testing.T) {
	s := newTestStore(new(mockPersistence), nil)
	s.Load(&models.Payload{Properties: []models.WireRule{{
		Field:    "year_ending",
		DataType: models.DataTypeDate,
		Min:      f(20161340),
	}}})

	out := s.Payload()
	assert.Equal(t, 20161340.0, *out.Properties[0].Min)
	assert.Nil(t, out.Properties[0].Max)
}

func TestLoad_ReplacesPreviousState(t *testing.T) {
	s := newTestStore(new(mockPersistence), nil)
	s.Load(&models.Payload{Properties: []models.WireRule{numberRule("site_eui", 0, 1)}})
	s.Load(&models.Payload{Taxlots: []models.WireRule{{Field: "jurisdiction_tax_lot_id", DataType: models.DataTypeString}}})

	props, _ := s.Group(models.InventoryProperties)
	lots, _ := s.Group(models.InventoryTaxlots)
	assert.Empty(t, props)
	assert.Len(t, lots, 1)
}

func TestFetch(t *testing.T) {
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		p := new(mockPersistence)
		busy := &countingBusy{}
		s := newTestStore(p, busy)
		p.On("FetchRules", ctx, 1).Return(&models.Payload{Properties: []models.WireRule{numberRule("site_eui", 0, 1)}}, nil)

		require.NoError(t, s.Fetch(ctx))
		view, err := s.Field(models.InventoryProperties, "site_eui")
		require.NoError(t, err)
		assert.Len(t, view.Rules, 1)
		assert.Equal(t, 1, busy.shown)
		assert.Equal(t, 1, busy.hidden)
	})

	t.Run("FailureKeepsState", func(t *testing.T) {
		p := new(mockPersistence)
		busy := &countingBusy{}
		s := newTestStore(p, busy)
		s.Load(&models.Payload{Properties: []models.WireRule{numberRule("site_eui", 0, 1)}})
		p.On("FetchRules", ctx, 1).Return(nil, assert.AnError)

		var emitted []error
		require.NoError(t, s.OnError(func(err error) { emitted = append(emitted, err) }))

		err := s.Fetch(ctx)
		assert.ErrorIs(t, err, assert.AnError)
		require.Len(t, emitted, 1)
		assert.ErrorIs(t, emitted[0], assert.AnError)

		_, err = s.Field(models.InventoryProperties, "site_eui")
		assert.NoError(t, err)
		assert.Equal(t, 1, busy.shown)
		assert.Equal(t, 1, busy.hidden)
	})
}

func TestRestoreDefaults(t *testing.T) {
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		p := new(mockPersistence)
		busy := &countingBusy{}
		s := newTestStore(p, busy)
		p.On("RestoreDefaultRules", ctx, 1).Return(&models.Payload{Properties: []models.WireRule{numberRule("energy_score", 0, 100)}}, nil)

		var kinds []EventKind
		require.NoError(t, s.OnChange(func(e Event) { kinds = append(kinds, e.Kind) }))

		require.NoError(t, s.RestoreDefaults(ctx))
		assert.True(t, s.Status().DefaultsRestored)
		assert.Equal(t, []EventKind{EventLoaded, EventDefaultsRestored}, kinds)
		assert.Equal(t, 1, busy.hidden)
	})

	t.Run("Failure", func(t *testing.T) {
		p := new(mockPersistence)
		busy := &countingBusy{}
		s := newTestStore(p, busy)
		s.Load(&models.Payload{Properties: []models.WireRule{numberRule("site_eui", 0, 1)}})
		p.On("RestoreDefaultRules", ctx, 1).Return(nil, assert.AnError)

		err := s.RestoreDefaults(ctx)
		assert.Error(t, err)
		assert.False(t, s.Status().DefaultsRestored)
		_, err = s.Field(models.InventoryProperties, "site_eui")
		assert.NoError(t, err)
		assert.Equal(t, 1, busy.shown)
		assert.Equal(t, 1, busy.hidden)
	})
}

func TestResetAll(t *testing.T) {
	ctx := context.Background()
	p := new(mockPersistence)
	busy := &countingBusy{}
	s := newTestStore(p, busy)
	s.Load(&models.Payload{Properties: []models.WireRule{numberRule("site_eui", 0, 1)}})
	p.On("ResetAllRules", ctx, 1).Return(models.NewPayload(), nil)

	require.NoError(t, s.ResetAll(ctx))
	assert.True(t, s.Status().RulesReset)
	props, _ := s.Group(models.InventoryProperties)
	assert.Empty(t, props)
	assert.Equal(t, 1, busy.hidden)
}

func TestSave_ResolvesNewRuleLabels(t *testing.T) {
	ctx := context.Background()
	p := new(mockPersistence)
	s := newTestStore(p, nil)

	rule, idx, err := s.CreateRule(models.InventoryProperties)
	require.NoError(t, err)
	label := models.LabelName("High Priority")
	_, err = s.UpdateRule(models.InventoryProperties, rule.Field, idx, RuleUpdate{Label: &label})
	require.NoError(t, err)

	var sent *models.Payload
	p.On("SaveRules", ctx, 1, mock.Anything).Run(func(args mock.Arguments) {
		sent = args.Get(2).(*models.Payload)
	}).Return(nil)

	require.NoError(t, s.Save(ctx))
	require.NotNil(t, sent)
	require.Len(t, sent.Properties, 1)
	require.NotNil(t, sent.Properties[0].Label)
	assert.Equal(t, 7, *sent.Properties[0].Label)

	view, _ := s.Field(models.InventoryProperties, rule.Field)
	assert.False(t, view.Rules[0].New)
	assert.Equal(t, models.LabelID(7), view.Rules[0].Label)
	assert.True(t, s.Status().RulesUpdated)
}

func TestSave_UnresolvedLabelSentAsNull(t *testing.T) {
	ctx := context.Background()
	p := new(mockPersistence)
	s := newTestStore(p, nil)

	rule, idx, err := s.CreateRule(models.InventoryProperties)
	require.NoError(t, err)
	label := models.LabelName("No Such Label")
	_, err = s.UpdateRule(models.InventoryProperties, rule.Field, idx, RuleUpdate{Label: &label})
	require.NoError(t, err)

	p.On("SaveRules", ctx, 1, mock.MatchedBy(func(pl *models.Payload) bool {
		return len(pl.Properties) == 1 && pl.Properties[0].Label == nil
	})).Return(nil)

	require.NoError(t, s.Save(ctx))
	p.AssertExpectations(t)
}

func TestSave_FailureKeepsLocalState(t *testing.T) {
	ctx := context.Background()
	p := new(mockPersistence)
	busy := &countingBusy{}
	s := newTestStore(p, busy)

	rule, idx, err := s.CreateRule(models.InventoryProperties)
	require.NoError(t, err)
	label := models.LabelName("High Priority")
	_, err = s.UpdateRule(models.InventoryProperties, rule.Field, idx, RuleUpdate{Label: &label})
	require.NoError(t, err)

	p.On("SaveRules", ctx, 1, mock.Anything).Return(assert.AnError)

	var emitted int
	require.NoError(t, s.OnError(func(error) { emitted++ }))

	assert.ErrorIs(t, s.Save(ctx), assert.AnError)
	assert.Equal(t, 1, emitted)
	assert.False(t, s.Status().RulesUpdated)

	view, _ := s.Field(models.InventoryProperties, rule.Field)
	assert.True(t, view.Rules[0].New)
	assert.Equal(t, models.LabelName("High Priority"), view.Rules[0].Label)
	assert.Equal(t, 1, busy.hidden)
}

func TestSave_ExistingLabelIDKept(t *testing.T) {
	s := newTestStore(new(mockPersistence), nil)
	wr := numberRule("site_eui", 0, 1)
	wr.Label = i(8)
	s.Load(&models.Payload{Properties: []models.WireRule{wr}})

	out := s.Payload()
	require.NotNil(t, out.Properties[0].Label)
	assert.Equal(t, 8, *out.Properties[0].Label)
}

func TestDeleteRule(t *testing.T) {
	t.Run("LastRuleRemovesField", func(t *testing.T) {
		s := newTestStore(new(mockPersistence), nil)
		s.Load(&models.Payload{Properties: []models.WireRule{numberRule("site_eui", 0, 1)}})

		require.NoError(t, s.DeleteRule(models.InventoryProperties, "site_eui", 0))
		_, err := s.Field(models.InventoryProperties, "site_eui")
		assert.ErrorIs(t, err, ErrFieldNotFound)
	})

	t.Run("OneOfSeveralUsesIndex", func(t *testing.T) {
		s := newTestStore(new(mockPersistence), nil)
		s.Load(&models.Payload{Properties: []models.WireRule{
			numberRule("site_eui", 0, 1),
			numberRule("site_eui", 0, 1),
			numberRule("site_eui", 5, 6),
		}})

		require.NoError(t, s.DeleteRule(models.InventoryProperties, "site_eui", 1))
		view, err := s.Field(models.InventoryProperties, "site_eui")
		require.NoError(t, err)
		require.Len(t, view.Rules, 2)
		assert.Equal(t, "5", view.Rules[1].Min.String())
	})

	t.Run("OutOfRange", func(t *testing.T) {
		s := newTestStore(new(mockPersistence), nil)
		s.Load(&models.Payload{Properties: []models.WireRule{numberRule("site_eui", 0, 1)}})
		assert.ErrorIs(t, s.DeleteRule(models.InventoryProperties, "site_eui", 3), ErrRuleNotFound)
	})
}

func TestChangeDataType(t *testing.T) {
	tests := []struct {
		name      string
		from, to  models.DataType
		keepBound bool
	}{
		{"NumberToNull", models.DataTypeNumber, models.DataTypeNull, true},
		{"NullToNumber", models.DataTypeNull, models.DataTypeNumber, true},
		{"NumberToString", models.DataTypeNumber, models.DataTypeString, false},
		{"NumberToDate", models.DataTypeNumber, models.DataTypeDate, false},
		{"DateToNumber", models.DataTypeDate, models.DataTypeNumber, false},
		{"StringToNumber", models.DataTypeString, models.DataTypeNumber, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestStore(new(mockPersistence), nil)
			r1 := numberRule("site_eui", 1, 2)
			r1.DataType = tt.from
			r2 := numberRule("site_eui", 3, 4)
			r2.DataType = tt.from
			s.Load(&models.Payload{Properties: []models.WireRule{r1, r2}})

			require.NoError(t, s.ChangeDataType(models.InventoryProperties, "site_eui", tt.to))

			out := s.Payload()
			require.Len(t, out.Properties, 2)
			for _, wr := range out.Properties {
				assert.Equal(t, tt.to, wr.DataType)
				if tt.keepBound {
					assert.NotNil(t, wr.Min)
					assert.NotNil(t, wr.Max)
				} else {
					assert.Nil(t, wr.Min)
					assert.Nil(t, wr.Max)
				}
			}
		})
	}
}

func TestChangeRequiredAndNotNull(t *testing.T) {
	s := newTestStore(new(mockPersistence), nil)
	s.Load(&models.Payload{Properties: []models.WireRule{
		numberRule("site_eui", 0, 1),
		numberRule("site_eui", 2, 3),
		numberRule("energy_score", 0, 100),
	}})

	required, err := s.ChangeRequired(models.InventoryProperties, "site_eui")
	require.NoError(t, err)
	assert.True(t, required)

	notNull, err := s.ChangeNotNull(models.InventoryProperties, "site_eui")
	require.NoError(t, err)
	assert.True(t, notNull)

	for _, wr := range s.Payload().Properties {
		if wr.Field == "site_eui" {
			assert.True(t, wr.Required)
			assert.True(t, wr.NotNull)
		} else {
			assert.False(t, wr.Required)
			assert.False(t, wr.NotNull)
		}
	}

	required, err = s.ChangeRequired(models.InventoryProperties, "site_eui")
	require.NoError(t, err)
	assert.False(t, required)

	_, err = s.ChangeRequired(models.InventoryProperties, "unknown")
	assert.ErrorIs(t, err, ErrFieldNotFound)
}

func TestChangeField(t *testing.T) {
	t.Run("NewFieldIncompatibleTypeClearsRange", func(t *testing.T) {
		s := newTestStore(new(mockPersistence), nil)
		s.Load(&models.Payload{Properties: []models.WireRule{numberRule("site_eui", 0, 1000)}})

		rule, err := s.ChangeField(models.InventoryProperties, "site_eui", 0, "address_line_1")
		require.NoError(t, err)
		assert.True(t, rule.Min.IsNull())
		assert.True(t, rule.Max.IsNull())
		assert.Empty(t, rule.Units)
		assert.True(t, rule.Autofocus)
		assert.Equal(t, "Address Line 1", rule.DisplayName)

		_, err = s.Field(models.InventoryProperties, "site_eui")
		assert.ErrorIs(t, err, ErrFieldNotFound)

		view, err := s.Field(models.InventoryProperties, "address_line_1")
		require.NoError(t, err)
		assert.Equal(t, models.DataTypeString, view.DataType)
		assert.Len(t, view.Rules, 1)
	})

	t.Run("NewFieldCompatibleTypeKeepsRange", func(t *testing.T) {
		s := newTestStore(new(mockPersistence), nil)
		s.Load(&models.Payload{Properties: []models.WireRule{numberRule("site_eui", 0, 1000)}})

		rule, err := s.ChangeField(models.InventoryProperties, "site_eui", 0, "energy_score")
		require.NoError(t, err)
		assert.False(t, rule.Min.IsNull())
		assert.Equal(t, "kBtu/sq. ft./year", rule.Units)
	})

	t.Run("UnknownColumnBecomesNullType", func(t *testing.T) {
		s := newTestStore(new(mockPersistence), nil)
		s.Load(&models.Payload{Properties: []models.WireRule{numberRule("site_eui", 0, 1000)}})

		_, err := s.ChangeField(models.InventoryProperties, "site_eui", 0, "custom_field")
		require.NoError(t, err)
		view, err := s.Field(models.InventoryProperties, "custom_field")
		require.NoError(t, err)
		assert.Equal(t, models.DataTypeNull, view.DataType)
		assert.False(t, view.Rules[0].Min.IsNull())
	})

	t.Run("ExistingFieldDescriptorWins", func(t *testing.T) {
		s := newTestStore(new(mockPersistence), nil)
		moved := numberRule("site_eui", 0, 1000)
		moved.Required = true
		target := models.WireRule{Field: "year_ending", DataType: models.DataTypeDate, NotNull: true, Min: f(20160101)}
		s.Load(&models.Payload{Properties: []models.WireRule{
			numberRule("site_eui", 1, 2),
			moved,
			target,
		}})

		_, err := s.ChangeField(models.InventoryProperties, "site_eui", 1, "year_ending")
		require.NoError(t, err)

		view, err := s.Field(models.InventoryProperties, "year_ending")
		require.NoError(t, err)
		assert.Equal(t, models.DataTypeDate, view.DataType)
		assert.False(t, view.Required)
		assert.True(t, view.NotNull)
		assert.Len(t, view.Rules, 2)

		src, err := s.Field(models.InventoryProperties, "site_eui")
		require.NoError(t, err)
		assert.Len(t, src.Rules, 1)
		assert.Equal(t, "1", src.Rules[0].Min.String())

		for _, wr := range s.Payload().Properties {
			if wr.Field == "year_ending" {
				assert.Equal(t, models.DataTypeDate, wr.DataType)
				assert.False(t, wr.Required)
				assert.True(t, wr.NotNull)
			}
		}
	})

	t.Run("SameFieldIsNoop", func(t *testing.T) {
		s := newTestStore(new(mockPersistence), nil)
		s.Load(&models.Payload{Properties: []models.WireRule{numberRule("site_eui", 0, 1000)}})
		rule, err := s.ChangeField(models.InventoryProperties, "site_eui", 0, "site_eui")
		require.NoError(t, err)
		assert.False(t, rule.Autofocus)
	})
}

func TestCreateRule(t *testing.T) {
	t.Run("SeedsFromFirstColumn", func(t *testing.T) {
		s := newTestStore(new(mockPersistence), nil)

		rule, idx, err := s.CreateRule(models.InventoryProperties)
		require.NoError(t, err)
		assert.Equal(t, 0, idx)
		assert.Equal(t, "address_line_1", rule.Field)
		assert.Equal(t, "Address Line 1", rule.DisplayName)
		assert.True(t, rule.Enabled)
		assert.True(t, rule.New)
		assert.True(t, rule.Autofocus)
		assert.Equal(t, models.DefaultRuleType, rule.RuleType)
		assert.Equal(t, models.SeverityError, rule.Severity)
		assert.True(t, rule.Label.IsZero())

		view, _ := s.Field(models.InventoryProperties, "address_line_1")
		assert.Equal(t, models.DataTypeString, view.DataType)
	})

	t.Run("InheritsExistingDataType", func(t *testing.T) {
		s := New(Options{
			Persistence: new(mockPersistence),
			Columns: map[models.InventoryType][]models.Column{
				models.InventoryProperties: {{Name: "site_eui", DataType: models.DataTypeString}},
			},
		})
		s.Load(&models.Payload{Properties: []models.WireRule{numberRule("site_eui", 0, 1000)}})

		rule, idx, err := s.CreateRule(models.InventoryProperties)
		require.NoError(t, err)
		assert.Equal(t, 1, idx)
		assert.True(t, rule.New)

		view, _ := s.Field(models.InventoryProperties, "site_eui")
		assert.Equal(t, models.DataTypeNumber, view.DataType)
		assert.Len(t, view.Rules, 2)
	})

	t.Run("NoColumns", func(t *testing.T) {
		s := New(Options{Persistence: new(mockPersistence)})
		_, _, err := s.CreateRule(models.InventoryTaxlots)
		assert.ErrorIs(t, err, ErrNoColumns)
	})

	t.Run("UnknownInventory", func(t *testing.T) {
		s := newTestStore(new(mockPersistence), nil)
		_, _, err := s.CreateRule("buildings")
		assert.ErrorIs(t, err, ErrUnknownInventory)
	})
}

func TestUpdateRule(t *testing.T) {
	s := newTestStore(new(mockPersistence), nil)
	s.Load(&models.Payload{Properties: []models.WireRule{numberRule("site_eui", 0, 1000)}})

	enabled := false
	units := "square feet"
	sev := models.SeverityWarning
	min := models.FloatBound(10)
	rule, err := s.UpdateRule(models.InventoryProperties, "site_eui", 0, RuleUpdate{
		Enabled:  &enabled,
		Units:    &units,
		Severity: &sev,
		Min:      &min,
	})
	require.NoError(t, err)
	assert.False(t, rule.Enabled)
	assert.Equal(t, "square feet", rule.Units)
	assert.Equal(t, models.SeverityWarning, rule.Severity)
	assert.Equal(t, "10", rule.Min.String())

	t.Run("SavedRuleLabelNameResolved", func(t *testing.T) {
		label := models.LabelName("Missing Data")
		rule, err := s.UpdateRule(models.InventoryProperties, "site_eui", 0, RuleUpdate{Label: &label})
		require.NoError(t, err)
		assert.Equal(t, models.LabelID(8), rule.Label)
	})

	t.Run("SavedRuleUnknownLabelRejected", func(t *testing.T) {
		label := models.LabelName("Nope")
		_, err := s.UpdateRule(models.InventoryProperties, "site_eui", 0, RuleUpdate{Label: &label})
		assert.ErrorIs(t, err, ErrUnknownLabel)
	})
}

func TestFieldOrderIsInsertionOrder(t *testing.T) {
	s := newTestStore(new(mockPersistence), nil)
	s.Load(&models.Payload{Properties: []models.WireRule{
		numberRule("site_eui", 0, 1),
		numberRule("energy_score", 0, 1),
		numberRule("site_eui", 2, 3),
	}})

	out := s.Payload()
	require.Len(t, out.Properties, 3)
	assert.Equal(t, "site_eui", out.Properties[0].Field)
	assert.Equal(t, "site_eui", out.Properties[1].Field)
	assert.Equal(t, "energy_score", out.Properties[2].Field)
}

func TestLoad_BoundsFollowFieldDataType(t *testing.T) {
	s := newTestStore(new(mockPersistence), nil)
	conflicting := numberRule("site_eui", 0, 0)
	conflicting.DataType = models.DataTypeDate
	conflicting.Min = f(20160101)
	conflicting.Max = f(20161231)
	s.Load(&models.Payload{Properties: []models.WireRule{numberRule("site_eui", 0, 1000), conflicting}})

	view, err := s.Field(models.InventoryProperties, "site_eui")
	require.NoError(t, err)
	require.Len(t, view.Rules, 2)
	assert.Equal(t, models.DataTypeNumber, view.DataType)
	assert.False(t, view.Rules[1].Min.IsDate())
	assert.False(t, view.Rules[1].Max.IsDate())
	assert.Equal(t, "20160101", view.Rules[1].Min.String())

	out := s.Payload()
	require.Len(t, out.Properties, 2)
	assert.Equal(t, 20160101.0, *out.Properties[1].Min)
	assert.Equal(t, models.DataTypeNumber, out.Properties[1].DataType)
}

func TestUpdateRule_CoercesBoundsToFieldDataType(t *testing.T) {
	t.Run("DateOnNumberField", func(t *testing.T) {
		s := newTestStore(new(mockPersistence), nil)
		s.Load(&models.Payload{Properties: []models.WireRule{numberRule("site_eui", 0, 1000)}})

		min := models.DateBound(time.Date(2016, 1, 1, 0, 0, 0, 0, time.UTC))
		rule, err := s.UpdateRule(models.InventoryProperties, "site_eui", 0, RuleUpdate{Min: &min})
		require.NoError(t, err)
		assert.False(t, rule.Min.IsDate())
		assert.Equal(t, "20160101", rule.Min.String())
		assert.Equal(t, 1000.0, *rule.Max.ToWire())
	})

	t.Run("NumberOnDateField", func(t *testing.T) {
		s := newTestStore(new(mockPersistence), nil)
		s.Load(&models.Payload{Properties: []models.WireRule{{
			Enabled:  true,
			Field:    "year_ending",
			DataType: models.DataTypeDate,
			Severity: models.SeverityError,
		}}})

		max := models.FloatBound(20161231)
		rule, err := s.UpdateRule(models.InventoryProperties, "year_ending", 0, RuleUpdate{Max: &max})
		require.NoError(t, err)
		require.True(t, rule.Max.IsDate())
		assert.Equal(t, time.Date(2016, 12, 31, 0, 0, 0, 0, time.UTC), rule.Max.Date())
		assert.True(t, rule.Min.IsNull())

		out := s.Payload()
		assert.Equal(t, 20161231.0, *out.Properties[0].Max)
	})
}
