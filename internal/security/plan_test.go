package security

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/edvin/clinicguard/internal/model"
)

func TestDefaultPlans_Caps(t *testing.T) {
	plans := DefaultPlans()
	tests := []struct {
		tier model.PlanTier
		max  *int
	}{
		{model.PlanFree, intPtr(1)},
		{model.PlanBasic, intPtr(3)},
		{model.PlanPro, intPtr(10)},
		{model.PlanEnterprise, intPtr(50)},
		{model.PlanCustom, nil},
	}
	for _, tt := range tests {
		t.Run(string(tt.tier), func(t *testing.T) {
			assert.Equal(t, tt.max, plans.For(tt.tier).MaxEndpoints)
		})
	}
}

func TestPlans_Limits(t *testing.T) {
	plans := DefaultPlans()
	tests := []struct {
		name       string
		tier       model.PlanTier
		current    int
		canAddMore bool
	}{
		{"basic under cap", model.PlanBasic, 2, true},
		{"basic at cap", model.PlanBasic, 3, false},
		{"basic over cap", model.PlanBasic, 4, false},
		{"free empty", model.PlanFree, 0, true},
		{"free at cap", model.PlanFree, 1, false},
		{"custom is unbounded", model.PlanCustom, 10000, true},
		{"unknown tier uses free", model.PlanTier("gold"), 1, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := plans.Limits(tt.tier, tt.current)
			assert.Equal(t, tt.current, l.Current)
			assert.Equal(t, tt.canAddMore, l.CanAddMore)
		})
	}
}

func TestCheckLimit(t *testing.T) {
	plans := DefaultPlans()
	require.NoError(t, checkLimit(plans.Limits(model.PlanBasic, 2)))

	err := checkLimit(plans.Limits(model.PlanBasic, 3))
	require.Error(t, err)
	assert.True(t, HasCode(err, CodePlanLimitReached))
	e, _ := AsError(err)
	assert.Equal(t, KindConflict, e.Kind)
	assert.Contains(t, e.Message, "3 de 3")
}

func TestParsePlans_Override(t *testing.T) {
	plans, err := parsePlans([]byte(`
plans:
  basic:
    max_endpoints: 5
    features:
      remote_scan: true
      isolation: true
  enterprise:
    max_endpoints: null
`))
	require.NoError(t, err)

	assert.Equal(t, intPtr(5), plans.For(model.PlanBasic).MaxEndpoints)
	assert.True(t, plans.For(model.PlanBasic).Features.Isolation)
	assert.Nil(t, plans.For(model.PlanEnterprise).MaxEndpoints)
	assert.Equal(t, intPtr(1), plans.For(model.PlanFree).MaxEndpoints, "untouched tiers keep defaults")
}

func TestParsePlans_Invalid(t *testing.T) {
	_, err := parsePlans([]byte("plans:\n  gold:\n    max_endpoints: 3\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), `unknown tier "gold"`)

	_, err = parsePlans([]byte("plans:\n  pro:\n    max_endpoints: -1\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "negative")

	_, err = parsePlans([]byte("plans: [unclosed"))
	require.Error(t, err)
}

func TestLoadPlans_MissingFile(t *testing.T) {
	_, err := LoadPlans(t.TempDir() + "/missing.yaml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "read plans file")
}
