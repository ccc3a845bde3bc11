package model

// PlanTier is the subscription tier stored on the user record.
type PlanTier string

const (
	PlanFree       PlanTier = "free"
	PlanBasic      PlanTier = "basic"
	PlanPro        PlanTier = "pro"
	PlanEnterprise PlanTier = "enterprise"
	PlanCustom     PlanTier = "custom"
)

// PlanTiers lists every valid tier.
var PlanTiers = []PlanTier{PlanFree, PlanBasic, PlanPro, PlanEnterprise, PlanCustom}

// Valid reports whether t is one of the known tiers.
func (t PlanTier) Valid() bool {
	for _, known := range PlanTiers {
		if t == known {
			return true
		}
	}
	return false
}
