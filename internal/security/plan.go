package security

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/edvin/clinicguard/internal/model"
)

type PlanFeatures struct {
	Isolation     bool `yaml:"isolation" json:"isolation"`
	RemoteScan    bool `yaml:"remote_scan" json:"remoteScan"`
	BackupRestore bool `yaml:"backup_restore" json:"backupRestore"`
	Reports       bool `yaml:"reports" json:"reports"`
}

// Plan is the static definition of a tier. A nil MaxEndpoints is unbounded.
type Plan struct {
	MaxEndpoints *int         `yaml:"max_endpoints" json:"maxEndpoints"`
	Features     PlanFeatures `yaml:"features" json:"features"`
}

type Plans map[model.PlanTier]Plan

func intPtr(n int) *int { return &n }

func DefaultPlans() Plans {
	return Plans{
		model.PlanFree: {
			MaxEndpoints: intPtr(1),
		},
		model.PlanBasic: {
			MaxEndpoints: intPtr(3),
			Features:     PlanFeatures{RemoteScan: true},
		},
		model.PlanPro: {
			MaxEndpoints: intPtr(10),
			Features:     PlanFeatures{Isolation: true, RemoteScan: true, BackupRestore: true},
		},
		model.PlanEnterprise: {
			MaxEndpoints: intPtr(50),
			Features:     PlanFeatures{Isolation: true, RemoteScan: true, BackupRestore: true, Reports: true},
		},
		model.PlanCustom: {
			Features: PlanFeatures{Isolation: true, RemoteScan: true, BackupRestore: true, Reports: true},
		},
	}
}

type plansFile struct {
	Plans map[string]Plan `yaml:"plans"`
}

// LoadPlans reads tier overrides from a YAML file on top of DefaultPlans.
// An overridden tier replaces the default entirely; an omitted or null
// max_endpoints is unbounded.
func LoadPlans(path string) (Plans, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read plans file: %w", err)
	}
	return parsePlans(data)
}

func parsePlans(data []byte) (Plans, error) {
	var file plansFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parse plans file: %w", err)
	}

	plans := DefaultPlans()
	for name, plan := range file.Plans {
		tier := model.PlanTier(name)
		if !tier.Valid() {
			return nil, fmt.Errorf("plans file: unknown tier %q", name)
		}
		if plan.MaxEndpoints != nil && *plan.MaxEndpoints < 0 {
			return nil, fmt.Errorf("plans file: tier %q has negative max_endpoints", name)
		}
		plans[tier] = plan
	}
	return plans, nil
}

// For returns the plan of a tier. Unknown tiers get the free plan.
func (p Plans) For(tier model.PlanTier) Plan {
	if plan, ok := p[tier]; ok {
		return plan
	}
	return p[model.PlanFree]
}

// Limits is the plan-limit block returned with endpoint lists.
type Limits struct {
	Plan       model.PlanTier `json:"plan"`
	Current    int            `json:"current"`
	Max        *int           `json:"max"`
	CanAddMore bool           `json:"canAddMore"`
	Features   PlanFeatures   `json:"features"`
}

func (p Plans) Limits(tier model.PlanTier, current int) Limits {
	plan := p.For(tier)
	return Limits{
		Plan:       tier,
		Current:    current,
		Max:        plan.MaxEndpoints,
		CanAddMore: plan.MaxEndpoints == nil || current < *plan.MaxEndpoints,
		Features:   plan.Features,
	}
}

// checkLimit fails with PLAN_LIMIT_REACHED when no endpoint can be added.
func checkLimit(l Limits) error {
	if l.CanAddMore {
		return nil
	}
	return newError(KindConflict, CodePlanLimitReached,
		"limite do plano %s atingido (%d de %d dispositivos)", l.Plan, l.Current, *l.Max)
}
