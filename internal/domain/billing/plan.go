package billing

import (
	_ "embed"
	"fmt"
	"sync"

	"gopkg.in/yaml.v3"
)

const FreePlanID = "free"

// Plan is a purchasable tier. Amounts sent to the payment gateway are in paisa.
type Plan struct {
	ID          string   `yaml:"id" json:"id"`
	Name        string   `yaml:"name" json:"name"`
	PriceINR    int64    `yaml:"price_inr" json:"price_inr"`
	CourseLimit int      `yaml:"course_limit" json:"course_limit"`
	Features    []string `yaml:"features" json:"features"`
}

func (p Plan) AmountInPaisa() int64 { return p.PriceINR * 100 }

func (p Plan) IsFree() bool { return p.PriceINR == 0 }

//go:embed plans.yaml
var plansYAML []byte

var (
	catalogOnce sync.Once
	catalog     []Plan
	catalogErr  error
)

// ParsePlans decodes a plan catalog document.
func ParsePlans(raw []byte) ([]Plan, error) {
	var plans []Plan
	if err := yaml.Unmarshal(raw, &plans); err != nil {
		return nil, fmt.Errorf("parse plans: %w", err)
	}
	seen := map[string]bool{}
	for _, p := range plans {
		if p.ID == "" {
			return nil, fmt.Errorf("parse plans: plan without id")
		}
		if seen[p.ID] {
			return nil, fmt.Errorf("parse plans: duplicate plan %q", p.ID)
		}
		if p.CourseLimit < 0 || p.PriceINR < 0 {
			return nil, fmt.Errorf("parse plans: plan %q has negative limits", p.ID)
		}
		seen[p.ID] = true
	}
	if !seen[FreePlanID] {
		return nil, fmt.Errorf("parse plans: missing %q plan", FreePlanID)
	}
	return plans, nil
}

// Plans returns the built-in catalog.
func Plans() []Plan {
	catalogOnce.Do(func() {
		catalog, catalogErr = ParsePlans(plansYAML)
	})
	if catalogErr != nil {
		panic(catalogErr)
	}
	out := make([]Plan, len(catalog))
	copy(out, catalog)
	return out
}

func PlanByID(id string) (Plan, bool) {
	for _, p := range Plans() {
		if p.ID == id {
			return p, true
		}
	}
	return Plan{}, false
}

func FreePlan() Plan {
	p, _ := PlanByID(FreePlanID)
	return p
}
