package plan

import (
	"fmt"
	"strings"
)

// Resolver maps billing-provider price IDs to plan IDs. The mapping is
// injected so plan resolution is testable without a live billing account.
type Resolver struct {
	priceToPlan map[string]ID
}

func NewResolver(priceToPlan map[string]ID) *Resolver {
	m := make(map[string]ID, len(priceToPlan))
	for priceID, planID := range priceToPlan {
		m[priceID] = planID
	}
	return &Resolver{priceToPlan: m}
}

// Resolve returns the plan for a price ID. Unknown or empty price IDs on an
// otherwise active subscription fall back to the starter plan.
func (r *Resolver) Resolve(priceID string) ID {
	if planID, ok := r.priceToPlan[priceID]; ok {
		return planID
	}
	return Starter
}

// ParseMapping parses a comma-separated list of priceID=plan pairs, e.g.
// "price_123=starter,price_456=business".
func ParseMapping(s string) (map[string]ID, error) {
	mapping := make(map[string]ID)
	if strings.TrimSpace(s) == "" {
		return mapping, nil
	}
	for _, pair := range strings.Split(s, ",") {
		priceID, planName, ok := strings.Cut(strings.TrimSpace(pair), "=")
		if !ok || priceID == "" {
			return nil, fmt.Errorf("invalid price mapping entry %q", pair)
		}
		planID := ID(planName)
		if _, ok := Catalog[planID]; !ok {
			return nil, fmt.Errorf("unknown plan %q in price mapping", planName)
		}
		mapping[priceID] = planID
	}
	return mapping, nil
}
