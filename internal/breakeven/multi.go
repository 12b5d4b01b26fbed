package breakeven

import (
	"context"
	"fmt"

	"github.com/rgehrsitz/irgo/internal/domain"
	"github.com/shopspring/decimal"
)

// TableLoader provides the rule table for a fiscal year
type TableLoader interface {
	Load(year int) (*domain.RuleTable, error)
}

// SolveProfiles runs one target across several profiles, in input order.
func (s *Solver) SolveProfiles(ctx context.Context, loader TableLoader, profiles []domain.Profile, target Target, budget decimal.Decimal) ([]*Result, error) {
	results := make([]*Result, 0, len(profiles))
	for i, p := range profiles {
		table, err := loader.Load(p.Year)
		if err != nil {
			return nil, fmt.Errorf("profile %d (%s): failed to load rules for %d: %w", i, p.Person.Name, p.Year, err)
		}
		r, err := s.Solve(ctx, Request{
			Profile: p,
			Table:   table,
			Target:  target,
			Budget:  budget,
		})
		if err != nil {
			return nil, fmt.Errorf("profile %d (%s): %w", i, p.Person.Name, err)
		}
		results = append(results, r)
	}
	return results, nil
}
