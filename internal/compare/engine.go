package compare

import (
	"context"
	"errors"
	"fmt"

	"github.com/rgehrsitz/irgo/internal/calculation"
	"github.com/rgehrsitz/irgo/internal/domain"
	"github.com/rgehrsitz/irgo/internal/fiscal"
	"github.com/shopspring/decimal"
)

// ErrNoComparisonPair is returned for a regime outside every activity family.
var ErrNoComparisonPair = errors.New("no comparison pair for regime")

// DefaultTolerance is the tax difference, in euros, under which the flat
// regime is kept.
var DefaultTolerance = decimal.NewFromInt(1)

// Comparator re-evaluates a profile under substituted regimes, holding every
// other field fixed.
type Comparator struct {
	Calc      *calculation.Calculator
	Tolerance decimal.Decimal
}

// NewComparator creates a comparator over calc with the default tolerance.
func NewComparator(calc *calculation.Calculator) *Comparator {
	if calc == nil {
		calc = calculation.NewCalculator()
	}
	return &Comparator{
		Calc:      calc,
		Tolerance: DefaultTolerance,
	}
}

// Between returns total tax under b minus total tax under a.
// Between(a, b) is always the negation of Between(b, a).
func (c *Comparator) Between(p domain.Profile, t *domain.RuleTable, a, b domain.Regime) (decimal.Decimal, error) {
	ca, err := c.Calc.Compute(p.WithRegime(a), t)
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to calculate %s: %w", a, err)
	}
	cb, err := c.Calc.Compute(p.WithRegime(b), t)
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to calculate %s: %w", b, err)
	}
	return cb.TotalTax.Sub(ca.TotalTax), nil
}

// Pair returns the flat and expense regimes the profile is compared across.
// A réel BIC profile whose social activity is sales compares against the
// sales abatement rather than the services one.
func Pair(p domain.Profile) (domain.RegimePair, error) {
	pair, ok := p.Person.Regime.ComparisonPair()
	if !ok {
		return domain.RegimePair{}, fmt.Errorf("%w: %q", ErrNoComparisonPair, p.Person.Regime)
	}
	if p.Person.Regime == domain.RegimeReelBIC && p.SocialActivity() == domain.ActivityBICVente {
		pair.Flat = domain.RegimeMicroBICVente
	}
	return pair, nil
}

// Compare evaluates the profile under the flat and expense variants of its
// activity family and recommends one.
func (c *Comparator) Compare(ctx context.Context, p domain.Profile, t *domain.RuleTable) (*ComparisonSet, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	pair, err := Pair(p)
	if err != nil {
		return nil, err
	}

	flat, err := c.evaluate(p, pair.Flat, t)
	if err != nil {
		return nil, err
	}
	expense, err := c.evaluate(p, pair.Expense, t)
	if err != nil {
		return nil, err
	}

	delta := expense.Computation.TotalTax.Sub(flat.Computation.TotalTax)
	recommended := pair.Flat
	if delta.LessThan(c.Tolerance.Neg()) {
		recommended = pair.Expense
	}

	set := &ComparisonSet{
		ProfileName: p.Person.Name,
		Year:        p.Year,
		Current:     p.Person.Regime,
		Tolerance:   c.Tolerance,
		Comparison: domain.RegimeComparison{
			Family:        p.Person.Regime.Family(),
			FlatRegime:    pair.Flat,
			ExpenseRegime: pair.Expense,
			FlatTax:       flat.Computation.TotalTax,
			ExpenseTax:    expense.Computation.TotalTax,
			Delta:         delta,
			FlatEligible:  flat.Eligible,
			Recommended:   recommended,
		},
		Flat:    flat,
		Expense: expense,
	}
	set.Recommendations = GenerateRecommendations(set)
	return set, nil
}

func (c *Comparator) evaluate(p domain.Profile, r domain.Regime, t *domain.RuleTable) (RegimeResult, error) {
	computation, err := c.Calc.Compute(p.WithRegime(r), t)
	if err != nil {
		return RegimeResult{}, fmt.Errorf("failed to calculate %s: %w", r, err)
	}

	result := RegimeResult{
		Regime:      r,
		Eligible:    fiscal.WithinThreshold(r, p.Income.GrossRevenue, t),
		Computation: computation,
	}
	if th, ok := fiscal.RegimeThreshold(r, t); ok {
		result.Threshold = &th
	}
	return result, nil
}
