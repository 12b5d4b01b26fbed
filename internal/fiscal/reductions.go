package fiscal

import (
	"fmt"

	"github.com/rgehrsitz/irgo/internal/domain"
	"github.com/shopspring/decimal"
)

// ReductionCeiling returns the cap on spend eligible for a reduction.
func ReductionCeiling(kind domain.ReductionType, in Inputs, t *domain.RuleTable) (decimal.Decimal, error) {
	rule, ok := t.Reduction(kind)
	if !ok {
		return decimal.Zero, fmt.Errorf("%w: %q", ErrUnknownMechanism, kind)
	}
	return ceilingFor(rule.Ceiling, in), nil
}

func ceilingFor(c domain.CeilingRule, in Inputs) decimal.Decimal {
	switch c.Kind {
	case domain.CeilingFixed:
		return c.Amount
	case domain.CeilingPercentOfIncome:
		return decimal.Max(decimal.Zero, in.ReferenceIncome).Mul(c.Percent)
	case domain.CeilingPerUnit:
		if in.Units <= 0 {
			return decimal.Zero
		}
		return c.PerUnit.Mul(decimal.NewFromInt(int64(in.Units)))
	default:
		return decimal.Zero
	}
}

// ApplyReduction caps requested spend and converts the eligible part into a
// reduction amount at the rule's rate.
func ApplyReduction(kind domain.ReductionType, requested decimal.Decimal, in Inputs, t *domain.RuleTable) (domain.ReductionDetail, error) {
	rule, ok := t.Reduction(kind)
	if !ok {
		return domain.ReductionDetail{}, fmt.Errorf("%w: %q", ErrUnknownMechanism, kind)
	}
	c := Cap(requested, ceilingFor(rule.Ceiling, in))
	return domain.ReductionDetail{
		Requested: requested,
		Ceiling:   c.Ceiling,
		Eligible:  c.Eligible,
		Excess:    c.Excess,
		Rate:      rule.Rate,
		Amount:    c.Eligible.Mul(rule.Rate),
	}, nil
}
