package fiscal

import (
	"github.com/rgehrsitz/irgo/internal/domain"
	"github.com/shopspring/decimal"
)

// RetirementCeiling returns the retirement-savings deduction ceiling:
// professional income × base rate, clamped to [min ceiling, max ceiling for status].
// An unknown status uses the standard maximum.
func RetirementCeiling(professionalIncome decimal.Decimal, status string, t *domain.RuleTable) decimal.Decimal {
	rule := t.Retirement()
	maxCeiling, ok := t.RetirementMaxCeiling(status)
	if !ok {
		maxCeiling, _ = t.RetirementMaxCeiling(domain.RetirementStatusStandard)
	}

	ceiling := professionalIncome.Mul(rule.BaseRate)
	if ceiling.LessThan(rule.MinCeiling) {
		ceiling = rule.MinCeiling
	}
	if ceiling.GreaterThan(maxCeiling) {
		ceiling = maxCeiling
	}
	return ceiling
}

// KnownRetirementStatus reports whether the table defines a max ceiling for status.
func KnownRetirementStatus(status string, t *domain.RuleTable) bool {
	_, ok := t.RetirementMaxCeiling(status)
	return ok
}

// CapRetirement applies the ceiling to a contribution.
func CapRetirement(contribution, ceiling decimal.Decimal) domain.RetirementDeduction {
	c := Cap(contribution, ceiling)
	return domain.RetirementDeduction{
		Contribution: contribution,
		Ceiling:      c.Ceiling,
		Applied:      c.Eligible,
		Excess:       c.Excess,
	}
}
