package calculation

import (
	"errors"
	"fmt"

	"github.com/rgehrsitz/irgo/internal/domain"
	"github.com/shopspring/decimal"
)

var (
	// ErrUnknownRegime is returned when a regime has no taxable-income rule.
	ErrUnknownRegime = errors.New("unknown regime")
	// ErrUnknownHousehold is returned when a household type has no surtax schedule.
	ErrUnknownHousehold = errors.New("unknown household type")
	// ErrInvalidParts is returned when the part count is not positive.
	ErrInvalidParts = errors.New("household parts must be positive")
)

// ProfessionalIncome applies the regime's income rule to gross revenue.
// Flat-rate regimes tax gross × (1 − abatement); expense-based regimes tax
// gross − expenses, which may be negative (a deficit offsets other income).
func ProfessionalIncome(r domain.Regime, gross, expenses decimal.Decimal, t *domain.RuleTable) (decimal.Decimal, error) {
	switch r.Strategy() {
	case domain.StrategyFlatAbatement:
		rate, ok := t.Abatement(r)
		if !ok {
			return decimal.Zero, fmt.Errorf("no abatement rate for %s in %d rules", r, t.Year())
		}
		return gross.Mul(decimal.NewFromInt(1).Sub(rate)), nil
	case domain.StrategyExpenses:
		return gross.Sub(expenses), nil
	default:
		return decimal.Zero, fmt.Errorf("%w: %q", ErrUnknownRegime, r)
	}
}

// TotalIncome adds the non-professional income categories to professional income.
func TotalIncome(professional decimal.Decimal, in domain.IncomeProfile) decimal.Decimal {
	return professional.Add(in.SalaryPension).Add(in.Rental).Add(in.Capital)
}

// TaxableIncome subtracts the applied retirement deduction, alimony, and other
// deductions from total income, floored at zero.
func TaxableIncome(total, retirementApplied decimal.Decimal, d domain.DeductionProfile) decimal.Decimal {
	taxable := total.Sub(retirementApplied).Sub(d.AlimonyPaid).Sub(d.OtherDeductions)
	return decimal.Max(decimal.Zero, taxable)
}

// ReferenceIncome adds the retirement deduction back onto taxable income.
func ReferenceIncome(taxable, retirementApplied decimal.Decimal) decimal.Decimal {
	return taxable.Add(retirementApplied)
}
