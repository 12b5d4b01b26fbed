package transform

import (
	"fmt"

	"github.com/rgehrsitz/irgo/internal/domain"
	"github.com/shopspring/decimal"
)

// SetRegime declares the profile under another regime.
type SetRegime struct {
	Regime domain.Regime
}

func (t *SetRegime) Name() string { return "set_regime" }

func (t *SetRegime) Description() string {
	return fmt.Sprintf("Declare under %s", t.Regime)
}

func (t *SetRegime) Validate(base domain.Profile) error {
	if !t.Regime.Valid() {
		return NewTransformError(t.Name(), "validate", fmt.Sprintf("unknown regime %q", t.Regime), nil)
	}
	return nil
}

func (t *SetRegime) Apply(base domain.Profile) (domain.Profile, error) {
	return base.WithRegime(t.Regime), nil
}

// SetExpenses replaces the declared professional expenses.
type SetExpenses struct {
	Amount decimal.Decimal
}

func (t *SetExpenses) Name() string { return "set_expenses" }

func (t *SetExpenses) Description() string {
	return fmt.Sprintf("Declare %s EUR of expenses", t.Amount.StringFixed(2))
}

func (t *SetExpenses) Validate(base domain.Profile) error {
	if t.Amount.IsNegative() {
		return NewTransformError(t.Name(), "validate", "amount cannot be negative", nil)
	}
	return nil
}

func (t *SetExpenses) Apply(base domain.Profile) (domain.Profile, error) {
	base.Income.DeclaredExpenses = t.Amount
	return base, nil
}

// ScaleRevenue multiplies gross revenue, and the revenue declared for social
// contributions, by a factor.
type ScaleRevenue struct {
	Factor decimal.Decimal
}

func (t *ScaleRevenue) Name() string { return "scale_revenue" }

func (t *ScaleRevenue) Description() string {
	return fmt.Sprintf("Scale gross revenue by %s", t.Factor.String())
}

func (t *ScaleRevenue) Validate(base domain.Profile) error {
	if t.Factor.IsNegative() {
		return NewTransformError(t.Name(), "validate", "factor cannot be negative", nil)
	}
	return nil
}

func (t *ScaleRevenue) Apply(base domain.Profile) (domain.Profile, error) {
	base.Income.GrossRevenue = base.Income.GrossRevenue.Mul(t.Factor)
	base.Social.DeclaredRevenue = base.Social.DeclaredRevenue.Mul(t.Factor)
	return base, nil
}

// SetRetirementContribution replaces the retirement-savings contribution.
type SetRetirementContribution struct {
	Amount decimal.Decimal
}

func (t *SetRetirementContribution) Name() string { return "set_retirement" }

func (t *SetRetirementContribution) Description() string {
	return fmt.Sprintf("Contribute %s EUR to retirement savings", t.Amount.StringFixed(2))
}

func (t *SetRetirementContribution) Validate(base domain.Profile) error {
	if t.Amount.IsNegative() {
		return NewTransformError(t.Name(), "validate", "amount cannot be negative", nil)
	}
	return nil
}

func (t *SetRetirementContribution) Apply(base domain.Profile) (domain.Profile, error) {
	base.Deductions.RetirementContribution = t.Amount
	return base, nil
}

// AddDonations adds to the donations eligible for the donations reduction.
type AddDonations struct {
	Amount decimal.Decimal
}

func (t *AddDonations) Name() string { return "add_donations" }

func (t *AddDonations) Description() string {
	return fmt.Sprintf("Donate a further %s EUR", t.Amount.StringFixed(2))
}

func (t *AddDonations) Validate(base domain.Profile) error {
	if base.Deductions.Donations.Add(t.Amount).IsNegative() {
		return NewTransformError(t.Name(), "validate", "donations cannot become negative", nil)
	}
	return nil
}

func (t *AddDonations) Apply(base domain.Profile) (domain.Profile, error) {
	base.Deductions.Donations = base.Deductions.Donations.Add(t.Amount)
	return base, nil
}

// SetParts replaces the household's part count.
type SetParts struct {
	Parts decimal.Decimal
}

func (t *SetParts) Name() string { return "set_parts" }

func (t *SetParts) Description() string {
	return fmt.Sprintf("Use %s parts", t.Parts.String())
}

func (t *SetParts) Validate(base domain.Profile) error {
	if !t.Parts.IsPositive() {
		return NewTransformError(t.Name(), "validate", fmt.Sprintf("parts must be positive, got %s", t.Parts), nil)
	}
	if !t.Parts.Mul(decimal.NewFromInt(4)).IsInteger() {
		return NewTransformError(t.Name(), "validate", fmt.Sprintf("parts must be a multiple of 0.25, got %s", t.Parts), nil)
	}
	return nil
}

func (t *SetParts) Apply(base domain.Profile) (domain.Profile, error) {
	base.Person.Parts = t.Parts
	return base, nil
}
