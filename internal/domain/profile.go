package domain

import (
	"github.com/shopspring/decimal"
)

// Person holds the household facts that shape the calculation
type Person struct {
	Name             string          `yaml:"name,omitempty" json:"name,omitempty"`
	Parts            decimal.Decimal `yaml:"parts" json:"parts"`
	Regime           Regime          `yaml:"regime" json:"regime"`
	Household        HouseholdType   `yaml:"household" json:"household"`
	RetirementStatus string          `yaml:"retirement_status,omitempty" json:"retirementStatus,omitempty"`
}

// IncomeProfile contains the declared income of the household
type IncomeProfile struct {
	GrossRevenue     decimal.Decimal `yaml:"gross_revenue" json:"grossRevenue"`
	DeclaredExpenses decimal.Decimal `yaml:"declared_expenses" json:"declaredExpenses"` // expense-based regimes only
	SalaryPension    decimal.Decimal `yaml:"salary_pension" json:"salaryPension"`
	Rental           decimal.Decimal `yaml:"rental" json:"rental"`
	Capital          decimal.Decimal `yaml:"capital" json:"capital"`
}

// DeductionProfile contains deductions and itemised reduction/credit inputs
type DeductionProfile struct {
	RetirementContribution decimal.Decimal `yaml:"retirement_contribution" json:"retirementContribution"`
	AlimonyPaid            decimal.Decimal `yaml:"alimony_paid" json:"alimonyPaid"`
	OtherDeductions        decimal.Decimal `yaml:"other_deductions" json:"otherDeductions"`
	Donations              decimal.Decimal `yaml:"donations" json:"donations"`
	HomeServices           decimal.Decimal `yaml:"home_services" json:"homeServices"`
	Childcare              decimal.Decimal `yaml:"childcare" json:"childcare"`
	ChildrenUnderSix       int             `yaml:"children_under_six" json:"childrenUnderSix"`
}

// SocialDeclaration is what was reported to, and paid to, the social-contribution body
type SocialDeclaration struct {
	Activity        string          `yaml:"activity,omitempty" json:"activity,omitempty"`
	DeclaredRevenue decimal.Decimal `yaml:"declared_revenue" json:"declaredRevenue"`
	Paid            decimal.Decimal `yaml:"paid" json:"paid"`
}

// Profile is the full input bundle for one fiscal year
type Profile struct {
	Year       int               `yaml:"year" json:"year"`
	Person     Person            `yaml:"person" json:"person"`
	Income     IncomeProfile     `yaml:"income" json:"income"`
	Deductions DeductionProfile  `yaml:"deductions" json:"deductions"`
	Social     SocialDeclaration `yaml:"social" json:"social"`
	Withheld   decimal.Decimal   `yaml:"withheld" json:"withheld"`
}

// WithRegime returns a copy of the profile declared under another regime.
func (p Profile) WithRegime(r Regime) Profile {
	p.Person.Regime = r
	return p
}

// SocialActivity returns the declared activity, or the one implied by the regime.
func (p Profile) SocialActivity() string {
	if p.Social.Activity != "" {
		return p.Social.Activity
	}
	return p.Person.Regime.DefaultActivity()
}
