package domain

import (
	"github.com/shopspring/decimal"
)

// BracketDetail records what one bracket contributed to a progressive computation
type BracketDetail struct {
	Rate   decimal.Decimal  `json:"rate"`
	Lower  decimal.Decimal  `json:"lower"`
	Upper  *decimal.Decimal `json:"upper,omitempty"`
	Income decimal.Decimal  `json:"income"`
	Tax    decimal.Decimal  `json:"tax"`
}

// RetirementDeduction is the outcome of capping the retirement-savings contribution
type RetirementDeduction struct {
	Contribution decimal.Decimal `json:"contribution"`
	Ceiling      decimal.Decimal `json:"ceiling"`
	Applied      decimal.Decimal `json:"applied"`
	Excess       decimal.Decimal `json:"excess"`
}

// ReductionDetail is the outcome of one reduction or credit
type ReductionDetail struct {
	Requested decimal.Decimal `json:"requested"`
	Ceiling   decimal.Decimal `json:"ceiling"`
	Eligible  decimal.Decimal `json:"eligible"`
	Excess    decimal.Decimal `json:"excess"`
	Rate      decimal.Decimal `json:"rate"`
	Amount    decimal.Decimal `json:"amount"`
}

// SurtaxDetail describes the exceptional high-income surtax
type SurtaxDetail struct {
	Household HouseholdType   `json:"household"`
	Base      decimal.Decimal `json:"base"`
	Threshold decimal.Decimal `json:"threshold"`
	Amount    decimal.Decimal `json:"amount"`
	Breakdown []BracketDetail `json:"breakdown,omitempty"`
}

// MinimumRateDetail describes the minimum-effective-rate top-up
type MinimumRateDetail struct {
	Applicable bool            `json:"applicable"`
	Reason     string          `json:"reason,omitempty"`
	Threshold  decimal.Decimal `json:"threshold"`
	Rate       decimal.Decimal `json:"rate"`
	Target     decimal.Decimal `json:"target"`
	PriorTax   decimal.Decimal `json:"priorTax"`
	Amount     decimal.Decimal `json:"amount"`
}

// Reasons a minimum-rate top-up is recorded as inapplicable.
const (
	MinimumRateNotInForce     = "not in force for this year"
	MinimumRateBelowThreshold = "reference income at or below threshold"
	MinimumRateAlreadyMet     = "effective rate already meets minimum"
)

// TaxComputation is the output of the core income-tax pipeline for one regime
type TaxComputation struct {
	Regime             Regime                            `json:"regime"`
	ProfessionalIncome decimal.Decimal                   `json:"professionalIncome"`
	TotalIncome        decimal.Decimal                   `json:"totalIncome"`
	Retirement         RetirementDeduction               `json:"retirementDeduction"`
	TaxableIncome      decimal.Decimal                   `json:"taxableIncome"`
	Parts              decimal.Decimal                   `json:"parts"`
	PerPartIncome      decimal.Decimal                   `json:"perPartIncome"`
	MarginalRate       decimal.Decimal                   `json:"marginalRate"`
	GrossTax           decimal.Decimal                   `json:"grossTax"`
	Brackets           []BracketDetail                   `json:"brackets"`
	Reductions         map[ReductionType]ReductionDetail `json:"reductions"`
	TotalReductions    decimal.Decimal                   `json:"totalReductions"`
	NetTax             decimal.Decimal                   `json:"netTax"`
	ReferenceIncome    decimal.Decimal                   `json:"referenceIncome"`
	ExceptionalSurtax  SurtaxDetail                      `json:"exceptionalSurtax"`
	MinimumRateSurtax  MinimumRateDetail                 `json:"minimumRateSurtax"`
	TotalTax           decimal.Decimal                   `json:"totalTax"`
}

// SocialContribution is expected versus paid social contributions
type SocialContribution struct {
	Activity        string          `json:"activity"`
	Fallback        bool            `json:"fallback"` // activity unknown, default rate used
	Rate            decimal.Decimal `json:"rate"`
	DeclaredRevenue decimal.Decimal `json:"declaredRevenue"`
	Expected        decimal.Decimal `json:"expected"`
	Paid            decimal.Decimal `json:"paid"`
	Delta           decimal.Decimal `json:"delta"` // paid - expected
}

// Withholding reconciles final liability against pay-as-you-earn withholding
type Withholding struct {
	Withheld  decimal.Decimal `json:"withheld"`
	AmountDue decimal.Decimal `json:"amountDue"` // negative means a refund
}

// IsRefund reports whether more was withheld than is owed.
func (w Withholding) IsRefund() bool {
	return w.AmountDue.IsNegative()
}

// RegimeComparison is the flat-rate versus expense-based re-evaluation
type RegimeComparison struct {
	Family        Family          `json:"family"`
	FlatRegime    Regime          `json:"flatRegime"`
	ExpenseRegime Regime          `json:"expenseRegime"`
	FlatTax       decimal.Decimal `json:"flatTax"`
	ExpenseTax    decimal.Decimal `json:"expenseTax"`
	Delta         decimal.Decimal `json:"delta"` // expense - flat
	FlatEligible  bool            `json:"flatEligible"`
	Recommended   Regime          `json:"recommended"`
}

// CalculationResult is one fiscal year's complete assessment
type CalculationResult struct {
	Name      string        `json:"name,omitempty"`
	Year      int           `json:"year"`
	Household HouseholdType `json:"household"`
	TaxComputation
	Social           SocialContribution `json:"socialContribution"`
	Withholding      Withholding        `json:"withholding"`
	Comparison       *RegimeComparison  `json:"regimeComparison,omitempty"`
	Warnings         []string           `json:"warnings"`
	InputFingerprint string             `json:"inputFingerprint"`
	RulesSource      Provenance         `json:"rulesSource"`
}
