package compare

import (
	"fmt"

	"github.com/rgehrsitz/irgo/internal/domain"
	"github.com/shopspring/decimal"
)

// RegimeResult is one regime's computation within a comparison
type RegimeResult struct {
	Regime      domain.Regime         `json:"regime"`
	Eligible    bool                  `json:"eligible"`
	Threshold   *decimal.Decimal      `json:"threshold,omitempty"` // nil for expense-based regimes
	Computation domain.TaxComputation `json:"computation"`
}

// ComparisonSet is a flat versus expense comparison with its supporting computations
type ComparisonSet struct {
	ProfileName     string                  `json:"profileName,omitempty"`
	Year            int                     `json:"year"`
	Current         domain.Regime           `json:"currentRegime"`
	Tolerance       decimal.Decimal         `json:"tolerance"`
	Comparison      domain.RegimeComparison `json:"comparison"`
	Flat            RegimeResult            `json:"flat"`
	Expense         RegimeResult            `json:"expense"`
	Recommendations []string                `json:"recommendations"`
	ConfigPath      string                  `json:"configPath,omitempty"`
}

// Savings is how much the recommended regime saves over the other one.
func (cs *ComparisonSet) Savings() decimal.Decimal {
	return cs.Comparison.Delta.Abs()
}

// GenerateRecommendations creates human-readable recommendations from a comparison
func GenerateRecommendations(cs *ComparisonSet) []string {
	recommendations := []string{}
	cmp := cs.Comparison

	switch {
	case cmp.Recommended == cmp.ExpenseRegime:
		line := fmt.Sprintf("%s saves %s EUR versus %s", cmp.ExpenseRegime, cmp.Delta.Neg().StringFixed(2), cmp.FlatRegime)
		if cs.Current != cmp.ExpenseRegime {
			line = "Switch to " + line
		}
		recommendations = append(recommendations, line)
	case cmp.Delta.GreaterThan(cs.Tolerance):
		line := fmt.Sprintf("%s saves %s EUR versus %s", cmp.FlatRegime, cmp.Delta.StringFixed(2), cmp.ExpenseRegime)
		if cs.Current != cmp.FlatRegime {
			line = "Switch to " + line
		}
		recommendations = append(recommendations, line)
	default:
		recommendations = append(recommendations,
			fmt.Sprintf("%s and %s are within %s EUR; keep %s", cmp.FlatRegime, cmp.ExpenseRegime, cs.Tolerance.StringFixed(2), cmp.FlatRegime))
	}

	if !cmp.FlatEligible && cs.Flat.Threshold != nil {
		recommendations = append(recommendations,
			fmt.Sprintf("Revenue exceeds the %s threshold of %s EUR; the flat regime is not available",
				cmp.FlatRegime, cs.Flat.Threshold.StringFixed(2)))
	}

	return recommendations
}
