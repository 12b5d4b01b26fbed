package fiscal

import (
	"github.com/rgehrsitz/irgo/internal/domain"
	"github.com/shopspring/decimal"
)

// RegimeThreshold returns the revenue ceiling of a regime. Expense-based
// regimes have none.
func RegimeThreshold(r domain.Regime, t *domain.RuleTable) (decimal.Decimal, bool) {
	return t.RegimeThreshold(r)
}

// ThresholdUsage returns revenue as a fraction of the regime's threshold.
func ThresholdUsage(r domain.Regime, revenue decimal.Decimal, t *domain.RuleTable) (decimal.Decimal, bool) {
	th, ok := t.RegimeThreshold(r)
	if !ok || !th.IsPositive() {
		return decimal.Zero, false
	}
	return revenue.Div(th), true
}

// WithinThreshold reports whether revenue stays at or below the regime's
// threshold. Regimes without a threshold always qualify.
func WithinThreshold(r domain.Regime, revenue decimal.Decimal, t *domain.RuleTable) bool {
	th, ok := t.RegimeThreshold(r)
	if !ok {
		return true
	}
	return revenue.LessThanOrEqual(th)
}
