package assessment

import (
	"fmt"

	"github.com/rgehrsitz/irgo/internal/domain"
	"github.com/rgehrsitz/irgo/internal/fiscal"
	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// collectWarnings lists the consistency problems of a finished result in a
// fixed order. None of them stops the calculation.
func (e *Engine) collectWarnings(p domain.Profile, r *domain.CalculationResult, t *domain.RuleTable) []string {
	warnings := []string{}
	add := func(format string, args ...any) {
		warnings = append(warnings, fmt.Sprintf(format, args...))
	}

	regime := p.Person.Regime
	if status := p.Person.RetirementStatus; status != "" && !fiscal.KnownRetirementStatus(status, t) {
		add("retirement status %q is not defined for %d; the %s ceiling was used",
			status, t.Year(), domain.RetirementStatusStandard)
	}
	if r.Retirement.Excess.IsPositive() {
		add("retirement contribution exceeds its ceiling of %s EUR; %s EUR is not deductible",
			money(r.Retirement.Ceiling), money(r.Retirement.Excess))
	}

	if regime.Strategy() == domain.StrategyFlatAbatement && p.Income.DeclaredExpenses.IsPositive() {
		add("declared expenses of %s EUR are ignored under the flat-rate regime %s",
			money(p.Income.DeclaredExpenses), regime)
	}

	if usage, ok := fiscal.ThresholdUsage(regime, p.Income.GrossRevenue, t); ok {
		threshold, _ := fiscal.RegimeThreshold(regime, t)
		switch {
		case !fiscal.WithinThreshold(regime, p.Income.GrossRevenue, t):
			add("gross revenue of %s EUR exceeds the %s threshold of %s EUR",
				money(p.Income.GrossRevenue), regime, money(threshold))
		case usage.GreaterThanOrEqual(e.Options.ThresholdWarningRatio):
			add("gross revenue of %s EUR is at %s%% of the %s threshold of %s EUR",
				money(p.Income.GrossRevenue), usage.Mul(hundred).StringFixed(0), regime, money(threshold))
		}
	}

	social := r.Social
	if social.Fallback {
		add("social activity %q is not recognised; the default rate of %s%% was used",
			social.Activity, social.Rate.Mul(hundred).String())
	}
	if social.Delta.Abs().GreaterThan(e.Options.SocialTolerance) {
		if social.Delta.IsNegative() {
			add("social contributions paid (%s EUR) fall short of the expected %s EUR by %s EUR",
				money(social.Paid), money(social.Expected), money(social.Delta.Neg()))
		} else {
			add("social contributions paid (%s EUR) exceed the expected %s EUR by %s EUR",
				money(social.Paid), money(social.Expected), money(social.Delta))
		}
	}
	if !social.DeclaredRevenue.Equal(p.Income.GrossRevenue) {
		add("revenue declared for social contributions (%s EUR) differs from gross revenue (%s EUR)",
			money(social.DeclaredRevenue), money(p.Income.GrossRevenue))
	}

	if c := r.Comparison; c != nil && c.Recommended != regime {
		e.addComparisonWarning(c, t, add)
	}

	return warnings
}

// addComparisonWarning reports a cheaper alternative regime only when the
// saving exceeds the comparison tolerance. A flat regime over its revenue
// threshold is reported as unavailable.
func (e *Engine) addComparisonWarning(c *domain.RegimeComparison, t *domain.RuleTable, add func(string, ...any)) {
	if c.Recommended == c.ExpenseRegime {
		add("%s lowers total tax by %s EUR compared with %s",
			c.ExpenseRegime, money(c.Delta.Neg()), c.FlatRegime)
		return
	}
	if !c.Delta.GreaterThan(e.Comparator.Tolerance) {
		return
	}
	if !c.FlatEligible {
		threshold, _ := fiscal.RegimeThreshold(c.FlatRegime, t)
		add("%s would lower total tax by %s EUR compared with %s but is unavailable: gross revenue exceeds its threshold of %s EUR",
			c.FlatRegime, money(c.Delta), c.ExpenseRegime, money(threshold))
		return
	}
	add("%s lowers total tax by %s EUR compared with %s",
		c.FlatRegime, money(c.Delta), c.ExpenseRegime)
}

func money(d decimal.Decimal) string {
	return d.StringFixed(2)
}
