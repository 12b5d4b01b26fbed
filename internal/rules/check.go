package rules

import (
	"fmt"
	"maps"
	"slices"

	"github.com/rgehrsitz/irgo/internal/domain"
	"github.com/shopspring/decimal"
)

// Check runs the structural checks Parse leaves out: schedules start at zero,
// are contiguous, end open, and never decrease in rate; rates lie in [0, 1];
// provenance is filled in. It returns every problem found.
func Check(t *domain.RuleTable) []error {
	var errs []error

	errs = append(errs, checkSchedule("brackets", t.Brackets(), true)...)
	for _, h := range []domain.HouseholdType{domain.HouseholdSingle, domain.HouseholdCouple} {
		bs, _ := t.ExceptionalSurtax(h)
		errs = append(errs, checkSchedule("exceptional_surtax."+string(h), bs, false)...)
	}

	for _, r := range domain.FlatRegimes() {
		rate, _ := t.Abatement(r)
		if !isRate(rate) {
			errs = append(errs, fmt.Errorf("abatements.%s: rate %s outside [0, 1]", r, rate))
		}
	}

	social := t.Social()
	for _, activity := range slices.Sorted(maps.Keys(social.Rates)) {
		if rate := social.Rates[activity]; !isRate(rate) {
			errs = append(errs, fmt.Errorf("social_contributions.%s: rate %s outside [0, 1]", activity, rate))
		}
	}
	if !isRate(social.DefaultRate) || social.DefaultRate.IsZero() {
		errs = append(errs, fmt.Errorf("social_contributions.default_rate must be in (0, 1]"))
	}

	ret := t.Retirement()
	for _, status := range slices.Sorted(maps.Keys(ret.MaxCeilingByStatus)) {
		if ret.MaxCeilingByStatus[status].LessThan(ret.MinCeiling) {
			errs = append(errs, fmt.Errorf("retirement.max_ceiling_by_status.%s below min_ceiling", status))
		}
	}

	for _, kind := range domain.ReductionTypes() {
		rule, _ := t.Reduction(kind)
		if !isRate(rule.Rate) {
			errs = append(errs, fmt.Errorf("reductions.%s: rate %s outside [0, 1]", kind, rule.Rate))
		}
		switch rule.Ceiling.Kind {
		case domain.CeilingFixed, domain.CeilingPercentOfIncome, domain.CeilingPerUnit:
		default:
			errs = append(errs, fmt.Errorf("reductions.%s: unknown ceiling kind %q", kind, rule.Ceiling.Kind))
		}
	}

	if m, ok := t.MinimumRateSurtax(); ok && !isRate(m.Rate) {
		errs = append(errs, fmt.Errorf("minimum_rate_surtax.rate %s outside [0, 1]", m.Rate))
	}

	src := t.Source()
	if src.URL == "" || src.Date == "" {
		errs = append(errs, fmt.Errorf("source: url and date are required"))
	}
	return errs
}

func checkSchedule(name string, bs []domain.TaxBracket, fromZero bool) []error {
	var errs []error
	if len(bs) == 0 {
		return []error{fmt.Errorf("%s: empty schedule", name)}
	}
	if fromZero && !bs[0].Lower.IsZero() {
		errs = append(errs, fmt.Errorf("%s: first lower bound is %s, want 0", name, bs[0].Lower))
	}
	for i, b := range bs {
		if !isRate(b.Rate) {
			errs = append(errs, fmt.Errorf("%s[%d]: rate %s outside [0, 1]", name, i, b.Rate))
		}
		last := i == len(bs)-1
		if last {
			if b.Upper != nil {
				errs = append(errs, fmt.Errorf("%s[%d]: last bracket must be open-ended", name, i))
			}
			continue
		}
		if b.Upper == nil {
			errs = append(errs, fmt.Errorf("%s[%d]: only the last bracket may be open-ended", name, i))
			continue
		}
		if !b.Upper.GreaterThan(b.Lower) {
			errs = append(errs, fmt.Errorf("%s[%d]: upper %s not above lower %s", name, i, b.Upper, b.Lower))
		}
		next := bs[i+1]
		if !next.Lower.Equal(*b.Upper) {
			errs = append(errs, fmt.Errorf("%s[%d]: gap or overlap, upper %s vs next lower %s", name, i, b.Upper, next.Lower))
		}
		if next.Rate.LessThan(b.Rate) {
			errs = append(errs, fmt.Errorf("%s[%d]: rate decreases from %s to %s", name, i+1, b.Rate, next.Rate))
		}
	}
	return errs
}

func isRate(d decimal.Decimal) bool {
	return !d.IsNegative() && d.LessThanOrEqual(decimal.NewFromInt(1))
}
