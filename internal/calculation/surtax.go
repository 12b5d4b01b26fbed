package calculation

import (
	"fmt"

	"github.com/rgehrsitz/irgo/internal/domain"
	"github.com/shopspring/decimal"
)

// SurtaxThreshold is the reference income above which the high-income
// surtaxes start for a household type: the lower bound of its first
// exceptional-surtax bracket.
func SurtaxThreshold(h domain.HouseholdType, t *domain.RuleTable) (decimal.Decimal, error) {
	schedule, ok := t.ExceptionalSurtax(h)
	if !ok {
		return decimal.Zero, fmt.Errorf("%w: %q", ErrUnknownHousehold, h)
	}
	return schedule[0].Lower, nil
}

// ExceptionalSurtax applies the household's surtax schedule to reference
// income. It is zero at or below the threshold.
func ExceptionalSurtax(rfr decimal.Decimal, h domain.HouseholdType, t *domain.RuleTable) (domain.SurtaxDetail, error) {
	schedule, ok := t.ExceptionalSurtax(h)
	if !ok {
		return domain.SurtaxDetail{}, fmt.Errorf("%w: %q", ErrUnknownHousehold, h)
	}

	detail := domain.SurtaxDetail{
		Household: h,
		Base:      rfr,
		Threshold: schedule[0].Lower,
		Amount:    decimal.Zero,
	}
	if rfr.LessThanOrEqual(detail.Threshold) {
		return detail, nil
	}
	detail.Amount, detail.Breakdown = ApplyBrackets(rfr, schedule)
	return detail, nil
}

// MinimumRateSurtax tops liability up to the minimum effective rate on
// reference income. priorTax is net tax plus the exceptional surtax.
func MinimumRateSurtax(rfr, priorTax decimal.Decimal, h domain.HouseholdType, t *domain.RuleTable) (domain.MinimumRateDetail, error) {
	threshold, err := SurtaxThreshold(h, t)
	if err != nil {
		return domain.MinimumRateDetail{}, err
	}
	detail := domain.MinimumRateDetail{
		Threshold: threshold,
		PriorTax:  priorTax,
		Target:    decimal.Zero,
		Amount:    decimal.Zero,
	}

	rule, ok := t.MinimumRateSurtax()
	if !ok {
		detail.Reason = domain.MinimumRateNotInForce
		return detail, nil
	}
	detail.Rate = rule.Rate
	if rfr.LessThanOrEqual(threshold) {
		detail.Reason = domain.MinimumRateBelowThreshold
		return detail, nil
	}

	detail.Target = rfr.Mul(rule.Rate)
	if priorTax.GreaterThanOrEqual(detail.Target) {
		detail.Reason = domain.MinimumRateAlreadyMet
		return detail, nil
	}
	detail.Applicable = true
	detail.Amount = detail.Target.Sub(priorTax)
	return detail, nil
}
