// Package fiscal holds the pure ceiling and capping functions shared by the
// tax calculator and by anything downstream that needs to reason about how
// much room a household has left under a capped mechanism. Every function is
// a pure function of its arguments and the rule table.
package fiscal

import (
	"errors"
	"fmt"

	"github.com/rgehrsitz/irgo/internal/domain"
	"github.com/shopspring/decimal"
)

// ErrUnknownMechanism is returned for a mechanism name with no ceiling rule.
var ErrUnknownMechanism = errors.New("unknown mechanism")

// Mechanism names a capped fiscal mechanism.
type Mechanism string

const (
	MechanismRetirement      Mechanism = "retirement"
	MechanismDonations       Mechanism = Mechanism(domain.ReductionDonations)
	MechanismHomeServices    Mechanism = Mechanism(domain.ReductionHomeServices)
	MechanismChildcare       Mechanism = Mechanism(domain.ReductionChildcare)
	MechanismRegimeThreshold Mechanism = "regime_threshold"
)

// Mechanisms lists every supported mechanism.
func Mechanisms() []Mechanism {
	return []Mechanism{
		MechanismRetirement,
		MechanismDonations,
		MechanismHomeServices,
		MechanismChildcare,
		MechanismRegimeThreshold,
	}
}

// ParseMechanism validates a mechanism name.
func ParseMechanism(name string) (Mechanism, error) {
	for _, m := range Mechanisms() {
		if string(m) == name {
			return m, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownMechanism, name)
}

// Inputs carries the base figures a ceiling may depend on. Each mechanism
// reads only the fields it needs.
type Inputs struct {
	ProfessionalIncome decimal.Decimal // retirement
	Status             string          // retirement
	ReferenceIncome    decimal.Decimal // percent_of_income reductions
	Units              int             // per_unit reductions
	Regime             domain.Regime   // regime_threshold
}

// Capped is a requested amount split at a ceiling.
type Capped struct {
	Requested decimal.Decimal
	Ceiling   decimal.Decimal
	Eligible  decimal.Decimal
	Excess    decimal.Decimal
}

// Cap splits requested into the part within ceiling and the remainder.
// A negative ceiling is treated as zero room.
func Cap(requested, ceiling decimal.Decimal) Capped {
	if ceiling.IsNegative() {
		ceiling = decimal.Zero
	}
	eligible := decimal.Min(requested, ceiling)
	return Capped{
		Requested: requested,
		Ceiling:   ceiling,
		Eligible:  eligible,
		Excess:    requested.Sub(eligible),
	}
}

// Ceiling returns the ceiling of the named mechanism.
func Ceiling(m Mechanism, in Inputs, t *domain.RuleTable) (decimal.Decimal, error) {
	switch m {
	case MechanismRetirement:
		return RetirementCeiling(in.ProfessionalIncome, in.Status, t), nil
	case MechanismDonations, MechanismHomeServices, MechanismChildcare:
		return ReductionCeiling(domain.ReductionType(m), in, t)
	case MechanismRegimeThreshold:
		th, ok := RegimeThreshold(in.Regime, t)
		if !ok {
			return decimal.Zero, fmt.Errorf("regime %s has no revenue threshold", in.Regime)
		}
		return th, nil
	default:
		return decimal.Zero, fmt.Errorf("%w: %q", ErrUnknownMechanism, m)
	}
}

// CapAmount splits requested at the named mechanism's ceiling.
func CapAmount(m Mechanism, requested decimal.Decimal, in Inputs, t *domain.RuleTable) (Capped, error) {
	ceiling, err := Ceiling(m, in, t)
	if err != nil {
		return Capped{}, err
	}
	return Cap(requested, ceiling), nil
}

// Remaining is the headroom left under a mechanism's ceiling after amount.
func Remaining(m Mechanism, amount decimal.Decimal, in Inputs, t *domain.RuleTable) (decimal.Decimal, error) {
	ceiling, err := Ceiling(m, in, t)
	if err != nil {
		return decimal.Zero, err
	}
	return decimal.Max(decimal.Zero, ceiling.Sub(amount)), nil
}
