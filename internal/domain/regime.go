package domain

import (
	"fmt"
	"strings"
)

// Regime identifies how professional income is determined for tax purposes.
// The set is closed: every switch over Regime must handle each value.
type Regime string

const (
	RegimeMicroBNC        Regime = "micro_bnc"
	RegimeMicroBICService Regime = "micro_bic_service"
	RegimeMicroBICVente   Regime = "micro_bic_vente"
	RegimeReelBNC         Regime = "reel_bnc"
	RegimeReelBIC         Regime = "reel_bic"
)

// IncomeStrategy is the taxable-income rule a regime carries.
type IncomeStrategy int

const (
	StrategyUnknown IncomeStrategy = iota
	// StrategyFlatAbatement taxes gross revenue less a fixed percentage.
	StrategyFlatAbatement
	// StrategyExpenses taxes gross revenue less declared expenses.
	StrategyExpenses
)

func (s IncomeStrategy) String() string {
	switch s {
	case StrategyFlatAbatement:
		return "flat_abatement"
	case StrategyExpenses:
		return "expenses"
	default:
		return "unknown"
	}
}

// Family groups regimes by the nature of the activity (BNC or BIC).
type Family string

const (
	FamilyBNC Family = "bnc"
	FamilyBIC Family = "bic"
)

// RegimePair is the flat-rate and expense-based variant of one activity.
type RegimePair struct {
	Flat    Regime `json:"flat"`
	Expense Regime `json:"expense"`
}

var allRegimes = []Regime{
	RegimeMicroBNC,
	RegimeMicroBICService,
	RegimeMicroBICVente,
	RegimeReelBNC,
	RegimeReelBIC,
}

// comparisonPairs is built once: each regime maps to the pair it is compared within.
// BIC has two flat variants; réel BIC defaults to the service abatement.
var comparisonPairs = map[Regime]RegimePair{
	RegimeMicroBNC:        {Flat: RegimeMicroBNC, Expense: RegimeReelBNC},
	RegimeReelBNC:         {Flat: RegimeMicroBNC, Expense: RegimeReelBNC},
	RegimeMicroBICService: {Flat: RegimeMicroBICService, Expense: RegimeReelBIC},
	RegimeMicroBICVente:   {Flat: RegimeMicroBICVente, Expense: RegimeReelBIC},
	RegimeReelBIC:         {Flat: RegimeMicroBICService, Expense: RegimeReelBIC},
}

// Regimes returns every supported regime in a stable order.
func Regimes() []Regime {
	out := make([]Regime, len(allRegimes))
	copy(out, allRegimes)
	return out
}

// FlatRegimes returns the regimes that use a flat abatement.
func FlatRegimes() []Regime {
	var out []Regime
	for _, r := range allRegimes {
		if r.Strategy() == StrategyFlatAbatement {
			out = append(out, r)
		}
	}
	return out
}

// ParseRegime converts a label into a Regime, rejecting anything outside the closed set.
func ParseRegime(s string) (Regime, error) {
	r := Regime(strings.ToLower(strings.TrimSpace(s)))
	if !r.Valid() {
		return "", fmt.Errorf("unknown regime %q", s)
	}
	return r, nil
}

// Valid reports whether r is one of the supported regimes.
func (r Regime) Valid() bool {
	return r.Strategy() != StrategyUnknown
}

// Strategy returns the taxable-income rule for the regime.
func (r Regime) Strategy() IncomeStrategy {
	switch r {
	case RegimeMicroBNC, RegimeMicroBICService, RegimeMicroBICVente:
		return StrategyFlatAbatement
	case RegimeReelBNC, RegimeReelBIC:
		return StrategyExpenses
	default:
		return StrategyUnknown
	}
}

// Family returns the activity family of the regime, or "" when unknown.
func (r Regime) Family() Family {
	switch r {
	case RegimeMicroBNC, RegimeReelBNC:
		return FamilyBNC
	case RegimeMicroBICService, RegimeMicroBICVente, RegimeReelBIC:
		return FamilyBIC
	default:
		return ""
	}
}

// DefaultActivity is the social-contribution classification implied by the regime.
func (r Regime) DefaultActivity() string {
	switch r {
	case RegimeMicroBNC, RegimeReelBNC:
		return ActivityBNC
	case RegimeMicroBICService, RegimeReelBIC:
		return ActivityBICService
	case RegimeMicroBICVente:
		return ActivityBICVente
	default:
		return ""
	}
}

// ComparisonPair returns the flat/expense pair the regime is compared within.
func (r Regime) ComparisonPair() (RegimePair, bool) {
	p, ok := comparisonPairs[r]
	return p, ok
}

func (r Regime) String() string { return string(r) }

// HouseholdType selects high-income surtax thresholds. It is independent of the part count.
type HouseholdType string

const (
	HouseholdSingle HouseholdType = "single"
	HouseholdCouple HouseholdType = "couple"
)

// Valid reports whether h is a known household type.
func (h HouseholdType) Valid() bool {
	return h == HouseholdSingle || h == HouseholdCouple
}

// Social-contribution activity classifications.
const (
	ActivityBNC        = "bnc"
	ActivityCIPAV      = "cipav"
	ActivityBICService = "bic_service"
	ActivityBICVente   = "bic_vente"
)

// RetirementStatusStandard is the retirement-deduction status every rule table must define.
const RetirementStatusStandard = "standard"
