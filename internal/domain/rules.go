package domain

import (
	"maps"

	"github.com/shopspring/decimal"
)

// TaxBracket is one slice of a progressive schedule. A nil Upper means open-ended.
type TaxBracket struct {
	Rate  decimal.Decimal  `yaml:"rate" json:"rate"`
	Lower decimal.Decimal  `yaml:"lower" json:"lower"`
	Upper *decimal.Decimal `yaml:"upper,omitempty" json:"upper,omitempty"`
}

// Width returns the bracket span and false when the bracket is open-ended.
func (b TaxBracket) Width() (decimal.Decimal, bool) {
	if b.Upper == nil {
		return decimal.Zero, false
	}
	return b.Upper.Sub(b.Lower), true
}

func (b TaxBracket) clone() TaxBracket {
	out := TaxBracket{Rate: b.Rate, Lower: b.Lower}
	if b.Upper != nil {
		u := *b.Upper
		out.Upper = &u
	}
	return out
}

func cloneBrackets(in []TaxBracket) []TaxBracket {
	if in == nil {
		return nil
	}
	out := make([]TaxBracket, len(in))
	for i, b := range in {
		out[i] = b.clone()
	}
	return out
}

// SocialRates maps activity classification to contribution rate
type SocialRates struct {
	Rates       map[string]decimal.Decimal `yaml:"rates" json:"rates"`
	DefaultRate decimal.Decimal            `yaml:"default_rate" json:"defaultRate"`
}

// RetirementRule holds the retirement-savings (PER) deduction ceiling parameters
type RetirementRule struct {
	BaseRate           decimal.Decimal            `yaml:"base_rate" json:"baseRate"`
	MinCeiling         decimal.Decimal            `yaml:"min_ceiling" json:"minCeiling"`
	MaxCeilingByStatus map[string]decimal.Decimal `yaml:"max_ceiling_by_status" json:"maxCeilingByStatus"`
}

// ReductionType names a tax reduction or credit.
type ReductionType string

const (
	ReductionDonations    ReductionType = "donations"
	ReductionHomeServices ReductionType = "home_services"
	ReductionChildcare    ReductionType = "childcare"
)

// ReductionTypes returns the supported reductions in evaluation order.
func ReductionTypes() []ReductionType {
	return []ReductionType{ReductionDonations, ReductionHomeServices, ReductionChildcare}
}

// CeilingKind is how a reduction ceiling is derived.
type CeilingKind string

const (
	CeilingFixed           CeilingKind = "fixed"
	CeilingPercentOfIncome CeilingKind = "percent_of_income"
	CeilingPerUnit         CeilingKind = "per_unit"
)

// CeilingRule caps the spend eligible for a reduction
type CeilingRule struct {
	Kind    CeilingKind     `yaml:"kind" json:"kind"`
	Amount  decimal.Decimal `yaml:"amount,omitempty" json:"amount,omitempty"`
	Percent decimal.Decimal `yaml:"percent,omitempty" json:"percent,omitempty"`
	PerUnit decimal.Decimal `yaml:"per_unit,omitempty" json:"perUnit,omitempty"`
}

// ReductionRule is the rate applied to eligible spend and the cap on that spend
type ReductionRule struct {
	Rate    decimal.Decimal `yaml:"rate" json:"rate"`
	Ceiling CeilingRule     `yaml:"ceiling" json:"ceiling"`
}

// MinimumRateRule is the minimum effective tax rate on reference fiscal income
type MinimumRateRule struct {
	Rate decimal.Decimal `yaml:"rate" json:"rate"`
}

// Provenance records where a rule table's figures come from
type Provenance struct {
	URL  string `yaml:"url" json:"url"`
	Date string `yaml:"date" json:"date"`
}

// RuleParams is the decoded form of a yearly rule file. Section pointers and
// maps are nil when the section is absent so the loader can detect it.
type RuleParams struct {
	Year              int                             `yaml:"year" json:"year"`
	Source            *Provenance                     `yaml:"source" json:"source"`
	Brackets          []TaxBracket                    `yaml:"brackets" json:"brackets"`
	Abatements        map[Regime]decimal.Decimal      `yaml:"abatements" json:"abatements"`
	Social            *SocialRates                    `yaml:"social_contributions" json:"socialContributions"`
	Retirement        *RetirementRule                 `yaml:"retirement" json:"retirement"`
	Reductions        map[ReductionType]ReductionRule `yaml:"reductions" json:"reductions"`
	RegimeThresholds  map[Regime]decimal.Decimal      `yaml:"regime_thresholds" json:"regimeThresholds"`
	ExceptionalSurtax map[HouseholdType][]TaxBracket  `yaml:"exceptional_surtax" json:"exceptionalSurtax"`
	MinimumRateSurtax *MinimumRateRule                `yaml:"minimum_rate_surtax,omitempty" json:"minimumRateSurtax,omitempty"`
}

// RuleTable is the validated, immutable set of fiscal parameters for one year.
// All accessors return copies; nothing handed out aliases internal state.
type RuleTable struct {
	year              int
	source            Provenance
	brackets          []TaxBracket
	abatements        map[Regime]decimal.Decimal
	social            SocialRates
	retirement        RetirementRule
	reductions        map[ReductionType]ReductionRule
	thresholds        map[Regime]decimal.Decimal
	exceptionalSurtax map[HouseholdType][]TaxBracket
	minimumRate       *MinimumRateRule
}

// NewRuleTable builds a RuleTable from decoded parameters, copying everything.
// Presence of sections is the loader's concern; absent sections become empty.
func NewRuleTable(p RuleParams) *RuleTable {
	t := &RuleTable{
		year:       p.Year,
		brackets:   cloneBrackets(p.Brackets),
		abatements: maps.Clone(p.Abatements),
		reductions: maps.Clone(p.Reductions),
		thresholds: maps.Clone(p.RegimeThresholds),
	}
	if p.Source != nil {
		t.source = *p.Source
	}
	if p.Social != nil {
		t.social = SocialRates{Rates: maps.Clone(p.Social.Rates), DefaultRate: p.Social.DefaultRate}
	}
	if p.Retirement != nil {
		t.retirement = RetirementRule{
			BaseRate:           p.Retirement.BaseRate,
			MinCeiling:         p.Retirement.MinCeiling,
			MaxCeilingByStatus: maps.Clone(p.Retirement.MaxCeilingByStatus),
		}
	}
	t.exceptionalSurtax = make(map[HouseholdType][]TaxBracket, len(p.ExceptionalSurtax))
	for h, bs := range p.ExceptionalSurtax {
		t.exceptionalSurtax[h] = cloneBrackets(bs)
	}
	if p.MinimumRateSurtax != nil {
		m := *p.MinimumRateSurtax
		t.minimumRate = &m
	}
	return t
}

// Params returns a deep copy of the table in its decoded form.
func (t *RuleTable) Params() RuleParams {
	src := t.source
	social := t.Social()
	ret := t.Retirement()
	p := RuleParams{
		Year:              t.year,
		Source:            &src,
		Brackets:          t.Brackets(),
		Abatements:        maps.Clone(t.abatements),
		Social:            &social,
		Retirement:        &ret,
		Reductions:        maps.Clone(t.reductions),
		RegimeThresholds:  maps.Clone(t.thresholds),
		ExceptionalSurtax: make(map[HouseholdType][]TaxBracket, len(t.exceptionalSurtax)),
	}
	for h, bs := range t.exceptionalSurtax {
		p.ExceptionalSurtax[h] = cloneBrackets(bs)
	}
	if m, ok := t.MinimumRateSurtax(); ok {
		p.MinimumRateSurtax = &m
	}
	return p
}

// Year is the fiscal year the table applies to.
func (t *RuleTable) Year() int { return t.year }

// Source returns the provenance block.
func (t *RuleTable) Source() Provenance { return t.source }

// Brackets returns the income-tax schedule in ascending order.
func (t *RuleTable) Brackets() []TaxBracket { return cloneBrackets(t.brackets) }

// Abatement returns the flat abatement rate for a regime.
func (t *RuleTable) Abatement(r Regime) (decimal.Decimal, bool) {
	rate, ok := t.abatements[r]
	return rate, ok
}

// SocialRate returns the contribution rate for an activity classification.
func (t *RuleTable) SocialRate(activity string) (decimal.Decimal, bool) {
	rate, ok := t.social.Rates[activity]
	return rate, ok
}

// DefaultSocialRate is the conservative rate used for unknown activities.
func (t *RuleTable) DefaultSocialRate() decimal.Decimal { return t.social.DefaultRate }

// Social returns a copy of the social-contribution section.
func (t *RuleTable) Social() SocialRates {
	return SocialRates{Rates: maps.Clone(t.social.Rates), DefaultRate: t.social.DefaultRate}
}

// Retirement returns a copy of the retirement-deduction parameters.
func (t *RuleTable) Retirement() RetirementRule {
	return RetirementRule{
		BaseRate:           t.retirement.BaseRate,
		MinCeiling:         t.retirement.MinCeiling,
		MaxCeilingByStatus: maps.Clone(t.retirement.MaxCeilingByStatus),
	}
}

// RetirementMaxCeiling returns the max ceiling for a status.
func (t *RuleTable) RetirementMaxCeiling(status string) (decimal.Decimal, bool) {
	c, ok := t.retirement.MaxCeilingByStatus[status]
	return c, ok
}

// Reduction returns the rule for a reduction type.
func (t *RuleTable) Reduction(kind ReductionType) (ReductionRule, bool) {
	r, ok := t.reductions[kind]
	return r, ok
}

// RegimeThreshold returns the revenue ceiling for a regime, if it has one.
func (t *RuleTable) RegimeThreshold(r Regime) (decimal.Decimal, bool) {
	th, ok := t.thresholds[r]
	return th, ok
}

// ExceptionalSurtax returns the surtax schedule for a household type.
func (t *RuleTable) ExceptionalSurtax(h HouseholdType) ([]TaxBracket, bool) {
	bs, ok := t.exceptionalSurtax[h]
	if !ok || len(bs) == 0 {
		return nil, false
	}
	return cloneBrackets(bs), true
}

// MinimumRateSurtax returns the minimum-rate rule when it is in force for the year.
func (t *RuleTable) MinimumRateSurtax() (MinimumRateRule, bool) {
	if t.minimumRate == nil {
		return MinimumRateRule{}, false
	}
	return *t.minimumRate, true
}
