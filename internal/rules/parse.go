package rules

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/rgehrsitz/irgo/internal/domain"
	"gopkg.in/yaml.v3"
)

var (
	// ErrRulesNotAvailable means no rule table exists for the requested year.
	ErrRulesNotAvailable = errors.New("rules not available")
	// ErrMalformedRules means a rule table is missing a required section.
	ErrMalformedRules = errors.New("malformed rules")
)

// Parse decodes a rule file and checks that every required section is present.
// It does not check bracket contiguity or rate ordering; see Check.
func Parse(year int, data []byte) (*domain.RuleTable, error) {
	var params domain.RuleParams
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&params); err != nil {
		return nil, fmt.Errorf("%w: year %d: failed to parse YAML: %v", ErrMalformedRules, year, err)
	}
	if params.Year == 0 {
		params.Year = year
	}
	if params.Year != year {
		return nil, fmt.Errorf("%w: file for %d declares year %d", ErrMalformedRules, year, params.Year)
	}
	if err := requireSections(&params); err != nil {
		return nil, fmt.Errorf("%w: year %d: %v", ErrMalformedRules, year, err)
	}
	return domain.NewRuleTable(params), nil
}

func requireSections(p *domain.RuleParams) error {
	if len(p.Brackets) == 0 {
		return fmt.Errorf("brackets section is required")
	}
	if p.Abatements == nil {
		return fmt.Errorf("abatements section is required")
	}
	for _, r := range domain.FlatRegimes() {
		if _, ok := p.Abatements[r]; !ok {
			return fmt.Errorf("abatements: missing rate for %s", r)
		}
	}
	if p.Social == nil || len(p.Social.Rates) == 0 {
		return fmt.Errorf("social_contributions section is required")
	}
	if p.Retirement == nil {
		return fmt.Errorf("retirement section is required")
	}
	if _, ok := p.Retirement.MaxCeilingByStatus[domain.RetirementStatusStandard]; !ok {
		return fmt.Errorf("retirement: max_ceiling_by_status must define %q", domain.RetirementStatusStandard)
	}
	if p.Reductions == nil {
		return fmt.Errorf("reductions section is required")
	}
	for _, kind := range domain.ReductionTypes() {
		if _, ok := p.Reductions[kind]; !ok {
			return fmt.Errorf("reductions: missing %s", kind)
		}
	}
	if p.RegimeThresholds == nil {
		return fmt.Errorf("regime_thresholds section is required")
	}
	for _, h := range []domain.HouseholdType{domain.HouseholdSingle, domain.HouseholdCouple} {
		if len(p.ExceptionalSurtax[h]) == 0 {
			return fmt.Errorf("exceptional_surtax: missing %s schedule", h)
		}
	}
	if p.Source == nil {
		return fmt.Errorf("source section is required")
	}
	return nil
}
