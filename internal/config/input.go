package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/rgehrsitz/irgo/internal/domain"
	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

// InputParser handles parsing of profile input files
type InputParser struct{}

// NewInputParser creates a new input parser
func NewInputParser() *InputParser {
	return &InputParser{}
}

// profileDocument accepts either a single profile at the top level or a
// "profiles" list.
type profileDocument struct {
	Profiles       []domain.Profile `yaml:"profiles"`
	domain.Profile `yaml:",inline"`
}

// LoadFromFile loads and validates the profiles in a YAML file
func (ip *InputParser) LoadFromFile(filename string) ([]domain.Profile, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read file %s: %w", filename, err)
	}
	profiles, err := ip.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filename, err)
	}
	return profiles, nil
}

// Parse decodes and validates profiles from YAML
func (ip *InputParser) Parse(data []byte) ([]domain.Profile, error) {
	var doc profileDocument
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&doc); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("no profiles provided")
		}
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	profiles := doc.Profiles
	if len(profiles) == 0 {
		profiles = []domain.Profile{doc.Profile}
	} else if doc.Year != 0 || doc.Person.Regime != "" {
		return nil, fmt.Errorf("use either a single top-level profile or a profiles list, not both")
	}

	for i := range profiles {
		if err := ip.ValidateProfile(&profiles[i]); err != nil {
			return nil, fmt.Errorf("profile %d (%s) validation failed: %w", i, profiles[i].Person.Name, err)
		}
	}
	return profiles, nil
}

// ValidateProfile validates a profile and normalises its regime label
func (ip *InputParser) ValidateProfile(p *domain.Profile) error {
	if p.Year < 2000 || p.Year > 2100 {
		return fmt.Errorf("year %d is out of range", p.Year)
	}
	if err := ip.validatePerson(&p.Person); err != nil {
		return fmt.Errorf("person validation failed: %w", err)
	}
	if err := ip.validateIncome(&p.Income); err != nil {
		return fmt.Errorf("income validation failed: %w", err)
	}
	if err := ip.validateDeductions(&p.Deductions); err != nil {
		return fmt.Errorf("deductions validation failed: %w", err)
	}
	if err := ip.validateSocial(&p.Social); err != nil {
		return fmt.Errorf("social declaration validation failed: %w", err)
	}
	if p.Withheld.IsNegative() {
		return fmt.Errorf("withheld cannot be negative")
	}
	return nil
}

// validatePerson validates the household facts
func (ip *InputParser) validatePerson(person *domain.Person) error {
	if !person.Parts.IsPositive() {
		return fmt.Errorf("parts must be positive, got %s", person.Parts)
	}
	// part counts move in quarter steps
	if !person.Parts.Mul(decimal.NewFromInt(4)).IsInteger() {
		return fmt.Errorf("parts must be a multiple of 0.25, got %s", person.Parts)
	}

	regime, err := domain.ParseRegime(string(person.Regime))
	if err != nil {
		return err
	}
	person.Regime = regime

	if !person.Household.Valid() {
		return fmt.Errorf("household must be %q or %q, got %q",
			domain.HouseholdSingle, domain.HouseholdCouple, person.Household)
	}
	return nil
}

// validateIncome validates the income profile
func (ip *InputParser) validateIncome(income *domain.IncomeProfile) error {
	fields := []struct {
		name  string
		value decimal.Decimal
	}{
		{"gross_revenue", income.GrossRevenue},
		{"declared_expenses", income.DeclaredExpenses},
		{"salary_pension", income.SalaryPension},
		{"rental", income.Rental},
		{"capital", income.Capital},
	}
	for _, f := range fields {
		if f.value.IsNegative() {
			return fmt.Errorf("%s cannot be negative", f.name)
		}
	}
	return nil
}

// validateDeductions validates deductions and reduction inputs
func (ip *InputParser) validateDeductions(d *domain.DeductionProfile) error {
	fields := []struct {
		name  string
		value decimal.Decimal
	}{
		{"retirement_contribution", d.RetirementContribution},
		{"alimony_paid", d.AlimonyPaid},
		{"other_deductions", d.OtherDeductions},
		{"donations", d.Donations},
		{"home_services", d.HomeServices},
		{"childcare", d.Childcare},
	}
	for _, f := range fields {
		if f.value.IsNegative() {
			return fmt.Errorf("%s cannot be negative", f.name)
		}
	}
	if d.ChildrenUnderSix < 0 {
		return fmt.Errorf("children_under_six cannot be negative")
	}
	if d.Childcare.IsPositive() && d.ChildrenUnderSix == 0 {
		return fmt.Errorf("childcare spend requires children_under_six")
	}
	return nil
}

// validateSocial validates the social-contribution declaration
func (ip *InputParser) validateSocial(s *domain.SocialDeclaration) error {
	if s.DeclaredRevenue.IsNegative() {
		return fmt.Errorf("declared_revenue cannot be negative")
	}
	if s.Paid.IsNegative() {
		return fmt.Errorf("paid cannot be negative")
	}
	return nil
}
