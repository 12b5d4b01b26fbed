package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/rgehrsitz/irgo/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const singleProfileYAML = `
year: 2024
person:
  name: Camille
  parts: 1.5
  regime: MICRO_BNC
  household: single
income:
  gross_revenue: 28000
deductions:
  donations: 300
social:
  declared_revenue: 28000
  paid: 5908
withheld: 500
`

func TestParseSingleProfile(t *testing.T) {
	profiles, err := NewInputParser().Parse([]byte(singleProfileYAML))
	require.NoError(t, err)
	require.Len(t, profiles, 1)

	p := profiles[0]
	assert.Equal(t, 2024, p.Year)
	assert.Equal(t, "Camille", p.Person.Name)
	assert.Equal(t, domain.RegimeMicroBNC, p.Person.Regime, "regime label is normalised")
	assert.True(t, p.Person.Parts.Equal(decimal.RequireFromString("1.5")))
	assert.True(t, p.Income.GrossRevenue.Equal(decimal.NewFromInt(28000)))
	assert.True(t, p.Deductions.Donations.Equal(decimal.NewFromInt(300)))
	assert.True(t, p.Withheld.Equal(decimal.NewFromInt(500)))
}

func TestParseProfilesList(t *testing.T) {
	data := `
profiles:
  - year: 2024
    person: {name: A, parts: 1, regime: micro_bnc, household: single}
    income: {gross_revenue: 20000}
  - year: 2025
    person: {name: B, parts: 2, regime: reel_bic, household: couple}
    income: {gross_revenue: 90000, declared_expenses: 30000}
    social: {activity: bic_vente}
`
	profiles, err := NewInputParser().Parse([]byte(data))
	require.NoError(t, err)
	require.Len(t, profiles, 2)
	assert.Equal(t, "A", profiles[0].Person.Name)
	assert.Equal(t, domain.RegimeReelBIC, profiles[1].Person.Regime)
	assert.Equal(t, domain.HouseholdCouple, profiles[1].Person.Household)
	assert.Equal(t, domain.ActivityBICVente, profiles[1].Social.Activity)
}

func TestParseRejects(t *testing.T) {
	tests := []struct {
		name    string
		data    string
		wantErr string
	}{
		{"empty document", "", "no profiles provided"},
		{"not yaml", "year: [", "failed to parse YAML"},
		{"unknown field", singleProfileYAML + "bonus: 1\n", "field bonus not found"},
		{
			"list and inline",
			"year: 2024\nperson: {parts: 1, regime: micro_bnc, household: single}\nprofiles:\n  - year: 2024\n",
			"not both",
		},
		{"year out of range", "year: 1990\nperson: {parts: 1, regime: micro_bnc, household: single}\n", "year 1990 is out of range"},
		{"zero parts", "year: 2024\nperson: {parts: 0, regime: micro_bnc, household: single}\n", "parts must be positive"},
		{"odd parts", "year: 2024\nperson: {parts: 1.3, regime: micro_bnc, household: single}\n", "multiple of 0.25"},
		{"unknown regime", "year: 2024\nperson: {parts: 1, regime: micro_xyz, household: single}\n", "micro_xyz"},
		{"unknown household", "year: 2024\nperson: {parts: 1, regime: micro_bnc, household: widowed}\n", "household must be"},
		{
			"negative revenue",
			"year: 2024\nperson: {parts: 1, regime: micro_bnc, household: single}\nincome: {gross_revenue: -1}\n",
			"gross_revenue cannot be negative",
		},
		{
			"childcare without children",
			"year: 2024\nperson: {parts: 1, regime: micro_bnc, household: single}\ndeductions: {childcare: 1000}\n",
			"requires children_under_six",
		},
		{
			"negative paid",
			"year: 2024\nperson: {parts: 1, regime: micro_bnc, household: single}\nsocial: {paid: -5}\n",
			"paid cannot be negative",
		},
		{
			"negative withheld",
			"year: 2024\nperson: {parts: 1, regime: micro_bnc, household: single}\nwithheld: -5\n",
			"withheld cannot be negative",
		},
	}

	parser := NewInputParser()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := parser.Parse([]byte(tt.data))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestLoadFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "profile.yaml")
	require.NoError(t, os.WriteFile(path, []byte(singleProfileYAML), 0o600))

	profiles, err := NewInputParser().LoadFromFile(path)
	require.NoError(t, err)
	assert.Len(t, profiles, 1)

	_, err = NewInputParser().LoadFromFile(filepath.Join(dir, "missing.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read file")
}

func TestExampleProfilesParse(t *testing.T) {
	matches, err := filepath.Glob(filepath.Join("..", "..", "examples", "*.yaml"))
	require.NoError(t, err)
	require.NotEmpty(t, matches)

	for _, path := range matches {
		_, err := NewInputParser().LoadFromFile(path)
		assert.NoError(t, err, path)
	}
}
