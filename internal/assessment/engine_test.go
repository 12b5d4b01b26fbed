package assessment

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/rgehrsitz/irgo/internal/calculation"
	"github.com/rgehrsitz/irgo/internal/domain"
	"github.com/rgehrsitz/irgo/internal/rules"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func d(v int64) decimal.Decimal { return decimal.NewFromInt(v) }

func newEngine() *Engine {
	return NewEngine(rules.NewDefaultRegistry(), DefaultOptions())
}

// consistentProfile declares 28000 under micro BNC with contributions paid in full.
func consistentProfile() domain.Profile {
	return domain.Profile{
		Year: 2024,
		Person: domain.Person{
			Name:      "Camille",
			Parts:     d(1),
			Regime:    domain.RegimeMicroBNC,
			Household: domain.HouseholdSingle,
		},
		Income: domain.IncomeProfile{GrossRevenue: d(28000)},
		Social: domain.SocialDeclaration{
			DeclaredRevenue: d(28000),
			Paid:            d(5908),
		},
		Withheld: d(500),
	}
}

func hasWarning(warnings []string, fragment string) bool {
	for _, w := range warnings {
		if strings.Contains(w, fragment) {
			return true
		}
	}
	return false
}

func TestAssess_ConsistentProfile(t *testing.T) {
	result, err := newEngine().Assess(context.Background(), consistentProfile())
	require.NoError(t, err)

	assert.Equal(t, 2024, result.Year)
	assert.Equal(t, domain.HouseholdSingle, result.Household)
	assert.True(t, result.TaxableIncome.Equal(d(18480)))
	assert.True(t, result.TotalTax.Equal(decimal.RequireFromString("768.13")))

	assert.Equal(t, domain.ActivityBNC, result.Social.Activity)
	assert.False(t, result.Social.Fallback)
	assert.True(t, result.Social.Expected.Equal(d(5908)))
	assert.True(t, result.Social.Delta.IsZero())

	assert.True(t, result.Withholding.AmountDue.Equal(decimal.RequireFromString("268.13")))
	assert.False(t, result.Withholding.IsRefund())

	require.NotNil(t, result.Comparison)
	assert.Equal(t, domain.RegimeMicroBNC, result.Comparison.Recommended)

	assert.Empty(t, result.Warnings)
	assert.Len(t, result.InputFingerprint, 64)
	assert.NotEmpty(t, result.RulesSource.URL)
}

func TestAssess_Refund(t *testing.T) {
	p := consistentProfile()
	p.Withheld = d(1000)

	result, err := newEngine().Assess(context.Background(), p)
	require.NoError(t, err)

	assert.True(t, result.Withholding.IsRefund())
	assert.True(t, result.Withholding.AmountDue.Equal(decimal.RequireFromString("-231.87")))
}

func TestAssess_Failures(t *testing.T) {
	engine := newEngine()

	p := consistentProfile()
	p.Year = 2099
	_, err := engine.Assess(context.Background(), p)
	assert.True(t, errors.Is(err, rules.ErrRulesNotAvailable), "got %v", err)

	p = consistentProfile()
	p.Person.Regime = "micro_xyz"
	result, err := engine.Assess(context.Background(), p)
	assert.True(t, errors.Is(err, calculation.ErrUnknownRegime), "got %v", err)
	assert.Nil(t, result)

	p = consistentProfile()
	p.Person.Parts = decimal.Zero
	_, err = engine.Assess(context.Background(), p)
	assert.ErrorIs(t, err, calculation.ErrInvalidParts)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = engine.Assess(ctx, consistentProfile())
	assert.ErrorIs(t, err, context.Canceled)
}

func TestAssess_Warnings(t *testing.T) {
	tests := []struct {
		name     string
		mutate   func(*domain.Profile)
		fragment string
	}{
		{
			name:     "social shortfall",
			mutate:   func(p *domain.Profile) { p.Social.Paid = d(5000) },
			fragment: "fall short of the expected 5908.00 EUR by 908.00 EUR",
		},
		{
			name:     "social overpayment",
			mutate:   func(p *domain.Profile) { p.Social.Paid = d(6000) },
			fragment: "exceed the expected 5908.00 EUR by 92.00 EUR",
		},
		{
			name:     "unknown activity",
			mutate:   func(p *domain.Profile) { p.Social.Activity = "astrologer" },
			fragment: `social activity "astrologer" is not recognised; the default rate of 23.2% was used`,
		},
		{
			name:     "declared revenue mismatch",
			mutate:   func(p *domain.Profile) { p.Social.DeclaredRevenue = d(27000) },
			fragment: "differs from gross revenue",
		},
		{
			name: "approaching threshold",
			mutate: func(p *domain.Profile) {
				p.Income.GrossRevenue = d(72000)
				p.Social.DeclaredRevenue = d(72000)
				p.Social.Paid = d(15192)
			},
			fragment: "is at 93% of the micro_bnc threshold of 77700.00 EUR",
		},
		{
			name: "exceeds threshold",
			mutate: func(p *domain.Profile) {
				p.Income.GrossRevenue = d(80000)
				p.Social.DeclaredRevenue = d(80000)
				p.Social.Paid = d(16880)
			},
			fragment: "exceeds the micro_bnc threshold of 77700.00 EUR",
		},
		{
			name: "expenses under flat regime",
			mutate: func(p *domain.Profile) {
				p.Income.DeclaredExpenses = d(15000)
			},
			fragment: "are ignored under the flat-rate regime micro_bnc",
		},
		{
			name: "alternative regime cheaper",
			mutate: func(p *domain.Profile) {
				p.Income.DeclaredExpenses = d(15000)
			},
			fragment: "reel_bnc lowers total tax by",
		},
		{
			name:     "retirement excess",
			mutate:   func(p *domain.Profile) { p.Deductions.RetirementContribution = d(6000) },
			fragment: "exceeds its ceiling of 4399.00 EUR; 1601.00 EUR is not deductible",
		},
		{
			name:     "unknown retirement status",
			mutate:   func(p *domain.Profile) { p.Person.RetirementStatus = "freelance" },
			fragment: `retirement status "freelance" is not defined for 2024`,
		},
	}

	engine := newEngine()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := consistentProfile()
			tt.mutate(&p)

			result, err := engine.Assess(context.Background(), p)
			require.NoError(t, err)
			assert.True(t, hasWarning(result.Warnings, tt.fragment), "want %q in %v", tt.fragment, result.Warnings)
		})
	}
}

func TestAssess_ComparisonWarnings(t *testing.T) {
	reel := func(gross, expenses int64) domain.Profile {
		p := consistentProfile()
		p.Person.Regime = domain.RegimeReelBNC
		p.Income.GrossRevenue = d(gross)
		p.Income.DeclaredExpenses = d(expenses)
		p.Social.DeclaredRevenue = d(gross)
		return p
	}

	tests := []struct {
		name    string
		profile domain.Profile
		want    string
		absent  string
	}{
		{
			name:    "equal tax under both regimes",
			profile: reel(10000, 2000),
			absent:  "lowers total tax",
		},
		{
			name:    "flat regime cheaper",
			profile: reel(28000, 3500),
			want:    "micro_bnc lowers total tax by 662.20 EUR compared with reel_bnc",
		},
		{
			name:    "flat regime above its threshold",
			profile: reel(200000, 10000),
			want:    "micro_bnc would lower total tax by 24168.24 EUR compared with reel_bnc but is unavailable: gross revenue exceeds its threshold of 77700.00 EUR",
			absent:  "micro_bnc lowers total tax",
		},
	}

	engine := newEngine()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := engine.Assess(context.Background(), tt.profile)
			require.NoError(t, err)
			require.NotNil(t, result.Comparison)
			assert.Equal(t, domain.RegimeMicroBNC, result.Comparison.Recommended)

			if tt.want != "" {
				assert.True(t, hasWarning(result.Warnings, tt.want), "want %q in %v", tt.want, result.Warnings)
			}
			if tt.absent != "" {
				assert.False(t, hasWarning(result.Warnings, tt.absent), "unexpected %q in %v", tt.absent, result.Warnings)
			}
		})
	}
}

func TestAssess_SocialToleranceRespected(t *testing.T) {
	p := consistentProfile()
	p.Social.Paid = d(5900)

	result, err := newEngine().Assess(context.Background(), p)
	require.NoError(t, err)
	assert.Empty(t, result.Warnings)
}

func TestAssess_Deterministic(t *testing.T) {
	engine := newEngine()
	p := consistentProfile()
	p.Deductions.Donations = d(300)

	first, err := engine.Assess(context.Background(), p)
	require.NoError(t, err)
	second, err := engine.Assess(context.Background(), p)
	require.NoError(t, err)

	decimalEqual := cmp.Comparer(func(a, b decimal.Decimal) bool { return a.Equal(b) })
	if diff := cmp.Diff(first, second, decimalEqual); diff != "" {
		t.Errorf("Assess not deterministic (-first +second):\n%s", diff)
	}
}

func TestAssess_LogsWarnings(t *testing.T) {
	engine := newEngine()
	logger := &recordingLogger{}
	engine.SetLogger(logger)

	p := consistentProfile()
	p.Social.Paid = decimal.Zero
	_, err := engine.Assess(context.Background(), p)
	require.NoError(t, err)

	assert.True(t, hasWarning(logger.warnings, "fall short"), "%v", logger.warnings)

	engine.SetLogger(nil)
	assert.IsType(t, calculation.NopLogger{}, engine.Logger)
	assert.IsType(t, calculation.NopLogger{}, engine.Calc.Logger)
}

func TestAssessAll(t *testing.T) {
	engine := newEngine()
	engine.Options.Concurrency = 2

	var profiles []domain.Profile
	for i, gross := range []int64{20000, 40000, 60000, 80000, 100000} {
		p := consistentProfile()
		p.Person.Name = string(rune('A' + i))
		p.Person.Regime = domain.RegimeReelBNC
		p.Income.GrossRevenue = d(gross)
		profiles = append(profiles, p)
	}

	results, err := engine.AssessAll(context.Background(), profiles)
	require.NoError(t, err)
	require.Len(t, results, len(profiles))

	for i, r := range results {
		single, err := engine.Assess(context.Background(), profiles[i])
		require.NoError(t, err)
		assert.True(t, single.TotalTax.Equal(r.TotalTax), "profile %d out of order", i)
	}
}

func TestAssessAll_FirstErrorWins(t *testing.T) {
	profiles := []domain.Profile{consistentProfile(), consistentProfile()}
	profiles[1].Year = 1999

	results, err := newEngine().AssessAll(context.Background(), profiles)
	assert.Nil(t, results)
	assert.ErrorIs(t, err, rules.ErrRulesNotAvailable)
	assert.Contains(t, err.Error(), "profile 1 (Camille)")
}

func TestFingerprint(t *testing.T) {
	a, err := Fingerprint(consistentProfile())
	require.NoError(t, err)
	b, err := Fingerprint(consistentProfile())
	require.NoError(t, err)
	assert.Equal(t, a, b)

	p := consistentProfile()
	p.Withheld = d(501)
	c, err := Fingerprint(p)
	require.NoError(t, err)
	assert.NotEqual(t, a, c)
}

type recordingLogger struct {
	calculation.NopLogger
	warnings []string
}

func (l *recordingLogger) Warnf(format string, args ...any) {
	l.warnings = append(l.warnings, fmt.Sprintf(format, args...))
}
