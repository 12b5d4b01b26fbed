package fiscal

import (
	"errors"
	"testing"

	"github.com/rgehrsitz/irgo/internal/domain"
	"github.com/rgehrsitz/irgo/internal/rules"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func loadTable(t *testing.T, year int) *domain.RuleTable {
	t.Helper()
	table, err := rules.NewDefaultRegistry().Load(year)
	require.NoError(t, err)
	return table
}

func d(v int64) decimal.Decimal { return decimal.NewFromInt(v) }

func assertDecimal(t *testing.T, want, got decimal.Decimal, msg string) {
	t.Helper()
	assert.True(t, want.Equal(got), "%s: want %s, got %s", msg, want, got)
}

func TestRetirementCeiling(t *testing.T) {
	table := loadTable(t, 2024)

	tests := []struct {
		name   string
		income decimal.Decimal
		status string
		want   decimal.Decimal
	}{
		{"clamped to max", d(500000), domain.RetirementStatusStandard, d(35194)},
		{"proportional", d(200000), domain.RetirementStatusStandard, d(20000)},
		{"floored at min", d(20000), domain.RetirementStatusStandard, d(4399)},
		{"zero income gets min", decimal.Zero, domain.RetirementStatusStandard, d(4399)},
		{"tns has a higher max", d(500000), "tns", d(50000)},
		{"unknown status uses standard", d(500000), "pharaoh", d(35194)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := RetirementCeiling(tt.income, tt.status, table)
			assertDecimal(t, tt.want, got, "ceiling")
		})
	}
}

func TestCapRetirementSplitsExcess(t *testing.T) {
	table := loadTable(t, 2024)

	ceiling := RetirementCeiling(d(500000), domain.RetirementStatusStandard, table)
	got := CapRetirement(d(40000), ceiling)

	assertDecimal(t, d(40000), got.Contribution, "contribution")
	assertDecimal(t, d(35194), got.Applied, "applied")
	assertDecimal(t, d(4806), got.Excess, "excess")
}

func TestCapRetirementUnderCeiling(t *testing.T) {
	got := CapRetirement(d(3000), d(35194))
	assertDecimal(t, d(3000), got.Applied, "applied")
	assert.True(t, got.Excess.IsZero())
}

func TestKnownRetirementStatus(t *testing.T) {
	table := loadTable(t, 2024)
	assert.True(t, KnownRetirementStatus("standard", table))
	assert.True(t, KnownRetirementStatus("tns", table))
	assert.False(t, KnownRetirementStatus("unknown", table))
}

func TestApplyReduction(t *testing.T) {
	table := loadTable(t, 2024)

	tests := []struct {
		name         string
		kind         domain.ReductionType
		requested    decimal.Decimal
		in           Inputs
		wantCeiling  decimal.Decimal
		wantEligible decimal.Decimal
		wantAmount   decimal.Decimal
	}{
		{
			name:         "donations capped at share of income",
			kind:         domain.ReductionDonations,
			requested:    d(8000),
			in:           Inputs{ReferenceIncome: d(30000)},
			wantCeiling:  d(6000),
			wantEligible: d(6000),
			wantAmount:   d(3960),
		},
		{
			name:         "home services under fixed ceiling",
			kind:         domain.ReductionHomeServices,
			requested:    d(5000),
			wantCeiling:  d(12000),
			wantEligible: d(5000),
			wantAmount:   d(2500),
		},
		{
			name:         "childcare per child",
			kind:         domain.ReductionChildcare,
			requested:    d(9000),
			in:           Inputs{Units: 2},
			wantCeiling:  d(7000),
			wantEligible: d(7000),
			wantAmount:   d(3500),
		},
		{
			name:         "childcare without children",
			kind:         domain.ReductionChildcare,
			requested:    d(2000),
			wantCeiling:  decimal.Zero,
			wantEligible: decimal.Zero,
			wantAmount:   decimal.Zero,
		},
		{
			name:         "donations with negative reference income",
			kind:         domain.ReductionDonations,
			requested:    d(100),
			in:           Inputs{ReferenceIncome: d(-5000)},
			wantCeiling:  decimal.Zero,
			wantEligible: decimal.Zero,
			wantAmount:   decimal.Zero,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ApplyReduction(tt.kind, tt.requested, tt.in, table)
			require.NoError(t, err)
			assertDecimal(t, tt.wantCeiling, got.Ceiling, "ceiling")
			assertDecimal(t, tt.wantEligible, got.Eligible, "eligible")
			assertDecimal(t, tt.wantAmount, got.Amount, "amount")
			assertDecimal(t, tt.requested.Sub(tt.wantEligible), got.Excess, "excess")
		})
	}
}

func TestCeilingDispatch(t *testing.T) {
	table := loadTable(t, 2024)

	got, err := Ceiling(MechanismRetirement, Inputs{ProfessionalIncome: d(100000), Status: "standard"}, table)
	require.NoError(t, err)
	assertDecimal(t, d(10000), got, "retirement")

	got, err = Ceiling(MechanismHomeServices, Inputs{}, table)
	require.NoError(t, err)
	assertDecimal(t, d(12000), got, "home services")

	got, err = Ceiling(MechanismRegimeThreshold, Inputs{Regime: domain.RegimeMicroBICVente}, table)
	require.NoError(t, err)
	assertDecimal(t, d(188700), got, "threshold")

	_, err = Ceiling(MechanismRegimeThreshold, Inputs{Regime: domain.RegimeReelBNC}, table)
	assert.Error(t, err)

	_, err = Ceiling(Mechanism("pinel"), Inputs{}, table)
	assert.True(t, errors.Is(err, ErrUnknownMechanism))
}

func TestParseMechanism(t *testing.T) {
	m, err := ParseMechanism("childcare")
	require.NoError(t, err)
	assert.Equal(t, MechanismChildcare, m)

	_, err = ParseMechanism("girardin")
	assert.ErrorIs(t, err, ErrUnknownMechanism)
}

func TestCapAndRemaining(t *testing.T) {
	table := loadTable(t, 2024)

	c := Cap(d(100), d(-5))
	assert.True(t, c.Eligible.IsZero())
	assertDecimal(t, d(100), c.Excess, "excess")

	capped, err := CapAmount(MechanismHomeServices, d(15000), Inputs{}, table)
	require.NoError(t, err)
	assertDecimal(t, d(3000), capped.Excess, "excess")

	left, err := Remaining(MechanismHomeServices, d(4000), Inputs{}, table)
	require.NoError(t, err)
	assertDecimal(t, d(8000), left, "remaining")

	left, err = Remaining(MechanismHomeServices, d(20000), Inputs{}, table)
	require.NoError(t, err)
	assert.True(t, left.IsZero())
}

func TestThresholds(t *testing.T) {
	table := loadTable(t, 2024)

	usage, ok := ThresholdUsage(domain.RegimeMicroBNC, d(69930), table)
	require.True(t, ok)
	assertDecimal(t, decimal.RequireFromString("0.9"), usage, "usage")

	_, ok = ThresholdUsage(domain.RegimeReelBIC, d(69930), table)
	assert.False(t, ok)

	assert.True(t, WithinThreshold(domain.RegimeMicroBNC, d(77700), table))
	assert.False(t, WithinThreshold(domain.RegimeMicroBNC, d(77701), table))
	assert.True(t, WithinThreshold(domain.RegimeReelBNC, d(1000000), table))
}
