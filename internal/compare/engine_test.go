package compare

import (
	"context"
	"errors"
	"testing"

	"github.com/rgehrsitz/irgo/internal/calculation"
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

func bncProfile(regime domain.Regime, gross, expenses int64) domain.Profile {
	return domain.Profile{
		Year: 2024,
		Person: domain.Person{
			Name:      "Camille",
			Parts:     d(1),
			Regime:    regime,
			Household: domain.HouseholdSingle,
		},
		Income: domain.IncomeProfile{
			GrossRevenue:     d(gross),
			DeclaredExpenses: d(expenses),
		},
	}
}

func TestCompare_ReelBeatsMicroWithHighExpenses(t *testing.T) {
	table := loadTable(t, 2024)
	cmp := NewComparator(nil)

	set, err := cmp.Compare(context.Background(), bncProfile(domain.RegimeReelBNC, 50000, 20000), table)
	require.NoError(t, err)

	c := set.Comparison
	assert.Equal(t, domain.FamilyBNC, c.Family)
	assert.Equal(t, domain.RegimeMicroBNC, c.FlatRegime)
	assert.Equal(t, domain.RegimeReelBNC, c.ExpenseRegime)
	assert.True(t, c.ExpenseTax.LessThan(c.FlatTax))
	assert.True(t, c.Delta.IsNegative(), "delta %s", c.Delta)
	// 30000 taxable vs 33000: 3000 more at 30%
	assert.True(t, c.Delta.Equal(d(-900)), "delta %s", c.Delta)
	assert.Equal(t, domain.RegimeReelBNC, c.Recommended)
	assert.True(t, c.FlatEligible)
}

func TestCompare_MicroKeptWithLowExpenses(t *testing.T) {
	table := loadTable(t, 2024)

	set, err := NewComparator(nil).Compare(context.Background(), bncProfile(domain.RegimeMicroBNC, 50000, 5000), table)
	require.NoError(t, err)

	assert.True(t, set.Comparison.Delta.IsPositive())
	assert.Equal(t, domain.RegimeMicroBNC, set.Comparison.Recommended)
}

func TestCompare_WithinToleranceKeepsFlat(t *testing.T) {
	table := loadTable(t, 2024)

	// 34% of 50000 equals the declared expenses, so both regimes tax 33000
	set, err := NewComparator(nil).Compare(context.Background(), bncProfile(domain.RegimeReelBNC, 50000, 17000), table)
	require.NoError(t, err)

	assert.True(t, set.Comparison.Delta.IsZero())
	assert.Equal(t, domain.RegimeMicroBNC, set.Comparison.Recommended)
}

func TestCompare_FlatIneligibleAboveThreshold(t *testing.T) {
	table := loadTable(t, 2024)

	set, err := NewComparator(nil).Compare(context.Background(), bncProfile(domain.RegimeReelBNC, 90000, 10000), table)
	require.NoError(t, err)

	assert.False(t, set.Comparison.FlatEligible)
	assert.False(t, set.Flat.Eligible)
	assert.True(t, set.Expense.Eligible)
	require.NotNil(t, set.Flat.Threshold)
	assert.True(t, set.Flat.Threshold.Equal(d(77700)))
	assert.Nil(t, set.Expense.Threshold)
}

func TestCompare_ReelBICUsesActivityForFlatVariant(t *testing.T) {
	table := loadTable(t, 2024)

	p := bncProfile(domain.RegimeReelBIC, 100000, 60000)
	set, err := NewComparator(nil).Compare(context.Background(), p, table)
	require.NoError(t, err)
	assert.Equal(t, domain.RegimeMicroBICService, set.Comparison.FlatRegime)

	p.Social.Activity = domain.ActivityBICVente
	set, err = NewComparator(nil).Compare(context.Background(), p, table)
	require.NoError(t, err)
	assert.Equal(t, domain.RegimeMicroBICVente, set.Comparison.FlatRegime)
	assert.Equal(t, domain.RegimeReelBIC, set.Comparison.ExpenseRegime)
	assert.Equal(t, domain.FamilyBIC, set.Comparison.Family)
}

func TestCompare_MicroBICVentePair(t *testing.T) {
	pair, err := Pair(bncProfile(domain.RegimeMicroBICVente, 1, 0))
	require.NoError(t, err)
	assert.Equal(t, domain.RegimePair{Flat: domain.RegimeMicroBICVente, Expense: domain.RegimeReelBIC}, pair)
}

func TestCompare_UnknownRegime(t *testing.T) {
	table := loadTable(t, 2024)

	_, err := NewComparator(nil).Compare(context.Background(), bncProfile("micro_xyz", 1000, 0), table)
	assert.True(t, errors.Is(err, ErrNoComparisonPair))
}

func TestCompare_CancelledContext(t *testing.T) {
	table := loadTable(t, 2024)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewComparator(nil).Compare(ctx, bncProfile(domain.RegimeMicroBNC, 1000, 0), table)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestBetween_Antisymmetric(t *testing.T) {
	table := loadTable(t, 2024)
	cmp := NewComparator(calculation.NewCalculator())

	pairs := [][2]domain.Regime{
		{domain.RegimeMicroBNC, domain.RegimeReelBNC},
		{domain.RegimeMicroBICService, domain.RegimeReelBIC},
		{domain.RegimeMicroBICVente, domain.RegimeMicroBICService},
	}
	for _, gross := range []int64{15000, 50000, 150000, 400000} {
		p := bncProfile(domain.RegimeMicroBNC, gross, gross/3)
		for _, pair := range pairs {
			ab, err := cmp.Between(p, table, pair[0], pair[1])
			require.NoError(t, err)
			ba, err := cmp.Between(p, table, pair[1], pair[0])
			require.NoError(t, err)
			assert.True(t, ab.Equal(ba.Neg()), "%s/%s at %d: %s vs %s", pair[0], pair[1], gross, ab, ba)
		}
	}
}

func TestBetween_MatchesCompareDelta(t *testing.T) {
	table := loadTable(t, 2024)
	cmp := NewComparator(nil)
	p := bncProfile(domain.RegimeMicroBNC, 60000, 25000)

	delta, err := cmp.Between(p, table, domain.RegimeMicroBNC, domain.RegimeReelBNC)
	require.NoError(t, err)
	set, err := cmp.Compare(context.Background(), p, table)
	require.NoError(t, err)

	assert.True(t, delta.Equal(set.Comparison.Delta))
}
