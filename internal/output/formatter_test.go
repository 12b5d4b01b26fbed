package output

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"testing"

	"github.com/rgehrsitz/irgo/internal/assessment"
	"github.com/rgehrsitz/irgo/internal/domain"
	"github.com/rgehrsitz/irgo/internal/rules"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func buildTestResults(t *testing.T) []*domain.CalculationResult {
	t.Helper()
	p := domain.Profile{
		Year: 2024,
		Person: domain.Person{
			Name:      "Camille",
			Parts:     decimal.NewFromInt(1),
			Regime:    domain.RegimeMicroBNC,
			Household: domain.HouseholdSingle,
		},
		Income:     domain.IncomeProfile{GrossRevenue: decimal.NewFromInt(28000)},
		Deductions: domain.DeductionProfile{Donations: decimal.NewFromInt(300)},
		Social: domain.SocialDeclaration{
			DeclaredRevenue: decimal.NewFromInt(28000),
			Paid:            decimal.NewFromInt(5000),
		},
		Withheld: decimal.NewFromInt(1000),
	}
	engine := assessment.NewEngine(rules.NewDefaultRegistry(), assessment.DefaultOptions())
	r, err := engine.Assess(context.Background(), p)
	require.NoError(t, err)
	return []*domain.CalculationResult{r}
}

func TestFormatterFunc(t *testing.T) {
	var received []*domain.CalculationResult
	f := FormatterFunc{
		ID: "test-formatter",
		F: func(results []*domain.CalculationResult) ([]byte, error) {
			received = results
			return []byte("test output"), nil
		},
	}

	results := buildTestResults(t)
	out, err := f.Format(results)
	require.NoError(t, err)
	assert.Equal(t, "test-formatter", f.Name())
	assert.Equal(t, results, received)
	assert.Equal(t, []byte("test output"), out)
}

func TestWriteFormatted(t *testing.T) {
	t.Chdir(t.TempDir())

	f := FormatterFunc{ID: "txt", F: func([]*domain.CalculationResult) ([]byte, error) {
		return []byte("report body"), nil
	}}
	filename, err := WriteFormatted(f, nil, "txt")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(filename, "tax_report_"))
	assert.True(t, strings.HasSuffix(filename, ".txt"))

	content, err := os.ReadFile(filename)
	require.NoError(t, err)
	assert.Equal(t, "report body", string(content))

	failing := FormatterFunc{ID: "bad", F: func([]*domain.CalculationResult) ([]byte, error) {
		return nil, fmt.Errorf("formatter error")
	}}
	filename, err = WriteFormatted(failing, nil, "txt")
	assert.Empty(t, filename)
	assert.ErrorContains(t, err, "formatter error")
}

func TestConsoleFormatter(t *testing.T) {
	out, err := ConsoleFormatter{}.Format(buildTestResults(t))
	require.NoError(t, err)

	content := string(out)
	for _, want := range []string{
		"INCOME TAX ASSESSMENT 2024: Camille",
		"18480.00 EUR",
		"11.0%",
		"donations",
		"Total tax",
		"Refund",
		"REGIME COMPARISON",
		"WARNINGS",
		"fall short",
	} {
		assert.Contains(t, content, want)
	}
}

func TestConsoleLiteFormatter(t *testing.T) {
	out, err := ConsoleLiteFormatter{}.Format(buildTestResults(t))
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(string(out)), "\n")
	require.Len(t, lines, 5)
	assert.Contains(t, lines[4], "Camille")
	assert.Contains(t, lines[4], "micro_bnc")
	assert.Contains(t, lines[4], "18480.00")
}

func TestCSVFormatter(t *testing.T) {
	results := buildTestResults(t)
	out, err := CSVFormatter{}.Format(results)
	require.NoError(t, err)

	records, err := csv.NewReader(strings.NewReader(string(out))).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, len(records[0]), len(records[1]))
	assert.Equal(t, "Camille", records[1][0])
	assert.Equal(t, "2024", records[1][1])
	assert.Equal(t, results[0].TotalTax.StringFixed(2), records[1][12])
}

func TestJSONFormatter(t *testing.T) {
	results := buildTestResults(t)

	out, err := JSONFormatter{Pretty: true}.Format(results)
	require.NoError(t, err)
	var single map[string]any
	require.NoError(t, json.Unmarshal(out, &single))
	assert.Equal(t, "Camille", single["name"])
	assert.Contains(t, single, "exceptionalSurtax")

	out, err = JSONFormatter{}.Format(append(results, results[0]))
	require.NoError(t, err)
	var many []map[string]any
	require.NoError(t, json.Unmarshal(out, &many))
	assert.Len(t, many, 2)
}

func TestHTMLFormatter(t *testing.T) {
	out, err := HTMLFormatter{}.Format(buildTestResults(t))
	require.NoError(t, err)

	content := string(out)
	assert.Contains(t, content, "<!DOCTYPE html>")
	assert.Contains(t, content, "Income tax assessment 2024: Camille")
	assert.Contains(t, content, "Reduction: donations")
}

func TestGetFormatterByName(t *testing.T) {
	for _, name := range AvailableFormatterNames() {
		f, err := GetFormatterByName(name)
		require.NoError(t, err)
		assert.Equal(t, name, f.Name())
	}
	for alias, target := range AvailableFormatAliases() {
		f, err := GetFormatterByName(strings.ToUpper(alias))
		require.NoError(t, err)
		assert.Equal(t, target, f.Name())
	}

	_, err := GetFormatterByName("pdf")
	assert.ErrorContains(t, err, "unsupported format: pdf")
	assert.Equal(t, []string{"console", "console-lite", "csv", "html", "json"}, AvailableFormatterNames())
}

func TestFormatHelpers(t *testing.T) {
	assert.Equal(t, "1234.57 EUR", FormatCurrency(decimal.RequireFromString("1234.565")))
	assert.Equal(t, "11.0%", FormatPercentage(decimal.RequireFromString("0.11")))
	assert.Equal(t, "+5.00 EUR", signed(decimal.NewFromInt(5)))
	assert.Equal(t, "-5.00 EUR", signed(decimal.NewFromInt(-5)))
}
