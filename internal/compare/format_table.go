package compare

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// TableFormatter formats comparison results as a console table
type TableFormatter struct{}

// Format generates a formatted table comparing the two regimes
func (tf *TableFormatter) Format(compSet *ComparisonSet) string {
	var sb strings.Builder

	sb.WriteString("REGIME COMPARISON\n")
	sb.WriteString(strings.Repeat("=", 80) + "\n")
	if compSet.ProfileName != "" {
		sb.WriteString(fmt.Sprintf("Profile: %s\n", compSet.ProfileName))
	}
	sb.WriteString(fmt.Sprintf("Fiscal year: %d   Declared regime: %s\n", compSet.Year, compSet.Current))
	if compSet.ConfigPath != "" {
		sb.WriteString(fmt.Sprintf("Input: %s\n", compSet.ConfigPath))
	}
	sb.WriteString("\n")

	nameWidth := 22
	numWidth := 14

	sb.WriteString(fmt.Sprintf("%-*s %*s %*s %*s %*s\n",
		nameWidth, "Regime",
		numWidth, "Taxable",
		numWidth, "TMI",
		numWidth, "Net Tax",
		numWidth, "Total Tax"))
	sb.WriteString(strings.Repeat("-", 80) + "\n")

	sb.WriteString(tf.formatRow(compSet, &compSet.Flat, nameWidth, numWidth))
	sb.WriteString(tf.formatRow(compSet, &compSet.Expense, nameWidth, numWidth))
	sb.WriteString(strings.Repeat("=", 80) + "\n")

	delta := compSet.Comparison.Delta
	sb.WriteString(fmt.Sprintf("\nDelta (expense - flat): %s%s EUR\n", tf.deltaSymbol(delta), tf.formatDecimal(delta)))
	sb.WriteString(fmt.Sprintf("Recommended: %s\n", compSet.Comparison.Recommended))

	if len(compSet.Recommendations) > 0 {
		sb.WriteString("\nRECOMMENDATIONS\n")
		sb.WriteString(strings.Repeat("-", 80) + "\n")
		for _, rec := range compSet.Recommendations {
			sb.WriteString(fmt.Sprintf("- %s\n", rec))
		}
		sb.WriteString("\n")
	}

	return sb.String()
}

// formatRow formats a single regime row
func (tf *TableFormatter) formatRow(compSet *ComparisonSet, result *RegimeResult, nameWidth, numWidth int) string {
	name := string(result.Regime)
	if result.Regime == compSet.Current {
		name += " *"
	}
	if !result.Eligible {
		name += " (ineligible)"
	}
	c := result.Computation

	return fmt.Sprintf("%-*s %*s %*s %*s %*s\n",
		nameWidth, tf.truncate(name, nameWidth),
		numWidth, tf.formatDecimal(c.TaxableIncome),
		numWidth, c.MarginalRate.Mul(decimal.NewFromInt(100)).StringFixed(0)+"%",
		numWidth, tf.formatDecimal(c.NetTax),
		numWidth, tf.formatDecimal(c.TotalTax))
}

// formatDecimal formats a decimal for display, in thousands past 10 000
func (tf *TableFormatter) formatDecimal(d decimal.Decimal) string {
	if d.Abs().GreaterThanOrEqual(decimal.NewFromInt(1000000)) {
		return d.Div(decimal.NewFromInt(1000000)).StringFixed(2) + "M"
	} else if d.Abs().GreaterThanOrEqual(decimal.NewFromInt(10000)) {
		return d.Div(decimal.NewFromInt(1000)).StringFixed(1) + "K"
	}
	return d.StringFixed(2)
}

// deltaSymbol returns a + for positive deltas; negatives carry their own sign
func (tf *TableFormatter) deltaSymbol(delta decimal.Decimal) string {
	if delta.IsPositive() {
		return "+"
	}
	return ""
}

// truncate truncates a string to maxLen
func (tf *TableFormatter) truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen-3] + "..."
}

// FormatCompact creates a one-line summary of the comparison
func (tf *TableFormatter) FormatCompact(compSet *ComparisonSet) string {
	c := compSet.Comparison
	return fmt.Sprintf("%s: %s | %s: %s | recommended: %s",
		c.FlatRegime, tf.formatDecimal(c.FlatTax),
		c.ExpenseRegime, tf.formatDecimal(c.ExpenseTax),
		c.Recommended)
}
