package compare

import (
	"encoding/csv"
	"strconv"
	"strings"
)

// CSVFormatter formats comparison results as CSV, one row per regime
type CSVFormatter struct{}

// Format generates CSV output for comparison results
func (cf *CSVFormatter) Format(compSet *ComparisonSet) (string, error) {
	var sb strings.Builder
	writer := csv.NewWriter(&sb)

	header := []string{
		"Regime",
		"Role",
		"Eligible",
		"Professional Income",
		"Taxable Income",
		"Marginal Rate",
		"Net Tax",
		"Total Tax",
		"Delta vs Flat",
		"Recommended",
	}
	if err := writer.Write(header); err != nil {
		return "", err
	}

	if err := writer.Write(cf.formatRow(compSet, &compSet.Flat, "flat")); err != nil {
		return "", err
	}
	if err := writer.Write(cf.formatRow(compSet, &compSet.Expense, "expense")); err != nil {
		return "", err
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return "", err
	}

	return sb.String(), nil
}

// formatRow formats one regime as a CSV row
func (cf *CSVFormatter) formatRow(compSet *ComparisonSet, result *RegimeResult, role string) []string {
	c := result.Computation
	delta := c.TotalTax.Sub(compSet.Flat.Computation.TotalTax)
	return []string{
		string(result.Regime),
		role,
		strconv.FormatBool(result.Eligible),
		c.ProfessionalIncome.StringFixed(2),
		c.TaxableIncome.StringFixed(2),
		c.MarginalRate.StringFixed(2),
		c.NetTax.StringFixed(2),
		c.TotalTax.StringFixed(2),
		delta.StringFixed(2),
		strconv.FormatBool(compSet.Comparison.Recommended == result.Regime),
	}
}
