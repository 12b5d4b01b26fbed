package output

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/rgehrsitz/irgo/internal/domain"
	"github.com/shopspring/decimal"
)

const labelWidth = 30

// ConsoleFormatter renders the detailed, step-by-step assessment.
type ConsoleFormatter struct{}

func (c ConsoleFormatter) Name() string { return "console" }

func (c ConsoleFormatter) Format(results []*domain.CalculationResult) ([]byte, error) {
	var buf bytes.Buffer
	for i, r := range results {
		if i > 0 {
			fmt.Fprintln(&buf)
		}
		writeResult(&buf, r)
	}
	return buf.Bytes(), nil
}

func writeResult(buf *bytes.Buffer, r *domain.CalculationResult) {
	title := fmt.Sprintf("INCOME TAX ASSESSMENT %d", r.Year)
	if r.Name != "" {
		title += ": " + r.Name
	}
	fmt.Fprintln(buf, TitleStyle.Render(title))

	section(buf, "INCOME")
	row(buf, "Regime", r.Regime.String())
	row(buf, "Professional income", FormatCurrency(r.ProfessionalIncome))
	row(buf, "Total income", FormatCurrency(r.TotalIncome))
	if !r.Retirement.Contribution.IsZero() {
		row(buf, "Retirement deduction", fmt.Sprintf("%s (ceiling %s)",
			FormatCurrency(r.Retirement.Applied), FormatCurrency(r.Retirement.Ceiling)))
	}
	row(buf, "Taxable income", FormatCurrency(r.TaxableIncome))
	row(buf, "Parts", r.Parts.String())
	row(buf, "Income per part", FormatCurrency(r.PerPartIncome))
	row(buf, "Marginal rate", FormatPercentage(r.MarginalRate))

	section(buf, "PROGRESSIVE SCHEDULE")
	for _, b := range r.Brackets {
		if b.Income.IsZero() {
			continue
		}
		fmt.Fprintf(buf, "  %6s  on %14s  = %s\n", FormatPercentage(b.Rate), FormatCurrency(b.Income), FormatCurrency(b.Tax))
	}
	row(buf, "Gross tax", FormatCurrency(r.GrossTax))

	if r.TotalReductions.IsPositive() {
		section(buf, "REDUCTIONS AND CREDITS")
		for _, kind := range domain.ReductionTypes() {
			red, ok := r.Reductions[kind]
			if !ok || red.Amount.IsZero() {
				continue
			}
			row(buf, string(kind), fmt.Sprintf("%s at %s on %s",
				FormatCurrency(red.Amount), FormatPercentage(red.Rate), FormatCurrency(red.Eligible)))
		}
		row(buf, "Total reductions", FormatCurrency(r.TotalReductions))
	}

	section(buf, "TAX")
	row(buf, "Net tax", FormatCurrency(r.NetTax))
	row(buf, "Reference income", FormatCurrency(r.ReferenceIncome))
	if r.ExceptionalSurtax.Amount.IsPositive() {
		row(buf, "High-income surtax", FormatCurrency(r.ExceptionalSurtax.Amount))
	}
	if r.MinimumRateSurtax.Applicable {
		row(buf, "Minimum-rate top-up", FormatCurrency(r.MinimumRateSurtax.Amount))
	}
	fmt.Fprintf(buf, "%s %s\n", LabelStyle.Render(pad("Total tax")), ValueStyle.Render(FormatCurrency(r.TotalTax)))

	section(buf, "SOCIAL CONTRIBUTIONS")
	activity := r.Social.Activity
	if r.Social.Fallback {
		activity += " (default rate)"
	}
	row(buf, "Activity", activity)
	row(buf, "Rate", FormatPercentage(r.Social.Rate))
	row(buf, "Expected", FormatCurrency(r.Social.Expected))
	row(buf, "Paid", FormatCurrency(r.Social.Paid))
	styledRow(buf, "Paid minus expected", signed(r.Social.Delta), deltaStyle(r.Social.Delta.Neg()))

	section(buf, "WITHHOLDING")
	row(buf, "Withheld", FormatCurrency(r.Withholding.Withheld))
	if r.Withholding.IsRefund() {
		styledRow(buf, "Refund", FormatCurrency(r.Withholding.AmountDue.Neg()), PositiveStyle)
	} else {
		styledRow(buf, "Amount due", FormatCurrency(r.Withholding.AmountDue), ValueStyle)
	}

	if c := r.Comparison; c != nil {
		section(buf, "REGIME COMPARISON")
		flat := c.FlatRegime.String()
		if !c.FlatEligible {
			flat += " (over threshold)"
		}
		row(buf, flat, FormatCurrency(c.FlatTax))
		row(buf, c.ExpenseRegime.String(), FormatCurrency(c.ExpenseTax))
		styledRow(buf, "Expense minus flat", signed(c.Delta), deltaStyle(c.Delta))
		row(buf, "Recommended", c.Recommended.String())
	}

	if len(r.Warnings) > 0 {
		section(buf, "WARNINGS")
		for _, w := range r.Warnings {
			fmt.Fprintln(buf, WarningStyle.Render("! "+w))
		}
	}

	fmt.Fprintln(buf)
	fmt.Fprintln(buf, LabelStyle.Render(fmt.Sprintf("Rules: %s (%s)", r.RulesSource.URL, r.RulesSource.Date)))
}

func section(buf *bytes.Buffer, name string) {
	fmt.Fprintln(buf, SectionStyle.Render(name))
}

func row(buf *bytes.Buffer, label, value string) {
	fmt.Fprintf(buf, "%s %s\n", LabelStyle.Render(pad(label)), value)
}

func styledRow(buf *bytes.Buffer, label, value string, style lipgloss.Style) {
	fmt.Fprintf(buf, "%s %s\n", LabelStyle.Render(pad(label)), style.Render(value))
}

func pad(label string) string {
	if len(label) >= labelWidth {
		return label + ":"
	}
	return label + ":" + strings.Repeat(" ", labelWidth-len(label))
}

func signed(d decimal.Decimal) string {
	if d.IsPositive() {
		return "+" + FormatCurrency(d)
	}
	return FormatCurrency(d)
}

// ConsoleLiteFormatter prints one summary line per result.
type ConsoleLiteFormatter struct{}

func (c ConsoleLiteFormatter) Name() string { return "console-lite" }

func (c ConsoleLiteFormatter) Format(results []*domain.CalculationResult) ([]byte, error) {
	var buf bytes.Buffer
	fmt.Fprintln(&buf, "INCOME TAX SUMMARY")
	fmt.Fprintln(&buf, strings.Repeat("=", 96))
	fmt.Fprintf(&buf, "%-16s %4s %-10s %14s %6s %14s %14s %8s\n",
		"Name", "Year", "Regime", "Taxable", "TMI", "Total Tax", "Due", "Warnings")
	fmt.Fprintln(&buf, strings.Repeat("-", 96))
	for _, r := range results {
		name := r.Name
		if name == "" {
			name = "-"
		}
		fmt.Fprintf(&buf, "%-16s %4d %-10s %14s %6s %14s %14s %8d\n",
			truncate(name, 16), r.Year, r.Regime,
			r.TaxableIncome.StringFixed(2), FormatPercentage(r.MarginalRate),
			r.TotalTax.StringFixed(2), r.Withholding.AmountDue.StringFixed(2), len(r.Warnings))
	}
	return buf.Bytes(), nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n-3] + "..."
}
