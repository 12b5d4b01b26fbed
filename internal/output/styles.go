package output

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/shopspring/decimal"
)

var (
	ColorPrimary = lipgloss.Color("#7D56F4")
	ColorSuccess = lipgloss.Color("#04B575")
	ColorDanger  = lipgloss.Color("#FF5F87")
	ColorWarning = lipgloss.Color("#FFB86C")
	ColorMuted   = lipgloss.Color("#626262")

	TitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorPrimary).
			BorderStyle(lipgloss.DoubleBorder()).
			BorderBottom(true).
			BorderForeground(ColorPrimary)

	SectionStyle = lipgloss.NewStyle().
			Bold(true).
			Underline(true).
			MarginTop(1)

	LabelStyle    = lipgloss.NewStyle().Foreground(ColorMuted)
	ValueStyle    = lipgloss.NewStyle().Bold(true)
	PositiveStyle = lipgloss.NewStyle().Foreground(ColorSuccess)
	NegativeStyle = lipgloss.NewStyle().Foreground(ColorDanger)
	WarningStyle  = lipgloss.NewStyle().Foreground(ColorWarning)
)

var hundred = decimal.NewFromInt(100)

// FormatCurrency formats a euro amount to the cent
func FormatCurrency(amount decimal.Decimal) string {
	return amount.StringFixed(2) + " EUR"
}

// FormatPercentage formats a fractional rate, 0.11 reads 11.0%
func FormatPercentage(rate decimal.Decimal) string {
	return rate.Mul(hundred).StringFixed(1) + "%"
}

// deltaStyle colours amounts where a positive value is bad for the taxpayer.
func deltaStyle(d decimal.Decimal) lipgloss.Style {
	switch {
	case d.IsPositive():
		return NegativeStyle
	case d.IsNegative():
		return PositiveStyle
	default:
		return ValueStyle
	}
}
