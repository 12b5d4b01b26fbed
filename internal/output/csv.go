package output

import (
	"bytes"
	"encoding/csv"
	"strconv"

	"github.com/rgehrsitz/irgo/internal/domain"
)

// CSVFormatter writes one summary row per result.
type CSVFormatter struct{}

func (c CSVFormatter) Name() string { return "csv" }

func (c CSVFormatter) Format(results []*domain.CalculationResult) ([]byte, error) {
	buf := &bytes.Buffer{}
	w := csv.NewWriter(buf)
	header := []string{
		"Name", "Year", "Regime", "ProfessionalIncome", "TaxableIncome", "Parts",
		"MarginalRate", "GrossTax", "Reductions", "NetTax", "ExceptionalSurtax",
		"MinimumRateSurtax", "TotalTax", "SocialExpected", "SocialPaid", "Withheld",
		"AmountDue", "Recommended", "Warnings",
	}
	if err := w.Write(header); err != nil {
		return nil, err
	}
	for _, r := range results {
		recommended := ""
		if r.Comparison != nil {
			recommended = r.Comparison.Recommended.String()
		}
		row := []string{
			r.Name,
			strconv.Itoa(r.Year),
			r.Regime.String(),
			r.ProfessionalIncome.StringFixed(2),
			r.TaxableIncome.StringFixed(2),
			r.Parts.String(),
			r.MarginalRate.String(),
			r.GrossTax.StringFixed(2),
			r.TotalReductions.StringFixed(2),
			r.NetTax.StringFixed(2),
			r.ExceptionalSurtax.Amount.StringFixed(2),
			r.MinimumRateSurtax.Amount.StringFixed(2),
			r.TotalTax.StringFixed(2),
			r.Social.Expected.StringFixed(2),
			r.Social.Paid.StringFixed(2),
			r.Withholding.Withheld.StringFixed(2),
			r.Withholding.AmountDue.StringFixed(2),
			recommended,
			strconv.Itoa(len(r.Warnings)),
		}
		if err := w.Write(row); err != nil {
			return nil, err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
