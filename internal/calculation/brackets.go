package calculation

import (
	"github.com/rgehrsitz/irgo/internal/domain"
	"github.com/shopspring/decimal"
)

// ApplyBrackets runs income through a progressive schedule. Each bracket
// taxes the slice of income between its bounds; brackets below the income
// contribute their full width, brackets above contribute nothing.
func ApplyBrackets(income decimal.Decimal, brackets []domain.TaxBracket) (decimal.Decimal, []domain.BracketDetail) {
	tax := decimal.Zero
	details := make([]domain.BracketDetail, 0, len(brackets))

	for _, b := range brackets {
		top := income
		if b.Upper != nil && b.Upper.LessThan(income) {
			top = *b.Upper
		}
		slice := decimal.Max(decimal.Zero, top.Sub(b.Lower))
		if width, ok := b.Width(); ok && slice.GreaterThan(width) {
			slice = width
		}

		bracketTax := slice.Mul(b.Rate)
		tax = tax.Add(bracketTax)
		details = append(details, domain.BracketDetail{
			Rate:   b.Rate,
			Lower:  b.Lower,
			Upper:  b.Upper,
			Income: slice,
			Tax:    bracketTax,
		})
	}
	return tax, details
}

// MarginalRate returns the rate of the highest bracket whose lower bound
// income strictly exceeds; zero when income stays in the first bracket.
func MarginalRate(income decimal.Decimal, brackets []domain.TaxBracket) decimal.Decimal {
	rate := decimal.Zero
	for i, b := range brackets {
		if i == 0 {
			continue
		}
		if income.GreaterThan(b.Lower) {
			rate = b.Rate
		}
	}
	return rate
}

// ProgressiveTax applies the quotient familial: the schedule is applied to
// income per part and the result multiplied back by parts. The returned
// details carry household amounts against per-part bounds.
func ProgressiveTax(taxable, parts decimal.Decimal, brackets []domain.TaxBracket) (decimal.Decimal, []domain.BracketDetail) {
	perPart := taxable.Div(parts)
	perPartTax, details := ApplyBrackets(perPart, brackets)
	for i := range details {
		details[i].Income = details[i].Income.Mul(parts)
		details[i].Tax = details[i].Tax.Mul(parts)
	}
	return perPartTax.Mul(parts), details
}
