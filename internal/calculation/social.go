package calculation

import (
	"github.com/rgehrsitz/irgo/internal/domain"
	"github.com/shopspring/decimal"
)

// SocialContribution computes expected contributions on declared revenue at
// the activity's rate. An activity the table does not know falls back to the
// default rate and is flagged.
func SocialContribution(activity string, decl domain.SocialDeclaration, t *domain.RuleTable) domain.SocialContribution {
	rate, ok := t.SocialRate(activity)
	if !ok {
		rate = t.DefaultSocialRate()
	}
	expected := decl.DeclaredRevenue.Mul(rate)
	return domain.SocialContribution{
		Activity:        activity,
		Fallback:        !ok,
		Rate:            rate,
		DeclaredRevenue: decl.DeclaredRevenue,
		Expected:        expected,
		Paid:            decl.Paid,
		Delta:           decl.Paid.Sub(expected),
	}
}

// Reconcile compares final liability with what was already withheld.
func Reconcile(totalTax, withheld decimal.Decimal) domain.Withholding {
	return domain.Withholding{
		Withheld:  withheld,
		AmountDue: totalTax.Sub(withheld),
	}
}
