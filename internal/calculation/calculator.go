package calculation

import (
	"fmt"

	"github.com/rgehrsitz/irgo/internal/domain"
	"github.com/rgehrsitz/irgo/internal/fiscal"
	"github.com/shopspring/decimal"
)

// Calculator runs the income-tax pipeline for one profile against one rule
// table. It holds no state besides its logger and is safe for concurrent use.
type Calculator struct {
	Logger Logger
}

// NewCalculator creates a calculator that logs nowhere.
func NewCalculator() *Calculator {
	return &Calculator{Logger: NopLogger{}}
}

// SetLogger sets the logger; nil restores the no-op logger.
func (c *Calculator) SetLogger(l Logger) {
	if l == nil {
		c.Logger = NopLogger{}
		return
	}
	c.Logger = l
}

func (c *Calculator) logger() Logger {
	if c.Logger == nil {
		return NopLogger{}
	}
	return c.Logger
}

// Compute runs every step from professional income to total liability for
// the profile's declared regime.
func (c *Calculator) Compute(p domain.Profile, t *domain.RuleTable) (domain.TaxComputation, error) {
	log := c.logger()
	person := p.Person

	if !person.Parts.IsPositive() {
		return domain.TaxComputation{}, fmt.Errorf("%w: got %s", ErrInvalidParts, person.Parts)
	}

	professional, err := ProfessionalIncome(person.Regime, p.Income.GrossRevenue, p.Income.DeclaredExpenses, t)
	if err != nil {
		return domain.TaxComputation{}, err
	}
	total := TotalIncome(professional, p.Income)
	log.Debugf("%s: professional income %s, total income %s", person.Regime, professional, total)

	ceiling := fiscal.RetirementCeiling(professional, retirementStatus(person), t)
	retirement := fiscal.CapRetirement(p.Deductions.RetirementContribution, ceiling)

	taxable := TaxableIncome(total, retirement.Applied, p.Deductions)
	brackets := t.Brackets()
	perPart := taxable.Div(person.Parts)
	marginal := MarginalRate(perPart, brackets)
	gross, details := ProgressiveTax(taxable, person.Parts, brackets)
	log.Debugf("%s: taxable %s, per part %s, TMI %s, gross tax %s", person.Regime, taxable, perPart, marginal, gross)

	reductions, totalReductions, err := applyReductions(p.Deductions, taxable, t)
	if err != nil {
		return domain.TaxComputation{}, err
	}
	net := decimal.Max(decimal.Zero, gross.Sub(totalReductions))

	rfr := ReferenceIncome(taxable, retirement.Applied)
	exceptional, err := ExceptionalSurtax(rfr, person.Household, t)
	if err != nil {
		return domain.TaxComputation{}, err
	}
	minimum, err := MinimumRateSurtax(rfr, net.Add(exceptional.Amount), person.Household, t)
	if err != nil {
		return domain.TaxComputation{}, err
	}
	totalTax := net.Add(exceptional.Amount).Add(minimum.Amount)
	log.Debugf("%s: net %s, RFR %s, surtaxes %s + %s, total %s",
		person.Regime, net, rfr, exceptional.Amount, minimum.Amount, totalTax)

	return domain.TaxComputation{
		Regime:             person.Regime,
		ProfessionalIncome: professional,
		TotalIncome:        total,
		Retirement:         retirement,
		TaxableIncome:      taxable,
		Parts:              person.Parts,
		PerPartIncome:      perPart,
		MarginalRate:       marginal,
		GrossTax:           gross,
		Brackets:           details,
		Reductions:         reductions,
		TotalReductions:    totalReductions,
		NetTax:             net,
		ReferenceIncome:    rfr,
		ExceptionalSurtax:  exceptional,
		MinimumRateSurtax:  minimum,
		TotalTax:           totalTax,
	}, nil
}

func applyReductions(d domain.DeductionProfile, taxable decimal.Decimal, t *domain.RuleTable) (map[domain.ReductionType]domain.ReductionDetail, decimal.Decimal, error) {
	requested := map[domain.ReductionType]decimal.Decimal{
		domain.ReductionDonations:    d.Donations,
		domain.ReductionHomeServices: d.HomeServices,
		domain.ReductionChildcare:    d.Childcare,
	}
	in := fiscal.Inputs{ReferenceIncome: taxable, Units: d.ChildrenUnderSix}

	out := make(map[domain.ReductionType]domain.ReductionDetail, len(requested))
	total := decimal.Zero
	for _, kind := range domain.ReductionTypes() {
		detail, err := fiscal.ApplyReduction(kind, requested[kind], in, t)
		if err != nil {
			return nil, decimal.Zero, err
		}
		out[kind] = detail
		total = total.Add(detail.Amount)
	}
	return out, total, nil
}

func retirementStatus(p domain.Person) string {
	if p.RetirementStatus == "" {
		return domain.RetirementStatusStandard
	}
	return p.RetirementStatus
}
