// Package breakeven searches for the amounts at which a tax outcome flips:
// the expenses that make the expense-based regime worthwhile, or the revenue
// a tax budget allows. Total tax is monotone in both, so bisection converges.
package breakeven

import (
	"context"
	"fmt"

	"github.com/rgehrsitz/irgo/internal/calculation"
	"github.com/rgehrsitz/irgo/internal/compare"
	"github.com/rgehrsitz/irgo/internal/fiscal"
	"github.com/shopspring/decimal"
)

var two = decimal.NewFromInt(2)

// Solver runs break-even searches over the income-tax calculator
type Solver struct {
	Calc    *calculation.Calculator
	Options SolverOptions
}

// NewSolver creates a new break-even solver
func NewSolver(calc *calculation.Calculator, options SolverOptions) *Solver {
	if calc == nil {
		calc = calculation.NewCalculator()
	}
	return &Solver{
		Calc:    calc,
		Options: options,
	}
}

// NewDefaultSolver creates a solver with default options
func NewDefaultSolver(calc *calculation.Calculator) *Solver {
	return NewSolver(calc, DefaultSolverOptions())
}

// Solve routes the request to the matching search
func (s *Solver) Solve(ctx context.Context, req Request) (*Result, error) {
	if req.Table == nil {
		return nil, &BreakEvenError{Operation: "solve", Message: "rule table is required"}
	}
	if req.MaxIterations == 0 {
		req.MaxIterations = s.Options.MaxIterations
	}
	if req.Tolerance.IsZero() {
		req.Tolerance = s.Options.Tolerance
	}

	switch req.Target {
	case TargetExpenses:
		return s.solveExpenses(ctx, req)
	case TargetRevenue:
		return s.solveRevenue(ctx, req)
	default:
		return nil, &BreakEvenError{
			Operation: "solve",
			Message:   fmt.Sprintf("unsupported target: %s", req.Target),
		}
	}
}

// solveExpenses finds the smallest declared expenses at which the expense
// regime's total tax does not exceed the flat regime's.
func (s *Solver) solveExpenses(ctx context.Context, req Request) (*Result, error) {
	p := req.Profile
	pair, err := compare.Pair(p)
	if err != nil {
		return nil, &BreakEvenError{Operation: "solve_expenses", Message: "no regime pair", Cause: err}
	}

	flat, err := s.Calc.Compute(p.WithRegime(pair.Flat), req.Table)
	if err != nil {
		return nil, &BreakEvenError{Operation: "solve_expenses", Message: "failed to calculate flat regime", Cause: err}
	}

	expenseTax := func(expenses decimal.Decimal) (decimal.Decimal, error) {
		q := p.WithRegime(pair.Expense)
		q.Income.DeclaredExpenses = expenses
		c, err := s.Calc.Compute(q, req.Table)
		if err != nil {
			return decimal.Zero, &BreakEvenError{Operation: "solve_expenses", Message: "failed to calculate expense regime", Cause: err}
		}
		return c.TotalTax, nil
	}
	// worse reports whether the expense regime still costs more
	worse := func(expenses decimal.Decimal) (bool, decimal.Decimal, error) {
		tax, err := expenseTax(expenses)
		if err != nil {
			return false, tax, err
		}
		return tax.GreaterThan(flat.TotalTax), tax, nil
	}

	flatTax := flat.TotalTax
	result := &Result{
		Target:      TargetExpenses,
		ProfileName: p.Person.Name,
		Year:        p.Year,
		Regime:      pair.Expense,
		Current:     p.Income.DeclaredExpenses,
		FlatRegime:  pair.Flat,
		FlatTax:     &flatTax,
	}

	// expenses equal to all income drive taxable income to zero
	hi := calculation.TotalIncome(p.Income.GrossRevenue, p.Income)
	value, tax, iterations, err := bisect(ctx, decimal.Zero, hi, req, worse)
	if err != nil {
		return nil, err
	}
	result.Iterations = iterations
	if value == nil {
		result.ConvergenceInfo = "expense regime costs more even with expenses equal to total income"
		return result, nil
	}
	result.Converged = true
	result.ConvergenceInfo = convergenceInfo(iterations, req)
	result.Value = *value
	result.TaxAtValue = tax
	result.Headroom = result.Value.Sub(result.Current)
	return result, nil
}

// solveRevenue finds the largest gross revenue whose total tax under the
// declared regime stays within the budget.
func (s *Solver) solveRevenue(ctx context.Context, req Request) (*Result, error) {
	p := req.Profile
	if req.Budget.IsNegative() {
		return nil, &BreakEvenError{Operation: "solve_revenue", Message: "budget cannot be negative"}
	}

	over := func(revenue decimal.Decimal) (bool, decimal.Decimal, error) {
		q := p
		q.Income.GrossRevenue = revenue
		c, err := s.Calc.Compute(q, req.Table)
		if err != nil {
			return false, decimal.Zero, &BreakEvenError{Operation: "solve_revenue", Message: "failed to calculate", Cause: err}
		}
		return c.TotalTax.GreaterThan(req.Budget), c.TotalTax, nil
	}

	budget := req.Budget
	result := &Result{
		Target:      TargetRevenue,
		ProfileName: p.Person.Name,
		Year:        p.Year,
		Regime:      p.Person.Regime,
		Current:     p.Income.GrossRevenue,
		Budget:      &budget,
	}

	// over() flips from false to true as revenue grows; search for the first
	// revenue over budget and step back to the interval's lower end.
	exceeded, _, err := over(decimal.Zero)
	if err != nil {
		return nil, err
	}
	if exceeded {
		result.ConvergenceInfo = "other income already exceeds the budget"
		return result, nil
	}

	lo, hi := decimal.Zero, s.Options.MaxRevenue
	exceeded, tax, err := over(hi)
	if err != nil {
		return nil, err
	}
	iterations := 0
	if !exceeded {
		result.Converged = true
		result.ConvergenceInfo = fmt.Sprintf("budget not reached below %s", hi.StringFixed(2))
		lo = hi
	} else {
		for hi.Sub(lo).GreaterThan(req.Tolerance) && iterations < req.MaxIterations {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			iterations++
			mid := lo.Add(hi).Div(two)
			exceeded, _, err := over(mid)
			if err != nil {
				return nil, err
			}
			if exceeded {
				hi = mid
			} else {
				lo = mid
			}
		}
		_, tax, err = over(lo)
		if err != nil {
			return nil, err
		}
		result.Converged = hi.Sub(lo).LessThanOrEqual(req.Tolerance)
		result.ConvergenceInfo = convergenceInfo(iterations, req)
	}

	result.Iterations = iterations
	result.Value = lo.RoundDown(2)
	result.TaxAtValue = tax
	result.Headroom = result.Value.Sub(result.Current)
	within := fiscal.WithinThreshold(p.Person.Regime, result.Value, req.Table)
	result.WithinThreshold = &within
	return result, nil
}

// bisect finds, within tolerance, the smallest x in [lo, hi] for which
// pred(x) is false, given pred is true then false as x grows. A nil value
// means pred is still true at hi.
func bisect(ctx context.Context, lo, hi decimal.Decimal, req Request,
	pred func(decimal.Decimal) (bool, decimal.Decimal, error)) (*decimal.Decimal, decimal.Decimal, int, error) {

	still, tax, err := pred(lo)
	if err != nil {
		return nil, decimal.Zero, 0, err
	}
	if !still {
		return &lo, tax, 0, nil
	}
	still, tax, err = pred(hi)
	if err != nil {
		return nil, decimal.Zero, 0, err
	}
	if still {
		return nil, decimal.Zero, 0, nil
	}

	iterations := 0
	for hi.Sub(lo).GreaterThan(req.Tolerance) && iterations < req.MaxIterations {
		if err := ctx.Err(); err != nil {
			return nil, decimal.Zero, iterations, err
		}
		iterations++
		mid := lo.Add(hi).Div(two)
		s, t, err := pred(mid)
		if err != nil {
			return nil, decimal.Zero, iterations, err
		}
		if s {
			lo = mid
		} else {
			hi, tax = mid, t
		}
	}
	value := hi.RoundUp(2)
	return &value, tax, iterations, nil
}

func convergenceInfo(iterations int, req Request) string {
	if iterations >= req.MaxIterations {
		return fmt.Sprintf("max iterations (%d) reached", req.MaxIterations)
	}
	return fmt.Sprintf("bisection converged within %s EUR", req.Tolerance.String())
}
