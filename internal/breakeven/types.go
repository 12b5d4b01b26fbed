package breakeven

import (
	"github.com/rgehrsitz/irgo/internal/domain"
	"github.com/shopspring/decimal"
)

// Target names the amount the solver searches for
type Target string

const (
	// TargetExpenses is the declared-expense level at which the expense
	// regime costs no more than the flat regime of the same family.
	TargetExpenses Target = "expenses"
	// TargetRevenue is the largest gross revenue whose total tax stays
	// within a budget, all other inputs held fixed.
	TargetRevenue Target = "revenue"
)

// ParseTarget converts a label into a Target
func ParseTarget(s string) (Target, error) {
	switch Target(s) {
	case TargetExpenses, TargetRevenue:
		return Target(s), nil
	default:
		return "", &BreakEvenError{
			Operation: "parse_target",
			Message:   "unsupported target " + s + " (available: expenses, revenue)",
		}
	}
}

// Request defines one solver run
type Request struct {
	Profile       domain.Profile
	Table         *domain.RuleTable
	Target        Target
	Budget        decimal.Decimal // total-tax budget for TargetRevenue
	MaxIterations int
	Tolerance     decimal.Decimal // width of the final search interval, in euros
}

// Result is the outcome of a solver run
type Result struct {
	Target          Target          `json:"target"`
	ProfileName     string          `json:"profileName,omitempty"`
	Year            int             `json:"year"`
	Regime          domain.Regime   `json:"regime"` // regime whose tax was searched
	Converged       bool            `json:"converged"`
	Iterations      int             `json:"iterations"`
	ConvergenceInfo string          `json:"convergenceInfo"`
	Value           decimal.Decimal `json:"value"`
	Current         decimal.Decimal `json:"current"`
	Headroom        decimal.Decimal `json:"headroom"` // value - current
	TaxAtValue      decimal.Decimal `json:"taxAtValue"`

	// TargetExpenses only
	FlatRegime domain.Regime    `json:"flatRegime,omitempty"`
	FlatTax    *decimal.Decimal `json:"flatTax,omitempty"`

	// TargetRevenue only
	Budget          *decimal.Decimal `json:"budget,omitempty"`
	WithinThreshold *bool            `json:"withinThreshold,omitempty"`
}

// SolverOptions configures the bisection
type SolverOptions struct {
	Tolerance     decimal.Decimal
	MaxIterations int
	// MaxRevenue bounds the TargetRevenue search
	MaxRevenue decimal.Decimal
}

// DefaultSolverOptions returns default solver configuration
func DefaultSolverOptions() SolverOptions {
	return SolverOptions{
		Tolerance:     decimal.RequireFromString("0.01"),
		MaxIterations: 100,
		MaxRevenue:    decimal.NewFromInt(1_000_000),
	}
}

// BreakEvenError represents errors from the break-even solver
type BreakEvenError struct {
	Operation string
	Message   string
	Cause     error
}

func (e *BreakEvenError) Error() string {
	if e.Cause != nil {
		return e.Operation + ": " + e.Message + ": " + e.Cause.Error()
	}
	return e.Operation + ": " + e.Message
}

func (e *BreakEvenError) Unwrap() error {
	return e.Cause
}
