// Package assessment assembles one fiscal year's complete result for a
// profile: the income-tax computation, social contributions, the regime
// comparison, withholding reconciliation and the warnings a reviewer should
// see. Rule tables come from an injected registry.
package assessment

import (
	"context"
	"fmt"
	"runtime"

	"github.com/rgehrsitz/irgo/internal/calculation"
	"github.com/rgehrsitz/irgo/internal/compare"
	"github.com/rgehrsitz/irgo/internal/domain"
	"github.com/rgehrsitz/irgo/internal/rules"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"
)

// Options tunes the warning thresholds.
type Options struct {
	// SocialTolerance is the paid-versus-expected gap, in euros, tolerated silently.
	SocialTolerance decimal.Decimal
	// RegimeTolerance is passed to the comparator.
	RegimeTolerance decimal.Decimal
	// ThresholdWarningRatio is the share of a regime threshold past which
	// revenue is reported as approaching it.
	ThresholdWarningRatio decimal.Decimal
	// Concurrency bounds AssessAll; zero means GOMAXPROCS.
	Concurrency int
}

// DefaultOptions returns the standard warning thresholds.
func DefaultOptions() Options {
	return Options{
		SocialTolerance:       decimal.NewFromInt(10),
		RegimeTolerance:       compare.DefaultTolerance,
		ThresholdWarningRatio: decimal.RequireFromString("0.90"),
	}
}

// Engine produces CalculationResults.
type Engine struct {
	Rules      *rules.Registry
	Calc       *calculation.Calculator
	Comparator *compare.Comparator
	Options    Options
	Logger     calculation.Logger
}

// NewEngine creates an engine over a rule registry.
func NewEngine(registry *rules.Registry, opts Options) *Engine {
	calc := calculation.NewCalculator()
	comparator := compare.NewComparator(calc)
	comparator.Tolerance = opts.RegimeTolerance
	return &Engine{
		Rules:      registry,
		Calc:       calc,
		Comparator: comparator,
		Options:    opts,
		Logger:     calculation.NopLogger{},
	}
}

// SetLogger sets the logger on the engine and its calculator; nil restores the no-op logger.
func (e *Engine) SetLogger(l calculation.Logger) {
	if l == nil {
		l = calculation.NopLogger{}
	}
	e.Logger = l
	e.Calc.SetLogger(l)
}

// Assess computes the full result for one profile. It returns either a
// complete result or an error, never both.
func (e *Engine) Assess(ctx context.Context, p domain.Profile) (*domain.CalculationResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if !p.Person.Regime.Valid() {
		return nil, fmt.Errorf("%w: %q", calculation.ErrUnknownRegime, p.Person.Regime)
	}

	table, err := e.Rules.Load(p.Year)
	if err != nil {
		return nil, fmt.Errorf("failed to load rules for %d: %w", p.Year, err)
	}
	log := e.logger()
	log.Debugf("assessing %s for %d under %s", displayName(p), p.Year, p.Person.Regime)

	computation, err := e.Calc.Compute(p, table)
	if err != nil {
		return nil, fmt.Errorf("failed to calculate income tax: %w", err)
	}

	social := calculation.SocialContribution(p.SocialActivity(), p.Social, table)

	set, err := e.Comparator.Compare(ctx, p, table)
	if err != nil {
		return nil, fmt.Errorf("failed to compare regimes: %w", err)
	}
	comparison := set.Comparison

	fingerprint, err := Fingerprint(p)
	if err != nil {
		return nil, err
	}

	result := &domain.CalculationResult{
		Name:             p.Person.Name,
		Year:             p.Year,
		Household:        p.Person.Household,
		TaxComputation:   computation,
		Social:           social,
		Withholding:      calculation.Reconcile(computation.TotalTax, p.Withheld),
		Comparison:       &comparison,
		InputFingerprint: fingerprint,
		RulesSource:      table.Source(),
	}
	result.Warnings = e.collectWarnings(p, result, table)

	for _, w := range result.Warnings {
		log.Warnf("%s: %s", displayName(p), w)
	}
	log.Infof("%s %d: total tax %s, amount due %s",
		displayName(p), p.Year, computation.TotalTax.StringFixed(2), result.Withholding.AmountDue.StringFixed(2))
	return result, nil
}

// AssessAll assesses profiles concurrently. Results keep input order; the
// first failure cancels the remaining work and is returned.
func (e *Engine) AssessAll(ctx context.Context, profiles []domain.Profile) ([]*domain.CalculationResult, error) {
	results := make([]*domain.CalculationResult, len(profiles))

	g, ctx := errgroup.WithContext(ctx)
	limit := e.Options.Concurrency
	if limit <= 0 {
		limit = runtime.GOMAXPROCS(0)
	}
	g.SetLimit(limit)

	for i, p := range profiles {
		g.Go(func() error {
			r, err := e.Assess(ctx, p)
			if err != nil {
				return fmt.Errorf("profile %d (%s): %w", i, displayName(p), err)
			}
			results[i] = r
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

func (e *Engine) logger() calculation.Logger {
	if e.Logger == nil {
		return calculation.NopLogger{}
	}
	return e.Logger
}

func displayName(p domain.Profile) string {
	if p.Person.Name != "" {
		return p.Person.Name
	}
	return "profile"
}
