package main

import (
	"fmt"

	"github.com/rgehrsitz/irgo/internal/breakeven"
	"github.com/rgehrsitz/irgo/internal/calculation"
	"github.com/rgehrsitz/irgo/internal/config"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
)

var breakEvenCmd = &cobra.Command{
	Use:   "breakeven [profile-file]",
	Short: "Find the expenses or revenue at which the tax outcome flips",
	Long: "Targets:\n" +
		"  expenses  declared expenses at which the expense-based regime costs no more than the flat one\n" +
		"  revenue   largest gross revenue whose total tax stays within --budget",
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		targetName, _ := cmd.Flags().GetString("target")
		target, err := breakeven.ParseTarget(targetName)
		if err != nil {
			return err
		}
		budgetStr, _ := cmd.Flags().GetString("budget")
		budget := decimal.Zero
		if budgetStr != "" {
			if budget, err = decimal.NewFromString(budgetStr); err != nil {
				return fmt.Errorf("invalid budget %q: %w", budgetStr, err)
			}
		} else if target == breakeven.TargetRevenue {
			return fmt.Errorf("--budget is required for the revenue target")
		}

		profiles, err := config.NewInputParser().LoadFromFile(args[0])
		if err != nil {
			return err
		}

		calc := calculation.NewCalculator()
		calc.SetLogger(state.logger.Sugar())
		solver := breakeven.NewDefaultSolver(calc)
		results, err := solver.SolveProfiles(cmd.Context(), state.registry, profiles, target, budget)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		if state.settings.Output == "json" {
			text, err := breakeven.FormatJSON(results)
			if err != nil {
				return err
			}
			fmt.Fprint(out, text)
			return nil
		}
		tf := &breakeven.TableFormatter{}
		for _, r := range results {
			fmt.Fprintln(out, tf.Format(r))
		}
		return nil
	},
}

func init() {
	breakEvenCmd.Flags().String("target", string(breakeven.TargetExpenses), "expenses or revenue")
	breakEvenCmd.Flags().String("budget", "", "total-tax budget in EUR for the revenue target")
}
