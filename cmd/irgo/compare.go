package main

import (
	"fmt"

	"github.com/rgehrsitz/irgo/internal/calculation"
	"github.com/rgehrsitz/irgo/internal/compare"
	"github.com/rgehrsitz/irgo/internal/config"
	"github.com/spf13/cobra"
)

var compareCmd = &cobra.Command{
	Use:   "compare [profile-file]",
	Short: "Compare the flat-rate and expense-based regimes for each profile",
	Long: "Re-evaluates every profile under both regimes of its family and recommends\n" +
		"the cheaper one. Formats: table (default), compact, json, csv.",
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		profiles, err := config.NewInputParser().LoadFromFile(args[0])
		if err != nil {
			return err
		}

		opts, err := state.settings.AssessmentOptions()
		if err != nil {
			return err
		}
		calc := calculation.NewCalculator()
		calc.SetLogger(state.logger.Sugar())
		comparator := compare.NewComparator(calc)
		comparator.Tolerance = opts.RegimeTolerance

		out := cmd.OutOrStdout()
		for _, p := range profiles {
			table, err := state.registry.Load(p.Year)
			if err != nil {
				return fmt.Errorf("failed to load rules for %d: %w", p.Year, err)
			}
			set, err := comparator.Compare(cmd.Context(), p, table)
			if err != nil {
				return err
			}
			set.ConfigPath = args[0]

			text, err := formatComparison(state.settings.Output, set)
			if err != nil {
				return err
			}
			fmt.Fprint(out, text)
		}
		return nil
	},
}

func formatComparison(format string, set *compare.ComparisonSet) (string, error) {
	switch format {
	case "json":
		return (&compare.JSONFormatter{Pretty: true}).Format(set)
	case "csv":
		return (&compare.CSVFormatter{}).Format(set)
	case "compact", "console-lite":
		return (&compare.TableFormatter{}).FormatCompact(set) + "\n", nil
	case "table", "console", "":
		return (&compare.TableFormatter{}).Format(set), nil
	default:
		return "", fmt.Errorf("unsupported compare format: %s (available: table, compact, json, csv)", format)
	}
}
