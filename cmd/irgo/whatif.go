package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/rgehrsitz/irgo/internal/config"
	"github.com/rgehrsitz/irgo/internal/domain"
	"github.com/rgehrsitz/irgo/internal/transform"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
)

var whatIfCmd = &cobra.Command{
	Use:   "whatif [profile-file]",
	Short: "Assess each profile against a modified copy of itself",
	Long: "Applies a built-in template (--template) and/or transforms (--with, repeatable,\n" +
		"e.g. --with set_expenses:amount=12000) and shows how the outcome changes.",
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		templateName, _ := cmd.Flags().GetString("template")
		specs, _ := cmd.Flags().GetStringArray("with")
		listOnly, _ := cmd.Flags().GetBool("list")

		profiles, err := config.NewInputParser().LoadFromFile(args[0])
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()

		if listOnly {
			fmt.Fprintln(out, "Templates:")
			templates := transform.CreateBuiltInTemplates(profiles[0])
			for _, name := range templates.List() {
				t, _ := templates.Get(name)
				fmt.Fprintf(out, "  %-20s %s\n", name, t.Description)
			}
			fmt.Fprintln(out, "Transforms:")
			for _, name := range transform.NewTransformRegistry().List() {
				fmt.Fprintf(out, "  %s\n", name)
			}
			return nil
		}
		if templateName == "" && len(specs) == 0 {
			return fmt.Errorf("nothing to change: pass --template or --with (see --list)")
		}

		registry := transform.NewTransformRegistry()
		var extra []transform.ProfileTransform
		for _, spec := range specs {
			t, err := registry.ParseTransformSpec(spec)
			if err != nil {
				return err
			}
			extra = append(extra, t)
		}

		engine, err := state.engine()
		if err != nil {
			return err
		}

		for _, base := range profiles {
			var transforms []transform.ProfileTransform
			if templateName != "" {
				tmpl, ok := transform.CreateBuiltInTemplates(base).Get(templateName)
				if !ok {
					return fmt.Errorf("unknown template: %s", templateName)
				}
				transforms = append(transforms, tmpl.Transforms...)
			}
			transforms = append(transforms, extra...)

			modified, err := transform.ApplyTransforms(base, transforms)
			if err != nil {
				return err
			}

			before, err := engine.Assess(cmd.Context(), base)
			if err != nil {
				return err
			}
			after, err := engine.Assess(cmd.Context(), modified)
			if err != nil {
				return fmt.Errorf("modified profile: %w", err)
			}
			writeWhatIf(out, before, after, transform.Describe(transforms))
		}
		return nil
	},
}

func writeWhatIf(w io.Writer, before, after *domain.CalculationResult, changes []string) {
	title := fmt.Sprintf("WHAT-IF %d", before.Year)
	if before.Name != "" {
		title += ": " + before.Name
	}
	fmt.Fprintln(w, title)
	fmt.Fprintln(w, strings.Repeat("=", 72))
	for _, c := range changes {
		fmt.Fprintf(w, "- %s\n", c)
	}
	fmt.Fprintln(w, strings.Repeat("-", 72))
	fmt.Fprintf(w, "%-24s %14s %14s %14s\n", "", "Declared", "Modified", "Change")

	rows := []struct {
		label  string
		before decimal.Decimal
		after  decimal.Decimal
	}{
		{"Taxable income", before.TaxableIncome, after.TaxableIncome},
		{"Marginal rate", before.MarginalRate, after.MarginalRate},
		{"Net tax", before.NetTax, after.NetTax},
		{"Total tax", before.TotalTax, after.TotalTax},
		{"Social contributions", before.Social.Expected, after.Social.Expected},
		{"Amount due", before.Withholding.AmountDue, after.Withholding.AmountDue},
	}
	for _, r := range rows {
		fmt.Fprintf(w, "%-24s %14s %14s %14s\n", r.label,
			r.before.StringFixed(2), r.after.StringFixed(2), r.after.Sub(r.before).StringFixed(2))
	}
	fmt.Fprintln(w)
}

func init() {
	whatIfCmd.Flags().String("template", "", "built-in template name")
	whatIfCmd.Flags().StringArray("with", nil, "transform spec name:key=value,... (repeatable)")
	whatIfCmd.Flags().Bool("list", false, "list templates and transforms")
}
