package main

import (
	"fmt"
	"strconv"

	"github.com/rgehrsitz/irgo/internal/rules"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

var rulesCmd = &cobra.Command{
	Use:   "rules",
	Short: "Inspect the fiscal rule tables",
}

var rulesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List the fiscal years with a rule table",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		years, err := state.registry.Years()
		if err != nil {
			return err
		}
		for _, y := range years {
			fmt.Fprintln(cmd.OutOrStdout(), y)
		}
		return nil
	},
}

var rulesShowCmd = &cobra.Command{
	Use:   "show [year]",
	Short: "Print the rule table for a fiscal year",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		year, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("invalid year %q", args[0])
		}
		table, err := state.registry.Load(year)
		if err != nil {
			return err
		}
		data, err := yaml.Marshal(table.Params())
		if err != nil {
			return err
		}
		_, err = cmd.OutOrStdout().Write(data)
		return err
	},
}

var rulesCheckCmd = &cobra.Command{
	Use:   "check [year...]",
	Short: "Check rule tables for consistency; all years when none are given",
	RunE: func(cmd *cobra.Command, args []string) error {
		years, err := yearsToCheck(args)
		if err != nil {
			return err
		}

		failed := 0
		for _, y := range years {
			table, err := state.registry.Load(y)
			if err != nil {
				return err
			}
			problems := rules.Check(table)
			if len(problems) == 0 {
				fmt.Fprintf(cmd.OutOrStdout(), "%d: ok\n", y)
				continue
			}
			failed++
			for _, p := range problems {
				fmt.Fprintf(cmd.OutOrStdout(), "%d: %v\n", y, p)
			}
		}
		if failed > 0 {
			return fmt.Errorf("%d rule table(s) failed the check", failed)
		}
		return nil
	},
}

func yearsToCheck(args []string) ([]int, error) {
	if len(args) == 0 {
		return state.registry.Years()
	}
	years := make([]int, 0, len(args))
	for _, a := range args {
		y, err := strconv.Atoi(a)
		if err != nil {
			return nil, fmt.Errorf("invalid year %q", a)
		}
		years = append(years, y)
	}
	return years, nil
}

func init() {
	rulesCmd.AddCommand(rulesListCmd, rulesShowCmd, rulesCheckCmd)
}
