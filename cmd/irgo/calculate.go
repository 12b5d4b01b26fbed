package main

import (
	"fmt"

	"github.com/rgehrsitz/irgo/internal/config"
	"github.com/rgehrsitz/irgo/internal/output"
	"github.com/spf13/cobra"
)

var calculateCmd = &cobra.Command{
	Use:   "calculate [profile-file]",
	Short: "Assess income tax for every profile in a file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		profiles, err := config.NewInputParser().LoadFromFile(args[0])
		if err != nil {
			return err
		}

		formatter, err := output.GetFormatterByName(state.settings.Output)
		if err != nil {
			return err
		}

		engine, err := state.engine()
		if err != nil {
			return err
		}
		results, err := engine.AssessAll(cmd.Context(), profiles)
		if err != nil {
			return err
		}

		if save, _ := cmd.Flags().GetBool("save"); save {
			filename, err := output.WriteFormatted(formatter, results, extension(formatter.Name()))
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Report written to %s\n", filename)
			return nil
		}

		data, err := formatter.Format(results)
		if err != nil {
			return err
		}
		_, err = cmd.OutOrStdout().Write(data)
		return err
	},
}

func extension(format string) string {
	switch format {
	case "json", "csv", "html":
		return format
	default:
		return "txt"
	}
}

func init() {
	calculateCmd.Flags().Bool("save", false, "write the report to a timestamped file instead of stdout")
}
