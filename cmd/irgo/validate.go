package main

import (
	"fmt"

	"github.com/rgehrsitz/irgo/internal/config"
	"github.com/spf13/cobra"
)

var validateCmd = &cobra.Command{
	Use:   "validate [profile-file]",
	Short: "Validate a profile file and check rules exist for its years",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		profiles, err := config.NewInputParser().LoadFromFile(args[0])
		if err != nil {
			return err
		}
		for i, p := range profiles {
			if _, err := state.registry.Load(p.Year); err != nil {
				return fmt.Errorf("profile %d (%s): %w", i, p.Person.Name, err)
			}
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s: %d profile(s) valid\n", args[0], len(profiles))
		return nil
	},
}
