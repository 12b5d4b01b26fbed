package main

import (
	"fmt"
	"os"
	"runtime/debug"

	"github.com/rgehrsitz/irgo/internal/assessment"
	"github.com/rgehrsitz/irgo/internal/config"
	"github.com/rgehrsitz/irgo/internal/rules"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// app carries what PersistentPreRunE resolves for the subcommands.
type app struct {
	v        *viper.Viper
	settings *config.Settings
	logger   *zap.Logger
	registry *rules.Registry
}

var state = &app{v: config.NewViper()}

var rootCmd = &cobra.Command{
	Use:   "irgo",
	Short: "French income tax calculator for the self-employed",
	Long: "Computes income tax, surtaxes and social contributions for a fiscal year,\n" +
		"compares flat-rate and expense-based regimes and reconciles withholding.",
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return state.init(cmd)
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if state.logger != nil {
			_ = state.logger.Sync()
		}
	},
}

func (a *app) init(cmd *cobra.Command) error {
	settingsFile, _ := cmd.Flags().GetString("config")
	settings, err := config.LoadSettings(a.v, settingsFile)
	if err != nil {
		return err
	}
	logger, err := initializeLogger(settings.Logging)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	a.settings = settings
	a.logger = logger
	a.registry = rules.NewRegistry(settings.RulesSource())
	return nil
}

// engine builds an assessment engine from the resolved settings.
func (a *app) engine() (*assessment.Engine, error) {
	opts, err := a.settings.AssessmentOptions()
	if err != nil {
		return nil, err
	}
	e := assessment.NewEngine(a.registry, opts)
	e.SetLogger(a.logger.Sugar())
	return e, nil
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "irgo %s (commit %s, built %s)\n", version, commit, date)
			if verbose, _ := cmd.Flags().GetBool("verbose"); verbose {
				if bi, ok := debug.ReadBuildInfo(); ok && bi != nil {
					fmt.Fprintln(cmd.OutOrStdout(), bi.String())
				}
			}
		},
	}
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.String("config", "", "settings file (YAML); IRGO_* environment variables also apply")
	flags.StringP("format", "f", "console", "output format")
	flags.String("log-level", "", "log level (debug, info, warn, error)")
	flags.String("log-format", "", "log format (console, json)")
	flags.String("rules-dir", "", "directory of <year>.yaml rule files; embedded rules when empty")
	flags.Int("concurrency", 0, "profiles assessed in parallel; 0 uses GOMAXPROCS")

	_ = state.v.BindPFlag("output", flags.Lookup("format"))
	_ = state.v.BindPFlag("logging.level", flags.Lookup("log-level"))
	_ = state.v.BindPFlag("logging.format", flags.Lookup("log-format"))
	_ = state.v.BindPFlag("rules_dir", flags.Lookup("rules-dir"))
	_ = state.v.BindPFlag("concurrency", flags.Lookup("concurrency"))

	vc := versionCmd()
	vc.Flags().BoolP("verbose", "v", false, "include module build information")

	rootCmd.AddCommand(calculateCmd, compareCmd, breakEvenCmd, whatIfCmd, validateCmd, rulesCmd, vc)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
