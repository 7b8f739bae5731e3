package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/rshade/virtuallist/internal/config"
	"github.com/rshade/virtuallist/internal/logging"
)

// annotationSkipConfig marks commands that load or write config themselves.
const annotationSkipConfig = "virtuallist/skip-config"

// annotationTUI marks commands that take over the terminal.
const annotationTUI = "virtuallist/tui"

// isTerminal checks if the given file is a terminal.
func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}

// logger is the package-level logger for CLI operations.
var logger zerolog.Logger //nolint:gochecknoglobals // Required for zerolog context integration

// ExitError carries a process exit code for main.
type ExitError struct {
	Code int
	Err  error
}

func (e *ExitError) Error() string {
	return e.Err.Error()
}

func (e *ExitError) Unwrap() error {
	return e.Err
}

// ExitCode maps err to a process exit code: 0 for nil, the ExitError code
// when one is wrapped, otherwise 1.
func ExitCode(err error) int {
	if err == nil {
		return 0
	}
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}
	return 1
}

// NewRootCmd creates the root Cobra command for the virtuallist CLI.
// It wires up configuration, logging and tracing, and the subcommands.
func NewRootCmd(ver string) *cobra.Command {
	var logResult *logging.LogPathResult

	cmd := &cobra.Command{
		Use:           "virtuallist",
		Short:         "Browse large record sets in a virtualized terminal list",
		Long:          "virtuallist: render only the records near the viewport, and inspect the windowing math",
		Version:       ver,
		Example:       rootCmdExample,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if err := loadConfig(cmd); err != nil {
				return err
			}
			result := setupLogging(cmd)
			logResult = &result
			return nil
		},
		PersistentPostRunE: func(cmd *cobra.Command, _ []string) error {
			return cleanupLogging(logResult)
		},
	}

	cmd.PersistentFlags().String("config", "", "config file (default ~/.virtuallist/config.yaml)")
	cmd.PersistentFlags().String("project-dir", "", "project directory holding .virtuallist/config.yaml")
	cmd.PersistentFlags().Bool("debug", false, "enable debug logging")
	cmd.PersistentFlags().String("log-level", "", "log level (trace, debug, info, warn, error)")

	cmd.AddCommand(
		NewViewCmd(),
		NewEstimateCmd(),
		NewListCmd(),
		newConfigCmd(),
		NewVersionCmd(ver),
	)
	return cmd
}

// loadConfig resolves the config file and project overlay, then installs the
// result as the global config. An explicit --config must exist.
func loadConfig(cmd *cobra.Command) error {
	if cmd.Annotations[annotationSkipConfig] != "" {
		config.SetGlobalConfig(config.New())
		return nil
	}

	path, required, err := configPath(cmd)
	if err != nil {
		return err
	}

	projectFlag, _ := cmd.Flags().GetString("project-dir")
	wd, _ := os.Getwd()
	projectDir := config.ResolveProjectDir(cmd.Context(), projectFlag, wd)

	cfg, err := config.Load(path, required, projectDir)
	if err != nil {
		return &ExitError{Code: exitCodeConfig, Err: fmt.Errorf("loading configuration: %w", err)}
	}
	config.SetGlobalConfig(cfg)
	return nil
}

// configPath returns the --config value, or the default global path.
//
//nolint:nonamedreturns // Named returns document the required flag.
func configPath(cmd *cobra.Command) (path string, required bool, err error) {
	if flagPath, _ := cmd.Flags().GetString("config"); flagPath != "" {
		return flagPath, true, nil
	}
	path, err = config.DefaultConfigPath()
	if err != nil {
		return "", false, err
	}
	return path, false, nil
}

// newConfigCmd creates the config command group.
func newConfigCmd() *cobra.Command {
	cmd := &cobra.Command{Use: "config", Short: "Configuration management commands"}
	cmd.AddCommand(NewConfigInitCmd(), NewConfigShowCmd(), NewConfigValidateCmd())
	return cmd
}

const rootCmdExample = `  # Browse 100k synthetic reservations
  virtuallist view --generate 100000

  # Browse reservations exported from a json-server database
  virtuallist view --data db.json --limit 500

  # See which items would render for a given scroll position
  virtuallist estimate --item-height 124 --viewport 800 --scroll 0 --scroll 1240

  # Print the second page of reservations sorted by price
  virtuallist list --generate 1000 --page 2 --page-size 20 --sort price:desc

  # Write a default configuration file
  virtuallist config init`
