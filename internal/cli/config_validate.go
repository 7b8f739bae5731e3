package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/rshade/virtuallist/internal/config"
)

// NewConfigValidateCmd creates the config validate command.
func NewConfigValidateCmd() *cobra.Command {
	var verbose bool

	cmd := &cobra.Command{
		Use:         "validate",
		Short:       "Validate configuration file",
		Annotations: map[string]string{annotationSkipConfig: "true"},
		Long: `Loads the global configuration, the project overlay and VIRTUALLIST_*
environment variables exactly as other commands do, and reports the first
problem found: YAML syntax, an unsupported schema_version, a window
buffer below 1, a negative interval, gap or data limit, or an unknown log
format.`,
		Example: `  # Validate the effective configuration
  virtuallist config validate

  # Validate a specific file and print the resolved values
  virtuallist config validate --config ./config.yaml --verbose`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runConfigValidate(cmd, verbose)
		},
	}

	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "show the resolved configuration")

	return cmd
}

func runConfigValidate(cmd *cobra.Command, verbose bool) error {
	path, required, err := configPath(cmd)
	if err != nil {
		return err
	}
	projectFlag, _ := cmd.Flags().GetString("project-dir")
	wd, _ := os.Getwd()
	projectDir := config.ResolveProjectDir(cmd.Context(), projectFlag, wd)

	cfg, err := config.Load(path, required, projectDir)
	if err != nil {
		return &ExitError{Code: exitCodeConfig, Err: fmt.Errorf("configuration validation failed: %w", err)}
	}

	cmd.Printf("Configuration is valid\n")
	if verbose {
		printConfigDetails(cmd, cfg, path, projectDir)
	}
	return nil
}

func printConfigDetails(cmd *cobra.Command, cfg *config.Config, path, projectDir string) {
	cmd.Println()
	cmd.Println("Configuration details:")
	cmd.Printf("  File: %s\n", path)
	if projectDir != "" {
		cmd.Printf("  Project overlay: %s\n", config.ProjectConfigPath(projectDir))
	}
	cmd.Printf("  Window buffer: %d before, %d after\n", cfg.Window.BufferBefore, cfg.Window.BufferAfter)
	cmd.Printf("  Recompute interval: %s\n", cfg.Window.Interval)
	cmd.Printf("  Item gap: %d\n", cfg.Window.ItemGap)
	cmd.Printf("  Virtualization disabled: %t\n", cfg.Window.Disabled)
	if len(cfg.Data.Paths) > 0 {
		cmd.Printf("  Data files: %v\n", cfg.Data.Paths)
	} else {
		cmd.Printf("  Generated records: %d (seed %d)\n", cfg.Data.Generate, cfg.Data.Seed)
	}
	cmd.Printf("  Logging: %s (%s)\n", cfg.Logging.Level, cfg.Logging.Format)
}
