package cli

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/rshade/virtuallist/internal/config"
)

// ErrConfigExists is returned by config init when the target file exists.
var ErrConfigExists = errors.New("configuration file already exists, use --force to overwrite")

// NewConfigInitCmd creates the config init command.
// With --project it writes ./.virtuallist/config.yaml and a .gitignore;
// otherwise it writes the global config file.
func NewConfigInitCmd() *cobra.Command {
	var (
		force   bool
		project bool
	)

	cmd := &cobra.Command{
		Use:         "init",
		Short:       "Initialize configuration file with default values",
		Annotations: map[string]string{annotationSkipConfig: "true"},
		Long: `Creates a configuration file with default values.

By default the global file (~/.virtuallist/config.yaml, or
$VIRTUALLIST_HOME/config.yaml) is written. With --project the file is
created in .virtuallist/ under the current directory (or --project-dir),
together with a .gitignore that keeps logs out of version control.`,
		Example: `  # Create the global configuration
  virtuallist config init

  # Create project-local configuration
  virtuallist config init --project

  # Overwrite an existing file
  virtuallist config init --force`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if project {
				return initProjectConfig(cmd, force)
			}
			path, err := configTarget(cmd)
			if err != nil {
				return err
			}
			if err = writeDefaultConfig(path, force); err != nil {
				return err
			}
			cmd.Printf("Configuration initialized at %s\n", path)
			return nil
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "overwrite existing configuration file")
	cmd.Flags().BoolVar(&project, "project", false, "create project-local configuration")

	return cmd
}

// configTarget is --config when given, else the global default path.
func configTarget(cmd *cobra.Command) (string, error) {
	path, _, err := configPath(cmd)
	return path, err
}

func initProjectConfig(cmd *cobra.Command, force bool) error {
	wd, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("getting working directory: %w", err)
	}
	projectFlag, _ := cmd.Flags().GetString("project-dir")
	projectDir := config.ResolveProjectDir(cmd.Context(), projectFlag, wd)
	if projectDir == "" {
		projectDir = filepath.Join(wd, config.ProjectDirName())
	}

	path := config.ProjectConfigPath(projectDir)
	if err = writeDefaultConfig(path, force); err != nil {
		return err
	}

	created, err := config.EnsureGitignore(projectDir)
	if err != nil {
		return fmt.Errorf("creating .gitignore: %w", err)
	}

	cmd.Printf("Configuration initialized at %s\n", path)
	if created {
		cmd.Printf("Created .gitignore for project logs\n")
	}
	return nil
}

func writeDefaultConfig(path string, force bool) error {
	if !force {
		_, err := os.Stat(path)
		if err == nil {
			return ErrConfigExists
		}
		if !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("cannot access config path %s: %w", path, err)
		}
	}
	if err := config.New().Save(path); err != nil {
		return fmt.Errorf("saving configuration: %w", err)
	}
	return nil
}
