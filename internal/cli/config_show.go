package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/rshade/virtuallist/internal/config"
)

// NewConfigShowCmd creates the config show command, which prints the
// effective configuration as YAML after files and environment are applied.
func NewConfigShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "show",
		Short:   "Print the effective configuration",
		Example: `  VIRTUALLIST_WINDOW_BUFFER_AFTER=5 virtuallist config show`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			enc := yaml.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent(2)
			if err := enc.Encode(config.GetGlobalConfig()); err != nil {
				return fmt.Errorf("encoding config: %w", err)
			}
			return enc.Close()
		},
	}
}
