package cli

import (
	"github.com/spf13/cobra"

	"github.com/rshade/virtuallist/pkg/version"
)

// NewVersionCmd creates the version command.
func NewVersionCmd(ver string) *cobra.Command {
	var short bool

	cmd := &cobra.Command{
		Use:         "version",
		Short:       "Print version information",
		Annotations: map[string]string{annotationSkipConfig: "true"},
		Run: func(cmd *cobra.Command, _ []string) {
			if short {
				cmd.Println(ver)
				return
			}
			cmd.Printf("virtuallist %s (commit %s, built %s)\n",
				ver, version.GetCommit(), version.GetBuildDate())
		},
	}
	cmd.Flags().BoolVar(&short, "short", false, "print only the version number")
	return cmd
}
