package cli

import (
	"github.com/spf13/cobra"

	"github.com/kailas-cloud/scriptsearch/internal/version"
)

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version number",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			cmd.Printf("scriptsearchctl version %s (commit %s, built %s)\n",
				version.Version, version.Commit, version.Date)
		},
	}
}
