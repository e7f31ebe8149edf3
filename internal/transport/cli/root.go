// Package cli implements scriptsearchctl, the offline companion of the API
// server: it runs transliteration and condition building without a database
// and seeds Valkey from fixture files.
package cli

import (
	"github.com/spf13/cobra"
)

// NewRootCmd builds the scriptsearchctl command tree.
func NewRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "scriptsearchctl",
		Short:         "Inspect and seed scriptsearch views",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(
		newTranslitCmd(),
		newExplainCmd(),
		newSeedCmd(),
		newVersionCmd(),
	)
	return root
}
