package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kailas-cloud/scriptsearch/internal/domain/search/translit"
)

func newTranslitCmd() *cobra.Command {
	var script string

	cmd := &cobra.Command{
		Use:   "translit <text>...",
		Short: "Rewrite text into Latin or Cyrillic",
		Long: `Rewrites each argument letter by letter through the transliteration tables.
Without --script both directions are printed.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if script == "" {
				for _, text := range args {
					cmd.Printf("%s\t%s\tlatin=%s\tcyrillic=%s\n",
						text,
						translit.DetectScript(text),
						translit.NewProcessor(translit.Latin).Process(text),
						translit.NewProcessor(translit.Cyrillic).Process(text),
					)
				}
				return nil
			}

			s, err := translit.ParseScript(script)
			if err != nil {
				return fmt.Errorf("--script: %w", err)
			}
			for _, out := range translit.Expand(translit.NewProcessor(s), args) {
				cmd.Println(out)
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&script, "script", "s", "", "target script: latin or cyrillic")
	return cmd
}
