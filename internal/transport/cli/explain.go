package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/kailas-cloud/scriptsearch/internal/config"
	"github.com/kailas-cloud/scriptsearch/internal/domain/search/lookup"
	"github.com/kailas-cloud/scriptsearch/internal/domain/search/request"
	searchuc "github.com/kailas-cloud/scriptsearch/internal/usecase/search"
)

type explainOptions struct {
	fields     []string
	configPath string
	viewName   string
	asJSON     bool
}

func newExplainCmd() *cobra.Command {
	var opts explainOptions

	cmd := &cobra.Command{
		Use:   "explain <search>",
		Short: "Show the condition tree a search builds",
		Long: `Parses the search string the way the API does and prints the condition
tree built for it. Search fields come from --fields, or from a view declared
in the --config file.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := explain(&opts, args[0])
			if err != nil {
				return err
			}
			if opts.asJSON {
				data, err := json.MarshalIndent(e, "", "  ")
				if err != nil {
					return fmt.Errorf("failed to marshal explanation: %w", err)
				}
				cmd.Println(string(data))
				return nil
			}
			printExplanation(cmd, e)
			return nil
		},
	}
	cmd.Flags().StringSliceVarP(&opts.fields, "fields", "f", nil, "search fields, e.g. name,^code,city.name")
	cmd.Flags().StringVarP(&opts.configPath, "config", "c", "", "server config file declaring views")
	cmd.Flags().StringVar(&opts.viewName, "view", "", "view to explain (with --config)")
	cmd.Flags().BoolVar(&opts.asJSON, "json", false, "output as JSON")
	cmd.MarkFlagsMutuallyExclusive("fields", "config")
	cmd.MarkFlagsRequiredTogether("config", "view")
	return cmd
}

func explain(opts *explainOptions, search string) (searchuc.Explanation, error) {
	req, err := request.New(search, 1, 0, request.Limits{})
	if err != nil {
		return searchuc.Explanation{}, err
	}

	if opts.configPath != "" {
		cfg, err := config.LoadFile(opts.configPath)
		if err != nil {
			return searchuc.Explanation{}, err
		}
		views, err := cfg.Registry()
		if err != nil {
			return searchuc.Explanation{}, err
		}
		return searchuc.New(views, nil).Explain(opts.viewName, req)
	}

	if len(opts.fields) == 0 {
		return searchuc.Explanation{}, errors.New("either --fields or --config with --view is required")
	}
	lookups := make([]lookup.Lookup, len(opts.fields))
	for i, f := range opts.fields {
		l, err := lookup.Parse(f)
		if err != nil {
			return searchuc.Explanation{}, fmt.Errorf("--fields: %w", err)
		}
		lookups[i] = l
	}
	return searchuc.Explain(lookups, req.Terms()), nil
}

func printExplanation(cmd *cobra.Command, e searchuc.Explanation) {
	if e.View != "" {
		cmd.Printf("view:     %s\n", e.View)
	}
	cmd.Printf("terms:    %s\n", strings.Join(e.Terms, " | "))
	scripts := make([]string, len(e.Scripts))
	for i, s := range e.Scripts {
		scripts[i] = string(s)
	}
	cmd.Printf("scripts:  %s\n", strings.Join(scripts, " | "))
	cmd.Printf("latin:    %s\n", strings.Join(e.Latin, " | "))
	cmd.Printf("cyrillic: %s\n", strings.Join(e.Cyrillic, " | "))
	cmd.Printf("fields:   %s\n", strings.Join(e.Fields, ", "))
	if e.PassThrough {
		cmd.Println("where:    (none, listing is unfiltered)")
		return
	}
	cmd.Printf("where:    %s\n", e.Where)
	cmd.Printf("leaves:   %d\n", e.Leaves)
	cmd.Printf("distinct: %t\n", e.Distinct)
}
