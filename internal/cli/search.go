package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"cardstash/internal/search"
)

// SearchOptions holds flags for the search command.
type SearchOptions struct {
	Limit int
	Sets  []string
}

// NewSearchCommand creates the search command.
func NewSearchCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &SearchOptions{}

	cmd := &cobra.Command{
		Use:   "search <query>",
		Short: "Search the cached catalog",
		Long: `Search the cached catalog. The query is classified automatically:
all-uppercase queries match initials ("LB" finds Lightning Bolt), multi-word
queries match token prefixes, anything else matches name prefixes.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSearch(cmd, opts, strings.Join(args, " "))
		},
	}

	cmd.Flags().IntVar(&opts.Limit, "limit", search.DefaultLimit, "maximum results")
	cmd.Flags().StringSliceVar(&opts.Sets, "sets", nil, "restrict to set codes (default: active sets)")

	return cmd
}

func runSearch(cmd *cobra.Command, opts *SearchOptions, query string) error {
	app, err := openApp()
	if err != nil {
		return err
	}
	defer func() {
		_ = app.Close()
	}()

	ctx := cmd.Context()

	setCodes := opts.Sets
	if len(setCodes) == 0 {
		setCodes, err = app.Catalog.ListActiveSetCodes(ctx)
		if err != nil {
			return err
		}
	}

	results, err := app.Engine.Search(ctx, query, setCodes, opts.Limit)
	if err != nil {
		return err
	}

	if len(results) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "no matches")
		return nil
	}
	for _, c := range results {
		line := fmt.Sprintf("%d\t%s\t%s #%s", c.ID, c.Name, c.SetCode, c.CollectorNumber)
		if len(c.VariantTags) > 0 {
			line += "\t[" + strings.Join(c.VariantTags, ", ") + "]"
		}
		fmt.Fprintln(cmd.OutOrStdout(), line)
	}
	return nil
}
