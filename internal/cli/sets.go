package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"cardstash/internal/catalog"
)

// NewSetsCommand creates the sets command group.
func NewSetsCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sets",
		Short: "Manage cached catalog sets",
	}

	cmd.AddCommand(newSetsListCommand())
	cmd.AddCommand(newSetsDirectoryCommand())
	cmd.AddCommand(newSetsCacheCommand())
	cmd.AddCommand(newSetsActivateCommand(true))
	cmd.AddCommand(newSetsActivateCommand(false))
	cmd.AddCommand(newSetsClearCommand())

	return cmd
}

func newSetsListCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List cached sets",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := openApp()
			if err != nil {
				return err
			}
			defer func() {
				_ = app.Close()
			}()

			entries, err := app.Catalog.ListCachedSets(cmd.Context())
			if err != nil {
				return err
			}
			for _, e := range entries {
				marker := " "
				if e.Active {
					marker = "*"
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s %s\t%s\t%d cards\tcached %s\n",
					marker, e.SetCode, e.SetName, e.CardCount, e.CachedAt.Format("2006-01-02"))
			}
			return nil
		},
	}
}

func newSetsDirectoryCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "directory",
		Short: "List known sets from the catalog directory",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := openApp()
			if err != nil {
				return err
			}
			defer func() {
				_ = app.Close()
			}()

			for _, entry := range app.Directory.Entries(cmd.Context()) {
				fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\n", entry.Code, entry.Name)
			}
			return nil
		},
	}
}

func newSetsCacheCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "cache <code>",
		Short: "Fetch a set from the remote catalog and cache it locally",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := openApp()
			if err != nil {
				return err
			}
			defer func() {
				_ = app.Close()
			}()

			ctx := cmd.Context()
			setCode := args[0]

			payload, err := app.Client.FetchSet(ctx, setCode)
			if err != nil {
				return err
			}

			rows := make([]catalog.RawCard, 0, len(payload.Cards))
			for _, c := range payload.Cards {
				rows = append(rows, catalog.RawCard{
					ID:              c.ID,
					Name:            c.Name,
					CollectorNumber: c.CollectorNumber,
					Rarity:          c.Rarity,
					TypeLine:        c.TypeLine,
					ImageURL:        c.ImageURL,
					ImageURLBack:    c.ImageURLBack,
				})
			}

			count, err := app.Catalog.PutSet(ctx, setCode, payload.SetName, rows)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "cached %d cards for %s\n", count, setCode)
			return nil
		},
	}
}

func newSetsActivateCommand(active bool) *cobra.Command {
	use, short := "activate <code>", "Put a cached set in search scope"
	if !active {
		use, short = "deactivate <code>", "Take a cached set out of search scope"
	}
	return &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := openApp()
			if err != nil {
				return err
			}
			defer func() {
				_ = app.Close()
			}()

			return app.Catalog.SetActive(cmd.Context(), args[0], active)
		},
	}
}

func newSetsClearCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "clear <code>",
		Short: "Remove a cached set and its cards",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := openApp()
			if err != nil {
				return err
			}
			defer func() {
				_ = app.Close()
			}()

			return app.Catalog.ClearSet(cmd.Context(), args[0])
		},
	}
}
