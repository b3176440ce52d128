package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

// CheckoutOptions holds flags for the checkout command.
type CheckoutOptions struct {
	Target string
	Offset int
}

// NewCheckoutCommand creates the checkout command.
func NewCheckoutCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &CheckoutOptions{}

	cmd := &cobra.Command{
		Use:   "checkout <inventory-id>...",
		Short: "Check inventory items out to a target location",
		Long: `Check inventory items out to a target location. Items get positions
offset, offset+1, ... in argument order, their location notes are rewritten,
and a retrieval plan is created for picking them from their current spots.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ids, err := parseIDs(args)
			if err != nil {
				return err
			}

			app, err := openApp()
			if err != nil {
				return err
			}
			defer func() {
				_ = app.Close()
			}()

			result, err := app.Inventory.Checkout(cmd.Context(), ids, opts.Target, opts.Offset)
			if err != nil {
				return err
			}

			for _, c := range result.Checkouts {
				fmt.Fprintf(cmd.OutOrStdout(), "%s -> %sp%d\n", c.CardName, c.TargetLocation, c.TargetPosition)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "retrieval plan: %s\n", result.PlanID)
			return nil
		},
	}

	cmd.Flags().StringVar(&opts.Target, "to", "", "target location tag (required)")
	cmd.Flags().IntVar(&opts.Offset, "offset", 1, "first position at the target location")
	_ = cmd.MarkFlagRequired("to")

	return cmd
}

// CheckinOptions holds flags for the checkin command.
type CheckinOptions struct {
	ReturnLocation string
	ReturnPosition int
}

// NewCheckinCommand creates the checkin command.
func NewCheckinCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &CheckinOptions{}

	cmd := &cobra.Command{
		Use:   "checkin <checkout-id>...",
		Short: "Close checkout ledger entries",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ids, err := parseIDs(args)
			if err != nil {
				return err
			}

			app, err := openApp()
			if err != nil {
				return err
			}
			defer func() {
				_ = app.Close()
			}()

			updated, err := app.Inventory.Checkin(cmd.Context(), ids, opts.ReturnLocation, opts.ReturnPosition)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "checked in %d of %d\n", updated, len(ids))
			return nil
		},
	}

	cmd.Flags().StringVar(&opts.ReturnLocation, "return", "", "location the items went back to")
	cmd.Flags().IntVar(&opts.ReturnPosition, "position", 0, "position at the return location")

	return cmd
}

// NewLocationsCommand creates the locations command.
func NewLocationsCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "locations",
		Short: "List known location tags with their highest position",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := openApp()
			if err != nil {
				return err
			}
			defer func() {
				_ = app.Close()
			}()

			locations, err := app.Inventory.ListLocations(cmd.Context())
			if err != nil {
				return err
			}
			for _, l := range locations {
				fmt.Fprintf(cmd.OutOrStdout(), "%s\tmax position %d\n", l.Tag, l.MaxPosition)
			}
			return nil
		},
	}
}

func parseIDs(args []string) ([]int64, error) {
	ids := make([]int64, 0, len(args))
	for _, arg := range args {
		id, err := strconv.ParseInt(arg, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid id %q", arg)
		}
		ids = append(ids, id)
	}
	return ids, nil
}
