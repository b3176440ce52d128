package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// NewPlansCommand creates the plans command group.
func NewPlansCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "plans",
		Short: "Manage retrieval plans",
	}

	cmd.AddCommand(newPlansListCommand())
	cmd.AddCommand(newPlansShowCommand())
	cmd.AddCommand(newPlansSweepCommand())
	cmd.AddCommand(newPlansDeleteCommand())

	return cmd
}

func newPlansListCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List non-expired retrieval plans",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := openApp()
			if err != nil {
				return err
			}
			defer func() {
				_ = app.Close()
			}()

			plans, err := app.Inventory.ListPlans(cmd.Context())
			if err != nil {
				return err
			}
			for _, p := range plans {
				fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\t%d items\texpires %s\n",
					p.ID, p.Title, len(p.Items), p.ExpiresAt.Format("2006-01-02"))
			}
			return nil
		},
	}
}

func newPlansShowCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Show a retrieval plan's pick list",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := openApp()
			if err != nil {
				return err
			}
			defer func() {
				_ = app.Close()
			}()

			plan, err := app.Inventory.Plan(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "%s -> %s (offset %d)\n", plan.Title, plan.TargetLocation, plan.TargetOffset)
			for i, item := range plan.Items {
				mark := " "
				if item.Checked {
					mark = "x"
				}
				from := "unknown"
				if item.CurrentLocation != "" {
					from = fmt.Sprintf("%sp%d", item.CurrentLocation, item.CurrentPosition)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "[%s] %d. %s (%s #%s) from %s\n",
					mark, i, item.CardName, item.SetCode, item.CollectorNumber, from)
			}
			return nil
		},
	}
}

func newPlansSweepCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "sweep",
		Short: "Delete expired retrieval plans",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := openApp()
			if err != nil {
				return err
			}
			defer func() {
				_ = app.Close()
			}()

			removed, err := app.Inventory.SweepExpiredPlans(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "removed %d expired plans\n", removed)
			return nil
		},
	}
}

func newPlansDeleteCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a retrieval plan",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := openApp()
			if err != nil {
				return err
			}
			defer func() {
				_ = app.Close()
			}()

			return app.Inventory.DeletePlan(cmd.Context(), args[0])
		},
	}
}
