package commands

import (
	"fmt"
	"sort"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/mmynk/splitfree/internal/allocator"
)

func newGroupsCommand(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "groups",
		Short: "List your groups",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			groups, err := opts.remoteClient().ListGroups(cmd.Context())
			if err != nil {
				return fmt.Errorf("listing groups: %w", err)
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(tw, "ID\tNAME\tMEMBERS\tINVITE")
			for _, g := range groups {
				fmt.Fprintf(tw, "%d\t%s\t%d\t%s\n", g.ID, g.Name, len(g.Members), g.UUID)
			}
			return tw.Flush()
		},
	}
}

func newExpensesCommand(opts *options) *cobra.Command {
	var groupID int64

	cmd := &cobra.Command{
		Use:   "expenses",
		Short: "List a group's expenses",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			expenses, err := opts.remoteClient().ListExpenses(cmd.Context(), groupID)
			if err != nil {
				return fmt.Errorf("listing expenses: %w", err)
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(tw, "ID\tTITLE\tAMOUNT\tPAID BY")
			for _, e := range expenses {
				fmt.Fprintf(tw, "%d\t%s\t%s\t%s\n", e.ID, e.Title, e.Amount.StringFixed(allocator.Places), e.PaidBy.DisplayName())
			}
			return tw.Flush()
		},
	}

	cmd.Flags().Int64Var(&groupID, "group", 0, "group id (required)")
	_ = cmd.MarkFlagRequired("group")

	return cmd
}

func newBalancesCommand(opts *options) *cobra.Command {
	var groupID int64

	cmd := &cobra.Command{
		Use:   "balances",
		Short: "Show who owes whom in a group",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			balances, err := opts.remoteClient().ListBalances(cmd.Context(), groupID)
			if err != nil {
				return fmt.Errorf("listing balances: %w", err)
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(tw, "DEBTOR\tOWES\tAMOUNT")
			for _, b := range balances {
				names := make([]string, 0, len(b.Owes))
				for name := range b.Owes {
					names = append(names, name)
				}
				sort.Strings(names)
				for _, name := range names {
					fmt.Fprintf(tw, "%s\t%s\t%s\n", b.User, name, b.Owes[name].StringFixed(allocator.Places))
				}
			}
			return tw.Flush()
		},
	}

	cmd.Flags().Int64Var(&groupID, "group", 0, "group id (required)")
	_ = cmd.MarkFlagRequired("group")

	return cmd
}
