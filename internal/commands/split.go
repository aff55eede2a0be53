package commands

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/mmynk/splitfree/internal/allocator"
)

func newSplitCommand() *cobra.Command {
	var total string
	var with []int64
	var set []string
	var clearIDs []int64

	cmd := &cobra.Command{
		Use:   "split",
		Short: "Compute an expense split offline",
		Long: `Compute an expense split without contacting the API.

The total is split equally across --with. Each --set id=amount then pins one
member's share and re-splits the remainder equally across the others, in the
order given. --clear removes a member's share after all --set edits.`,
		Example: `  splitfree split --total 30 --with 1,2,3 --set 1=15`,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			edits, err := parseEdits(set)
			if err != nil {
				return err
			}
			return runSplit(cmd.OutOrStdout(), total, with, edits, clearIDs)
		},
	}

	cmd.Flags().StringVar(&total, "total", "", "expense total (required)")
	_ = cmd.MarkFlagRequired("total")
	cmd.Flags().Int64SliceVar(&with, "with", nil, "member ids to split between, in order")
	cmd.Flags().StringArrayVar(&set, "set", nil, "pin a member's share as id=amount (repeatable)")
	cmd.Flags().Int64SliceVar(&clearIDs, "clear", nil, "member ids whose share to clear")

	return cmd
}

type edit struct {
	id     allocator.ParticipantID
	amount string
}

func parseEdits(values []string) ([]edit, error) {
	edits := make([]edit, 0, len(values))
	for _, v := range values {
		idText, amount, ok := strings.Cut(v, "=")
		if !ok {
			return nil, fmt.Errorf("invalid --set %q: want id=amount", v)
		}
		id, err := strconv.ParseInt(strings.TrimSpace(idText), 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid --set %q: bad member id: %w", v, err)
		}
		edits = append(edits, edit{id: allocator.ParticipantID(id), amount: amount})
	}
	return edits, nil
}

func runSplit(out io.Writer, total string, with []int64, edits []edit, clearIDs []int64) error {
	ids := make([]allocator.ParticipantID, len(with))
	for i, id := range with {
		ids[i] = allocator.ParticipantID(id)
	}

	draft := allocator.New().SetTotalAmount(total).SetParticipants(ids)
	for _, e := range edits {
		draft = draft.SetParticipantAmount(e.id, e.amount)
	}
	for _, id := range clearIDs {
		draft = draft.SetParticipantAmount(allocator.ParticipantID(id), "")
	}

	tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(tw, "MEMBER\tAMOUNT\t")
	for _, s := range draft.Shares() {
		fmt.Fprintf(tw, "%d\t%s\t\n", s.Participant, s.Amount.StringFixed(allocator.Places))
	}
	fmt.Fprintf(tw, "sum\t%s\t\n", draft.Sum().StringFixed(allocator.Places))
	fmt.Fprintf(tw, "total\t%s\t\n", draft.Total().StringFixed(allocator.Places))
	if err := tw.Flush(); err != nil {
		return err
	}

	if err := draft.Validate(); err != nil {
		fmt.Fprintf(out, "invalid: %v\n", err)
		return err
	}
	fmt.Fprintln(out, "valid")
	return nil
}
