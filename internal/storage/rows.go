package storage

import (
	"github.com/shopspring/decimal"

	"github.com/mmynk/splitfree/internal/allocator"
)

// ParticipantRow is the persisted form of one selected participant.
// Amount is nil when the participant has no allocation entry.
type ParticipantRow struct {
	MemberID int64
	Position int
	Amount   *string
}

// SplitRows flattens a draft's selection and allocation into rows, in selection order.
func SplitRows(split allocator.Draft) []ParticipantRow {
	rows := make([]ParticipantRow, 0, len(split.SplitBetween))
	for i, p := range split.SplitBetween {
		row := ParticipantRow{MemberID: int64(p), Position: i}
		if amt, ok := split.Allocation[p]; ok {
			s := amt.String()
			row.Amount = &s
		}
		rows = append(rows, row)
	}
	return rows
}

// RestoreSplit rebuilds a draft split from its total text and rows ordered by position.
func RestoreSplit(amountText string, rows []ParticipantRow) (allocator.Draft, error) {
	split := allocator.New()
	split.AmountText = amountText
	for _, row := range rows {
		p := allocator.ParticipantID(row.MemberID)
		split.SplitBetween = append(split.SplitBetween, p)
		if row.Amount == nil {
			continue
		}
		amt, err := decimal.NewFromString(*row.Amount)
		if err != nil {
			return allocator.Draft{}, err
		}
		split.Allocation[p] = amt
	}
	return split, nil
}
