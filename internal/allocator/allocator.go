// Package allocator divides an expense total among the selected participants.
//
// A Draft is a plain value: every operation returns a new Draft and leaves
// the receiver untouched, so callers can keep the previous state around for
// undo or comparison. Amounts are shopspring decimals rounded to two places
// with the same policy (half away from zero) everywhere.
//
// Manual edits cascade: SetParticipantAmount pins the edited participant and
// re-splits the remainder equally across everyone else, discarding earlier
// manual edits made to those other participants. Pinning more than the total
// leaves the others with negative shares; Validate reports that as
// over-allocation so it never reaches submission.
package allocator

import (
	"strings"

	"github.com/shopspring/decimal"
)

// Places is the number of decimal places every allocation is rounded to.
const Places = 2

// Bounds on accepted amount text. Decimal arithmetic on huge exponents does
// not terminate in practice, so anything outside them parses as zero.
const (
	maxAmountLen = 32
	maxExponent  = 12
	minExponent  = -18
)

// ParticipantID identifies a group member taking part in an expense.
type ParticipantID int64

// Allocation maps each selected participant to their share of the total.
type Allocation map[ParticipantID]decimal.Decimal

// Share is one participant's entry in a submitted split.
type Share struct {
	Participant ParticipantID
	Amount      decimal.Decimal
}

// Draft is the in-progress split of a single expense.
type Draft struct {
	// AmountText is the total exactly as typed, kept for display.
	AmountText string

	// SplitBetween is the ordered participant selection.
	SplitBetween []ParticipantID

	// Allocation holds per-participant amounts. Keys are always a subset of SplitBetween.
	Allocation Allocation
}

// New returns an empty draft: zero total, nobody selected.
func New() Draft {
	return Draft{Allocation: Allocation{}}
}

// ParseAmount parses user-entered money text. Empty, unparseable or
// out-of-range text is zero.
func ParseAmount(text string) decimal.Decimal {
	text = strings.TrimSpace(text)
	if len(text) > maxAmountLen {
		return decimal.Zero
	}
	d, err := decimal.NewFromString(text)
	if err != nil {
		return decimal.Zero
	}
	if exp := d.Exponent(); exp > maxExponent || exp < minExponent {
		return decimal.Zero
	}
	return d
}

// Total is the parsed total amount.
func (d Draft) Total() decimal.Decimal {
	return ParseAmount(d.AmountText)
}

// Selected reports whether id is part of the selection.
func (d Draft) Selected(id ParticipantID) bool {
	for _, p := range d.SplitBetween {
		if p == id {
			return true
		}
	}
	return false
}

// SetTotalAmount records a new total and resets everyone to an equal split.
func (d Draft) SetTotalAmount(amountText string) Draft {
	next := d.clone()
	next.AmountText = amountText
	if len(next.SplitBetween) > 0 {
		next.Allocation = equalSplit(next.Total(), next.SplitBetween)
	}
	return next
}

// SetParticipants replaces the selection and splits the current total equally across it.
// Duplicate ids are dropped; the first occurrence keeps its position.
func (d Draft) SetParticipants(ids []ParticipantID) Draft {
	next := d.clone()
	next.SplitBetween = dedupe(ids)
	next.Allocation = equalSplit(next.Total(), next.SplitBetween)
	return next
}

// SetParticipantAmount pins one participant's share and re-splits the rest.
//
// Empty amountText clears the participant's entry; the cleared participant
// counts as zero when computing what remains for the others. Ids outside the
// selection are ignored.
func (d Draft) SetParticipantAmount(id ParticipantID, amountText string) Draft {
	if !d.Selected(id) {
		return d.clone()
	}
	next := d.clone()

	changed := decimal.Zero
	if strings.TrimSpace(amountText) == "" {
		delete(next.Allocation, id)
	} else {
		changed = round(ParseAmount(amountText))
		next.Allocation[id] = changed
	}

	others := make([]ParticipantID, 0, len(next.SplitBetween)-1)
	for _, p := range next.SplitBetween {
		if p != id {
			others = append(others, p)
		}
	}
	if len(others) == 0 {
		return next
	}

	share := divide(next.Total().Sub(changed), len(others))
	for _, p := range others {
		next.Allocation[p] = share
	}
	return next
}

// Sum adds up every allocation.
func (d Draft) Sum() decimal.Decimal {
	sum := decimal.Zero
	for _, amt := range d.Allocation {
		sum = sum.Add(amt)
	}
	return sum
}

// Shares lists allocations in selection order for submission.
func (d Draft) Shares() []Share {
	shares := make([]Share, 0, len(d.Allocation))
	for _, p := range d.SplitBetween {
		if amt, ok := d.Allocation[p]; ok {
			shares = append(shares, Share{Participant: p, Amount: amt})
		}
	}
	return shares
}

// Seed rebuilds a draft from a persisted expense. Shares for participants
// outside splitBetween are dropped. With no shares at all the total is split
// equally, which is how an expense without per-member detail is displayed.
func Seed(amountText string, splitBetween []ParticipantID, shares []Share) Draft {
	d := Draft{AmountText: amountText, SplitBetween: dedupe(splitBetween)}
	if len(shares) == 0 {
		d.Allocation = equalSplit(d.Total(), d.SplitBetween)
		return d
	}
	d.Allocation = make(Allocation, len(shares))
	for _, s := range shares {
		if d.Selected(s.Participant) {
			d.Allocation[s.Participant] = round(s.Amount)
		}
	}
	return d
}

func (d Draft) clone() Draft {
	next := Draft{
		AmountText:   d.AmountText,
		SplitBetween: append([]ParticipantID(nil), d.SplitBetween...),
		Allocation:   make(Allocation, len(d.Allocation)),
	}
	for p, amt := range d.Allocation {
		next.Allocation[p] = amt
	}
	return next
}

func equalSplit(total decimal.Decimal, ids []ParticipantID) Allocation {
	alloc := make(Allocation, len(ids))
	if len(ids) == 0 {
		return alloc
	}
	share := divide(total, len(ids))
	for _, p := range ids {
		alloc[p] = share
	}
	return alloc
}

func divide(amount decimal.Decimal, n int) decimal.Decimal {
	return amount.DivRound(decimal.NewFromInt(int64(n)), Places)
}

func round(amount decimal.Decimal) decimal.Decimal {
	return amount.Round(Places)
}

func dedupe(ids []ParticipantID) []ParticipantID {
	seen := make(map[ParticipantID]bool, len(ids))
	out := make([]ParticipantID, 0, len(ids))
	for _, id := range ids {
		if seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	return out
}
