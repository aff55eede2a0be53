package allocator

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

var (
	ErrOverAllocated  = errors.New("total split amount cannot exceed the expense amount")
	ErrUnderAllocated = errors.New("total split amount must equal the expense amount")
)

// Validate checks that the allocations add up to the total at two decimal places
// and that no share is negative. It returns nil, or an error wrapping
// ErrOverAllocated or ErrUnderAllocated.
func (d Draft) Validate() error {
	for _, s := range d.Shares() {
		if s.Amount.IsNegative() {
			return fmt.Errorf("%w: participant %d is left with %s", ErrOverAllocated, s.Participant, s.Amount.StringFixed(Places))
		}
	}
	sum := round(d.Sum())
	total := round(d.Total())
	switch sum.Cmp(total) {
	case 1:
		return fmt.Errorf("%w: splits add up to %s, expense is %s", ErrOverAllocated, sum.StringFixed(Places), total.StringFixed(Places))
	case -1:
		return fmt.Errorf("%w: splits add up to %s, expense is %s", ErrUnderAllocated, sum.StringFixed(Places), total.StringFixed(Places))
	}
	return nil
}

// Difference is the signed gap between the allocations and the total.
// Positive means over-allocated.
func (d Draft) Difference() decimal.Decimal {
	return round(d.Sum()).Sub(round(d.Total()))
}
