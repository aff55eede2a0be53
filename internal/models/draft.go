package models

import "github.com/mmynk/splitfree/internal/allocator"

// Draft is an expense being composed or edited by one member.
// It lives until it is submitted or discarded.
type Draft struct {
	// ID is the unique identifier for the draft (UUID format).
	ID string

	// OwnerID is the member id of the session that created the draft.
	OwnerID int64

	// GroupID is the remote group the expense belongs to.
	GroupID int64

	// ExpenseID is the remote expense being edited, or zero for a new expense.
	ExpenseID int64

	Title  string
	PaidBy int64
	Notes  string

	// Date is the expense date in YYYY-MM-DD form.
	Date string

	// Split holds the total, the selection and the allocation.
	Split allocator.Draft

	CreatedAt int64
	UpdatedAt int64
}

// IsEdit reports whether submitting the draft updates an existing expense.
func (d *Draft) IsEdit() bool {
	return d.ExpenseID != 0
}
