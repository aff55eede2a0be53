package models

import (
	"encoding/json"

	"github.com/shopspring/decimal"
)

// Expense is a shared cost entry as persisted by the remote API.
type Expense struct {
	ID           int64           `json:"id"`
	Group        int64           `json:"group"`
	Title        string          `json:"title"`
	Amount       decimal.Decimal `json:"amount"`
	PaidBy       User            `json:"paid_by"`
	SplitBetween []int64         `json:"split_between"`

	// SplitsDetail is the display form, keyed by member name.
	SplitsDetail []SplitDetail `json:"splits_detail"`

	// Splits is the per-member allocation keyed by member id.
	Splits []Split `json:"splits"`

	Notes     string `json:"notes"`
	CreatedAt string `json:"created_at"`
}

// SplitDetail is one member's share rendered by name.
type SplitDetail struct {
	User   string          `json:"user"`
	Amount decimal.Decimal `json:"amount"`
}

// Split is one member's share of an expense.
type Split struct {
	Amount decimal.Decimal `json:"amount"`
	User   int64           `json:"user"`
}

// ExpenseInput is the body accepted by the create and update expense endpoints.
type ExpenseInput struct {
	Title string `json:"title"`

	// Amount is sent as a JSON number.
	Amount json.Number `json:"amount"`

	Group        int64        `json:"group"`
	PaidByID     int64        `json:"paid_by_id"`
	SplitBetween []int64      `json:"split_between"`
	Splits       []SplitInput `json:"splits"`
	Notes        string       `json:"notes"`
	Date         string       `json:"date"`
}

// SplitInput is a submitted share; the amount is a two-decimal string.
type SplitInput struct {
	Amount string `json:"amount"`
	User   int64  `json:"user"`
}

// Balance is one member's outstanding debts as computed by the remote API.
type Balance struct {
	User string                     `json:"user"`
	Owes map[string]decimal.Decimal `json:"owes"`
}
