package api

// Validation statuses reported with every draft.
const (
	StatusValid          = "valid"
	StatusOverAllocated  = "over_allocated"
	StatusUnderAllocated = "under_allocated"
)

// Share is one participant's portion of an expense.
type Share struct {
	MemberID int64  `json:"member_id"`
	Amount   string `json:"amount"`
}

// Validation is the live allocation check shown next to a draft.
type Validation struct {
	Status string `json:"status"`

	// Message is empty when the draft is valid.
	Message string `json:"message,omitempty"`

	// Difference is sum of shares minus the total.
	Difference string `json:"difference"`
}

// Draft is an expense being composed or edited.
type Draft struct {
	ID        string `json:"id"`
	GroupID   int64  `json:"group_id"`
	ExpenseID int64  `json:"expense_id,omitempty"`
	Title     string `json:"title"`
	PaidBy    int64  `json:"paid_by"`
	Notes     string `json:"notes,omitempty"`
	Date      string `json:"date,omitempty"`

	// AmountText is the total exactly as typed; Total is its parsed value.
	AmountText string `json:"amount_text"`
	Total      string `json:"total"`

	SplitBetween []int64     `json:"split_between"`
	Shares       []Share     `json:"shares"`
	Validation   *Validation `json:"validation"`

	CreatedAt int64 `json:"created_at"`
	UpdatedAt int64 `json:"updated_at"`
}

// DraftResponse is returned by every call that reads or edits one draft.
type DraftResponse struct {
	Draft *Draft `json:"draft"`
}

type CreateDraftRequest struct {
	GroupID int64 `json:"group_id"`

	// ExpenseID seeds the draft from an existing expense when set.
	ExpenseID int64 `json:"expense_id,omitempty"`
}

type GetDraftRequest struct {
	DraftID string `json:"draft_id"`
}

type ListDraftsRequest struct {
	// GroupID narrows the list to one group when set.
	GroupID int64 `json:"group_id,omitempty"`
}

type ListDraftsResponse struct {
	Drafts []*Draft `json:"drafts"`
}

type SetTotalAmountRequest struct {
	DraftID string `json:"draft_id"`
	Amount  string `json:"amount"`
}

type SetParticipantsRequest struct {
	DraftID   string  `json:"draft_id"`
	MemberIDs []int64 `json:"member_ids"`
}

type SetParticipantAmountRequest struct {
	DraftID  string `json:"draft_id"`
	MemberID int64  `json:"member_id"`

	// Amount clears the participant's share when empty.
	Amount string `json:"amount"`
}

type UpdateDetailsRequest struct {
	DraftID string `json:"draft_id"`
	Title   string `json:"title"`
	PaidBy  int64  `json:"paid_by"`
	Notes   string `json:"notes"`
	Date    string `json:"date"`
}

type ValidateDraftRequest struct {
	DraftID string `json:"draft_id"`
}

type ValidateDraftResponse struct {
	Validation *Validation `json:"validation"`
}

type SubmitDraftRequest struct {
	DraftID string `json:"draft_id"`
}

type SubmitDraftResponse struct {
	Expense *Expense `json:"expense"`
}

type DiscardDraftRequest struct {
	DraftID string `json:"draft_id"`
}
