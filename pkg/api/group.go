package api

type Member struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email,omitempty"`
}

type Group struct {
	ID          int64     `json:"id"`
	UUID        string    `json:"uuid"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	CreatedAt   string    `json:"created_at,omitempty"`
	Members     []*Member `json:"members"`
}

// Expense is a persisted expense as reported by the remote API.
type Expense struct {
	ID           int64   `json:"id"`
	GroupID      int64   `json:"group_id"`
	Title        string  `json:"title"`
	Amount       string  `json:"amount"`
	PaidBy       *Member `json:"paid_by"`
	SplitBetween []int64 `json:"split_between"`
	Shares       []Share `json:"shares"`
	Notes        string  `json:"notes,omitempty"`
	CreatedAt    string  `json:"created_at,omitempty"`
}

// Balance is one member's debts, keyed by the name of whom they owe.
type Balance struct {
	User string            `json:"user"`
	Owes map[string]string `json:"owes"`
}

type ListGroupsRequest struct{}

type ListGroupsResponse struct {
	Groups []*Group `json:"groups"`
}

type GetGroupRequest struct {
	// GroupRef is the numeric group id or an invite UUID.
	GroupRef string `json:"group_ref"`
}

type GroupResponse struct {
	Group *Group `json:"group"`

	// AlreadyMember reports whether the caller belongs to the group.
	AlreadyMember bool `json:"already_member"`
}

type CreateGroupRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

type JoinGroupRequest struct {
	UUID string `json:"uuid"`
}

type ListExpensesRequest struct {
	GroupID int64 `json:"group_id"`
}

type ListExpensesResponse struct {
	Expenses []*Expense `json:"expenses"`
}

type DeleteExpenseRequest struct {
	ExpenseID int64 `json:"expense_id"`
}

type ListBalancesRequest struct {
	GroupID int64 `json:"group_id"`
}

type ListBalancesResponse struct {
	Balances []*Balance `json:"balances"`
}
