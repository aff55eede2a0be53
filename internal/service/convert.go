package service

import (
	"encoding/json"
	"errors"

	"github.com/mmynk/splitfree/internal/allocator"
	"github.com/mmynk/splitfree/internal/models"
	"github.com/mmynk/splitfree/pkg/api"
)

func toAPIUser(u *models.User) *api.User {
	return &api.User{
		ID:          u.ID,
		Username:    u.Username,
		Email:       u.Email,
		DisplayName: u.DisplayName(),
	}
}

func toAPIMember(m models.Member) *api.Member {
	return &api.Member{ID: m.ID, Username: m.Username, Email: m.Email}
}

func toAPIGroup(g *models.Group) *api.Group {
	members := make([]*api.Member, len(g.Members))
	for i, m := range g.Members {
		members[i] = toAPIMember(m)
	}
	return &api.Group{
		ID:          g.ID,
		UUID:        g.UUID,
		Name:        g.Name,
		Description: g.Description,
		CreatedAt:   g.CreatedAt,
		Members:     members,
	}
}

func toAPIExpense(e *models.Expense) *api.Expense {
	shares := make([]api.Share, len(e.Splits))
	for i, s := range e.Splits {
		shares[i] = api.Share{MemberID: s.User, Amount: s.Amount.StringFixed(allocator.Places)}
	}
	return &api.Expense{
		ID:      e.ID,
		GroupID: e.Group,
		Title:   e.Title,
		Amount:  e.Amount.StringFixed(allocator.Places),
		PaidBy: &api.Member{
			ID:       e.PaidBy.ID,
			Username: e.PaidBy.Username,
			Email:    e.PaidBy.Email,
		},
		SplitBetween: e.SplitBetween,
		Shares:       shares,
		Notes:        e.Notes,
		CreatedAt:    e.CreatedAt,
	}
}

func toAPIBalance(b models.Balance) *api.Balance {
	owes := make(map[string]string, len(b.Owes))
	for name, amount := range b.Owes {
		owes[name] = amount.StringFixed(allocator.Places)
	}
	return &api.Balance{User: b.User, Owes: owes}
}

// toAPIValidation reports the live allocation check for a split.
func toAPIValidation(split allocator.Draft) *api.Validation {
	v := &api.Validation{
		Status:     api.StatusValid,
		Difference: split.Difference().StringFixed(allocator.Places),
	}
	if err := split.Validate(); err != nil {
		v.Message = err.Error()
		if errors.Is(err, allocator.ErrOverAllocated) {
			v.Status = api.StatusOverAllocated
		} else {
			v.Status = api.StatusUnderAllocated
		}
	}
	return v
}

func toAPIDraft(d *models.Draft) *api.Draft {
	splitBetween := make([]int64, len(d.Split.SplitBetween))
	for i, p := range d.Split.SplitBetween {
		splitBetween[i] = int64(p)
	}
	return &api.Draft{
		ID:           d.ID,
		GroupID:      d.GroupID,
		ExpenseID:    d.ExpenseID,
		Title:        d.Title,
		PaidBy:       d.PaidBy,
		Notes:        d.Notes,
		Date:         d.Date,
		AmountText:   d.Split.AmountText,
		Total:        d.Split.Total().StringFixed(allocator.Places),
		SplitBetween: splitBetween,
		Shares:       toAPIShares(d.Split.Shares()),
		Validation:   toAPIValidation(d.Split),
		CreatedAt:    d.CreatedAt,
		UpdatedAt:    d.UpdatedAt,
	}
}

func toAPIShares(shares []allocator.Share) []api.Share {
	out := make([]api.Share, len(shares))
	for i, s := range shares {
		out[i] = api.Share{MemberID: int64(s.Participant), Amount: s.Amount.StringFixed(allocator.Places)}
	}
	return out
}

// expenseInput renders a draft as the remote create/update body.
func expenseInput(d *models.Draft) *models.ExpenseInput {
	input := &models.ExpenseInput{
		Title:        d.Title,
		Amount:       json.Number(d.Split.Total().StringFixed(allocator.Places)),
		Group:        d.GroupID,
		PaidByID:     d.PaidBy,
		SplitBetween: make([]int64, len(d.Split.SplitBetween)),
		Notes:        d.Notes,
		Date:         d.Date,
	}
	for i, p := range d.Split.SplitBetween {
		input.SplitBetween[i] = int64(p)
	}
	for _, s := range d.Split.Shares() {
		input.Splits = append(input.Splits, models.SplitInput{
			Amount: s.Amount.StringFixed(allocator.Places),
			User:   int64(s.Participant),
		})
	}
	return input
}

// seedSplit rebuilds the allocator state of a persisted expense.
func seedSplit(e *models.Expense) allocator.Draft {
	splitBetween := make([]allocator.ParticipantID, len(e.SplitBetween))
	for i, id := range e.SplitBetween {
		splitBetween[i] = allocator.ParticipantID(id)
	}
	shares := make([]allocator.Share, len(e.Splits))
	for i, s := range e.Splits {
		shares[i] = allocator.Share{Participant: allocator.ParticipantID(s.User), Amount: s.Amount}
	}
	return allocator.Seed(e.Amount.StringFixed(allocator.Places), splitBetween, shares)
}

func participantIDs(ids []int64) []allocator.ParticipantID {
	out := make([]allocator.ParticipantID, len(ids))
	for i, id := range ids {
		out[i] = allocator.ParticipantID(id)
	}
	return out
}
