package remote

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"sort"

	"github.com/mmynk/splitfree/internal/models"
)

// CurrentUser returns the account the token belongs to.
func (c *Client) CurrentUser(ctx context.Context) (*models.User, error) {
	var user models.User
	if err := c.do(ctx, "current_user", http.MethodGet, "/auth/get-user/", nil, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// Logout invalidates the token on the remote side.
func (c *Client) Logout(ctx context.Context) error {
	return c.do(ctx, "logout", http.MethodPost, "/api/auth/logout/", nil, nil)
}

// ListGroups returns the groups the caller belongs to.
func (c *Client) ListGroups(ctx context.Context) ([]models.Group, error) {
	var groups []models.Group
	if err := c.do(ctx, "list_groups", http.MethodGet, "/api/v1/groups/", nil, &groups); err != nil {
		return nil, err
	}
	return groups, nil
}

// GetGroup returns a group and its members. ref is the numeric id or the invite UUID.
func (c *Client) GetGroup(ctx context.Context, ref string) (*models.Group, error) {
	var raw json.RawMessage
	path := fmt.Sprintf("/api/v1/groups/%s/", url.PathEscape(ref))
	if err := c.do(ctx, "get_group", http.MethodGet, path, nil, &raw); err != nil {
		return nil, err
	}
	return decodeGroup(raw)
}

// decodeGroup accepts both a bare group and the API's {"0": group} wrapper.
func decodeGroup(raw json.RawMessage) (*models.Group, error) {
	var wrapped map[string]json.RawMessage
	if err := json.Unmarshal(raw, &wrapped); err == nil {
		if inner, ok := wrapped["0"]; ok {
			raw = inner
		}
	}
	var group models.Group
	if err := json.Unmarshal(raw, &group); err != nil {
		return nil, fmt.Errorf("failed to decode group: %w", err)
	}
	return &group, nil
}

// CreateGroup creates a group with the caller as its first member.
func (c *Client) CreateGroup(ctx context.Context, name, description string) (*models.Group, error) {
	body := map[string]string{"name": name, "description": description}
	var group models.Group
	if err := c.do(ctx, "create_group", http.MethodPost, "/api/v1/groups/create/", body, &group); err != nil {
		return nil, err
	}
	return &group, nil
}

// JoinGroup adds the caller to the group behind an invite UUID.
func (c *Client) JoinGroup(ctx context.Context, inviteUUID string) (*models.Group, error) {
	var raw json.RawMessage
	path := fmt.Sprintf("/api/v1/groups/%s/add-user/", url.PathEscape(inviteUUID))
	if err := c.do(ctx, "join_group", http.MethodPost, path, struct{}{}, &raw); err != nil {
		return nil, err
	}
	return decodeGroup(raw)
}

// ListExpenses returns a group's expenses ordered by id.
func (c *Client) ListExpenses(ctx context.Context, groupID int64) ([]models.Expense, error) {
	var raw json.RawMessage
	path := fmt.Sprintf("/api/v1/expenses/expenses/%d/", groupID)
	if err := c.do(ctx, "list_expenses", http.MethodGet, path, nil, &raw); err != nil {
		return nil, err
	}

	var expenses []models.Expense
	var byID map[string]models.Expense
	if err := json.Unmarshal(raw, &byID); err == nil {
		for _, e := range byID {
			expenses = append(expenses, e)
		}
	} else if err := json.Unmarshal(raw, &expenses); err != nil {
		return nil, fmt.Errorf("failed to decode expenses: %w", err)
	}

	sort.Slice(expenses, func(i, j int) bool { return expenses[i].ID < expenses[j].ID })
	return expenses, nil
}

// GetExpense finds one expense within a group.
func (c *Client) GetExpense(ctx context.Context, groupID, expenseID int64) (*models.Expense, error) {
	expenses, err := c.ListExpenses(ctx, groupID)
	if err != nil {
		return nil, err
	}
	for i := range expenses {
		if expenses[i].ID == expenseID {
			return &expenses[i], nil
		}
	}
	return nil, &APIError{Endpoint: "get_expense", Status: http.StatusNotFound, Detail: fmt.Sprintf("expense %d not found in group %d", expenseID, groupID)}
}

// CreateExpense submits a new expense.
func (c *Client) CreateExpense(ctx context.Context, input *models.ExpenseInput) (*models.Expense, error) {
	var expense models.Expense
	if err := c.do(ctx, "create_expense", http.MethodPost, "/api/v1/expenses/expenses/", input, &expense); err != nil {
		return nil, err
	}
	return &expense, nil
}

// UpdateExpense replaces an existing expense.
func (c *Client) UpdateExpense(ctx context.Context, expenseID int64, input *models.ExpenseInput) (*models.Expense, error) {
	var expense models.Expense
	path := fmt.Sprintf("/api/v1/expenses/expenses/%d/", expenseID)
	if err := c.do(ctx, "update_expense", http.MethodPut, path, input, &expense); err != nil {
		return nil, err
	}
	return &expense, nil
}

// DeleteExpense removes an expense.
func (c *Client) DeleteExpense(ctx context.Context, expenseID int64) error {
	path := fmt.Sprintf("/api/v1/expenses/expenses/%d/", expenseID)
	return c.do(ctx, "delete_expense", http.MethodDelete, path, nil, nil)
}

// ListBalances returns the server-computed balances for a group.
func (c *Client) ListBalances(ctx context.Context, groupID int64) ([]models.Balance, error) {
	var balances []models.Balance
	path := fmt.Sprintf("/api/v1/expenses/balances/%d/", groupID)
	if err := c.do(ctx, "list_balances", http.MethodGet, path, nil, &balances); err != nil {
		return nil, err
	}
	return balances, nil
}
