package service

import (
	"context"
	"fmt"
	"log/slog"

	"connectrpc.com/connect"
	"google.golang.org/protobuf/types/known/emptypb"

	"github.com/mmynk/splitfree/internal/remote"
	"github.com/mmynk/splitfree/pkg/api"
	"github.com/mmynk/splitfree/pkg/api/apiconnect"
)

// GroupService implements the Connect GroupService.
// Groups, expenses and balances live in the remote API; this service relays
// them with the caller's remote token.
type GroupService struct {
	apiconnect.UnimplementedGroupServiceHandler
	remote *remote.Client
	logger *slog.Logger
}

// NewGroupService creates a new GroupService over the remote API client.
func NewGroupService(client *remote.Client, logger *slog.Logger) *GroupService {
	return &GroupService{remote: client, logger: logger}
}

// ListGroups returns the caller's groups.
func (s *GroupService) ListGroups(ctx context.Context, req *connect.Request[api.ListGroupsRequest]) (*connect.Response[api.ListGroupsResponse], error) {
	memberID, err := requireMember(ctx)
	if err != nil {
		return nil, err
	}

	groups, err := s.remote.ListGroups(ctx)
	if err != nil {
		s.logger.Error("ListGroups failed", "member_id", memberID, "error", err)
		return nil, remoteError(err)
	}

	out := make([]*api.Group, len(groups))
	for i := range groups {
		out[i] = toAPIGroup(&groups[i])
	}
	return connect.NewResponse(&api.ListGroupsResponse{Groups: out}), nil
}

// GetGroup looks a group up by id or invite UUID.
func (s *GroupService) GetGroup(ctx context.Context, req *connect.Request[api.GetGroupRequest]) (*connect.Response[api.GroupResponse], error) {
	memberID, err := requireMember(ctx)
	if err != nil {
		return nil, err
	}
	if req.Msg.GroupRef == "" {
		return nil, connect.NewError(connect.CodeInvalidArgument, fmt.Errorf("group_ref required"))
	}

	group, err := s.remote.GetGroup(ctx, req.Msg.GroupRef)
	if err != nil {
		s.logger.Error("GetGroup failed", "group_ref", req.Msg.GroupRef, "error", err)
		return nil, remoteError(err)
	}
	return connect.NewResponse(&api.GroupResponse{
		Group:         toAPIGroup(group),
		AlreadyMember: group.AlreadyMember || group.HasMember(memberID),
	}), nil
}

// CreateGroup creates a group with the caller as its first member.
func (s *GroupService) CreateGroup(ctx context.Context, req *connect.Request[api.CreateGroupRequest]) (*connect.Response[api.GroupResponse], error) {
	if _, err := requireMember(ctx); err != nil {
		return nil, err
	}
	if req.Msg.Name == "" {
		return nil, connect.NewError(connect.CodeInvalidArgument, fmt.Errorf("name required"))
	}

	group, err := s.remote.CreateGroup(ctx, req.Msg.Name, req.Msg.Description)
	if err != nil {
		s.logger.Error("CreateGroup failed", "error", err)
		return nil, remoteError(err)
	}
	s.logger.Info("Group created", "group_id", group.ID)
	return connect.NewResponse(&api.GroupResponse{Group: toAPIGroup(group), AlreadyMember: true}), nil
}

// JoinGroup adds the caller to the group behind an invite UUID.
func (s *GroupService) JoinGroup(ctx context.Context, req *connect.Request[api.JoinGroupRequest]) (*connect.Response[api.GroupResponse], error) {
	memberID, err := requireMember(ctx)
	if err != nil {
		return nil, err
	}
	if req.Msg.UUID == "" {
		return nil, connect.NewError(connect.CodeInvalidArgument, fmt.Errorf("uuid required"))
	}

	group, err := s.remote.JoinGroup(ctx, req.Msg.UUID)
	if err != nil {
		s.logger.Error("JoinGroup failed", "uuid", req.Msg.UUID, "error", err)
		return nil, remoteError(err)
	}
	s.logger.Info("Joined group", "group_id", group.ID, "member_id", memberID)
	return connect.NewResponse(&api.GroupResponse{Group: toAPIGroup(group), AlreadyMember: true}), nil
}

// ListExpenses returns a group's expenses.
func (s *GroupService) ListExpenses(ctx context.Context, req *connect.Request[api.ListExpensesRequest]) (*connect.Response[api.ListExpensesResponse], error) {
	if _, err := requireMember(ctx); err != nil {
		return nil, err
	}
	if req.Msg.GroupID == 0 {
		return nil, connect.NewError(connect.CodeInvalidArgument, fmt.Errorf("group_id required"))
	}

	expenses, err := s.remote.ListExpenses(ctx, req.Msg.GroupID)
	if err != nil {
		s.logger.Error("ListExpenses failed", "group_id", req.Msg.GroupID, "error", err)
		return nil, remoteError(err)
	}

	out := make([]*api.Expense, len(expenses))
	for i := range expenses {
		out[i] = toAPIExpense(&expenses[i])
	}
	return connect.NewResponse(&api.ListExpensesResponse{Expenses: out}), nil
}

// DeleteExpense removes an expense.
func (s *GroupService) DeleteExpense(ctx context.Context, req *connect.Request[api.DeleteExpenseRequest]) (*connect.Response[emptypb.Empty], error) {
	memberID, err := requireMember(ctx)
	if err != nil {
		return nil, err
	}
	if req.Msg.ExpenseID == 0 {
		return nil, connect.NewError(connect.CodeInvalidArgument, fmt.Errorf("expense_id required"))
	}

	if err := s.remote.DeleteExpense(ctx, req.Msg.ExpenseID); err != nil {
		s.logger.Error("DeleteExpense failed", "expense_id", req.Msg.ExpenseID, "error", err)
		return nil, remoteError(err)
	}
	s.logger.Info("Expense deleted", "expense_id", req.Msg.ExpenseID, "member_id", memberID)
	return connect.NewResponse(&emptypb.Empty{}), nil
}

// ListBalances returns the balances computed by the remote API, unchanged.
func (s *GroupService) ListBalances(ctx context.Context, req *connect.Request[api.ListBalancesRequest]) (*connect.Response[api.ListBalancesResponse], error) {
	if _, err := requireMember(ctx); err != nil {
		return nil, err
	}
	if req.Msg.GroupID == 0 {
		return nil, connect.NewError(connect.CodeInvalidArgument, fmt.Errorf("group_id required"))
	}

	balances, err := s.remote.ListBalances(ctx, req.Msg.GroupID)
	if err != nil {
		s.logger.Error("ListBalances failed", "group_id", req.Msg.GroupID, "error", err)
		return nil, remoteError(err)
	}

	out := make([]*api.Balance, len(balances))
	for i, b := range balances {
		out[i] = toAPIBalance(b)
	}
	return connect.NewResponse(&api.ListBalancesResponse{Balances: out}), nil
}
