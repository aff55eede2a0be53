package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"connectrpc.com/connect"
	"google.golang.org/protobuf/types/known/emptypb"

	"github.com/mmynk/splitfree/internal/allocator"
	"github.com/mmynk/splitfree/internal/metrics"
	"github.com/mmynk/splitfree/internal/models"
	"github.com/mmynk/splitfree/internal/remote"
	"github.com/mmynk/splitfree/internal/storage"
	"github.com/mmynk/splitfree/pkg/api"
	"github.com/mmynk/splitfree/pkg/api/apiconnect"
)

// DraftService implements the Connect DraftService.
// Drafts are owned by the member who created them; every edit runs the
// allocator and persists the resulting split.
type DraftService struct {
	apiconnect.UnimplementedDraftServiceHandler
	store  storage.DraftStore
	remote *remote.Client
	logger *slog.Logger
}

// NewDraftService creates a new DraftService backed by store and the remote API.
func NewDraftService(store storage.DraftStore, client *remote.Client, logger *slog.Logger) *DraftService {
	return &DraftService{store: store, remote: client, logger: logger}
}

// loadGroup fetches a group and checks the caller belongs to it.
func (s *DraftService) loadGroup(ctx context.Context, groupID, memberID int64) (*models.Group, error) {
	group, err := s.remote.GetGroup(ctx, strconv.FormatInt(groupID, 10))
	if err != nil {
		s.logger.Error("Failed to load group", "group_id", groupID, "error", err)
		return nil, remoteError(err)
	}
	if !group.HasMember(memberID) {
		return nil, connect.NewError(connect.CodePermissionDenied, fmt.Errorf("you must be a member of group %d", groupID))
	}
	return group, nil
}

// loadDraft fetches a draft owned by the caller.
func (s *DraftService) loadDraft(ctx context.Context, draftID string) (*models.Draft, error) {
	memberID, err := requireMember(ctx)
	if err != nil {
		return nil, err
	}
	if draftID == "" {
		return nil, connect.NewError(connect.CodeInvalidArgument, fmt.Errorf("draft_id required"))
	}

	draft, err := s.store.GetDraft(ctx, draftID)
	if err != nil {
		return nil, storeError(err)
	}
	if draft.OwnerID != memberID {
		return nil, connect.NewError(connect.CodePermissionDenied, fmt.Errorf("draft %s belongs to another member", draftID))
	}
	return draft, nil
}

// save persists an edited draft and renders it.
func (s *DraftService) save(ctx context.Context, draft *models.Draft) (*connect.Response[api.DraftResponse], error) {
	if err := s.store.UpdateDraft(ctx, draft); err != nil {
		s.logger.Error("UpdateDraft failed", "draft_id", draft.ID, "error", err)
		return nil, storeError(err)
	}
	return connect.NewResponse(&api.DraftResponse{Draft: toAPIDraft(draft)}), nil
}

// CreateDraft starts composing a new expense, or editing an existing one
// when ExpenseID is set.
func (s *DraftService) CreateDraft(ctx context.Context, req *connect.Request[api.CreateDraftRequest]) (*connect.Response[api.DraftResponse], error) {
	memberID, err := requireMember(ctx)
	if err != nil {
		return nil, err
	}
	if req.Msg.GroupID == 0 {
		return nil, connect.NewError(connect.CodeInvalidArgument, fmt.Errorf("group_id required"))
	}
	if _, err := s.loadGroup(ctx, req.Msg.GroupID, memberID); err != nil {
		return nil, err
	}

	draft := &models.Draft{
		OwnerID: memberID,
		GroupID: req.Msg.GroupID,
		PaidBy:  memberID,
		Split:   allocator.New(),
	}

	if req.Msg.ExpenseID != 0 {
		expense, err := s.remote.GetExpense(ctx, req.Msg.GroupID, req.Msg.ExpenseID)
		if err != nil {
			s.logger.Error("CreateDraft: failed to load expense", "expense_id", req.Msg.ExpenseID, "error", err)
			return nil, remoteError(err)
		}
		draft.ExpenseID = expense.ID
		draft.Title = expense.Title
		draft.Notes = expense.Notes
		draft.Date = expenseDate(expense.CreatedAt)
		if expense.PaidBy.ID != 0 {
			draft.PaidBy = expense.PaidBy.ID
		}
		draft.Split = seedSplit(expense)
	}

	if err := s.store.CreateDraft(ctx, draft); err != nil {
		s.logger.Error("CreateDraft failed", "error", err)
		return nil, connect.NewError(connect.CodeInternal, err)
	}
	s.logger.Info("Draft created", "draft_id", draft.ID, "group_id", draft.GroupID, "expense_id", draft.ExpenseID)

	return connect.NewResponse(&api.DraftResponse{Draft: toAPIDraft(draft)}), nil
}

// GetDraft returns one of the caller's drafts.
func (s *DraftService) GetDraft(ctx context.Context, req *connect.Request[api.GetDraftRequest]) (*connect.Response[api.DraftResponse], error) {
	draft, err := s.loadDraft(ctx, req.Msg.DraftID)
	if err != nil {
		return nil, err
	}
	return connect.NewResponse(&api.DraftResponse{Draft: toAPIDraft(draft)}), nil
}

// ListDrafts returns the caller's drafts, optionally for one group.
func (s *DraftService) ListDrafts(ctx context.Context, req *connect.Request[api.ListDraftsRequest]) (*connect.Response[api.ListDraftsResponse], error) {
	memberID, err := requireMember(ctx)
	if err != nil {
		return nil, err
	}

	drafts, err := s.store.ListDrafts(ctx, memberID, req.Msg.GroupID)
	if err != nil {
		s.logger.Error("ListDrafts failed", "member_id", memberID, "error", err)
		return nil, connect.NewError(connect.CodeInternal, err)
	}

	out := make([]*api.Draft, len(drafts))
	for i, d := range drafts {
		out[i] = toAPIDraft(d)
	}
	return connect.NewResponse(&api.ListDraftsResponse{Drafts: out}), nil
}

// SetTotalAmount changes the expense total and re-splits it equally.
func (s *DraftService) SetTotalAmount(ctx context.Context, req *connect.Request[api.SetTotalAmountRequest]) (*connect.Response[api.DraftResponse], error) {
	draft, err := s.loadDraft(ctx, req.Msg.DraftID)
	if err != nil {
		return nil, err
	}
	draft.Split = draft.Split.SetTotalAmount(req.Msg.Amount)
	s.logger.Debug("Total amount set", "draft_id", draft.ID, "amount", req.Msg.Amount, "total", draft.Split.Total())
	return s.save(ctx, draft)
}

// SetParticipants replaces the selection. Every id must belong to the group.
func (s *DraftService) SetParticipants(ctx context.Context, req *connect.Request[api.SetParticipantsRequest]) (*connect.Response[api.DraftResponse], error) {
	draft, err := s.loadDraft(ctx, req.Msg.DraftID)
	if err != nil {
		return nil, err
	}

	if len(req.Msg.MemberIDs) > 0 {
		group, err := s.loadGroup(ctx, draft.GroupID, draft.OwnerID)
		if err != nil {
			return nil, err
		}
		for _, id := range req.Msg.MemberIDs {
			if !group.HasMember(id) {
				return nil, connect.NewError(connect.CodeInvalidArgument, fmt.Errorf("member %d is not in group %d", id, draft.GroupID))
			}
		}
	}

	draft.Split = draft.Split.SetParticipants(participantIDs(req.Msg.MemberIDs))
	s.logger.Debug("Participants set", "draft_id", draft.ID, "participants", req.Msg.MemberIDs)
	return s.save(ctx, draft)
}

// SetParticipantAmount pins one participant's share and re-splits the
// remainder across the others. An empty amount clears the share.
func (s *DraftService) SetParticipantAmount(ctx context.Context, req *connect.Request[api.SetParticipantAmountRequest]) (*connect.Response[api.DraftResponse], error) {
	draft, err := s.loadDraft(ctx, req.Msg.DraftID)
	if err != nil {
		return nil, err
	}
	draft.Split = draft.Split.SetParticipantAmount(allocator.ParticipantID(req.Msg.MemberID), req.Msg.Amount)
	s.logger.Debug("Participant amount set", "draft_id", draft.ID, "member_id", req.Msg.MemberID, "amount", req.Msg.Amount)
	return s.save(ctx, draft)
}

// UpdateDetails sets the non-monetary fields of a draft.
func (s *DraftService) UpdateDetails(ctx context.Context, req *connect.Request[api.UpdateDetailsRequest]) (*connect.Response[api.DraftResponse], error) {
	draft, err := s.loadDraft(ctx, req.Msg.DraftID)
	if err != nil {
		return nil, err
	}

	if req.Msg.Date != "" {
		if _, err := time.Parse(time.DateOnly, req.Msg.Date); err != nil {
			return nil, connect.NewError(connect.CodeInvalidArgument, fmt.Errorf("date must be YYYY-MM-DD: %w", err))
		}
	}
	if req.Msg.PaidBy != 0 && req.Msg.PaidBy != draft.PaidBy {
		group, err := s.loadGroup(ctx, draft.GroupID, draft.OwnerID)
		if err != nil {
			return nil, err
		}
		if !group.HasMember(req.Msg.PaidBy) {
			return nil, connect.NewError(connect.CodeInvalidArgument, fmt.Errorf("paid_by %d is not in group %d", req.Msg.PaidBy, draft.GroupID))
		}
		draft.PaidBy = req.Msg.PaidBy
	}

	draft.Title = req.Msg.Title
	draft.Notes = req.Msg.Notes
	draft.Date = req.Msg.Date
	return s.save(ctx, draft)
}

// ValidateDraft checks that the shares add up to the total.
func (s *DraftService) ValidateDraft(ctx context.Context, req *connect.Request[api.ValidateDraftRequest]) (*connect.Response[api.ValidateDraftResponse], error) {
	draft, err := s.loadDraft(ctx, req.Msg.DraftID)
	if err != nil {
		return nil, err
	}
	metrics.ObserveValidation(draft.Split.Validate())
	return connect.NewResponse(&api.ValidateDraftResponse{Validation: toAPIValidation(draft.Split)}), nil
}

// SubmitDraft sends a valid draft to the remote API and discards it.
// A draft created from an expense updates that expense.
func (s *DraftService) SubmitDraft(ctx context.Context, req *connect.Request[api.SubmitDraftRequest]) (*connect.Response[api.SubmitDraftResponse], error) {
	draft, err := s.loadDraft(ctx, req.Msg.DraftID)
	if err != nil {
		return nil, err
	}

	if len(draft.Split.SplitBetween) == 0 {
		return nil, connect.NewError(connect.CodeFailedPrecondition, errors.New("select at least one participant before submitting"))
	}
	if err := metrics.ObserveValidation(draft.Split.Validate()); err != nil {
		s.logger.Info("SubmitDraft rejected", "draft_id", draft.ID, "reason", err)
		return nil, connect.NewError(connect.CodeFailedPrecondition, err)
	}

	input := expenseInput(draft)
	var expense *models.Expense
	if draft.IsEdit() {
		expense, err = s.remote.UpdateExpense(ctx, draft.ExpenseID, input)
	} else {
		expense, err = s.remote.CreateExpense(ctx, input)
	}
	if err != nil {
		s.logger.Error("SubmitDraft failed", "draft_id", draft.ID, "error", err)
		return nil, remoteError(err)
	}

	if err := s.store.DeleteDraft(ctx, draft.ID); err != nil {
		s.logger.Warn("SubmitDraft: failed to discard submitted draft", "draft_id", draft.ID, "error", err)
	}
	s.logger.Info("Draft submitted", "draft_id", draft.ID, "expense_id", expense.ID, "edit", draft.IsEdit())

	return connect.NewResponse(&api.SubmitDraftResponse{Expense: toAPIExpense(expense)}), nil
}

// DiscardDraft deletes a draft without submitting it.
func (s *DraftService) DiscardDraft(ctx context.Context, req *connect.Request[api.DiscardDraftRequest]) (*connect.Response[emptypb.Empty], error) {
	draft, err := s.loadDraft(ctx, req.Msg.DraftID)
	if err != nil {
		return nil, err
	}
	if err := s.store.DeleteDraft(ctx, draft.ID); err != nil {
		s.logger.Error("DiscardDraft failed", "draft_id", draft.ID, "error", err)
		return nil, storeError(err)
	}
	return connect.NewResponse(&emptypb.Empty{}), nil
}

// expenseDate takes the calendar date from a remote timestamp.
func expenseDate(createdAt string) string {
	if len(createdAt) < len(time.DateOnly) {
		return ""
	}
	date := createdAt[:len(time.DateOnly)]
	if _, err := time.Parse(time.DateOnly, date); err != nil {
		return ""
	}
	return date
}
