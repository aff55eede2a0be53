package service

import (
	"context"
	"errors"
	"log/slog"

	"connectrpc.com/connect"
	"google.golang.org/protobuf/types/known/emptypb"

	"github.com/mmynk/splitfree/internal/auth"
	"github.com/mmynk/splitfree/internal/middleware"
	"github.com/mmynk/splitfree/internal/remote"
	"github.com/mmynk/splitfree/pkg/api"
	"github.com/mmynk/splitfree/pkg/api/apiconnect"
)

// SessionService implements the SessionService RPC interface.
type SessionService struct {
	apiconnect.UnimplementedSessionServiceHandler
	authenticator *auth.Authenticator
	remote        *remote.Client
	logger        *slog.Logger
}

// NewSessionService creates a new session service.
func NewSessionService(authenticator *auth.Authenticator, client *remote.Client, logger *slog.Logger) *SessionService {
	return &SessionService{
		authenticator: authenticator,
		remote:        client,
		logger:        logger,
	}
}

// Login exchanges a remote API token for a session token.
func (s *SessionService) Login(ctx context.Context, req *connect.Request[api.LoginRequest]) (*connect.Response[api.LoginResponse], error) {
	user, session, token, err := s.authenticator.Login(ctx, req.Msg.RemoteToken)
	switch {
	case errors.Is(err, auth.ErrMissingToken):
		return nil, connect.NewError(connect.CodeInvalidArgument, err)
	case errors.Is(err, auth.ErrInvalidCredentials):
		s.logger.Warn("Login rejected by remote API")
		return nil, connect.NewError(connect.CodeUnauthenticated, err)
	case err != nil:
		s.logger.Error("Login failed", "error", err)
		return nil, remoteError(err)
	}

	s.logger.Info("User logged in", "member_id", user.ID, "session_id", session.ID)
	return connect.NewResponse(&api.LoginResponse{
		User:      toAPIUser(user),
		Token:     token,
		ExpiresAt: session.ExpiresAt,
	}), nil
}

// Logout ends the session and revokes its remote token.
func (s *SessionService) Logout(ctx context.Context, req *connect.Request[api.LogoutRequest]) (*connect.Response[emptypb.Empty], error) {
	sessionID := middleware.GetSessionID(ctx)
	if sessionID == "" {
		return nil, connect.NewError(connect.CodeUnauthenticated, auth.ErrMissingToken)
	}

	if err := s.remote.Logout(ctx); err != nil {
		s.logger.Warn("Remote logout failed", "session_id", sessionID, "error", err)
	}
	if err := s.authenticator.Logout(ctx, sessionID); err != nil {
		s.logger.Error("Logout failed", "session_id", sessionID, "error", err)
		return nil, storeError(err)
	}

	s.logger.Info("User logged out", "member_id", middleware.GetMemberID(ctx), "session_id", sessionID)
	return connect.NewResponse(&emptypb.Empty{}), nil
}

// GetCurrentUser returns the remote account behind the session.
func (s *SessionService) GetCurrentUser(ctx context.Context, req *connect.Request[api.GetCurrentUserRequest]) (*connect.Response[api.GetCurrentUserResponse], error) {
	if _, err := requireMember(ctx); err != nil {
		return nil, err
	}

	user, err := s.remote.CurrentUser(ctx)
	if err != nil {
		s.logger.Error("GetCurrentUser failed", "error", err)
		return nil, remoteError(err)
	}
	return connect.NewResponse(&api.GetCurrentUserResponse{User: toAPIUser(user)}), nil
}
