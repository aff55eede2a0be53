package middleware

import (
	"context"
	"strings"

	"connectrpc.com/connect"

	"github.com/mmynk/splitfree/internal/auth"
	"github.com/mmynk/splitfree/internal/models"
	"github.com/mmynk/splitfree/internal/remote"
)

// contextKey is a custom type for context keys to avoid collisions.
type contextKey string

const (
	// MemberIDKey is the context key for the authenticated remote member ID.
	MemberIDKey contextKey = "member_id"
	// SessionIDKey is the context key for the current session ID.
	SessionIDKey contextKey = "session_id"
)

// GetMemberID extracts the member ID from the context.
// Returns 0 if not found.
func GetMemberID(ctx context.Context) int64 {
	memberID, _ := ctx.Value(MemberIDKey).(int64)
	return memberID
}

// GetSessionID extracts the session ID from the context.
// Returns empty string if not found.
func GetSessionID(ctx context.Context) string {
	sessionID, _ := ctx.Value(SessionIDKey).(string)
	return sessionID
}

// WithSession stores the session's identity and remote token in ctx.
func WithSession(ctx context.Context, session *models.Session) context.Context {
	ctx = context.WithValue(ctx, MemberIDKey, session.MemberID)
	ctx = context.WithValue(ctx, SessionIDKey, session.ID)
	return remote.WithToken(ctx, session.RemoteToken)
}

// bearerToken returns the token from an "Authorization: Bearer <token>" header.
func bearerToken(header string) (string, bool) {
	parts := strings.Split(header, " ")
	if len(parts) != 2 || parts[0] != "Bearer" || parts[1] == "" {
		return "", false
	}
	return parts[1], true
}

// RequireAuth returns a middleware that resolves the bearer token into a
// live session and rejects the call otherwise. Downstream handlers see the
// member ID, session ID and the session's remote API token in ctx.
func RequireAuth(authenticator *auth.Authenticator) connect.UnaryInterceptorFunc {
	return func(next connect.UnaryFunc) connect.UnaryFunc {
		return func(ctx context.Context, req connect.AnyRequest) (connect.AnyResponse, error) {
			authHeader := req.Header().Get("Authorization")
			if authHeader == "" {
				return nil, connect.NewError(connect.CodeUnauthenticated, auth.ErrMissingToken)
			}

			token, ok := bearerToken(authHeader)
			if !ok {
				return nil, connect.NewError(connect.CodeUnauthenticated, auth.ErrInvalidToken)
			}

			session, err := authenticator.Resolve(ctx, token)
			if err != nil {
				return nil, connect.NewError(connect.CodeUnauthenticated, err)
			}

			return next(WithSession(ctx, session), req)
		}
	}
}

// OptionalAuth resolves the bearer token when present but lets anonymous
// calls through. Login uses it so a client may re-login over a stale session.
func OptionalAuth(authenticator *auth.Authenticator) connect.UnaryInterceptorFunc {
	return func(next connect.UnaryFunc) connect.UnaryFunc {
		return func(ctx context.Context, req connect.AnyRequest) (connect.AnyResponse, error) {
			if token, ok := bearerToken(req.Header().Get("Authorization")); ok {
				if session, err := authenticator.Resolve(ctx, token); err == nil {
					ctx = WithSession(ctx, session)
				}
			}
			return next(ctx, req)
		}
	}
}
