package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/mmynk/splitfree/internal/models"
	"github.com/mmynk/splitfree/internal/remote"
	"github.com/mmynk/splitfree/internal/storage"
)

var ErrInvalidCredentials = errors.New("invalid remote API token")

// Identity resolves the account behind a remote API token carried in ctx.
type Identity interface {
	CurrentUser(ctx context.Context) (*models.User, error)
}

// SessionStorage defines the session persistence the authenticator needs.
type SessionStorage interface {
	CreateSession(ctx context.Context, session *models.Session) error
	GetSession(ctx context.Context, sessionID string) (*models.Session, error)
	DeleteSession(ctx context.Context, sessionID string) error
}

// Authenticator exchanges remote API tokens for local sessions.
// The remote API stays the authority on identity; the session only
// remembers which token to act with.
type Authenticator struct {
	identity Identity
	sessions SessionStorage
	jwt      *JWTManager
	ttl      time.Duration
}

// NewAuthenticator creates an authenticator issuing sessions that last ttl.
func NewAuthenticator(identity Identity, sessions SessionStorage, jwtManager *JWTManager, ttl time.Duration) *Authenticator {
	return &Authenticator{identity: identity, sessions: sessions, jwt: jwtManager, ttl: ttl}
}

// Login verifies remoteToken with the remote API and opens a session.
// It returns the remote user, the session, and a signed bearer token.
func (a *Authenticator) Login(ctx context.Context, remoteToken string) (*models.User, *models.Session, string, error) {
	if remoteToken == "" {
		return nil, nil, "", ErrMissingToken
	}

	user, err := a.identity.CurrentUser(remote.WithToken(ctx, remoteToken))
	if err != nil {
		if status := remote.StatusCode(err); status == 401 || status == 403 {
			return nil, nil, "", ErrInvalidCredentials
		}
		return nil, nil, "", fmt.Errorf("failed to verify remote token: %w", err)
	}

	session := &models.Session{
		MemberID:    user.ID,
		RemoteToken: remoteToken,
		ExpiresAt:   time.Now().Add(a.ttl).Unix(),
	}
	if err := a.sessions.CreateSession(ctx, session); err != nil {
		return nil, nil, "", fmt.Errorf("failed to create session: %w", err)
	}

	token, err := a.jwt.Generate(session)
	if err != nil {
		return nil, nil, "", err
	}
	return user, session, token, nil
}

// Resolve validates a bearer token and loads the live session behind it.
func (a *Authenticator) Resolve(ctx context.Context, bearer string) (*models.Session, error) {
	claims, err := a.jwt.Validate(bearer)
	if err != nil {
		return nil, err
	}

	session, err := a.sessions.GetSession(ctx, claims.SessionID)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, ErrInvalidToken
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load session: %w", err)
	}
	if session.Expired(time.Now().Unix()) || session.MemberID != claims.MemberID {
		return nil, ErrInvalidToken
	}
	return session, nil
}

// Logout ends a session locally. The remote token is left to the caller.
func (a *Authenticator) Logout(ctx context.Context, sessionID string) error {
	return a.sessions.DeleteSession(ctx, sessionID)
}
