package auth

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmynk/splitfree/internal/models"
	"github.com/mmynk/splitfree/internal/remote"
	"github.com/mmynk/splitfree/internal/storage"
)

type fakeIdentity struct {
	users map[string]*models.User
}

func (f *fakeIdentity) CurrentUser(ctx context.Context) (*models.User, error) {
	user, ok := f.users[remote.TokenFromContext(ctx)]
	if !ok {
		return nil, &remote.APIError{Endpoint: "current_user", Status: 401, Detail: "Invalid token."}
	}
	return user, nil
}

type memSessions struct {
	mu       sync.Mutex
	sessions map[string]*models.Session
}

func newMemSessions() *memSessions {
	return &memSessions{sessions: make(map[string]*models.Session)}
}

func (m *memSessions) CreateSession(_ context.Context, s *models.Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if s.ID == "" {
		s.ID = fmt.Sprintf("s-%d", len(m.sessions)+1)
	}
	copied := *s
	m.sessions[s.ID] = &copied
	return nil
}

func (m *memSessions) GetSession(_ context.Context, id string) (*models.Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sessions[id]
	if !ok {
		return nil, storage.ErrNotFound
	}
	copied := *s
	return &copied, nil
}

func (m *memSessions) DeleteSession(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, id)
	return nil
}

func newTestAuthenticator() (*Authenticator, *memSessions) {
	identity := &fakeIdentity{users: map[string]*models.User{
		"good-token": {ID: 7, Username: "asha"},
	}}
	sessions := newMemSessions()
	return NewAuthenticator(identity, sessions, NewJWTManager("test-secret"), time.Hour), sessions
}

func TestLoginAndResolve(t *testing.T) {
	a, sessions := newTestAuthenticator()
	ctx := context.Background()

	user, session, token, err := a.Login(ctx, "good-token")
	require.NoError(t, err)
	assert.Equal(t, int64(7), user.ID)
	assert.Equal(t, "good-token", session.RemoteToken)
	assert.NotEmpty(t, token)

	resolved, err := a.Resolve(ctx, token)
	require.NoError(t, err)
	assert.Equal(t, session.ID, resolved.ID)
	assert.Equal(t, int64(7), resolved.MemberID)

	require.NoError(t, a.Logout(ctx, session.ID))
	assert.Empty(t, sessions.sessions)

	_, err = a.Resolve(ctx, token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestLogin_Rejected(t *testing.T) {
	a, _ := newTestAuthenticator()

	_, _, _, err := a.Login(context.Background(), "bad-token")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, _, _, err = a.Login(context.Background(), "")
	assert.ErrorIs(t, err, ErrMissingToken)
}

func TestResolve_ExpiredSession(t *testing.T) {
	a, sessions := newTestAuthenticator()
	ctx := context.Background()

	_, session, token, err := a.Login(ctx, "good-token")
	require.NoError(t, err)
	sessions.sessions[session.ID].ExpiresAt = time.Now().Add(-time.Minute).Unix()

	_, err = a.Resolve(ctx, token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestJWTManager(t *testing.T) {
	m := NewJWTManager("secret-a")
	session := &models.Session{ID: "s-1", MemberID: 3, ExpiresAt: time.Now().Add(time.Hour).Unix()}

	token, err := m.Generate(session)
	require.NoError(t, err)

	claims, err := m.Validate(token)
	require.NoError(t, err)
	assert.Equal(t, int64(3), claims.MemberID)
	assert.Equal(t, "s-1", claims.SessionID)

	_, err = NewJWTManager("secret-b").Validate(token)
	assert.ErrorIs(t, err, ErrInvalidToken)

	expired, err := m.Generate(&models.Session{ID: "s-2", MemberID: 3, ExpiresAt: time.Now().Add(-time.Hour).Unix()})
	require.NoError(t, err)
	_, err = m.Validate(expired)
	assert.ErrorIs(t, err, ErrInvalidToken)
}
