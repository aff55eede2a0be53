package service

import (
	"testing"

	"connectrpc.com/connect"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmynk/splitfree/pkg/api"
)

func TestLogin(t *testing.T) {
	env := setupTestServer(t)
	ctx := t.Context()

	resp, err := env.sessions.Login(ctx, connect.NewRequest(&api.LoginRequest{RemoteToken: "alice-token"}))
	require.NoError(t, err)
	assert.NotEmpty(t, resp.Msg.Token)
	assert.Equal(t, int64(1), resp.Msg.User.ID)
	assert.Equal(t, "Alice", resp.Msg.User.DisplayName)
	assert.NotZero(t, resp.Msg.ExpiresAt)

	_, err = env.sessions.Login(ctx, connect.NewRequest(&api.LoginRequest{RemoteToken: "stolen"}))
	assert.Equal(t, connect.CodeUnauthenticated, connect.CodeOf(err))

	_, err = env.sessions.Login(ctx, connect.NewRequest(&api.LoginRequest{}))
	assert.Equal(t, connect.CodeInvalidArgument, connect.CodeOf(err))
}

func TestGetCurrentUser(t *testing.T) {
	env := setupTestServer(t)
	ctx := t.Context()

	resp, err := env.sessions.GetCurrentUser(ctx, authed(env.login(t, "bob-token"), &api.GetCurrentUserRequest{}))
	require.NoError(t, err)
	assert.Equal(t, "bob", resp.Msg.User.Username)
	assert.Equal(t, "bob", resp.Msg.User.DisplayName)

	_, err = env.sessions.GetCurrentUser(ctx, connect.NewRequest(&api.GetCurrentUserRequest{}))
	assert.Equal(t, connect.CodeUnauthenticated, connect.CodeOf(err))
}

func TestLogout(t *testing.T) {
	env := setupTestServer(t)
	ctx := t.Context()
	token := env.login(t, "carol-token")

	_, err := env.sessions.Logout(ctx, authed(token, &api.LogoutRequest{}))
	require.NoError(t, err)
	assert.Equal(t, []string{"carol-token"}, env.api.loggedOut)

	_, err = env.groups.ListGroups(ctx, authed(token, &api.ListGroupsRequest{}))
	assert.Equal(t, connect.CodeUnauthenticated, connect.CodeOf(err), "session is gone after logout")

	_, err = env.sessions.Logout(ctx, authed(token, &api.LogoutRequest{}))
	assert.Equal(t, connect.CodeUnauthenticated, connect.CodeOf(err))
}
