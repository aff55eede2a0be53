// Package api holds the request and response messages of the SplitFree
// RPC services. Messages travel as JSON; money is always a decimal string.
package api

// User is the signed-in account.
type User struct {
	ID          int64  `json:"id"`
	Username    string `json:"username"`
	Email       string `json:"email,omitempty"`
	DisplayName string `json:"display_name"`
}

type LoginRequest struct {
	// RemoteToken is a token issued by the remote SplitFree API.
	RemoteToken string `json:"remote_token"`
}

type LoginResponse struct {
	User      *User  `json:"user"`
	Token     string `json:"token"`
	ExpiresAt int64  `json:"expires_at"`
}

type LogoutRequest struct{}

type GetCurrentUserRequest struct{}

type GetCurrentUserResponse struct {
	User *User `json:"user"`
}
