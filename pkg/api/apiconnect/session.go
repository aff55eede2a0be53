package apiconnect

import (
	"context"
	"net/http"
	"strings"

	"connectrpc.com/connect"
	"google.golang.org/protobuf/types/known/emptypb"

	"github.com/mmynk/splitfree/pkg/api"
)

const SessionServiceName = "splitfree.v1.SessionService"

const (
	SessionServiceLoginProcedure          = "/splitfree.v1.SessionService/Login"
	SessionServiceLogoutProcedure         = "/splitfree.v1.SessionService/Logout"
	SessionServiceGetCurrentUserProcedure = "/splitfree.v1.SessionService/GetCurrentUser"
)

// SessionServiceHandler is implemented by the session service.
type SessionServiceHandler interface {
	Login(context.Context, *connect.Request[api.LoginRequest]) (*connect.Response[api.LoginResponse], error)
	Logout(context.Context, *connect.Request[api.LogoutRequest]) (*connect.Response[emptypb.Empty], error)
	GetCurrentUser(context.Context, *connect.Request[api.GetCurrentUserRequest]) (*connect.Response[api.GetCurrentUserResponse], error)
}

// SessionServiceClient calls the session service.
type SessionServiceClient = SessionServiceHandler

// NewSessionServiceHandler builds an HTTP handler for svc and returns the
// path prefix to mount it on.
func NewSessionServiceHandler(svc SessionServiceHandler, opts ...connect.HandlerOption) (string, http.Handler) {
	opts = handlerOptions(opts)
	mux := http.NewServeMux()
	mux.Handle(SessionServiceLoginProcedure, connect.NewUnaryHandler(SessionServiceLoginProcedure, svc.Login, opts...))
	mux.Handle(SessionServiceLogoutProcedure, connect.NewUnaryHandler(SessionServiceLogoutProcedure, svc.Logout, opts...))
	mux.Handle(SessionServiceGetCurrentUserProcedure, connect.NewUnaryHandler(SessionServiceGetCurrentUserProcedure, svc.GetCurrentUser, opts...))
	return "/" + SessionServiceName + "/", mux
}

type sessionServiceClient struct {
	login          *connect.Client[api.LoginRequest, api.LoginResponse]
	logout         *connect.Client[api.LogoutRequest, emptypb.Empty]
	getCurrentUser *connect.Client[api.GetCurrentUserRequest, api.GetCurrentUserResponse]
}

// NewSessionServiceClient creates a client for the service at baseURL.
func NewSessionServiceClient(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) SessionServiceClient {
	baseURL = strings.TrimRight(baseURL, "/")
	opts = clientOptions(opts)
	return &sessionServiceClient{
		login:          connect.NewClient[api.LoginRequest, api.LoginResponse](httpClient, baseURL+SessionServiceLoginProcedure, opts...),
		logout:         connect.NewClient[api.LogoutRequest, emptypb.Empty](httpClient, baseURL+SessionServiceLogoutProcedure, opts...),
		getCurrentUser: connect.NewClient[api.GetCurrentUserRequest, api.GetCurrentUserResponse](httpClient, baseURL+SessionServiceGetCurrentUserProcedure, opts...),
	}
}

func (c *sessionServiceClient) Login(ctx context.Context, req *connect.Request[api.LoginRequest]) (*connect.Response[api.LoginResponse], error) {
	return c.login.CallUnary(ctx, req)
}

func (c *sessionServiceClient) Logout(ctx context.Context, req *connect.Request[api.LogoutRequest]) (*connect.Response[emptypb.Empty], error) {
	return c.logout.CallUnary(ctx, req)
}

func (c *sessionServiceClient) GetCurrentUser(ctx context.Context, req *connect.Request[api.GetCurrentUserRequest]) (*connect.Response[api.GetCurrentUserResponse], error) {
	return c.getCurrentUser.CallUnary(ctx, req)
}

// UnimplementedSessionServiceHandler returns CodeUnimplemented from all methods.
type UnimplementedSessionServiceHandler struct{}

func (UnimplementedSessionServiceHandler) Login(context.Context, *connect.Request[api.LoginRequest]) (*connect.Response[api.LoginResponse], error) {
	return nil, unimplemented(SessionServiceLoginProcedure)
}

func (UnimplementedSessionServiceHandler) Logout(context.Context, *connect.Request[api.LogoutRequest]) (*connect.Response[emptypb.Empty], error) {
	return nil, unimplemented(SessionServiceLogoutProcedure)
}

func (UnimplementedSessionServiceHandler) GetCurrentUser(context.Context, *connect.Request[api.GetCurrentUserRequest]) (*connect.Response[api.GetCurrentUserResponse], error) {
	return nil, unimplemented(SessionServiceGetCurrentUserProcedure)
}
