package apiconnect

import (
	"context"
	"net/http"
	"strings"

	"connectrpc.com/connect"
	"google.golang.org/protobuf/types/known/emptypb"

	"github.com/mmynk/splitfree/pkg/api"
)

const GroupServiceName = "splitfree.v1.GroupService"

const (
	GroupServiceListGroupsProcedure    = "/splitfree.v1.GroupService/ListGroups"
	GroupServiceGetGroupProcedure      = "/splitfree.v1.GroupService/GetGroup"
	GroupServiceCreateGroupProcedure   = "/splitfree.v1.GroupService/CreateGroup"
	GroupServiceJoinGroupProcedure     = "/splitfree.v1.GroupService/JoinGroup"
	GroupServiceListExpensesProcedure  = "/splitfree.v1.GroupService/ListExpenses"
	GroupServiceDeleteExpenseProcedure = "/splitfree.v1.GroupService/DeleteExpense"
	GroupServiceListBalancesProcedure  = "/splitfree.v1.GroupService/ListBalances"
)

// GroupServiceHandler is implemented by the group service.
type GroupServiceHandler interface {
	ListGroups(context.Context, *connect.Request[api.ListGroupsRequest]) (*connect.Response[api.ListGroupsResponse], error)
	GetGroup(context.Context, *connect.Request[api.GetGroupRequest]) (*connect.Response[api.GroupResponse], error)
	CreateGroup(context.Context, *connect.Request[api.CreateGroupRequest]) (*connect.Response[api.GroupResponse], error)
	JoinGroup(context.Context, *connect.Request[api.JoinGroupRequest]) (*connect.Response[api.GroupResponse], error)
	ListExpenses(context.Context, *connect.Request[api.ListExpensesRequest]) (*connect.Response[api.ListExpensesResponse], error)
	DeleteExpense(context.Context, *connect.Request[api.DeleteExpenseRequest]) (*connect.Response[emptypb.Empty], error)
	ListBalances(context.Context, *connect.Request[api.ListBalancesRequest]) (*connect.Response[api.ListBalancesResponse], error)
}

// GroupServiceClient calls the group service.
type GroupServiceClient = GroupServiceHandler

// NewGroupServiceHandler builds an HTTP handler for svc and returns the
// path prefix to mount it on.
func NewGroupServiceHandler(svc GroupServiceHandler, opts ...connect.HandlerOption) (string, http.Handler) {
	opts = handlerOptions(opts)
	mux := http.NewServeMux()
	mux.Handle(GroupServiceListGroupsProcedure, connect.NewUnaryHandler(GroupServiceListGroupsProcedure, svc.ListGroups, opts...))
	mux.Handle(GroupServiceGetGroupProcedure, connect.NewUnaryHandler(GroupServiceGetGroupProcedure, svc.GetGroup, opts...))
	mux.Handle(GroupServiceCreateGroupProcedure, connect.NewUnaryHandler(GroupServiceCreateGroupProcedure, svc.CreateGroup, opts...))
	mux.Handle(GroupServiceJoinGroupProcedure, connect.NewUnaryHandler(GroupServiceJoinGroupProcedure, svc.JoinGroup, opts...))
	mux.Handle(GroupServiceListExpensesProcedure, connect.NewUnaryHandler(GroupServiceListExpensesProcedure, svc.ListExpenses, opts...))
	mux.Handle(GroupServiceDeleteExpenseProcedure, connect.NewUnaryHandler(GroupServiceDeleteExpenseProcedure, svc.DeleteExpense, opts...))
	mux.Handle(GroupServiceListBalancesProcedure, connect.NewUnaryHandler(GroupServiceListBalancesProcedure, svc.ListBalances, opts...))
	return "/" + GroupServiceName + "/", mux
}

type groupServiceClient struct {
	listGroups    *connect.Client[api.ListGroupsRequest, api.ListGroupsResponse]
	getGroup      *connect.Client[api.GetGroupRequest, api.GroupResponse]
	createGroup   *connect.Client[api.CreateGroupRequest, api.GroupResponse]
	joinGroup     *connect.Client[api.JoinGroupRequest, api.GroupResponse]
	listExpenses  *connect.Client[api.ListExpensesRequest, api.ListExpensesResponse]
	deleteExpense *connect.Client[api.DeleteExpenseRequest, emptypb.Empty]
	listBalances  *connect.Client[api.ListBalancesRequest, api.ListBalancesResponse]
}

// NewGroupServiceClient creates a client for the service at baseURL.
func NewGroupServiceClient(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) GroupServiceClient {
	baseURL = strings.TrimRight(baseURL, "/")
	opts = clientOptions(opts)
	return &groupServiceClient{
		listGroups:    connect.NewClient[api.ListGroupsRequest, api.ListGroupsResponse](httpClient, baseURL+GroupServiceListGroupsProcedure, opts...),
		getGroup:      connect.NewClient[api.GetGroupRequest, api.GroupResponse](httpClient, baseURL+GroupServiceGetGroupProcedure, opts...),
		createGroup:   connect.NewClient[api.CreateGroupRequest, api.GroupResponse](httpClient, baseURL+GroupServiceCreateGroupProcedure, opts...),
		joinGroup:     connect.NewClient[api.JoinGroupRequest, api.GroupResponse](httpClient, baseURL+GroupServiceJoinGroupProcedure, opts...),
		listExpenses:  connect.NewClient[api.ListExpensesRequest, api.ListExpensesResponse](httpClient, baseURL+GroupServiceListExpensesProcedure, opts...),
		deleteExpense: connect.NewClient[api.DeleteExpenseRequest, emptypb.Empty](httpClient, baseURL+GroupServiceDeleteExpenseProcedure, opts...),
		listBalances:  connect.NewClient[api.ListBalancesRequest, api.ListBalancesResponse](httpClient, baseURL+GroupServiceListBalancesProcedure, opts...),
	}
}

func (c *groupServiceClient) ListGroups(ctx context.Context, req *connect.Request[api.ListGroupsRequest]) (*connect.Response[api.ListGroupsResponse], error) {
	return c.listGroups.CallUnary(ctx, req)
}

func (c *groupServiceClient) GetGroup(ctx context.Context, req *connect.Request[api.GetGroupRequest]) (*connect.Response[api.GroupResponse], error) {
	return c.getGroup.CallUnary(ctx, req)
}

func (c *groupServiceClient) CreateGroup(ctx context.Context, req *connect.Request[api.CreateGroupRequest]) (*connect.Response[api.GroupResponse], error) {
	return c.createGroup.CallUnary(ctx, req)
}

func (c *groupServiceClient) JoinGroup(ctx context.Context, req *connect.Request[api.JoinGroupRequest]) (*connect.Response[api.GroupResponse], error) {
	return c.joinGroup.CallUnary(ctx, req)
}

func (c *groupServiceClient) ListExpenses(ctx context.Context, req *connect.Request[api.ListExpensesRequest]) (*connect.Response[api.ListExpensesResponse], error) {
	return c.listExpenses.CallUnary(ctx, req)
}

func (c *groupServiceClient) DeleteExpense(ctx context.Context, req *connect.Request[api.DeleteExpenseRequest]) (*connect.Response[emptypb.Empty], error) {
	return c.deleteExpense.CallUnary(ctx, req)
}

func (c *groupServiceClient) ListBalances(ctx context.Context, req *connect.Request[api.ListBalancesRequest]) (*connect.Response[api.ListBalancesResponse], error) {
	return c.listBalances.CallUnary(ctx, req)
}

// UnimplementedGroupServiceHandler returns CodeUnimplemented from all methods.
type UnimplementedGroupServiceHandler struct{}

func (UnimplementedGroupServiceHandler) ListGroups(context.Context, *connect.Request[api.ListGroupsRequest]) (*connect.Response[api.ListGroupsResponse], error) {
	return nil, unimplemented(GroupServiceListGroupsProcedure)
}

func (UnimplementedGroupServiceHandler) GetGroup(context.Context, *connect.Request[api.GetGroupRequest]) (*connect.Response[api.GroupResponse], error) {
	return nil, unimplemented(GroupServiceGetGroupProcedure)
}

func (UnimplementedGroupServiceHandler) CreateGroup(context.Context, *connect.Request[api.CreateGroupRequest]) (*connect.Response[api.GroupResponse], error) {
	return nil, unimplemented(GroupServiceCreateGroupProcedure)
}

func (UnimplementedGroupServiceHandler) JoinGroup(context.Context, *connect.Request[api.JoinGroupRequest]) (*connect.Response[api.GroupResponse], error) {
	return nil, unimplemented(GroupServiceJoinGroupProcedure)
}

func (UnimplementedGroupServiceHandler) ListExpenses(context.Context, *connect.Request[api.ListExpensesRequest]) (*connect.Response[api.ListExpensesResponse], error) {
	return nil, unimplemented(GroupServiceListExpensesProcedure)
}

func (UnimplementedGroupServiceHandler) DeleteExpense(context.Context, *connect.Request[api.DeleteExpenseRequest]) (*connect.Response[emptypb.Empty], error) {
	return nil, unimplemented(GroupServiceDeleteExpenseProcedure)
}

func (UnimplementedGroupServiceHandler) ListBalances(context.Context, *connect.Request[api.ListBalancesRequest]) (*connect.Response[api.ListBalancesResponse], error) {
	return nil, unimplemented(GroupServiceListBalancesProcedure)
}
