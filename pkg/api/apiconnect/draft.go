package apiconnect

import (
	"context"
	"net/http"
	"strings"

	"connectrpc.com/connect"
	"google.golang.org/protobuf/types/known/emptypb"

	"github.com/mmynk/splitfree/pkg/api"
)

const DraftServiceName = "splitfree.v1.DraftService"

const (
	DraftServiceCreateDraftProcedure          = "/splitfree.v1.DraftService/CreateDraft"
	DraftServiceGetDraftProcedure             = "/splitfree.v1.DraftService/GetDraft"
	DraftServiceListDraftsProcedure           = "/splitfree.v1.DraftService/ListDrafts"
	DraftServiceSetTotalAmountProcedure       = "/splitfree.v1.DraftService/SetTotalAmount"
	DraftServiceSetParticipantsProcedure      = "/splitfree.v1.DraftService/SetParticipants"
	DraftServiceSetParticipantAmountProcedure = "/splitfree.v1.DraftService/SetParticipantAmount"
	DraftServiceUpdateDetailsProcedure        = "/splitfree.v1.DraftService/UpdateDetails"
	DraftServiceValidateDraftProcedure        = "/splitfree.v1.DraftService/ValidateDraft"
	DraftServiceSubmitDraftProcedure          = "/splitfree.v1.DraftService/SubmitDraft"
	DraftServiceDiscardDraftProcedure         = "/splitfree.v1.DraftService/DiscardDraft"
)

// DraftServiceHandler is implemented by the draft service.
type DraftServiceHandler interface {
	CreateDraft(context.Context, *connect.Request[api.CreateDraftRequest]) (*connect.Response[api.DraftResponse], error)
	GetDraft(context.Context, *connect.Request[api.GetDraftRequest]) (*connect.Response[api.DraftResponse], error)
	ListDrafts(context.Context, *connect.Request[api.ListDraftsRequest]) (*connect.Response[api.ListDraftsResponse], error)
	SetTotalAmount(context.Context, *connect.Request[api.SetTotalAmountRequest]) (*connect.Response[api.DraftResponse], error)
	SetParticipants(context.Context, *connect.Request[api.SetParticipantsRequest]) (*connect.Response[api.DraftResponse], error)
	SetParticipantAmount(context.Context, *connect.Request[api.SetParticipantAmountRequest]) (*connect.Response[api.DraftResponse], error)
	UpdateDetails(context.Context, *connect.Request[api.UpdateDetailsRequest]) (*connect.Response[api.DraftResponse], error)
	ValidateDraft(context.Context, *connect.Request[api.ValidateDraftRequest]) (*connect.Response[api.ValidateDraftResponse], error)
	SubmitDraft(context.Context, *connect.Request[api.SubmitDraftRequest]) (*connect.Response[api.SubmitDraftResponse], error)
	DiscardDraft(context.Context, *connect.Request[api.DiscardDraftRequest]) (*connect.Response[emptypb.Empty], error)
}

// DraftServiceClient calls the draft service.
type DraftServiceClient = DraftServiceHandler

// NewDraftServiceHandler builds an HTTP handler for svc and returns the
// path prefix to mount it on.
func NewDraftServiceHandler(svc DraftServiceHandler, opts ...connect.HandlerOption) (string, http.Handler) {
	opts = handlerOptions(opts)
	mux := http.NewServeMux()
	mux.Handle(DraftServiceCreateDraftProcedure, connect.NewUnaryHandler(DraftServiceCreateDraftProcedure, svc.CreateDraft, opts...))
	mux.Handle(DraftServiceGetDraftProcedure, connect.NewUnaryHandler(DraftServiceGetDraftProcedure, svc.GetDraft, opts...))
	mux.Handle(DraftServiceListDraftsProcedure, connect.NewUnaryHandler(DraftServiceListDraftsProcedure, svc.ListDrafts, opts...))
	mux.Handle(DraftServiceSetTotalAmountProcedure, connect.NewUnaryHandler(DraftServiceSetTotalAmountProcedure, svc.SetTotalAmount, opts...))
	mux.Handle(DraftServiceSetParticipantsProcedure, connect.NewUnaryHandler(DraftServiceSetParticipantsProcedure, svc.SetParticipants, opts...))
	mux.Handle(DraftServiceSetParticipantAmountProcedure, connect.NewUnaryHandler(DraftServiceSetParticipantAmountProcedure, svc.SetParticipantAmount, opts...))
	mux.Handle(DraftServiceUpdateDetailsProcedure, connect.NewUnaryHandler(DraftServiceUpdateDetailsProcedure, svc.UpdateDetails, opts...))
	mux.Handle(DraftServiceValidateDraftProcedure, connect.NewUnaryHandler(DraftServiceValidateDraftProcedure, svc.ValidateDraft, opts...))
	mux.Handle(DraftServiceSubmitDraftProcedure, connect.NewUnaryHandler(DraftServiceSubmitDraftProcedure, svc.SubmitDraft, opts...))
	mux.Handle(DraftServiceDiscardDraftProcedure, connect.NewUnaryHandler(DraftServiceDiscardDraftProcedure, svc.DiscardDraft, opts...))
	return "/" + DraftServiceName + "/", mux
}

type draftServiceClient struct {
	createDraft          *connect.Client[api.CreateDraftRequest, api.DraftResponse]
	getDraft             *connect.Client[api.GetDraftRequest, api.DraftResponse]
	listDrafts           *connect.Client[api.ListDraftsRequest, api.ListDraftsResponse]
	setTotalAmount       *connect.Client[api.SetTotalAmountRequest, api.DraftResponse]
	setParticipants      *connect.Client[api.SetParticipantsRequest, api.DraftResponse]
	setParticipantAmount *connect.Client[api.SetParticipantAmountRequest, api.DraftResponse]
	updateDetails        *connect.Client[api.UpdateDetailsRequest, api.DraftResponse]
	validateDraft        *connect.Client[api.ValidateDraftRequest, api.ValidateDraftResponse]
	submitDraft          *connect.Client[api.SubmitDraftRequest, api.SubmitDraftResponse]
	discardDraft         *connect.Client[api.DiscardDraftRequest, emptypb.Empty]
}

// NewDraftServiceClient creates a client for the service at baseURL.
func NewDraftServiceClient(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) DraftServiceClient {
	baseURL = strings.TrimRight(baseURL, "/")
	opts = clientOptions(opts)
	return &draftServiceClient{
		createDraft:          connect.NewClient[api.CreateDraftRequest, api.DraftResponse](httpClient, baseURL+DraftServiceCreateDraftProcedure, opts...),
		getDraft:             connect.NewClient[api.GetDraftRequest, api.DraftResponse](httpClient, baseURL+DraftServiceGetDraftProcedure, opts...),
		listDrafts:           connect.NewClient[api.ListDraftsRequest, api.ListDraftsResponse](httpClient, baseURL+DraftServiceListDraftsProcedure, opts...),
		setTotalAmount:       connect.NewClient[api.SetTotalAmountRequest, api.DraftResponse](httpClient, baseURL+DraftServiceSetTotalAmountProcedure, opts...),
		setParticipants:      connect.NewClient[api.SetParticipantsRequest, api.DraftResponse](httpClient, baseURL+DraftServiceSetParticipantsProcedure, opts...),
		setParticipantAmount: connect.NewClient[api.SetParticipantAmountRequest, api.DraftResponse](httpClient, baseURL+DraftServiceSetParticipantAmountProcedure, opts...),
		updateDetails:        connect.NewClient[api.UpdateDetailsRequest, api.DraftResponse](httpClient, baseURL+DraftServiceUpdateDetailsProcedure, opts...),
		validateDraft:        connect.NewClient[api.ValidateDraftRequest, api.ValidateDraftResponse](httpClient, baseURL+DraftServiceValidateDraftProcedure, opts...),
		submitDraft:          connect.NewClient[api.SubmitDraftRequest, api.SubmitDraftResponse](httpClient, baseURL+DraftServiceSubmitDraftProcedure, opts...),
		discardDraft:         connect.NewClient[api.DiscardDraftRequest, emptypb.Empty](httpClient, baseURL+DraftServiceDiscardDraftProcedure, opts...),
	}
}

func (c *draftServiceClient) CreateDraft(ctx context.Context, req *connect.Request[api.CreateDraftRequest]) (*connect.Response[api.DraftResponse], error) {
	return c.createDraft.CallUnary(ctx, req)
}

func (c *draftServiceClient) GetDraft(ctx context.Context, req *connect.Request[api.GetDraftRequest]) (*connect.Response[api.DraftResponse], error) {
	return c.getDraft.CallUnary(ctx, req)
}

func (c *draftServiceClient) ListDrafts(ctx context.Context, req *connect.Request[api.ListDraftsRequest]) (*connect.Response[api.ListDraftsResponse], error) {
	return c.listDrafts.CallUnary(ctx, req)
}

func (c *draftServiceClient) SetTotalAmount(ctx context.Context, req *connect.Request[api.SetTotalAmountRequest]) (*connect.Response[api.DraftResponse], error) {
	return c.setTotalAmount.CallUnary(ctx, req)
}

func (c *draftServiceClient) SetParticipants(ctx context.Context, req *connect.Request[api.SetParticipantsRequest]) (*connect.Response[api.DraftResponse], error) {
	return c.setParticipants.CallUnary(ctx, req)
}

func (c *draftServiceClient) SetParticipantAmount(ctx context.Context, req *connect.Request[api.SetParticipantAmountRequest]) (*connect.Response[api.DraftResponse], error) {
	return c.setParticipantAmount.CallUnary(ctx, req)
}

func (c *draftServiceClient) UpdateDetails(ctx context.Context, req *connect.Request[api.UpdateDetailsRequest]) (*connect.Response[api.DraftResponse], error) {
	return c.updateDetails.CallUnary(ctx, req)
}

func (c *draftServiceClient) ValidateDraft(ctx context.Context, req *connect.Request[api.ValidateDraftRequest]) (*connect.Response[api.ValidateDraftResponse], error) {
	return c.validateDraft.CallUnary(ctx, req)
}

func (c *draftServiceClient) SubmitDraft(ctx context.Context, req *connect.Request[api.SubmitDraftRequest]) (*connect.Response[api.SubmitDraftResponse], error) {
	return c.submitDraft.CallUnary(ctx, req)
}

func (c *draftServiceClient) DiscardDraft(ctx context.Context, req *connect.Request[api.DiscardDraftRequest]) (*connect.Response[emptypb.Empty], error) {
	return c.discardDraft.CallUnary(ctx, req)
}

// UnimplementedDraftServiceHandler returns CodeUnimplemented from all methods.
type UnimplementedDraftServiceHandler struct{}

func (UnimplementedDraftServiceHandler) CreateDraft(context.Context, *connect.Request[api.CreateDraftRequest]) (*connect.Response[api.DraftResponse], error) {
	return nil, unimplemented(DraftServiceCreateDraftProcedure)
}

func (UnimplementedDraftServiceHandler) GetDraft(context.Context, *connect.Request[api.GetDraftRequest]) (*connect.Response[api.DraftResponse], error) {
	return nil, unimplemented(DraftServiceGetDraftProcedure)
}

func (UnimplementedDraftServiceHandler) ListDrafts(context.Context, *connect.Request[api.ListDraftsRequest]) (*connect.Response[api.ListDraftsResponse], error) {
	return nil, unimplemented(DraftServiceListDraftsProcedure)
}

func (UnimplementedDraftServiceHandler) SetTotalAmount(context.Context, *connect.Request[api.SetTotalAmountRequest]) (*connect.Response[api.DraftResponse], error) {
	return nil, unimplemented(DraftServiceSetTotalAmountProcedure)
}

func (UnimplementedDraftServiceHandler) SetParticipants(context.Context, *connect.Request[api.SetParticipantsRequest]) (*connect.Response[api.DraftResponse], error) {
	return nil, unimplemented(DraftServiceSetParticipantsProcedure)
}

func (UnimplementedDraftServiceHandler) SetParticipantAmount(context.Context, *connect.Request[api.SetParticipantAmountRequest]) (*connect.Response[api.DraftResponse], error) {
	return nil, unimplemented(DraftServiceSetParticipantAmountProcedure)
}

func (UnimplementedDraftServiceHandler) UpdateDetails(context.Context, *connect.Request[api.UpdateDetailsRequest]) (*connect.Response[api.DraftResponse], error) {
	return nil, unimplemented(DraftServiceUpdateDetailsProcedure)
}

func (UnimplementedDraftServiceHandler) ValidateDraft(context.Context, *connect.Request[api.ValidateDraftRequest]) (*connect.Response[api.ValidateDraftResponse], error) {
	return nil, unimplemented(DraftServiceValidateDraftProcedure)
}

func (UnimplementedDraftServiceHandler) SubmitDraft(context.Context, *connect.Request[api.SubmitDraftRequest]) (*connect.Response[api.SubmitDraftResponse], error) {
	return nil, unimplemented(DraftServiceSubmitDraftProcedure)
}

func (UnimplementedDraftServiceHandler) DiscardDraft(context.Context, *connect.Request[api.DiscardDraftRequest]) (*connect.Response[emptypb.Empty], error) {
	return nil, unimplemented(DraftServiceDiscardDraftProcedure)
}
