package apiconnect

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"connectrpc.com/connect"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/protobuf/types/known/emptypb"

	"github.com/mmynk/splitfree/pkg/api"
)

func TestCodec(t *testing.T) {
	codec := Codec{}
	assert.Equal(t, "json", codec.Name())

	data, err := codec.Marshal(&api.SetParticipantsRequest{DraftID: "d1", MemberIDs: []int64{3, 1}})
	require.NoError(t, err)
	assert.JSONEq(t, `{"draft_id": "d1", "member_ids": [3, 1]}`, string(data))

	var req api.SetParticipantsRequest
	require.NoError(t, codec.Unmarshal(data, &req))
	assert.Equal(t, []int64{3, 1}, req.MemberIDs)

	data, err = codec.Marshal(&emptypb.Empty{})
	require.NoError(t, err)
	assert.JSONEq(t, `{}`, string(data))
	assert.NoError(t, codec.Unmarshal([]byte(`{"unknown": 1}`), &emptypb.Empty{}))
	assert.NoError(t, codec.Unmarshal(nil, &req))
}

func TestUnimplementedHandlers(t *testing.T) {
	mux := http.NewServeMux()
	mux.Handle(NewGroupServiceHandler(UnimplementedGroupServiceHandler{}))
	mux.Handle(NewDraftServiceHandler(UnimplementedDraftServiceHandler{}))
	server := httptest.NewServer(mux)
	defer server.Close()

	groups := NewGroupServiceClient(http.DefaultClient, server.URL+"/")
	_, err := groups.ListBalances(t.Context(), connect.NewRequest(&api.ListBalancesRequest{GroupID: 1}))
	assert.Equal(t, connect.CodeUnimplemented, connect.CodeOf(err))

	drafts := NewDraftServiceClient(http.DefaultClient, server.URL)
	_, err = drafts.DiscardDraft(t.Context(), connect.NewRequest(&api.DiscardDraftRequest{DraftID: "x"}))
	assert.Equal(t, connect.CodeUnimplemented, connect.CodeOf(err))
	assert.Contains(t, err.Error(), DraftServiceDiscardDraftProcedure)
}
