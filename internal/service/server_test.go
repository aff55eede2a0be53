package service

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"connectrpc.com/connect"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/mmynk/splitfree/internal/auth"
	"github.com/mmynk/splitfree/internal/middleware"
	"github.com/mmynk/splitfree/internal/models"
	"github.com/mmynk/splitfree/internal/remote"
	"github.com/mmynk/splitfree/internal/storage/sqlite"
	"github.com/mmynk/splitfree/pkg/api"
	"github.com/mmynk/splitfree/pkg/api/apiconnect"
)

const testGroupID = 10

// fakeAPI is an in-memory stand-in for the remote SplitFree API.
// alice, bob and carol share group 10; dave belongs to no group.
type fakeAPI struct {
	mu        sync.Mutex
	users     map[string]models.User
	group     models.Group
	expenses  map[int64]models.Expense
	nextID    int64
	submitted []models.ExpenseInput
	updated   []int64
	loggedOut []string
}

func newFakeAPI() *fakeAPI {
	alice := models.User{ID: 1, Username: "alice", FirstName: "Alice"}
	bob := models.User{ID: 2, Username: "bob"}
	carol := models.User{ID: 3, Username: "carol"}
	dave := models.User{ID: 4, Username: "dave"}

	f := &fakeAPI{
		users: map[string]models.User{
			"alice-token": alice,
			"bob-token":   bob,
			"carol-token": carol,
			"dave-token":  dave,
		},
		group: models.Group{
			ID:   testGroupID,
			UUID: "flat-invite",
			Name: "Flat",
			Members: []models.Member{
				{ID: 1, Username: "alice"},
				{ID: 2, Username: "bob"},
				{ID: 3, Username: "carol"},
			},
		},
		expenses: map[int64]models.Expense{},
		nextID:   100,
	}
	f.expenses[50] = models.Expense{
		ID:           50,
		Group:        testGroupID,
		Title:        "Groceries",
		Amount:       decimal.RequireFromString("60"),
		PaidBy:       bob,
		SplitBetween: []int64{1, 2},
		Splits: []models.Split{
			{User: 1, Amount: decimal.RequireFromString("20")},
			{User: 2, Amount: decimal.RequireFromString("40")},
		},
		CreatedAt: "2026-10-01T09:30:00Z",
	}
	return f
}

func (f *fakeAPI) handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /auth/get-user/{$}", func(w http.ResponseWriter, r *http.Request) {
		user, ok := f.authorize(w, r)
		if ok {
			writeJSON(w, http.StatusOK, user)
		}
	})
	mux.HandleFunc("POST /api/auth/logout/{$}", func(w http.ResponseWriter, r *http.Request) {
		if _, ok := f.authorize(w, r); !ok {
			return
		}
		f.mu.Lock()
		f.loggedOut = append(f.loggedOut, strings.TrimPrefix(r.Header.Get("Authorization"), "Token "))
		f.mu.Unlock()
		w.WriteHeader(http.StatusNoContent)
	})
	mux.HandleFunc("GET /api/v1/groups/{$}", func(w http.ResponseWriter, r *http.Request) {
		user, ok := f.authorize(w, r)
		if !ok {
			return
		}
		groups := []models.Group{}
		if f.group.HasMember(user.ID) {
			groups = append(groups, f.group)
		}
		writeJSON(w, http.StatusOK, groups)
	})
	mux.HandleFunc("GET /api/v1/groups/{ref}/{$}", func(w http.ResponseWriter, r *http.Request) {
		if _, ok := f.authorize(w, r); !ok {
			return
		}
		ref := r.PathValue("ref")
		if ref != strconv.Itoa(testGroupID) && ref != f.group.UUID {
			writeJSON(w, http.StatusNotFound, map[string]string{"detail": "Not found."})
			return
		}
		f.mu.Lock()
		defer f.mu.Unlock()
		writeJSON(w, http.StatusOK, map[string]models.Group{"0": f.group})
	})
	mux.HandleFunc("POST /api/v1/groups/create/{$}", func(w http.ResponseWriter, r *http.Request) {
		user, ok := f.authorize(w, r)
		if !ok {
			return
		}
		var body map[string]string
		json.NewDecoder(r.Body).Decode(&body)
		writeJSON(w, http.StatusCreated, models.Group{
			ID:          11,
			UUID:        "new-invite",
			Name:        body["name"],
			Description: body["description"],
			Members:     []models.Member{{ID: user.ID, Username: user.Username}},
		})
	})
	mux.HandleFunc("POST /api/v1/groups/{uuid}/add-user/{$}", func(w http.ResponseWriter, r *http.Request) {
		user, ok := f.authorize(w, r)
		if !ok {
			return
		}
		if r.PathValue("uuid") != f.group.UUID {
			writeJSON(w, http.StatusNotFound, map[string]string{"detail": "Not found."})
			return
		}
		f.mu.Lock()
		defer f.mu.Unlock()
		if !f.group.HasMember(user.ID) {
			f.group.Members = append(f.group.Members, models.Member{ID: user.ID, Username: user.Username})
		}
		writeJSON(w, http.StatusOK, f.group)
	})
	mux.HandleFunc("GET /api/v1/expenses/expenses/{group}/{$}", func(w http.ResponseWriter, r *http.Request) {
		if _, ok := f.authorize(w, r); !ok {
			return
		}
		f.mu.Lock()
		defer f.mu.Unlock()
		byID := map[string]models.Expense{}
		for id, e := range f.expenses {
			if strconv.FormatInt(e.Group, 10) == r.PathValue("group") {
				byID[strconv.FormatInt(id, 10)] = e
			}
		}
		writeJSON(w, http.StatusOK, byID)
	})
	mux.HandleFunc("POST /api/v1/expenses/expenses/{$}", func(w http.ResponseWriter, r *http.Request) {
		if _, ok := f.authorize(w, r); !ok {
			return
		}
		var input models.ExpenseInput
		if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"detail": err.Error()})
			return
		}
		f.mu.Lock()
		defer f.mu.Unlock()
		f.nextID++
		expense := f.store(f.nextID, input)
		f.submitted = append(f.submitted, input)
		writeJSON(w, http.StatusCreated, expense)
	})
	mux.HandleFunc("PUT /api/v1/expenses/expenses/{id}/{$}", func(w http.ResponseWriter, r *http.Request) {
		if _, ok := f.authorize(w, r); !ok {
			return
		}
		id, _ := strconv.ParseInt(r.PathValue("id"), 10, 64)
		var input models.ExpenseInput
		if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"detail": err.Error()})
			return
		}
		f.mu.Lock()
		defer f.mu.Unlock()
		if _, ok := f.expenses[id]; !ok {
			writeJSON(w, http.StatusNotFound, map[string]string{"detail": "Not found."})
			return
		}
		expense := f.store(id, input)
		f.submitted = append(f.submitted, input)
		f.updated = append(f.updated, id)
		writeJSON(w, http.StatusOK, expense)
	})
	mux.HandleFunc("DELETE /api/v1/expenses/expenses/{id}/{$}", func(w http.ResponseWriter, r *http.Request) {
		if _, ok := f.authorize(w, r); !ok {
			return
		}
		id, _ := strconv.ParseInt(r.PathValue("id"), 10, 64)
		f.mu.Lock()
		defer f.mu.Unlock()
		if _, ok := f.expenses[id]; !ok {
			writeJSON(w, http.StatusNotFound, map[string]string{"detail": "Not found."})
			return
		}
		delete(f.expenses, id)
		w.WriteHeader(http.StatusNoContent)
	})
	mux.HandleFunc("GET /api/v1/expenses/balances/{group}/{$}", func(w http.ResponseWriter, r *http.Request) {
		if _, ok := f.authorize(w, r); !ok {
			return
		}
		w.Write([]byte(`[{"user": "alice", "owes": {"bob": "20.5"}}, {"user": "carol", "owes": {}}]`))
	})
	return mux
}

func (f *fakeAPI) authorize(w http.ResponseWriter, r *http.Request) (models.User, bool) {
	user, ok := f.users[strings.TrimPrefix(r.Header.Get("Authorization"), "Token ")]
	if !ok {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"detail": "Invalid token."})
	}
	return user, ok
}

// store records input as expense id. Callers hold f.mu.
func (f *fakeAPI) store(id int64, input models.ExpenseInput) models.Expense {
	expense := models.Expense{
		ID:           id,
		Group:        input.Group,
		Title:        input.Title,
		Amount:       decimal.RequireFromString(input.Amount.String()),
		SplitBetween: input.SplitBetween,
		Notes:        input.Notes,
		CreatedAt:    input.Date + "T00:00:00Z",
	}
	for _, user := range f.users {
		if user.ID == input.PaidByID {
			expense.PaidBy = user
		}
	}
	for _, s := range input.Splits {
		expense.Splits = append(expense.Splits, models.Split{User: s.User, Amount: decimal.RequireFromString(s.Amount)})
	}
	f.expenses[id] = expense
	return expense
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}

// testEnv is a BFF server wired like cmd/server, talking to a fakeAPI.
type testEnv struct {
	api      *fakeAPI
	store    *sqlite.SQLiteStore
	sessions apiconnect.SessionServiceClient
	drafts   apiconnect.DraftServiceClient
	groups   apiconnect.GroupServiceClient
}

func setupTestServer(t *testing.T) *testEnv {
	t.Helper()

	fake := newFakeAPI()
	apiServer := httptest.NewServer(fake.handler())
	t.Cleanup(apiServer.Close)

	store, err := sqlite.New(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	client := remote.New(remote.Config{BaseURL: apiServer.URL, Timeout: 5 * time.Second})
	authenticator := auth.NewAuthenticator(client, store, auth.NewJWTManager("test-secret"), time.Hour)

	required := connect.WithInterceptors(middleware.RequireAuth(authenticator))
	optional := connect.WithInterceptors(middleware.OptionalAuth(authenticator))

	mux := http.NewServeMux()
	mux.Handle(apiconnect.NewSessionServiceHandler(NewSessionService(authenticator, client, slog.Default()), optional))
	mux.Handle(apiconnect.NewDraftServiceHandler(NewDraftService(store, client, slog.Default()), required))
	mux.Handle(apiconnect.NewGroupServiceHandler(NewGroupService(client, slog.Default()), required))

	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)

	return &testEnv{
		api:      fake,
		store:    store,
		sessions: apiconnect.NewSessionServiceClient(http.DefaultClient, server.URL),
		drafts:   apiconnect.NewDraftServiceClient(http.DefaultClient, server.URL),
		groups:   apiconnect.NewGroupServiceClient(http.DefaultClient, server.URL),
	}
}

// login signs in with a remote token and returns the bearer token.
func (e *testEnv) login(t *testing.T, remoteToken string) string {
	t.Helper()
	resp, err := e.sessions.Login(t.Context(), connect.NewRequest(&api.LoginRequest{RemoteToken: remoteToken}))
	require.NoError(t, err)
	return resp.Msg.Token
}

// authed wraps msg in a request carrying the bearer token.
func authed[T any](token string, msg *T) *connect.Request[T] {
	req := connect.NewRequest(msg)
	req.Header().Set("Authorization", fmt.Sprintf("Bearer %s", token))
	return req
}
