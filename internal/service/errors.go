package service

import (
	"context"
	"errors"
	"net/http"
	"net/url"

	"connectrpc.com/connect"

	"github.com/mmynk/splitfree/internal/middleware"
	"github.com/mmynk/splitfree/internal/remote"
	"github.com/mmynk/splitfree/internal/storage"
)

var errAuthRequired = errors.New("authentication required")

// requireMember returns the authenticated member id or an Unauthenticated error.
func requireMember(ctx context.Context) (int64, error) {
	memberID := middleware.GetMemberID(ctx)
	if memberID == 0 {
		return 0, connect.NewError(connect.CodeUnauthenticated, errAuthRequired)
	}
	return memberID, nil
}

// remoteError maps a remote API failure onto a Connect error.
func remoteError(err error) error {
	if errors.Is(err, remote.ErrUnavailable) {
		return connect.NewError(connect.CodeUnavailable, err)
	}
	if errors.Is(err, remote.ErrNoToken) {
		return connect.NewError(connect.CodeUnauthenticated, err)
	}

	switch status := remote.StatusCode(err); {
	case status == http.StatusBadRequest:
		return connect.NewError(connect.CodeInvalidArgument, err)
	case status == http.StatusUnauthorized:
		return connect.NewError(connect.CodeUnauthenticated, err)
	case status == http.StatusForbidden:
		return connect.NewError(connect.CodePermissionDenied, err)
	case status == http.StatusNotFound:
		return connect.NewError(connect.CodeNotFound, err)
	case status >= 500:
		return connect.NewError(connect.CodeUnavailable, err)
	}

	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		return connect.NewError(connect.CodeUnavailable, err)
	}
	return connect.NewError(connect.CodeInternal, err)
}

// storeError maps a storage failure onto a Connect error.
func storeError(err error) error {
	if errors.Is(err, storage.ErrNotFound) {
		return connect.NewError(connect.CodeNotFound, err)
	}
	return connect.NewError(connect.CodeInternal, err)
}
