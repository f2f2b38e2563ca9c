package cms

import (
	"errors"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"syscall"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestAPIErrorUnwrap(t *testing.T) {
	t.Parallel()

	t.Run("401 maps to ErrUnauthorized", func(t *testing.T) {
		err := &APIError{Status: http.StatusUnauthorized, Code: ErrorCodeInvalidCredentials, Message: "Invalid user credentials."}
		require.ErrorIs(t, err, ErrUnauthorized)
		require.NotErrorIs(t, err, ErrRateLimited)
	})

	t.Run("429 maps to ErrRateLimited", func(t *testing.T) {
		err := &APIError{Status: http.StatusTooManyRequests, Code: ErrorCodeRateLimited, Message: "Too many requests."}
		require.ErrorIs(t, err, ErrRateLimited)
	})

	t.Run("other statuses map to nothing", func(t *testing.T) {
		err := &APIError{Status: http.StatusInternalServerError, Message: "boom"}
		require.NotErrorIs(t, err, ErrUnauthorized)
		require.NotErrorIs(t, err, ErrRateLimited)
	})

	t.Run("survives wrapping", func(t *testing.T) {
		err := fmt.Errorf("failed to fetch profile: %w", &APIError{Status: http.StatusUnauthorized})
		require.ErrorIs(t, err, ErrUnauthorized)

		apiErr, ok := asAPIError(err)
		require.True(t, ok)
		require.Equal(t, http.StatusUnauthorized, apiErr.Status)
	})
}

func TestIsConnectivity(t *testing.T) {
	t.Parallel()

	t.Run("url error", func(t *testing.T) {
		err := &url.Error{Op: "Post", URL: "http://cms.local/auth/login", Err: errors.New("connection refused")}
		require.True(t, IsConnectivity(err))
	})

	t.Run("wrapped url error", func(t *testing.T) {
		var err error = &url.Error{Op: "Get", URL: "http://cms.local/users/me", Err: errors.New("timeout")}
		err = fmt.Errorf("request failed: %w", err)
		require.True(t, IsConnectivity(err))
	})

	t.Run("api error is not connectivity", func(t *testing.T) {
		err := &APIError{Status: http.StatusBadGateway, Message: "bad gateway"}
		require.False(t, IsConnectivity(err))
	})

	t.Run("nil", func(t *testing.T) {
		require.False(t, IsConnectivity(nil))
	})
}

func TestIsOffline(t *testing.T) {
	t.Parallel()

	t.Run("network unreachable", func(t *testing.T) {
		err := &url.Error{
			Op:  "Post",
			URL: "http://cms.local/auth/login",
			Err: &net.OpError{Op: "dial", Err: syscall.ENETUNREACH},
		}
		require.True(t, IsOffline(err))
	})

	t.Run("plain refusal is not offline", func(t *testing.T) {
		err := &url.Error{
			Op:  "Post",
			URL: "http://cms.local/auth/login",
			Err: &net.OpError{Op: "dial", Err: syscall.ECONNREFUSED},
		}
		require.False(t, IsOffline(err))
		require.True(t, IsConnectivity(err))
	})
}
