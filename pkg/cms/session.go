package cms

import (
	"context"
	"net/http"
	"net/url"
	"sync"
)

// Session performs authenticated calls against the CMS. It owns the bearer
// token applied to every outbound request (the process-wide request
// authorizer). A Session is safe for concurrent use.
type Session struct {
	client *Client

	mu             sync.RWMutex
	token          string
	onUnauthorized func()
}

// SetToken replaces the bearer token used for subsequent requests. An empty
// token disarms the authorizer entirely.
func (s *Session) SetToken(token string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = token
}

// Token returns the currently armed bearer token.
func (s *Session) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

// SetOnUnauthorized installs a hook invoked whenever ANY authenticated call
// receives a 401. The hook runs on the calling goroutine before the error is
// returned; it must be idempotent, since concurrent calls may each observe
// the expiry.
func (s *Session) SetOnUnauthorized(fn func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onUnauthorized = fn
}

// Me returns the user record for the current bearer token.
func (s *Session) Me(ctx context.Context) (*User, error) {
	resp, err := s.doAuthRequest(ctx, http.MethodGet, "/users/me", nil, nil)
	if err != nil {
		return nil, err
	}

	var env envelope[User]
	if err := s.decodeAuthJSON(resp, &env, http.StatusOK); err != nil {
		return nil, err
	}

	return &env.Data, nil
}

// doAuthRequest performs an authenticated HTTP request carrying the armed
// bearer token.
func (s *Session) doAuthRequest(
	ctx context.Context,
	method, path string,
	query url.Values,
	body any,
) (*http.Response, error) {
	token := s.Token()

	reqPath := path
	if len(query) > 0 {
		reqPath = path + "?" + query.Encode()
	}

	return s.client.doBearerRequest(ctx, method, reqPath, token, body)
}

// decodeAuthJSON decodes a response from an authenticated call. A 401 fires
// the session-expiry hook before the error propagates.
func (s *Session) decodeAuthJSON(resp *http.Response, target any, expectedStatus int) error {
	err := decodeJSON(resp, target, expectedStatus)
	if err != nil {
		s.fireIfUnauthorized(err)
	}
	return err
}

// checkAuthStatus is decodeAuthJSON for calls with no response body.
func (s *Session) checkAuthStatus(resp *http.Response, expectedStatus int) error {
	err := checkStatus(resp, expectedStatus)
	if err != nil {
		s.fireIfUnauthorized(err)
	}
	return err
}

func (s *Session) fireIfUnauthorized(err error) {
	apiErr, ok := asAPIError(err)
	if !ok || apiErr.Status != http.StatusUnauthorized {
		return
	}

	s.mu.RLock()
	fn := s.onUnauthorized
	s.mu.RUnlock()

	if fn != nil {
		fn()
	}
}
