package cms

import (
	"context"
	"net/http"
	"strings"
	"time"
)

// Client is a client for the headless CMS backend. It provides the
// unauthenticated credential-exchange operations and creates authenticated
// Sessions.
type Client struct {
	BaseURL    string
	HTTPClient *http.Client
}

// NewClient creates a new CMS client. The timeout applies to every request
// issued through the client, including credential exchanges, so a hung login
// cannot wedge a caller indefinitely.
func NewClient(baseURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		BaseURL: strings.TrimSuffix(baseURL, "/"),
		HTTPClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// Login exchanges user credentials for a token pair.
func (c *Client) Login(ctx context.Context, email, password string) (*TokenPair, error) {
	body := loginRequest{Email: email, Password: password}

	resp, err := c.doRequest(ctx, http.MethodPost, "/auth/login", body)
	if err != nil {
		return nil, err
	}

	var env envelope[TokenPair]
	if err := decodeJSON(resp, &env, http.StatusOK); err != nil {
		return nil, err
	}

	return &env.Data, nil
}

// Refresh exchanges a refresh token for a fresh token pair.
func (c *Client) Refresh(ctx context.Context, refreshToken string) (*TokenPair, error) {
	body := refreshRequest{RefreshToken: refreshToken}

	resp, err := c.doRequest(ctx, http.MethodPost, "/auth/refresh", body)
	if err != nil {
		return nil, err
	}

	var env envelope[TokenPair]
	if err := decodeJSON(resp, &env, http.StatusOK); err != nil {
		return nil, err
	}

	return &env.Data, nil
}

// NewSession creates an authenticated session from an existing access token.
// Use this when restoring a session from persisted credentials.
func (c *Client) NewSession(accessToken string) *Session {
	return &Session{
		client: c,
		token:  accessToken,
	}
}

// url builds a complete URL by appending the path to the base URL.
func (c *Client) url(path string) string {
	return c.BaseURL + path
}
