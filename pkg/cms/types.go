package cms

// ============================================================================
// Auth Types
// ============================================================================

// loginRequest is the credential-exchange request body.
type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// refreshRequest is the token-refresh request body.
type refreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

// TokenPair is the backend's credential-exchange response. Both tokens are
// opaque bearer strings from the gateway's point of view, though the access
// token happens to be a JWT whose expiry can be read (see TokenExpiry).
type TokenPair struct {
	// AccessToken authenticates subsequent API requests
	AccessToken string `json:"access_token"`

	// RefreshToken obtains new access tokens when the current one expires
	RefreshToken string `json:"refresh_token"`

	// Expires is the access token lifetime in milliseconds
	Expires int64 `json:"expires,omitempty"`
}

// ============================================================================
// User Types
// ============================================================================

// User is the backend's account record as consumed by the gateway. Role is an
// opaque backend-issued role identifier, not a logical role; the gateway maps
// it separately.
type User struct {
	ID        string `json:"id"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
	Role      string `json:"role"`
}

// ============================================================================
// Response Envelopes
// ============================================================================

// envelope wraps single-object responses: {"data": {...}}.
type envelope[T any] struct {
	Data T `json:"data"`
}

// listEnvelope wraps collection responses: {"data": [...], "meta": {...}}.
type listEnvelope[T any] struct {
	Data []T       `json:"data"`
	Meta *ListMeta `json:"meta,omitempty"`
}

// ListMeta carries collection counts when requested.
type ListMeta struct {
	TotalCount  int `json:"total_count"`
	FilterCount int `json:"filter_count"`
}
