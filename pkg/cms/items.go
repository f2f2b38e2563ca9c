package cms

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
)

// ============================================================================
// Query Building
// ============================================================================

// Query narrows an items request. The zero value fetches the whole collection
// with default fields.
type Query struct {
	// Fields selects attributes, supporting relation expansion ("faculty.*")
	Fields []string

	// Filter is the backend's filter tree, e.g. {"project": {"_eq": 7}}
	Filter map[string]any

	// Sort orders results; prefix a field with "-" for descending
	Sort []string

	// Limit caps the number of returned items when positive
	Limit int

	// WithMeta asks the backend for total/filter counts
	WithMeta bool
}

// Eq builds a single-field equality filter.
func Eq(field string, value any) map[string]any {
	return map[string]any{field: map[string]any{"_eq": value}}
}

func (q Query) values() (url.Values, error) {
	v := url.Values{}
	if len(q.Fields) > 0 {
		v.Set("fields", strings.Join(q.Fields, ","))
	}
	if len(q.Filter) > 0 {
		raw, err := json.Marshal(q.Filter)
		if err != nil {
			return nil, fmt.Errorf("failed to encode filter: %w", err)
		}
		v.Set("filter", string(raw))
	}
	if len(q.Sort) > 0 {
		v.Set("sort", strings.Join(q.Sort, ","))
	}
	if q.Limit > 0 {
		v.Set("limit", strconv.Itoa(q.Limit))
	}
	if q.WithMeta {
		v.Set("meta", "total_count,filter_count")
	}
	return v, nil
}

func itemsPath(collection string) string {
	return "/items/" + collection
}

func itemPath(collection string, id int64) string {
	return "/items/" + collection + "/" + strconv.FormatInt(id, 10)
}

// ============================================================================
// Item Operations
// ============================================================================

// List fetches a collection, decoded into the caller's record type.
func List[T any](ctx context.Context, s *Session, collection string, q Query) ([]T, error) {
	query, err := q.values()
	if err != nil {
		return nil, err
	}

	resp, err := s.doAuthRequest(ctx, http.MethodGet, itemsPath(collection), query, nil)
	if err != nil {
		return nil, err
	}

	var env listEnvelope[T]
	if err := s.decodeAuthJSON(resp, &env, http.StatusOK); err != nil {
		return nil, err
	}

	return env.Data, nil
}

// Get fetches a single item by ID.
func Get[T any](ctx context.Context, s *Session, collection string, id int64) (T, error) {
	var zero T

	resp, err := s.doAuthRequest(ctx, http.MethodGet, itemPath(collection, id), nil, nil)
	if err != nil {
		return zero, err
	}

	var env envelope[T]
	if err := s.decodeAuthJSON(resp, &env, http.StatusOK); err != nil {
		return zero, err
	}

	return env.Data, nil
}

// Create inserts a new item and returns the stored record.
func Create[T any](ctx context.Context, s *Session, collection string, payload any) (T, error) {
	var zero T

	resp, err := s.doAuthRequest(ctx, http.MethodPost, itemsPath(collection), nil, payload)
	if err != nil {
		return zero, err
	}

	var env envelope[T]
	if err := s.decodeAuthJSON(resp, &env, http.StatusOK); err != nil {
		return zero, err
	}

	return env.Data, nil
}

// Update applies a partial update to an item and returns the stored record.
func Update[T any](ctx context.Context, s *Session, collection string, id int64, payload any) (T, error) {
	var zero T

	resp, err := s.doAuthRequest(ctx, http.MethodPatch, itemPath(collection, id), nil, payload)
	if err != nil {
		return zero, err
	}

	var env envelope[T]
	if err := s.decodeAuthJSON(resp, &env, http.StatusOK); err != nil {
		return zero, err
	}

	return env.Data, nil
}

// Delete removes an item.
func Delete(ctx context.Context, s *Session, collection string, id int64) error {
	resp, err := s.doAuthRequest(ctx, http.MethodDelete, itemPath(collection, id), nil, nil)
	if err != nil {
		return err
	}

	return s.checkAuthStatus(resp, http.StatusNoContent)
}
