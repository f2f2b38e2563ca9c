package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/galileomedialab/medialab/internal/crm/data"
	"github.com/galileomedialab/medialab/pkg/cms"
	"github.com/galileomedialab/medialab/pkg/httpx"
	"github.com/galileomedialab/medialab/pkg/slogx"
)

// entityProxy wires one backend collection to /api routes: requests are
// forwarded to the backend and successful results folded into the session's
// cache.
type entityProxy[T any] struct {
	collection string
	cache      func(*data.Caches) *data.Collection[T]
	listFields []string
}

func registerEntityRoutes[T any](r *Router, name string, p entityProxy[T]) {
	base := "/api/" + name
	authed := Policy{}
	limited := func(h http.Handler) http.Handler {
		return r.Protect(authed, httpx.Chain(h, httpx.RateLimitBySession(httpx.ModerateLimit)))
	}

	r.Mux.Handle("GET "+base, limited(http.HandlerFunc(p.handleList(r))))
	r.Mux.Handle("GET "+base+"/{id}", limited(http.HandlerFunc(p.handleGet(r))))
	r.Mux.Handle("POST "+base, limited(http.HandlerFunc(p.handleCreate(r))))
	r.Mux.Handle("PATCH "+base+"/{id}", limited(http.HandlerFunc(p.handleUpdate(r))))
	r.Mux.Handle("DELETE "+base+"/{id}", limited(http.HandlerFunc(p.handleDelete(r))))
}

func (p entityProxy[T]) handleList(r *Router) http.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) {
		sess := r.sessionFor(req)
		caches := r.registry.For(sess.ID())
		cache := p.cache(caches)

		items, err := cms.List[T](req.Context(), sess.API(), p.collection, cms.Query{
			Fields: p.listFields,
		})
		if err != nil {
			caches.SetError("Error al cargar los datos")
			r.writeProxyError(w, req, err)
			return
		}

		cache.Replace(items)
		caches.ClearError()
		httpx.WriteJSON(w, http.StatusOK, map[string]any{"data": items})
	}
}

func (p entityProxy[T]) handleGet(r *Router) http.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) {
		id, ok := pathID(w, req)
		if !ok {
			return
		}
		sess := r.sessionFor(req)

		item, err := cms.Get[T](req.Context(), sess.API(), p.collection, id)
		if err != nil {
			r.writeProxyError(w, req, err)
			return
		}
		httpx.WriteJSON(w, http.StatusOK, map[string]any{"data": item})
	}
}

func (p entityProxy[T]) handleCreate(r *Router) http.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) {
		payload, ok := decodePayload(w, req)
		if !ok {
			return
		}
		sess := r.sessionFor(req)

		item, err := cms.Create[T](req.Context(), sess.API(), p.collection, payload)
		if err != nil {
			r.writeProxyError(w, req, err)
			return
		}

		p.cache(r.registry.For(sess.ID())).Add(item)
		httpx.WriteJSON(w, http.StatusCreated, map[string]any{"data": item})
	}
}

func (p entityProxy[T]) handleUpdate(r *Router) http.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) {
		id, ok := pathID(w, req)
		if !ok {
			return
		}
		payload, ok := decodePayload(w, req)
		if !ok {
			return
		}
		sess := r.sessionFor(req)

		item, err := cms.Update[T](req.Context(), sess.API(), p.collection, id, payload)
		if err != nil {
			r.writeProxyError(w, req, err)
			return
		}

		p.cache(r.registry.For(sess.ID())).Update(item)
		httpx.WriteJSON(w, http.StatusOK, map[string]any{"data": item})
	}
}

func (p entityProxy[T]) handleDelete(r *Router) http.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) {
		id, ok := pathID(w, req)
		if !ok {
			return
		}
		sess := r.sessionFor(req)

		if err := cms.Delete(req.Context(), sess.API(), p.collection, id); err != nil {
			r.writeProxyError(w, req, err)
			return
		}

		p.cache(r.registry.For(sess.ID())).Remove(id)
		w.WriteHeader(http.StatusNoContent)
	}
}

func pathID(w http.ResponseWriter, req *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(req.PathValue("id"), 10, 64)
	if err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "invalid id")
		return 0, false
	}
	return id, true
}

func decodePayload(w http.ResponseWriter, req *http.Request) (map[string]any, bool) {
	var payload map[string]any
	if err := json.NewDecoder(req.Body).Decode(&payload); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "malformed request body")
		return nil, false
	}
	return payload, true
}

// writeProxyError folds a backend failure into the gateway's response. A 401
// means the backend rejected our bearer: by the time we get here the
// transport hook has already torn the session down, so the browser is told
// to sign in again.
func (r *Router) writeProxyError(w http.ResponseWriter, req *http.Request, err error) {
	log := slogx.FromContext(req.Context())

	if errors.Is(err, cms.ErrUnauthorized) {
		httpx.NoCache(w)
		httpx.WriteJSON(w, http.StatusUnauthorized, map[string]string{
			"error":    "Sesión expirada",
			"redirect": PathLogin,
		})
		return
	}

	var apiErr *cms.APIError
	if errors.As(err, &apiErr) {
		log.Warn("backend rejected proxy call", "status", apiErr.Status, "code", apiErr.Code)
		httpx.WriteError(w, apiErr.Status, apiErr.Message)
		return
	}

	if cms.IsConnectivity(err) {
		log.Warn("backend unreachable", "error", err)
		httpx.WriteError(w, http.StatusBadGateway, "Error de conexión. Intenta nuevamente.")
		return
	}

	log.Error("proxy call failed", "error", err)
	httpx.WriteError(w, http.StatusInternalServerError, "internal error")
}
