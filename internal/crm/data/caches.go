package data

import (
	"sync"

	"github.com/galileomedialab/medialab/internal/crm/domain"
)

// Caches bundles one session's entity caches. Fetch failures are folded into
// a single error string for display; errors never escape this layer as error
// values.
type Caches struct {
	Requests     *Collection[domain.Request]
	Projects     *Collection[domain.Project]
	Tasks        *Collection[domain.Task]
	Deliverables *Collection[domain.TaskDeliverable]

	Faculties         *Collection[domain.Faculty]
	Services          *Collection[domain.Service]
	ServiceCategories *Collection[domain.ServiceCategory]
	ProjectTypes      *Collection[domain.ProjectType]
	DeliverableTypes  *Collection[domain.DeliverableType]

	mu      sync.RWMutex
	lastErr string
}

func NewCaches() *Caches {
	return &Caches{
		Requests:     NewCollection(func(r domain.Request) int64 { return r.ID }),
		Projects:     NewCollection(func(p domain.Project) int64 { return p.ID }),
		Tasks:        NewCollection(func(t domain.Task) int64 { return t.ID }),
		Deliverables: NewCollection(func(d domain.TaskDeliverable) int64 { return d.ID }),

		Faculties:         NewCollection(func(f domain.Faculty) int64 { return f.ID }),
		Services:          NewCollection(func(s domain.Service) int64 { return s.ID }),
		ServiceCategories: NewCollection(func(c domain.ServiceCategory) int64 { return c.ID }),
		ProjectTypes:      NewCollection(func(p domain.ProjectType) int64 { return p.ID }),
		DeliverableTypes:  NewCollection(func(d domain.DeliverableType) int64 { return d.ID }),
	}
}

// SetError records a display error string, replacing any prior one.
func (c *Caches) SetError(msg string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.lastErr = msg
}

// Error returns the last recorded error string, empty when healthy.
func (c *Caches) Error() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.lastErr
}

// ClearError resets the error string.
func (c *Caches) ClearError() {
	c.SetError("")
}

// CatalogsLoaded reports whether every read-only catalog has been filled.
func (c *Caches) CatalogsLoaded() bool {
	return c.Faculties.Loaded() &&
		c.Services.Loaded() &&
		c.ServiceCategories.Loaded() &&
		c.ProjectTypes.Loaded() &&
		c.DeliverableTypes.Loaded()
}

// Registry hands out the Caches for each session and drops them on logout.
type Registry struct {
	mu     sync.Mutex
	caches map[string]*Caches
}

func NewRegistry() *Registry {
	return &Registry{caches: make(map[string]*Caches)}
}

// For returns the caches for a session, creating them on first use.
func (r *Registry) For(sessionID string) *Caches {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.caches[sessionID]
	if !ok {
		c = NewCaches()
		r.caches[sessionID] = c
	}
	return c
}

// Drop discards a session's caches.
func (r *Registry) Drop(sessionID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.caches, sessionID)
}
