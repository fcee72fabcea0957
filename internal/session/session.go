// Package session keeps one view controller per browser session.
package session

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/Shivanand-hulikatti/activity-signup-web/internal/service"
)

// CookieName is the cookie that carries the session id.
const CookieName = "activities_session"

// timeNow is a variable for testability.
var timeNow = time.Now

type entry struct {
	ctrl     *service.Controller
	lastSeen time.Time
}

// Registry maps session ids to controllers. Idle sessions are dropped the
// next time the registry is consulted.
type Registry struct {
	mu       sync.Mutex
	sessions map[string]*entry
	factory  func() *service.Controller
	idle     time.Duration
}

// NewRegistry constructs a Registry that builds controllers with factory and
// forgets sessions unused for longer than idle. A non-positive idle keeps
// sessions until Close.
func NewRegistry(factory func() *service.Controller, idle time.Duration) *Registry {
	return &Registry{
		sessions: make(map[string]*entry),
		factory:  factory,
		idle:     idle,
	}
}

// Get returns the controller of session id, starting a new session when id is
// empty, unknown or expired. The returned id is the one to hand back to the
// client; created reports whether it is new.
func (r *Registry) Get(id string) (ctrl *service.Controller, sessionID string, created bool) {
	now := timeNow()

	r.mu.Lock()
	defer r.mu.Unlock()

	r.sweep(now)

	if e, ok := r.sessions[id]; ok && id != "" {
		e.lastSeen = now
		return e.ctrl, id, false
	}

	sessionID = uuid.NewString()
	e := &entry{ctrl: r.factory(), lastSeen: now}
	r.sessions[sessionID] = e
	return e.ctrl, sessionID, true
}

// Len returns the number of live sessions.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sessions)
}

// Close ends every session.
func (r *Registry) Close() {
	r.mu.Lock()
	defer r.mu.Unlock()
	for id, e := range r.sessions {
		e.ctrl.Close()
		delete(r.sessions, id)
	}
}

func (r *Registry) sweep(now time.Time) {
	if r.idle <= 0 {
		return
	}
	for id, e := range r.sessions {
		if now.Sub(e.lastSeen) > r.idle {
			e.ctrl.Close()
			delete(r.sessions, id)
		}
	}
}
