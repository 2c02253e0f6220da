package session

import (
	"bytes"
	"sync"

	"github.com/pagemark/docview/internal/feature"
)

// GlobalHooks holds the entry points for one process-wide feature.
type GlobalHooks struct {
	Activate   func() error
	Deactivate func() error
}

// Registry is an in-memory Host. It tracks open sessions, creation
// subscribers, document-type associations, and process-wide feature state.
type Registry struct {
	mu       sync.Mutex
	sessions []Session
	subs     map[int]func(Session)
	nextSub  int
	assocs   []TypeAssociation
	globals  map[feature.ID]bool
	hooks    map[feature.ID]GlobalHooks
}

// NewRegistry returns an empty Registry.
func NewRegistry() *Registry {
	return &Registry{
		subs:    make(map[int]func(Session)),
		globals: make(map[feature.ID]bool),
		hooks:   make(map[feature.ID]GlobalHooks),
	}
}

// Add opens a session: it is recorded and every creation subscriber runs.
func (r *Registry) Add(s Session) {
	r.mu.Lock()
	r.sessions = append(r.sessions, s)
	subs := make([]func(Session), 0, len(r.subs))
	for _, fn := range r.subs {
		subs = append(subs, fn)
	}
	r.mu.Unlock()

	for _, fn := range subs {
		fn(s)
	}
}

// Remove closes a session.
func (r *Registry) Remove(s Session) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, cur := range r.sessions {
		if cur == s {
			r.sessions = append(r.sessions[:i], r.sessions[i+1:]...)
			return
		}
	}
}

// Sessions returns the open sessions in creation order.
func (r *Registry) Sessions() []Session {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Session, len(r.sessions))
	copy(out, r.sessions)
	return out
}

// OnSessionCreated registers fn for future session creations.
func (r *Registry) OnSessionCreated(fn func(Session)) (cancel func()) {
	r.mu.Lock()
	id := r.nextSub
	r.nextSub++
	r.subs[id] = fn
	r.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			r.mu.Lock()
			delete(r.subs, id)
			r.mu.Unlock()
		})
	}
}

// SubscriberCount returns the number of registered creation subscribers.
func (r *Registry) SubscriberCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.subs)
}

// Associate adds a document-type association unless an equal one exists.
func (r *Registry) Associate(a TypeAssociation) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, cur := range r.assocs {
		if cur.Mode == a.Mode && bytes.Equal(cur.Magic, a.Magic) {
			return
		}
	}
	r.assocs = append(r.assocs, a)
}

// Dissociate removes every association with the given magic.
func (r *Registry) Dissociate(magic []byte) {
	r.mu.Lock()
	defer r.mu.Unlock()
	kept := r.assocs[:0]
	for _, cur := range r.assocs {
		if !bytes.Equal(cur.Magic, magic) {
			kept = append(kept, cur)
		}
	}
	r.assocs = kept
}

// Associations returns the association list in insertion order.
func (r *Registry) Associations() []TypeAssociation {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]TypeAssociation, len(r.assocs))
	copy(out, r.assocs)
	return out
}

// RegisterGlobal installs the entry points for a process-wide feature.
// Without registered hooks, global activation only flips the state flag.
func (r *Registry) RegisterGlobal(id feature.ID, hooks GlobalHooks) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.hooks[id] = hooks
}

// GlobalActive reports whether a process-wide feature is active.
func (r *Registry) GlobalActive(id feature.ID) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.globals[id]
}

// ActivateGlobal activates a process-wide feature exactly once.
func (r *Registry) ActivateGlobal(id feature.ID) error {
	r.mu.Lock()
	if r.globals[id] {
		r.mu.Unlock()
		return nil
	}
	hooks := r.hooks[id]
	r.globals[id] = true
	r.mu.Unlock()

	if hooks.Activate != nil {
		return hooks.Activate()
	}
	return nil
}

// DeactivateGlobal deactivates a process-wide feature exactly once.
func (r *Registry) DeactivateGlobal(id feature.ID) error {
	r.mu.Lock()
	if !r.globals[id] {
		r.mu.Unlock()
		return nil
	}
	hooks := r.hooks[id]
	r.globals[id] = false
	r.mu.Unlock()

	if hooks.Deactivate != nil {
		return hooks.Deactivate()
	}
	return nil
}
