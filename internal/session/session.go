// Package session defines the collaborator surface between the bootstrap
// core and the host that owns open documents. The core only needs to
// enumerate open sessions, hear about new ones, and manage document-type
// associations and process-wide features; Registry is an in-memory
// implementation of that surface for embedding applications and tests.
package session

import "github.com/pagemark/docview/internal/feature"

// Session is one open, live document. Feature state is owned by the session
// and mutated only through its own entry points.
type Session interface {
	// Name identifies the session for display.
	Name() string

	// Peek returns up to n leading bytes of the session's content, used for
	// content-signature checks.
	Peek(n int) []byte

	// Mode returns the session's current major mode name.
	Mode() string

	// SetMode converts the session in place to the named mode.
	SetMode(mode string) error

	// FeatureActive reports whether the named feature is active.
	FeatureActive(id feature.ID) bool

	// ActivateFeature invokes the feature's activation entry point.
	ActivateFeature(id feature.ID) error

	// DeactivateFeature invokes the feature's deactivation entry point.
	DeactivateFeature(id feature.ID) error
}

// TypeAssociation maps a content signature to the mode new matching
// documents should open in.
type TypeAssociation struct {
	Magic []byte
	Mode  string
}

// Host is what the bootstrap core requires from the session-management
// collaborator.
type Host interface {
	// Sessions returns all currently open sessions.
	Sessions() []Session

	// OnSessionCreated registers fn to run for every session created after
	// this call. The returned cancel removes the registration; calling it
	// more than once is harmless.
	OnSessionCreated(fn func(Session)) (cancel func())

	// Associate adds a document-type association. Adding an association
	// equal to an existing one is a no-op: insertion is membership-checked.
	Associate(a TypeAssociation)

	// Dissociate removes every association with the given magic.
	Dissociate(magic []byte)

	// Associations returns the current association list in insertion order.
	Associations() []TypeAssociation

	// GlobalActive reports whether a process-wide feature is active.
	GlobalActive(id feature.ID) bool

	// ActivateGlobal activates a process-wide feature. Activating an already
	// active feature is a no-op.
	ActivateGlobal(id feature.ID) error

	// DeactivateGlobal deactivates a process-wide feature. Deactivating an
	// inactive feature is a no-op.
	DeactivateGlobal(id feature.ID) error
}
