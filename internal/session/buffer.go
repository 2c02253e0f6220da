package session

import (
	"sync"

	"github.com/pagemark/docview/internal/feature"
)

// FeatureHooks holds the entry points one feature attaches to a Buffer.
type FeatureHooks struct {
	Activate   func(*Buffer) error
	Deactivate func(*Buffer) error
}

// Buffer is a minimal Session backed by in-memory content. The embedding
// viewer supplies real feature behavior through FeatureHooks; without hooks,
// activation only records state.
type Buffer struct {
	mu      sync.Mutex
	name    string
	content []byte
	mode    string
	active  map[feature.ID]bool
	hooks   map[feature.ID]FeatureHooks
}

// NewBuffer creates a Buffer holding content, opened in the given mode.
func NewBuffer(name string, content []byte, mode string) *Buffer {
	return &Buffer{
		name:    name,
		content: content,
		mode:    mode,
		active:  make(map[feature.ID]bool),
		hooks:   make(map[feature.ID]FeatureHooks),
	}
}

// SetFeatureHooks installs the entry points for one feature.
func (b *Buffer) SetFeatureHooks(id feature.ID, hooks FeatureHooks) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.hooks[id] = hooks
}

// Name returns the buffer name.
func (b *Buffer) Name() string { return b.name }

// Peek returns up to n leading content bytes.
func (b *Buffer) Peek(n int) []byte {
	b.mu.Lock()
	defer b.mu.Unlock()
	if n > len(b.content) {
		n = len(b.content)
	}
	out := make([]byte, n)
	copy(out, b.content[:n])
	return out
}

// Mode returns the current major mode name.
func (b *Buffer) Mode() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.mode
}

// SetMode converts the buffer to the named mode.
func (b *Buffer) SetMode(mode string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.mode = mode
	return nil
}

// FeatureActive reports whether the feature is active on this buffer.
func (b *Buffer) FeatureActive(id feature.ID) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.active[id]
}

// ActivateFeature runs the feature's activation hook and records the state.
func (b *Buffer) ActivateFeature(id feature.ID) error {
	b.mu.Lock()
	hooks := b.hooks[id]
	b.active[id] = true
	b.mu.Unlock()

	if hooks.Activate != nil {
		return hooks.Activate(b)
	}
	return nil
}

// DeactivateFeature runs the feature's deactivation hook and records the state.
func (b *Buffer) DeactivateFeature(id feature.ID) error {
	b.mu.Lock()
	hooks := b.hooks[id]
	b.active[id] = false
	b.mu.Unlock()

	if hooks.Deactivate != nil {
		return hooks.Deactivate(b)
	}
	return nil
}

// ActiveFeatures returns the active feature IDs in registry order.
func (b *Buffer) ActiveFeatures() []feature.ID {
	b.mu.Lock()
	defer b.mu.Unlock()
	var out []feature.ID
	for _, d := range feature.All() {
		if b.active[d.ID] {
			out = append(out, d.ID)
		}
	}
	return out
}
