package session

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pagemark/docview/internal/feature"
)

func TestRegistryAddRemoveSessions(t *testing.T) {
	r := NewRegistry()
	a := NewBuffer("a", nil, "plain")
	b := NewBuffer("b", nil, "plain")

	r.Add(a)
	r.Add(b)
	require.Len(t, r.Sessions(), 2)

	r.Remove(a)
	sessions := r.Sessions()
	require.Len(t, sessions, 1)
	assert.Equal(t, "b", sessions[0].Name())

	// Removing an unknown session is a no-op.
	r.Remove(a)
	assert.Len(t, r.Sessions(), 1)
}

func TestOnSessionCreatedFiresForFutureSessions(t *testing.T) {
	r := NewRegistry()
	r.Add(NewBuffer("before", nil, "plain"))

	var seen []string
	cancel := r.OnSessionCreated(func(s Session) { seen = append(seen, s.Name()) })
	defer cancel()

	r.Add(NewBuffer("after", nil, "plain"))
	assert.Equal(t, []string{"after"}, seen, "subscriber must not see pre-existing sessions")
}

func TestOnSessionCreatedCancelIsIdempotent(t *testing.T) {
	r := NewRegistry()
	calls := 0
	cancel := r.OnSessionCreated(func(Session) { calls++ })
	require.Equal(t, 1, r.SubscriberCount())

	cancel()
	cancel()
	assert.Equal(t, 0, r.SubscriberCount())

	r.Add(NewBuffer("x", nil, "plain"))
	assert.Equal(t, 0, calls)
}

func TestAssociateIsMembershipChecked(t *testing.T) {
	r := NewRegistry()
	a := TypeAssociation{Magic: []byte("%PDF"), Mode: "docview"}

	r.Associate(a)
	r.Associate(a)
	r.Associate(TypeAssociation{Magic: []byte("%PDF"), Mode: "docview"})
	require.Len(t, r.Associations(), 1)

	r.Associate(TypeAssociation{Magic: []byte("%PS"), Mode: "docview"})
	require.Len(t, r.Associations(), 2)

	r.Dissociate([]byte("%PDF"))
	assocs := r.Associations()
	require.Len(t, assocs, 1)
	assert.Equal(t, []byte("%PS"), assocs[0].Magic)
}

func TestGlobalActivationIsIdempotent(t *testing.T) {
	r := NewRegistry()
	activations := 0
	r.RegisterGlobal(feature.Occur, GlobalHooks{
		Activate:   func() error { activations++; return nil },
		Deactivate: func() error { activations--; return nil },
	})

	require.NoError(t, r.ActivateGlobal(feature.Occur))
	require.NoError(t, r.ActivateGlobal(feature.Occur))
	assert.Equal(t, 1, activations)
	assert.True(t, r.GlobalActive(feature.Occur))

	require.NoError(t, r.DeactivateGlobal(feature.Occur))
	require.NoError(t, r.DeactivateGlobal(feature.Occur))
	assert.Equal(t, 0, activations)
	assert.False(t, r.GlobalActive(feature.Occur))
}

func TestBufferPeekAndMode(t *testing.T) {
	b := NewBuffer("doc", []byte("%PDF-1.7 rest"), "plain")
	assert.Equal(t, []byte("%PDF"), b.Peek(4))
	assert.Equal(t, []byte("%PDF-1.7 rest"), b.Peek(1024))

	require.NoError(t, b.SetMode("docview"))
	assert.Equal(t, "docview", b.Mode())
}

func TestBufferFeatureHooks(t *testing.T) {
	b := NewBuffer("doc", nil, "docview")
	var log []string
	b.SetFeatureHooks(feature.History, FeatureHooks{
		Activate:   func(*Buffer) error { log = append(log, "on"); return nil },
		Deactivate: func(*Buffer) error { log = append(log, "off"); return nil },
	})

	require.NoError(t, b.ActivateFeature(feature.History))
	assert.True(t, b.FeatureActive(feature.History))
	require.NoError(t, b.DeactivateFeature(feature.History))
	assert.False(t, b.FeatureActive(feature.History))
	assert.Equal(t, []string{"on", "off"}, log)

	// Hookless features still track state.
	require.NoError(t, b.ActivateFeature(feature.Search))
	assert.Equal(t, []feature.ID{feature.Search}, b.ActiveFeatures())
}
