package feature

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistryOrderIsDeterministic(t *testing.T) {
	first := All()
	second := All()
	require.Equal(t, first, second)
	require.NotEmpty(t, first)

	for _, d := range first {
		got, ok := Lookup(d.ID)
		require.True(t, ok)
		assert.Equal(t, d, got)
	}
}

func TestDefaultEnabledCoversRegistry(t *testing.T) {
	ids := DefaultEnabled()
	require.Len(t, ids, len(All()))
	for _, id := range ids {
		assert.True(t, Known(id))
	}
}

func TestGlobalsAndLocalsPartition(t *testing.T) {
	ids := DefaultEnabled()
	globals := Globals(ids)
	locals := Locals(ids)
	assert.Len(t, ids, len(globals)+len(locals))
	assert.Contains(t, globals, Occur)
	assert.NotContains(t, locals, Occur)
}

func TestNewSetDeduplicates(t *testing.T) {
	s, err := NewSet(History, Search, History, Search, Outline)
	require.NoError(t, err)
	assert.Equal(t, []ID{History, Search, Outline}, s.IDs())
	assert.True(t, s.Contains(Search))
	assert.False(t, s.Contains(Occur))
}

func TestNewSetRejectsUnknown(t *testing.T) {
	_, err := NewSet(History, ID("telepathy"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "telepathy")
}

func TestParseSetTrimsNames(t *testing.T) {
	s, err := ParseSet([]string{" history", "search "})
	require.NoError(t, err)
	assert.Equal(t, []ID{History, Search}, s.IDs())
}

// fakeSession counts entry-point invocations; it deliberately does not guard
// against double activation, since that is the controller's job.
type fakeSession struct {
	active      map[ID]bool
	activations map[ID]int
	failing     map[ID]bool
}

func newFakeSession() *fakeSession {
	return &fakeSession{
		active:      make(map[ID]bool),
		activations: make(map[ID]int),
		failing:     make(map[ID]bool),
	}
}

func (s *fakeSession) FeatureActive(id ID) bool { return s.active[id] }

func (s *fakeSession) ActivateFeature(id ID) error {
	s.activations[id]++
	if s.failing[id] {
		return errors.New("activation failed: " + string(id))
	}
	s.active[id] = true
	return nil
}

func (s *fakeSession) DeactivateFeature(id ID) error {
	s.activations[id]--
	s.active[id] = false
	return nil
}

func TestApplyIsIdempotent(t *testing.T) {
	s := newFakeSession()
	ctrl := &Controller{}
	ids := []ID{History, Search, Links}

	require.NoError(t, ctrl.Apply(s, ids, true))
	require.NoError(t, ctrl.Apply(s, ids, true))

	for _, id := range ids {
		assert.Equal(t, 1, s.activations[id], "feature %s activated more than once", id)
		assert.True(t, s.FeatureActive(id))
	}
}

func TestApplyDisables(t *testing.T) {
	s := newFakeSession()
	ctrl := &Controller{}
	ids := []ID{History, Search}

	require.NoError(t, ctrl.Apply(s, ids, true))
	require.NoError(t, ctrl.Apply(s, ids, false))
	require.NoError(t, ctrl.Apply(s, ids, false))

	for _, id := range ids {
		assert.Equal(t, 0, s.activations[id])
		assert.False(t, s.FeatureActive(id))
	}
}

func TestApplyNotifiesOncePerEnablingBatch(t *testing.T) {
	s := newFakeSession()
	var notified int
	ctrl := &Controller{OnEnabled: func(Session, []ID) { notified++ }}

	require.NoError(t, ctrl.Apply(s, []ID{History, Search, Links}, true))
	assert.Equal(t, 1, notified)

	require.NoError(t, ctrl.Apply(s, []ID{History}, false))
	assert.Equal(t, 1, notified, "disabling batch must not notify")
}

func TestApplyCollectsErrorsAndContinues(t *testing.T) {
	s := newFakeSession()
	s.failing[Search] = true
	ctrl := &Controller{}

	err := ctrl.Apply(s, []ID{History, Search, Links}, true)
	require.Error(t, err)
	assert.True(t, s.FeatureActive(History))
	assert.True(t, s.FeatureActive(Links), "later features still processed after a failure")
}
