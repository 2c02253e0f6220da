package feature

import (
	"fmt"
	"sort"
	"strings"
)

// Set is an ordered, deduplicated collection of known feature IDs. The zero
// value is an empty set.
type Set struct {
	ids  []ID
	seen map[ID]struct{}
}

// NewSet builds a Set from ids, dropping duplicates while keeping first
// occurrence order. Unknown IDs are rejected so an enabled set can never
// escape the registry.
func NewSet(ids ...ID) (Set, error) {
	var s Set
	for _, id := range ids {
		if !Known(id) {
			return Set{}, fmt.Errorf("unknown feature %q (known: %s)", id, strings.Join(knownNames(), ", "))
		}
		s.add(id)
	}
	return s, nil
}

// ParseSet builds a Set from feature names, typically user input or persisted
// configuration.
func ParseSet(names []string) (Set, error) {
	ids := make([]ID, 0, len(names))
	for _, name := range names {
		ids = append(ids, ID(strings.TrimSpace(name)))
	}
	return NewSet(ids...)
}

func (s *Set) add(id ID) {
	if s.seen == nil {
		s.seen = make(map[ID]struct{})
	}
	if _, dup := s.seen[id]; dup {
		return
	}
	s.seen[id] = struct{}{}
	s.ids = append(s.ids, id)
}

// IDs returns the members in insertion order.
func (s Set) IDs() []ID {
	out := make([]ID, len(s.ids))
	copy(out, s.ids)
	return out
}

// Contains reports membership.
func (s Set) Contains(id ID) bool {
	_, ok := s.seen[id]
	return ok
}

// Len returns the member count.
func (s Set) Len() int {
	return len(s.ids)
}

// Names returns the members as strings, for persistence and display.
func (s Set) Names() []string {
	out := make([]string, 0, len(s.ids))
	for _, id := range s.ids {
		out = append(out, string(id))
	}
	return out
}

func knownNames() []string {
	out := make([]string, 0, len(table))
	for _, d := range table {
		out = append(out, string(d.ID))
	}
	sort.Strings(out)
	return out
}
