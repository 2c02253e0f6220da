// Package feature defines the fixed set of viewer features ("modes") and the
// idempotent controller that attaches or detaches them on a session.
package feature

// ID names a feature. The set of valid IDs is fixed at compile time.
type ID string

// Known feature IDs, in registry order.
const (
	History     ID = "history"
	Search      ID = "search"
	Links       ID = "links"
	Outline     ID = "outline"
	Annotations ID = "annotations"
	Misc        ID = "misc"
	Sync        ID = "sync"
	Prefetch    ID = "prefetch"
	AutoSlice   ID = "autoslice"
	Occur       ID = "occur"
)

// Descriptor carries the static metadata for one feature.
type Descriptor struct {
	ID  ID
	Doc string

	// Global features apply once per process rather than per session.
	Global bool
}

// table is the authoritative registry. Order here is the enumeration order
// everywhere (doctor output, activation batches).
var table = []Descriptor{
	{ID: History, Doc: "Track page visits and allow jumping back and forward"},
	{ID: Search, Doc: "Incremental search within the rendered document"},
	{ID: Links, Doc: "Follow internal and external links"},
	{ID: Outline, Doc: "Navigate the document outline"},
	{ID: Annotations, Doc: "List, show, and edit annotations"},
	{ID: Misc, Doc: "Size indication and context menu"},
	{ID: Sync, Doc: "Jump between source and rendered output"},
	{ID: Prefetch, Doc: "Prefetch and cache pages near the current one"},
	{ID: AutoSlice, Doc: "Automatically slice page margins"},
	{ID: Occur, Doc: "Search across all open documents", Global: true},
}

var byID = func() map[ID]Descriptor {
	m := make(map[ID]Descriptor, len(table))
	for _, d := range table {
		m[d.ID] = d
	}
	return m
}()

// All returns every known feature descriptor in registry order.
func All() []Descriptor {
	out := make([]Descriptor, len(table))
	copy(out, table)
	return out
}

// Lookup returns the descriptor for id.
func Lookup(id ID) (Descriptor, bool) {
	d, ok := byID[id]
	return d, ok
}

// Known reports whether id names a registered feature.
func Known(id ID) bool {
	_, ok := byID[id]
	return ok
}

// DefaultEnabled returns the feature set enabled by a stock installation:
// every registered feature, in registry order.
func DefaultEnabled() []ID {
	out := make([]ID, 0, len(table))
	for _, d := range table {
		out = append(out, d.ID)
	}
	return out
}

// Locals filters ids down to per-session features, preserving order.
func Locals(ids []ID) []ID {
	var out []ID
	for _, id := range ids {
		if d, ok := byID[id]; ok && !d.Global {
			out = append(out, id)
		}
	}
	return out
}

// Globals filters ids down to process-wide features, preserving order.
func Globals(ids []ID) []ID {
	var out []ID
	for _, id := range ids {
		if d, ok := byID[id]; ok && d.Global {
			out = append(out, id)
		}
	}
	return out
}
