package mapping

import "sort"

// GeneratedUtility is an opaque target-language source fragment keyed by
// ID for deduplication: enum bodies, union wrappers, tuple codecs,
// regex/uuid helpers. Utilities live for one generation run and are
// discarded after files are emitted.
type GeneratedUtility struct {
	ID      string
	Code    string
	Imports []string
	// IncludeOnce makes the first Add win; otherwise the last Add wins.
	IncludeOnce bool
	// Priority orders emission: higher first. Ordering is a hard
	// requirement for reproducible diffs between runs.
	Priority int
}

// UtilityCollector deduplicates and orders generated helper code.
type UtilityCollector struct {
	entries map[string]GeneratedUtility
}

func NewUtilityCollector() *UtilityCollector {
	return &UtilityCollector{entries: make(map[string]GeneratedUtility)}
}

// Add registers a utility. If the ID already exists and the existing
// entry was added with IncludeOnce, the new one is ignored; otherwise the
// new entry replaces the old.
func (c *UtilityCollector) Add(u GeneratedUtility) {
	if existing, ok := c.entries[u.ID]; ok && existing.IncludeOnce {
		return
	}
	c.entries[u.ID] = u
}

// GetAll returns utilities sorted by priority descending, ties broken by
// ID ascending.
func (c *UtilityCollector) GetAll() []GeneratedUtility {
	out := make([]GeneratedUtility, 0, len(c.entries))
	for _, u := range c.entries {
		out = append(out, u)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Priority != out[j].Priority {
			return out[i].Priority > out[j].Priority
		}
		return out[i].ID < out[j].ID
	})
	return out
}

// Imports returns the deduplicated, sorted union of all utilities'
// import lists.
func (c *UtilityCollector) Imports() []string {
	seen := make(map[string]bool)
	var out []string
	for _, u := range c.entries {
		for _, imp := range u.Imports {
			if !seen[imp] {
				seen[imp] = true
				out = append(out, imp)
			}
		}
	}
	sort.Strings(out)
	return out
}

// Reset discards every collected utility. There is no removal primitive
// beyond this.
func (c *UtilityCollector) Reset() {
	c.entries = make(map[string]GeneratedUtility)
}
