package font

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
)

// Registry answers client-side lookups against a catalog or a shard file.
// Families are keyed by familyName, compared case-insensitively.
type Registry struct {
	path string
	data map[string]Family
	keys []string
}

// NewRegistry builds a registry from families already in memory.
func NewRegistry(families []Family) *Registry {
	r := &Registry{data: make(map[string]Family, len(families))}
	for _, f := range families {
		r.put(f)
	}
	return r
}

// LoadRegistry reads a fonts.json document or a shard file. Both carry a
// top-level "fonts" array.
func LoadRegistry(path string) (*Registry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read registry %s: %w", path, err)
	}

	var doc struct {
		Fonts []Family `json:"fonts"`
	}
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse registry %s: %w", path, err)
	}

	r := NewRegistry(doc.Fonts)
	r.path = path
	return r, nil
}

// Get returns the family whose familyName equals name, ignoring case.
// displayName is never consulted.
func (r *Registry) Get(name string) (Family, bool) {
	f, ok := r.data[r.key(name)]
	return f, ok
}

// Has reports whether a family is registered.
func (r *Registry) Has(name string) bool {
	_, ok := r.Get(name)
	return ok
}

// List returns all families in the order they were registered.
func (r *Registry) List() []Family {
	fonts := make([]Family, 0, len(r.keys))
	for _, k := range r.keys {
		fonts = append(fonts, r.data[k])
	}
	return fonts
}

// Len returns the number of distinct family keys.
func (r *Registry) Len() int {
	return len(r.keys)
}

// Path returns the file the registry was loaded from, if any.
func (r *Registry) Path() string {
	return r.path
}

// put keeps the first family for a key, matching a linear first-match scan.
func (r *Registry) put(f Family) {
	k := r.key(f.FamilyName)
	if _, exists := r.data[k]; exists {
		return
	}
	r.data[k] = f
	r.keys = append(r.keys, k)
}

// key generates the lookup key for a family name
func (r *Registry) key(name string) string {
	return strings.ToLower(name)
}
