package gather

import "strings"

// ValueMap is an insertion-ordered string map. Overwriting a key keeps its
// original position, so the serialized values file stays stable across runs.
type ValueMap struct {
	keys   []string
	values map[string]string
}

// NewValueMap returns an empty ValueMap.
func NewValueMap() *ValueMap {
	return &ValueMap{values: map[string]string{}}
}

// Set stores value under key, appending new keys and updating existing ones
// in place.
func (m *ValueMap) Set(key, value string) {
	if _, exists := m.values[key]; !exists {
		m.keys = append(m.keys, key)
	}
	m.values[key] = value
}

// Get returns the value stored under key.
func (m *ValueMap) Get(key string) (string, bool) {
	value, ok := m.values[key]
	return value, ok
}

// Len returns the number of entries.
func (m *ValueMap) Len() int {
	return len(m.keys)
}

// Keys returns the keys in insertion order.
func (m *ValueMap) Keys() []string {
	return append([]string(nil), m.keys...)
}

// Each invokes fn for every entry in insertion order. Returning false stops
// the iteration.
func (m *ValueMap) Each(fn func(key, value string) bool) {
	for _, key := range m.keys {
		if !fn(key, m.values[key]) {
			return
		}
	}
}

// Find resolves name to an entry, trying an exact key match first and
// falling back to a unique-prefix match for names the checker truncated.
// An ambiguous prefix resolves to nothing.
func (m *ValueMap) Find(name string) (key, value string, ok bool) {
	if value, ok := m.values[name]; ok {
		return name, value, true
	}

	match := ""
	for _, key := range m.keys {
		if strings.HasPrefix(key, name) {
			if match != "" {
				return "", "", false
			}
			match = key
		}
	}
	if match == "" {
		return "", "", false
	}
	return match, m.values[match], true
}
