package gather

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValueMapInsertionOrder(t *testing.T) {
	m := NewValueMap()
	m.Set("a", "1")
	m.Set("b", "2")
	m.Set("c", "3")
	m.Set("b", "22")

	assert.Equal(t, []string{"a", "b", "c"}, m.Keys())
	assert.Equal(t, 3, m.Len())

	value, ok := m.Get("b")
	assert.True(t, ok)
	assert.Equal(t, "22", value)

	_, ok = m.Get("missing")
	assert.False(t, ok)
}

func TestValueMapEach(t *testing.T) {
	m := NewValueMap()
	m.Set("a", "1")
	m.Set("b", "2")
	m.Set("c", "3")

	var visited []string
	m.Each(func(key, value string) bool {
		visited = append(visited, key+"="+value)
		return key != "b"
	})

	assert.Equal(t, []string{"a=1", "b=2"}, visited)
}

func TestValueMapFind(t *testing.T) {
	m := NewValueMap()
	m.Set("ENVIRONMENT_VAR__swordfish", "swordfish")
	m.Set("NPMRC_HOME__abc123", "abc123")
	m.Set("NPMRC_HOME__abc999", "abc999")

	tests := []struct {
		name      string
		lookup    string
		wantKey   string
		wantValue string
		wantOK    bool
	}{
		{"exact match", "ENVIRONMENT_VAR__swordfish", "ENVIRONMENT_VAR__swordfish", "swordfish", true},
		{"unique prefix", "ENVIRONMENT_VAR__sword", "ENVIRONMENT_VAR__swordfish", "swordfish", true},
		{"ambiguous prefix", "NPMRC_HOME__abc", "", "", false},
		{"no match", "GITHUB_TOKEN__gho_x", "", "", false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			key, value, ok := m.Find(tc.lookup)
			assert.Equal(t, tc.wantOK, ok)
			assert.Equal(t, tc.wantKey, key)
			assert.Equal(t, tc.wantValue, value)
		})
	}
}
