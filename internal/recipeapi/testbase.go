package recipeapi

import "sort"

// TestBase is the test double built for modules without a test surface. It
// records canned data that simulated runs can read back.
type TestBase struct {
	*Base
	mocks map[string]any
}

// NewTestBase wraps base.
func NewTestBase(base *Base) *TestBase {
	return &TestBase{Base: base, mocks: make(map[string]any)}
}

// SetMock stores canned data under key.
func (t *TestBase) SetMock(key string, v any) { t.mocks[key] = v }

// Mock returns the canned data stored under key.
func (t *TestBase) Mock(key string) (any, bool) {
	v, ok := t.mocks[key]
	return v, ok
}

// MockKeys returns the stored keys, sorted.
func (t *TestBase) MockKeys() []string {
	keys := make([]string, 0, len(t.mocks))
	for k := range t.mocks {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
