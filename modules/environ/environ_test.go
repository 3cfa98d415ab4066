package environ

import (
	"testing"

	"github.com/specialistvlad/recipekit/internal/recipeapi"
	"github.com/stretchr/testify/assert"
)

func newBase() *recipeapi.Base {
	return recipeapi.NewBase(recipeapi.Spec{Name: "environ", UniqueName: "recipe_engine/environ"})
}

func TestAllowlist(t *testing.T) {
	api := NewEnvironTest(newBase(), Properties{Allowlist: []string{"HOME"}})
	api.Set("HOME", "/home/me")
	api.Set("SECRET", "hunter2")

	v, ok := api.Get("HOME")
	assert.True(t, ok)
	assert.Equal(t, "/home/me", v)

	_, ok = api.Get("SECRET")
	assert.False(t, ok)
	assert.Equal(t, map[string]string{"HOME": "/home/me"}, api.All())
	assert.Equal(t, []string{"HOME"}, api.Keys())
}

func TestEmptyAllowlistExposesEverything(t *testing.T) {
	api := NewEnvironTest(newBase(), Properties{})
	api.Set("A", "1")
	api.Set("B", "2")
	assert.Equal(t, []string{"A", "B"}, api.Keys())
}

func TestNewEnvironReadsProcess(t *testing.T) {
	t.Setenv("RECIPEKIT_ENVIRON_TEST", "yes")
	api := NewEnviron(newBase(), Properties{Allowlist: []string{"RECIPEKIT_ENVIRON_TEST"}})

	v, ok := api.Get("RECIPEKIT_ENVIRON_TEST")
	assert.True(t, ok)
	assert.Equal(t, "yes", v)
	assert.Len(t, api.All(), 1)
}
