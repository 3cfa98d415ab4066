package app

import (
	"bytes"
	"os"
	"sync"
	"testing"
	"testing/fstest"

	"github.com/specialistvlad/recipekit/internal/pkgset"
	"github.com/specialistvlad/recipekit/internal/registry"
	"github.com/stretchr/testify/require"
)

// SafeBuffer is a thread-safe buffer for capturing log output in tests.
type SafeBuffer struct {
	b  bytes.Buffer
	mu sync.Mutex
}

func (b *SafeBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.b.Write(p)
}

func (b *SafeBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.b.String()
}

// MapPackage builds an in-memory package from path/content pairs, laid out
// with the default recipe_modules and recipes directories.
func MapPackage(name string, files map[string]string, deps ...string) *pkgset.Package {
	fsys := fstest.MapFS{}
	for p, content := range files {
		fsys[p] = &fstest.MapFile{Data: []byte(content)}
	}
	return &pkgset.Package{
		Name:      name,
		Root:      "memory",
		ModuleDir: "recipe_modules",
		RecipeDir: "recipes",
		Deps:      deps,
		FS:        fsys,
	}
}

// SetupAppTest creates a new app instance for system testing.
func SetupAppTest(t *testing.T, cfg Config, modules ...registry.Module) (*App, *SafeBuffer) {
	t.Helper()

	logBuffer := &SafeBuffer{}
	cfg.LogLevel = "debug"
	appConfig, err := NewConfig(cfg)
	require.NoError(t, err)

	testApp, err := NewApp(logBuffer, appConfig, modules...)
	require.NoError(t, err)

	t.Cleanup(func() {
		if os.Getenv("RECIPEKIT_TEST_LOGS") == "true" {
			t.Logf("--- Full Log Output for %s ---\n%s", t.Name(), logBuffer.String())
		}
	})

	return testApp, logBuffer
}
