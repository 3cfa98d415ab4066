// Package print writes lines to the run's output.
package print

import (
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/specialistvlad/recipekit/internal/recipeapi"
	"github.com/specialistvlad/recipekit/internal/registry"
)

// Module implements the registry.Module interface for this package.
type Module struct{}

// Printer is what dependents see of both surfaces.
type Printer interface {
	Line(format string, args ...any)
	Values(values map[string]string)
}

// API is the production surface.
type API struct {
	*recipeapi.Base
	out    io.Writer
	indent string
}

var _ Printer = (*API)(nil)

// NewPrint writes to standard output.
func NewPrint(base *recipeapi.Base, indent string) *API {
	return &API{Base: base, out: os.Stdout, indent: indent}
}

// Line writes one formatted line.
func (a *API) Line(format string, args ...any) {
	fmt.Fprintf(a.out, "%s%s\n", a.indent, fmt.Sprintf(format, args...))
}

// Values writes one `key = "value"` line per entry, sorted by key.
func (a *API) Values(values map[string]string) {
	if values == nil {
		a.Line("(null)")
		return
	}

	// Sort keys for consistent output
	keys := make([]string, 0, len(values))
	for k := range values {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		a.Line("%s = %q", k, values[k])
	}
}

// TestAPI is the test surface. It keeps everything in memory.
type TestAPI struct {
	*API
	buf *strings.Builder
}

// NewPrintTest builds the test surface.
func NewPrintTest(base *recipeapi.Base, indent string) *TestAPI {
	buf := &strings.Builder{}
	return &TestAPI{API: &API{Base: base, out: buf, indent: indent}, buf: buf}
}

// Lines returns what was written, one entry per line.
func (t *TestAPI) Lines() []string {
	s := strings.TrimSuffix(t.buf.String(), "\n")
	if s == "" {
		return nil
	}
	return strings.Split(s, "\n")
}

// Register registers the surfaces with the engine.
func (m *Module) Register(r *registry.Registry) {
	params := []string{"base", "indent"}
	r.RegisterAPI("NewPrint", &registry.Surface{Fn: NewPrint, Params: params})
	r.RegisterTestAPI("NewPrintTest", &registry.Surface{Fn: NewPrintTest, Params: params})
}
