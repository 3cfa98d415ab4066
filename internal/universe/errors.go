package universe

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrNoSuchModule is wrapped by a *LoaderError when a module's manifest
	// does not exist.
	ErrNoSuchModule = errors.New("no such module")
	// ErrNoSuchRecipe is wrapped by a *LoaderError when a recipe's manifest
	// does not exist.
	ErrNoSuchRecipe = errors.New("no such recipe")
)

// LoaderError reports a unit that could not be located or declared. While
// unwinding, every unit on the way appends its own frame.
type LoaderError struct {
	Unit string
	Path string
	Err  error
}

func (e *LoaderError) Error() string {
	return fmt.Sprintf("loading %s: %v", e.Unit, e.Err)
}

func (e *LoaderError) Unwrap() error { return e.Err }

// CyclicDependencyError reports a unit that transitively depends on itself.
// Path starts and ends with the same unit.
type CyclicDependencyError struct {
	Path []string
}

func (e *CyclicDependencyError) Error() string {
	return "cyclic dependency: " + strings.Join(e.Path, " -> ")
}
