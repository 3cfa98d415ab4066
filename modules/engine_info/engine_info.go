// Package engine_info holds the entrypoint of the engine_info recipe.
package engine_info

import (
	"strings"

	"github.com/specialistvlad/recipekit/internal/recipeapi"
	"github.com/specialistvlad/recipekit/internal/registry"
	"github.com/specialistvlad/recipekit/modules/environ"
	"github.com/specialistvlad/recipekit/modules/platform"
	"github.com/specialistvlad/recipekit/modules/print"
)

// Module implements the registry.Module interface for this package.
type Module struct{}

// RunEngineInfo prints the host platform and, when showEnv is set, the
// visible environment. It returns what it reported.
func RunEngineInfo(api *recipeapi.Base, showEnv bool) (map[string]string, error) {
	plat, err := recipeapi.DepAs[platform.Platform](api, "platform")
	if err != nil {
		return nil, err
	}
	env, err := recipeapi.DepAs[environ.Environ](api, "environ")
	if err != nil {
		return nil, err
	}
	out, err := recipeapi.DepAs[print.Printer](api, "print")
	if err != nil {
		return nil, err
	}

	header, err := api.ReadResource("header.txt")
	if err != nil {
		return nil, err
	}
	out.Line("%s", strings.TrimSpace(string(header)))

	report := map[string]string{
		"os":         plat.OS(),
		"arch":       plat.Arch(),
		"exe_suffix": plat.ExeSuffix(),
	}
	out.Values(report)

	if showEnv {
		vars := env.All()
		out.Values(vars)
		for k, v := range vars {
			report["env."+k] = v
		}
	}
	return report, nil
}

// Register registers the entrypoint with the engine.
func (m *Module) Register(r *registry.Registry) {
	r.RegisterEntrypoint("RunEngineInfo", &registry.Entrypoint{Fn: RunEngineInfo, Params: []string{"api", "show_env"}})
}
