package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/specialistvlad/recipekit/internal/app"
	"github.com/specialistvlad/recipekit/internal/registry"
	"github.com/specialistvlad/recipekit/internal/unit"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

// ExitError is a custom error type that includes a specific exit code.
type ExitError struct {
	Code    int
	Message string
}

// Error implements the error interface for ExitError.
func (e *ExitError) Error() string {
	return e.Message
}

type globalFlags struct {
	packagesFile string
	logLevel     string
	logFormat    string
}

// NewRootCommand builds the `recipes` command tree. Results go to outW and
// logs to errW. Extra Go modules are registered next to the core ones.
func NewRootCommand(outW, errW io.Writer, modules ...registry.Module) *cobra.Command {
	flags := &globalFlags{}
	var cfg *app.Config

	root := &cobra.Command{
		Use:           "recipes",
		Short:         "Load, inspect and run recipes",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			c, err := app.NewConfig(app.Config{
				PackagesFile: flags.packagesFile,
				LogLevel:     strings.ToLower(flags.logLevel),
				LogFormat:    strings.ToLower(flags.logFormat),
			})
			if err != nil {
				return &ExitError{Code: 2, Message: err.Error()}
			}
			cfg = c
			return nil
		},
	}
	root.SetOut(outW)
	root.SetErr(errW)
	root.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return &ExitError{Code: 2, Message: err.Error()}
	})

	pf := root.PersistentFlags()
	pf.StringVar(&flags.packagesFile, "packages", "", "Path to a TOML package set file.")
	pf.StringVar(&flags.logLevel, "log-level", "info", "Set the logging level. Options: 'debug', 'info', 'warn', 'error'.")
	pf.StringVar(&flags.logFormat, "log-format", "text", "Log output format. Options: 'text' or 'json'.")

	newApp := func() (*app.App, error) {
		return app.NewApp(errW, cfg, modules...)
	}

	root.AddCommand(
		newListCommand(newApp),
		newDepsCommand(newApp),
		newRunCommand(newApp),
	)
	return root
}

func newListCommand(newApp func() (*app.App, error)) *cobra.Command {
	var showRegistry bool
	cmd := &cobra.Command{
		Use:   "list [package]",
		Short: "List the recipes of one package or of all of them",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			if showRegistry {
				return writeYAML(cmd.OutOrStdout(), a.Registry().IDs())
			}
			pkg := ""
			if len(args) == 1 {
				pkg = args[0]
			}
			all, err := a.Recipes(cmd.Context(), pkg)
			if err != nil {
				return err
			}
			pkgs := make([]string, 0, len(all))
			for p := range all {
				pkgs = append(pkgs, p)
			}
			sort.Strings(pkgs)
			for _, p := range pkgs {
				for _, r := range all[p] {
					fmt.Fprintln(cmd.OutOrStdout(), p+unit.RecipeSeparator+r)
				}
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&showRegistry, "registry", false, "List the registered Go surfaces, config contexts and entrypoints instead.")
	return cmd
}

func newDepsCommand(newApp func() (*app.App, error)) *cobra.Command {
	var edges bool
	cmd := &cobra.Command{
		Use:   "deps <package>::<recipe>",
		Short: "Print the units a recipe loads, dependencies first",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			pkg, recipe, err := parseTarget(args[0])
			if err != nil {
				return err
			}
			a, err := newApp()
			if err != nil {
				return err
			}
			if edges {
				units, err := a.Edges(cmd.Context(), pkg, recipe)
				if err != nil {
					return err
				}
				return writeYAML(cmd.OutOrStdout(), units)
			}
			plan, err := a.Plan(cmd.Context(), pkg, recipe)
			if err != nil {
				return err
			}
			for _, name := range plan {
				fmt.Fprintln(cmd.OutOrStdout(), name)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&edges, "edges", false, "Also print each unit's direct dependencies and dependents.")
	return cmd
}

func newRunCommand(newApp func() (*app.App, error)) *cobra.Command {
	var (
		assignments    []string
		propertiesFile string
	)
	cmd := &cobra.Command{
		Use:   "run <package>::<recipe>",
		Short: "Run a recipe",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			pkg, recipe, err := parseTarget(args[0])
			if err != nil {
				return err
			}

			props := map[string]any{}
			if propertiesFile != "" {
				if props, err = app.LoadProperties(propertiesFile); err != nil {
					return &ExitError{Code: 2, Message: err.Error()}
				}
			}
			for _, kv := range assignments {
				key, v, err := app.ParseProperty(kv)
				if err != nil {
					return &ExitError{Code: 2, Message: err.Error()}
				}
				props[key] = v
			}

			a, err := newApp()
			if err != nil {
				return err
			}
			result, err := a.RunRecipe(cmd.Context(), pkg, recipe, props, app.Environ())
			if err != nil {
				return err
			}
			if result == nil {
				return nil
			}
			return writeYAML(cmd.OutOrStdout(), result)
		},
	}
	cmd.Flags().StringArrayVarP(&assignments, "property", "p", nil, "Set a property, as key=value. May be repeated.")
	cmd.Flags().StringVar(&propertiesFile, "properties-file", "", "YAML or JSON file of property values.")
	return cmd
}

func writeYAML(w io.Writer, v any) error {
	out, err := yaml.Marshal(v)
	if err != nil {
		return fmt.Errorf("rendering result: %w", err)
	}
	_, err = w.Write(out)
	return err
}

func parseTarget(s string) (string, string, error) {
	pkg, recipe, err := unit.ParseRecipeName(s)
	if err != nil {
		return "", "", &ExitError{Code: 2, Message: err.Error()}
	}
	return pkg, recipe, nil
}

// Execute runs the command tree with args and maps failures onto exit codes:
// usage problems are 2, everything else 1.
func Execute(args []string, outW, errW io.Writer, modules ...registry.Module) error {
	root := NewRootCommand(outW, errW, modules...)
	root.SetArgs(args)
	err := root.ExecuteContext(context.Background())
	if err == nil {
		return nil
	}
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr
	}
	return &ExitError{Code: 1, Message: err.Error()}
}
