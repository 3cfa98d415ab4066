package pkgset

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"

	"github.com/BurntSushi/toml"
	"github.com/go-playground/validator/v10"
)

// fileConfig is the on-disk shape of a package set file:
//
//	[[package]]
//	name       = "build"
//	root       = "../build"
//	module_dir = "recipe_modules"
//	recipe_dir = "recipes"
//	deps       = ["recipe_engine"]
type fileConfig struct {
	Packages []filePackage `toml:"package" validate:"dive"`
}

type filePackage struct {
	Name      string   `toml:"name" validate:"required,pkgname"`
	Root      string   `toml:"root" validate:"required"`
	ModuleDir string   `toml:"module_dir"`
	RecipeDir string   `toml:"recipe_dir"`
	Deps      []string `toml:"deps" validate:"dive,pkgname"`
}

const (
	defaultModuleDir = "recipe_modules"
	defaultRecipeDir = "recipes"
)

var (
	validate      *validator.Validate
	packageNameRe = regexp.MustCompile(`^[a-z0-9_][a-z0-9_.-]*$`)
)

func init() {
	validate = validator.New()
	err := validate.RegisterValidation("pkgname", func(fl validator.FieldLevel) bool {
		return packageNameRe.MatchString(fl.Field().String())
	})
	if err != nil {
		panic(fmt.Sprintf("pkgset: registering pkgname validation: %v", err))
	}
}

// LoadFile reads a TOML package set file and builds a Set from its packages
// plus builtins. Relative roots are resolved against the file's directory.
func LoadFile(path string, builtins ...*Package) (*Set, error) {
	var raw fileConfig
	meta, err := toml.DecodeFile(path, &raw)
	if err != nil {
		return nil, fmt.Errorf("load package set: %w", err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return nil, fmt.Errorf("load package set %s: unknown key '%s'", path, undecoded[0])
	}
	if err := validate.Struct(&raw); err != nil {
		return nil, fmt.Errorf("invalid package set %s: %w", path, err)
	}

	base := filepath.Dir(path)
	pkgs := append([]*Package(nil), builtins...)
	for _, fp := range raw.Packages {
		root := fp.Root
		if !filepath.IsAbs(root) {
			root = filepath.Join(base, root)
		}
		p := &Package{
			Name:      fp.Name,
			Root:      root,
			ModuleDir: fp.ModuleDir,
			RecipeDir: fp.RecipeDir,
			Deps:      fp.Deps,
			FS:        os.DirFS(root),
		}
		if p.ModuleDir == "" {
			p.ModuleDir = defaultModuleDir
		}
		if p.RecipeDir == "" {
			p.RecipeDir = defaultRecipeDir
		}
		pkgs = append(pkgs, p)
	}
	return New(pkgs...)
}
