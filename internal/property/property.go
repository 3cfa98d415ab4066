// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

package property

import (
	"fmt"
	"go/token"
	"regexp"
	"strings"

	"github.com/zclconf/go-cty/cty"
)

// Kind identifies the sort of unit that owns a property.
type Kind string

const (
	KindModule Kind = "module"
	KindRecipe Kind = "recipe"
)

// ModuleScopedParam is the parameter a "$pkg/module" property binds to when
// no explicit parameter name is declared.
const ModuleScopedParam = "properties"

// reservedNames are keys the engine injects itself.
var reservedNames = map[string]struct{}{
	"api":  {},
	"self": {},
}

var identifierRe = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// Property is a declared input.
type Property struct {
	// Default is used when no value is provided. It is ignored unless
	// HasDefault is set; a property without a default is required.
	Default    any
	HasDefault bool
	// FromEnviron names an environment variable consulted before the default.
	FromEnviron string
	// Type constrains accepted values. cty.NilType leaves the value unchecked.
	Type cty.Type
	// ParamName renames the Go parameter the property is passed as.
	ParamName string
	Help      string
}

// Required reports whether the property has no default.
func (p Property) Required() bool { return !p.HasDefault }

// BoundProperty is a Property attached to its owner under its external key.
type BoundProperty struct {
	Property
	Name      string
	OwnerKind Kind
	OwnerName string
	param     string
}

// Param returns the Go parameter name the property is passed as.
func (b *BoundProperty) Param() string { return b.param }

// Bind validates name for use as a property key of the given owner and binds
// the declaration to it.
//
// A key starting with "$" is module scoped: only a module may declare it, and
// it must read exactly "$" followed by the module's qualified name.
func Bind(decl Property, name string, ownerKind Kind, ownerName string) (*BoundProperty, error) {
	param := decl.ParamName

	if strings.HasPrefix(name, "$") {
		if ownerKind != KindModule {
			return nil, fmt.Errorf("%w: '%s': only modules may declare module scoped properties", ErrIllegalName, name)
		}
		if name != "$"+ownerName {
			return nil, fmt.Errorf("%w: '%s': module scoped property of '%s' must be named '$%s'", ErrIllegalName, name, ownerName, ownerName)
		}
		if param == "" {
			param = ModuleScopedParam
		}
	} else {
		if err := checkName(name); err != nil {
			return nil, err
		}
		if param == "" {
			param = name
		}
	}

	if param != name {
		if err := checkName(param); err != nil {
			return nil, fmt.Errorf("parameter name of '%s': %w", name, err)
		}
	}

	return &BoundProperty{
		Property:  decl,
		Name:      name,
		OwnerKind: ownerKind,
		OwnerName: ownerName,
		param:     param,
	}, nil
}

func checkName(name string) error {
	switch {
	case strings.HasPrefix(name, "_"):
		return fmt.Errorf("%w: '%s': names starting with '_' are reserved", ErrIllegalName, name)
	case !identifierRe.MatchString(name):
		return fmt.Errorf("%w: '%s': must be an identifier", ErrIllegalName, name)
	case token.IsKeyword(name):
		return fmt.Errorf("%w: '%s': is a keyword", ErrIllegalName, name)
	}
	if _, ok := reservedNames[name]; ok {
		return fmt.Errorf("%w: '%s': is reserved", ErrIllegalName, name)
	}
	return nil
}
