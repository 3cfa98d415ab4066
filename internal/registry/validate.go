package registry

import (
	"context"
	"fmt"
	"reflect"
	"sort"
	"strings"

	"github.com/specialistvlad/recipekit/internal/ctxlog"
	"github.com/specialistvlad/recipekit/internal/property"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/gocty"
)

// ValidateInvocable performs a strict parity check between a unit's property
// schema and the Go function that receives it. Every parameter must be an
// extra or be bound by exactly the schema, every property must reach a
// parameter, and declared types must match the Go parameter types.
func ValidateInvocable(ctx context.Context, owner string, inv property.Invocable, schema map[string]*property.BoundProperty, extras []string) error {
	var errs []string
	logger := ctxlog.FromContext(ctx)

	isExtra := make(map[string]bool, len(extras))
	for _, e := range extras {
		isExtra[e] = true
	}

	params := inv.ParamNames()
	consumed := make(map[string]bool)
	for _, p := range params {
		if isExtra[p] {
			continue
		}
		bp, ok := property.ForParam(schema, p)
		if !ok {
			errs = append(errs, fmt.Sprintf("'%s': parameter '%s' matches no declared property", inv.Name(), p))
			continue
		}
		consumed[bp.Name] = true

		goType, _ := property.ParamType(inv, p)
		if err := checkParamType(bp, goType); err != nil {
			errs = append(errs, fmt.Sprintf("'%s', property '%s': %v", inv.Name(), bp.Name, err))
			continue
		}
		if bp.Type.Equals(cty.DynamicPseudoType) {
			logger.Warn("Property declared with 'type = any', which disables static type checking.", "unit", owner, "property", bp.Name)
		}
	}

	names := make([]string, 0, len(schema))
	for name := range schema {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		if !consumed[name] {
			errs = append(errs, fmt.Sprintf("'%s': property '%s' (parameter '%s') is not a parameter", inv.Name(), name, schema[name].Param()))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("%s: signature does not match properties:\n- %s", owner, strings.Join(errs, "\n- "))
	}
	return nil
}

func checkParamType(bp *property.BoundProperty, goType reflect.Type) error {
	if bp.Type == cty.NilType || bp.Type.Equals(cty.DynamicPseudoType) {
		return nil
	}
	if goType.Kind() == reflect.Interface {
		return nil
	}
	implied, err := gocty.ImpliedType(reflect.New(goType).Interface())
	if err != nil {
		return fmt.Errorf("could not imply cty type from Go type %s: %w", goType, err)
	}
	if !bp.Type.Equals(implied) {
		return fmt.Errorf("type mismatch: declared '%s' but Go parameter is %s ('%s')", bp.Type.FriendlyName(), goType, implied.FriendlyName())
	}
	return nil
}
