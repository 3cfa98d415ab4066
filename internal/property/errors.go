// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

package property

import (
	"errors"
	"fmt"
)

// ErrIllegalName is returned by Bind for property keys that may not be used.
var ErrIllegalName = errors.New("illegal property name")

// UndefinedPropertyError reports a property with no value, no environment
// fallback and no default.
type UndefinedPropertyError struct {
	Name  string
	Owner string
}

func (e *UndefinedPropertyError) Error() string {
	if e.Owner == "" {
		return fmt.Sprintf("property '%s' is undefined", e.Name)
	}
	return fmt.Sprintf("property '%s' of '%s' is undefined", e.Name, e.Owner)
}
