// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

// Package property binds declared, typed inputs to the module or recipe that
// owns them, interprets provided values against their defaults and
// environment fallbacks, and calls Go functions positionally from named
// values.
package property
