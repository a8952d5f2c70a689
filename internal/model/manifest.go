// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev
//
// This file defines the Manifest, the resolved in-memory form of a declaration
// unit. It is created once per unit while the registry initializes and is never
// mutated afterwards; a unit that fails to resolve produces no Manifest at all.
package model

import "github.com/mwnorman/pluginspi/internal/loader"

// Manifest is a resolved declaration unit.
type Manifest struct {
	// Symbol is the symbolic name of the declaration unit itself.
	Symbol string
	// Namespace is the loaded module the unit belongs to.
	Namespace *loader.Namespace
	// Provides lists the advertised implementation types in declaration order.
	Provides []*loader.TypeDescriptor

	FSInformation *FSInfo
}

// String implements fmt.Stringer.
func (m *Manifest) String() string {
	return m.Symbol
}
