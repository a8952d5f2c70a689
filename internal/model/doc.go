// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev
//
// Package model provides the in-memory representation of discovered
// declaration units.
//
// # Core Concepts
//
// The model is built around a few key structures:
//
//   - DeclarationRef: one marker file found by the scanner, either below a
//     directory root of the search path or inside an archive bundle.
//
//   - Manifest: a resolved declaration unit. It holds the namespace the unit
//     belongs to and the ordered list of types it provides.
//
//   - FSInfo: metadata that links every DeclarationRef and Manifest back to its
//     source file, so that every resolution problem can name its location.
//
// Symbolic names tie the file system to the loader: a marker at
// "helpers/basic/plugin-info.hcl" is the unit "helpers.basic.plugin-info" of
// the namespace "helpers.basic".
package model
