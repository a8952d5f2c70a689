// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev
//
// This file converts file locations into symbolic names.
//
// A marker at "helpers/basic/plugin-info.hcl" below a search root has the
// symbolic name "helpers.basic.plugin-info"; its namespace is everything before
// the last segment, "helpers.basic".
package model

import (
	"fmt"
	"path"
	"strings"
)

// NamespaceSeparator joins the segments of a symbolic name.
const NamespaceSeparator = "."

// ToSymbol converts a relative path using either separator into a symbolic
// name, dropping the file suffix.
func ToSymbol(rel string) string {
	rel = strings.ReplaceAll(rel, `\`, "/")
	rel = strings.Trim(rel, "/")
	rel = strings.TrimSuffix(rel, path.Ext(rel))
	return strings.ReplaceAll(rel, "/", NamespaceSeparator)
}

// NamespaceOf returns the namespace part of a declaration unit's symbol.
func NamespaceOf(symbol string) (string, error) {
	idx := strings.LastIndex(symbol, NamespaceSeparator)
	if idx <= 0 {
		return "", fmt.Errorf("declaration %q is not inside a namespace", symbol)
	}
	return symbol[:idx], nil
}
