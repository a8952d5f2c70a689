package fsutil

import (
	"fmt"
	"path"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// Filter reports whether a file, given by name or slash separated path, is
// wanted by a scan.
type Filter func(name string) bool

// GlobFilter returns a Filter matching the base name of a file against a
// doublestar pattern such as "plugin-info.hcl" or "*-info.{hcl,json}".
func GlobFilter(pattern string) (Filter, error) {
	if pattern == "" {
		return nil, fmt.Errorf("name pattern must not be empty")
	}
	if !doublestar.ValidatePattern(pattern) {
		return nil, fmt.Errorf("invalid name pattern %q", pattern)
	}
	return func(name string) bool {
		ok, err := doublestar.Match(pattern, baseName(name))
		return err == nil && ok
	}, nil
}

// SuffixFilter returns a Filter accepting names that end in suffix.
func SuffixFilter(suffix string) Filter {
	return func(name string) bool {
		return strings.HasSuffix(baseName(name), suffix)
	}
}

// baseName handles both separators so archive entries written on Windows
// are matched like any other.
func baseName(name string) string {
	return path.Base(strings.ReplaceAll(name, `\`, "/"))
}
