// Package registry provides the central "glue" for the plugin system.
//
// A Registry scans its search path once, when it is created: every entry is
// searched for marker files (Scanner), and every marker is resolved against
// the loader into a manifest (Resolver). Each FindPlugins call then matches
// the cached manifests against the requested contract (Matcher) and
// constructs and wires a fresh instance of every match (Injector).
//
// Nothing in here returns an error to the caller. A search path entry that
// cannot be read, a declaration that does not resolve and a plugin that cannot
// be constructed are logged and left out; a caller cannot tell "no plugins
// installed" from "every candidate failed" without the log.
//
// The process-wide registry is reached through Get and replaced through Set.
// Bindings registered with AddResource are plain map state: AddResource must
// not race with FindPlugins on the same Registry.
package registry
