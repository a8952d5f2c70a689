// Package loader is the module-loading facility of the plugin system.
//
// Go has no runtime class loading, so every compiled plugin package registers
// its namespace and the concrete types it contains with a Loader, usually
// through a Module listed by the application at startup. Declaration files
// found on the search path are then resolved against this table by symbolic
// name, the same way a class loader resolves a qualified class name.
//
// A TypeDescriptor carries what the runtime cannot discover on its own: the
// capability contracts the type declares, how to construct it, and which of
// its methods are post-construction hooks.
package loader
