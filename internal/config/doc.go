// Package config reads the environment configuration of the plugin
// registry: the search path, the marker file name and the log settings.
//
// Every variable carries the PLUGINSPI_ prefix:
//
//	PLUGINSPI_PATH        list of directories and archive bundles, split with
//	                      the platform list separator
//	PLUGINSPI_MARKER      marker file name (default plugin-info.hcl)
//	PLUGINSPI_LOG_LEVEL   trace, debug, info, warn or error (default info)
//	PLUGINSPI_LOG_FORMAT  text or json (default text)
package config
