// Package hcl provides the HCL formats of the plugin system: the declaration
// (marker) file that announces which types a namespace provides, and the
// value expressions used to bind resources from the command line.
package hcl
