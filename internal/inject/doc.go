// Package inject constructs plugin instances and wires them.
//
// A matched type descriptor goes through the stages
//
//	Matched -> Constructed -> Injected -> Hooked -> Returned
//
// Only a construction failure discards the candidate. Injection, Configure
// and hook failures are logged and the instance is still returned, possibly
// incompletely wired.
//
// Fields are injected by name through the "resource" struct tag:
//
//	type Helper2 struct {
//		someValue int `resource:"some random unique resource name"`
//	}
//
// The field's own type is the marker type: a binding is applied only when its
// registered type is assignable to it. Unexported fields are reachable.
// Embedded structs are not descended into.
package inject
