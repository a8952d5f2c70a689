// Package helpers defines the Helper capability contract and the resource
// names its implementations are wired with.
package helpers

import "io"

// Helper is the capability contract of the helper plugins: it writes a piece
// of help to w.
type Helper interface {
	Help(w io.Writer)
}

// OutputResource names the io.Writer helpers report lifecycle messages to.
const OutputResource = "helpers.output"
