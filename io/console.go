package io

import (
	"fmt"
	"io"
)

// Output ports understood by the console.
const (
	PORT_INTEGER   = 1 // Decimal integer.
	PORT_CHARACTER = 2 // Single byte, the low 8 bits of the value.
)

// Console is the output device for the Put instruction. It wraps an
// io.Writer; ports other than PORT_INTEGER and PORT_CHARACTER are ignored.
type Console struct {
	Output io.Writer

	Written int // Bytes written since creation.
}

// Put writes value to the console as selected by port.
func (con *Console) Put(port int32, value int32) (err error) {
	if con.Output == nil {
		return
	}

	var n int
	switch port {
	case PORT_INTEGER:
		n, err = fmt.Fprintf(con.Output, "%d", value)
	case PORT_CHARACTER:
		n, err = con.Output.Write([]byte{byte(value)})
	}
	con.Written += n

	return
}
