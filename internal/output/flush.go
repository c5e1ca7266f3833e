package output

import "io"

// flushOutput drains w when it buffers. Both the bufio style Flush() error and
// the plain Flush() are honored; anything else is written through already.
func flushOutput(w io.Writer) error {
	switch f := w.(type) {
	case interface{ Flush() error }:
		return f.Flush()
	case interface{ Flush() }:
		f.Flush()
	}
	return nil
}
