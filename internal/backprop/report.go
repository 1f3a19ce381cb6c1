package backprop

import (
	"fmt"
	"io"

	"github.com/born-ml/bpnet/internal/linalg"
)

// writeReport writes one testing pattern block:
//
//	(blank line)
//	INPUT:   0.000000 1.000000
//	OUTPUT:  0.912345
//	TARGET:  1.000000
//	SSE = 0.003836
func writeReport(w io.Writer, input, output, target linalg.Vector, sse float64) error {
	_, err := fmt.Fprintf(w, "\nINPUT:   %s\nOUTPUT:  %s\nTARGET:  %s\nSSE = %f\n", input, output, target, sse)
	return err
}
