package data

import (
	"bufio"
	"fmt"
	"io"
	"math"
	"os"

	"github.com/pkg/errors"

	"github.com/born-ml/bpnet/internal/linalg"
)

// Pattern files are whitespace-separated text:
//
//	P I O
//	x11 ... x1I  t11 ... t1O
//	...
//	xP1 ... xPI  tP1 ... tPO
//
// Line breaks carry no meaning. P, I and O must all be at least one.

// rowHint caps the row buffer allocated before any value has been read.
const rowHint = 1024

// ReadPatternSet reads a pattern file from r.
func ReadPatternSet(r io.Reader) (*PatternSet, error) {
	tr := linalg.NewTokenReader(r)

	var hdr [3]int
	for i, name := range []string{"pattern count", "input count", "output count"} {
		n, err := tr.Int()
		if err != nil {
			return nil, errors.Wrapf(err, "read %s", name)
		}
		hdr[i] = n
	}
	count, in, out := hdr[0], hdr[1], hdr[2]
	if count <= 0 || in <= 0 || out <= 0 || in > math.MaxInt-out {
		return nil, errors.WithStack(fmt.Errorf("%w: header %d %d %d", ErrBadHeader, count, in, out))
	}

	set, err := NewPatternSet(in, out)
	if err != nil {
		return nil, err
	}

	// The header is not trusted for allocation: storage grows only with the
	// values actually read.
	width := in + out
	row := make([]float64, 0, min(width, rowHint))
	for i := 0; i < count; i++ {
		row = row[:0]
		for j := 0; j < width; j++ {
			x, err := tr.Float()
			if err != nil {
				return nil, errors.Wrapf(err, "read pattern %d of %d", i, count)
			}
			row = append(row, x)
		}

		p, err := PatternFromRow(in, out, linalg.VectorOf(row...))
		if err != nil {
			return nil, errors.Wrapf(err, "pattern %d", i)
		}
		if err := set.Add(p); err != nil {
			return nil, errors.Wrapf(err, "pattern %d", i)
		}
	}
	return set, nil
}

// LoadPatternSet reads the pattern file at path.
func LoadPatternSet(path string) (*PatternSet, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "open pattern file")
	}
	defer f.Close()

	set, err := ReadPatternSet(f)
	if err != nil {
		return nil, errors.Wrapf(err, "pattern file %s", path)
	}
	return set, nil
}

// WritePatternSet writes s in pattern file format, one pattern per line.
// Empty sets cannot be written since readers reject a zero pattern count.
func WritePatternSet(w io.Writer, s *PatternSet) error {
	if s.Len() == 0 {
		return errors.WithStack(fmt.Errorf("%w: empty pattern set", ErrBadHeader))
	}

	bw := bufio.NewWriter(w)
	if _, err := fmt.Fprintf(bw, "%d %d %d\n", s.Len(), s.InputN, s.OutputN); err != nil {
		return errors.Wrap(err, "write header")
	}
	for i, p := range s.patterns {
		if _, err := p.Input.WriteTo(bw); err != nil {
			return errors.Wrapf(err, "write input of pattern %d", i)
		}
		if err := bw.WriteByte(' '); err != nil {
			return errors.Wrapf(err, "write pattern %d", i)
		}
		if _, err := p.Target.WriteTo(bw); err != nil {
			return errors.Wrapf(err, "write target of pattern %d", i)
		}
		if err := bw.WriteByte('\n'); err != nil {
			return errors.Wrapf(err, "write pattern %d", i)
		}
	}
	return errors.Wrap(bw.Flush(), "flush patterns")
}
