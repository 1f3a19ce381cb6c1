package linalg

import (
	"bufio"
	"fmt"
	"io"
	"strconv"

	"gonum.org/v1/gonum/mat"
)

// maxTokenSize bounds a single whitespace separated token.
const maxTokenSize = 1 << 20

// TokenReader yields whitespace separated numeric tokens from a stream.
// Pattern files and weight files are both read through it.
type TokenReader struct {
	s *bufio.Scanner
}

// NewTokenReader wraps r in a TokenReader.
func NewTokenReader(r io.Reader) *TokenReader {
	s := bufio.NewScanner(r)
	s.Buffer(make([]byte, 0, 64*1024), maxTokenSize)
	s.Split(bufio.ScanWords)
	return &TokenReader{s: s}
}

// Next returns the next token. A clean end of input is reported as
// ErrShortRead.
func (t *TokenReader) Next() (string, error) {
	if t.s.Scan() {
		return t.s.Text(), nil
	}
	if err := t.s.Err(); err != nil {
		return "", err
	}
	return "", ErrShortRead
}

// Float parses the next token as a real number.
func (t *TokenReader) Float() (float64, error) {
	tok, err := t.Next()
	if err != nil {
		return 0, err
	}
	f, err := strconv.ParseFloat(tok, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrParse, tok)
	}
	return f, nil
}

// Int parses the next token as a base 10 integer.
func (t *TokenReader) Int() (int, error) {
	tok, err := t.Next()
	if err != nil {
		return 0, err
	}
	n, err := strconv.Atoi(tok)
	if err != nil {
		return 0, fmt.Errorf("%w: %q is not an integer", ErrParse, tok)
	}
	return n, nil
}

// Read fills v with the next Dim(v) values from t. On failure v is left
// unchanged.
func (v Vector) Read(t *TokenReader) error {
	if !v.Valid() {
		return ErrInvalid
	}
	buf := make([]float64, len(v.el))
	for i := range buf {
		f, err := t.Float()
		if err != nil {
			return fmt.Errorf("element %d: %w", i, err)
		}
		buf[i] = f
	}
	copy(v.el, buf)
	return nil
}

// WriteTo writes the elements separated by single spaces, without a trailing
// newline. Values are formatted with the shortest representation that reads
// back to the identical float64.
func (v Vector) WriteTo(w io.Writer) (int64, error) {
	if !v.Valid() {
		return 0, ErrInvalid
	}
	buf := appendRow(nil, v.el)
	n, err := w.Write(buf)
	return int64(n), err
}

// Read fills m, in row-major order, with the next Rows(m)·Cols(m) values
// from t. On failure m is left unchanged.
func (m Matrix) Read(t *TokenReader) error {
	if !m.Valid() {
		return ErrInvalid
	}
	r, c := m.d.Dims()
	buf := make([]float64, r*c)
	for k := range buf {
		f, err := t.Float()
		if err != nil {
			return fmt.Errorf("element (%d, %d): %w", k/c, k%c, err)
		}
		buf[k] = f
	}
	for i := 0; i < r; i++ {
		m.d.SetRow(i, buf[i*c:(i+1)*c])
	}
	return nil
}

// WriteTo writes the matrix one row per line, elements separated by single
// spaces, using the same lossless formatting as Vector.WriteTo.
func (m Matrix) WriteTo(w io.Writer) (int64, error) {
	if !m.Valid() {
		return 0, ErrInvalid
	}
	r, c := m.d.Dims()
	row := make([]float64, c)
	var total int64
	var buf []byte
	for i := 0; i < r; i++ {
		mat.Row(row, i, m.d)
		buf = appendRow(buf[:0], row)
		buf = append(buf, '\n')
		n, err := w.Write(buf)
		total += int64(n)
		if err != nil {
			return total, err
		}
	}
	return total, nil
}

func appendRow(buf []byte, vals []float64) []byte {
	for i, x := range vals {
		if i > 0 {
			buf = append(buf, ' ')
		}
		buf = strconv.AppendFloat(buf, x, 'g', -1, 64)
	}
	return buf
}
