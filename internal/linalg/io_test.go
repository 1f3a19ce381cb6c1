package linalg

import (
	"bytes"
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenReader(t *testing.T) {
	tr := NewTokenReader(strings.NewReader("  3\n\t-1.5e2  abc\n"))

	n, err := tr.Int()
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	f, err := tr.Float()
	require.NoError(t, err)
	assert.Equal(t, -150.0, f)

	_, err = tr.Float()
	assert.ErrorIs(t, err, ErrParse)

	_, err = tr.Next()
	assert.ErrorIs(t, err, ErrShortRead)
}

func TestVectorReadWrite(t *testing.T) {
	v := VectorOf(1.0/3, -2, math.Pi, 1e-300)

	var buf bytes.Buffer
	_, err := v.WriteTo(&buf)
	require.NoError(t, err)
	assert.NotContains(t, buf.String(), "\n")

	got := NewVector(4)
	require.NoError(t, got.Read(NewTokenReader(&buf)))
	assert.Equal(t, v.Values(), got.Values(), "round trip must be exact")
}

func TestVectorReadFailureLeavesVectorUnchanged(t *testing.T) {
	v := VectorOf(7, 8, 9)

	err := v.Read(NewTokenReader(strings.NewReader("1 2")))
	assert.ErrorIs(t, err, ErrShortRead)
	assert.Equal(t, []float64{7, 8, 9}, v.Values())

	err = v.Read(NewTokenReader(strings.NewReader("1 x 3")))
	assert.ErrorIs(t, err, ErrParse)
	assert.Equal(t, []float64{7, 8, 9}, v.Values())

	assert.ErrorIs(t, Vector{}.Read(NewTokenReader(strings.NewReader("1"))), ErrInvalid)
	_, err = Vector{}.WriteTo(&bytes.Buffer{})
	assert.ErrorIs(t, err, ErrInvalid)
}

func TestMatrixReadWrite(t *testing.T) {
	m := mustMatrix(t, 2, 3,
		0.1, 0.2, 0.3,
		-4e10, 5.5, 1.0/7,
	)

	var buf bytes.Buffer
	_, err := m.WriteTo(&buf)
	require.NoError(t, err)
	assert.Equal(t, 2, strings.Count(buf.String(), "\n"), "one line per row")

	got := NewMatrix(2, 3)
	require.NoError(t, got.Read(NewTokenReader(&buf)))
	assert.True(t, got.EqualApprox(m, 0))
}

func TestMatrixReadShort(t *testing.T) {
	m := NewMatrixFilled(2, 2, 1)
	err := m.Read(NewTokenReader(strings.NewReader("1 2 3")))
	assert.ErrorIs(t, err, ErrShortRead)
	assert.True(t, m.EqualApprox(NewMatrixFilled(2, 2, 1), 0))
}
