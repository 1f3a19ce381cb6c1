package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const xorPatterns = "4 2 1\n0 0 0\n0 1 1\n1 0 1\n1 1 0\n"

func writeFile(t *testing.T, dir, name, body string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestParseFlagsValidation(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want string
	}{
		{"no input units", []string{"-in", "0", "-train", "a", "-test", "b"}, "input units"},
		{"no hidden units", []string{"-hidden", "-2", "-train", "a", "-test", "b"}, "hidden units"},
		{"no output units", []string{"-out", "0", "-train", "a", "-test", "b"}, "output units"},
		{"zero learning rate", []string{"-lr", "0", "-train", "a", "-test", "b"}, "learning rate"},
		{"negative range", []string{"-range", "-1", "-train", "a", "-test", "b"}, "weight range"},
		{"negative epochs", []string{"-epochs", "-1", "-train", "a", "-test", "b"}, "epoch count"},
		{"negative sse", []string{"-sse", "-0.1", "-train", "a", "-test", "b"}, "SSE"},
		{"zero report", []string{"-report", "0", "-train", "a", "-test", "b"}, "report"},
		{"missing train", []string{"-test", "b"}, "-train"},
		{"missing test", []string{"-train", "a"}, "-test"},
		{"extra argument", []string{"-train", "a", "-test", "b", "extra"}, "unexpected"},
		{"unknown flag", []string{"-bogus"}, "bogus"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := parseFlags(tt.args, &bytes.Buffer{})
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}

	o, err := parseFlags([]string{"-epochs", "0", "-test", "b"}, &bytes.Buffer{})
	require.NoError(t, err, "test-only runs need no training file")
	assert.Equal(t, 0, o.epochs)
}

func TestRunTrainsAndTests(t *testing.T) {
	dir := t.TempDir()
	pats := writeFile(t, dir, "xor.pat", xorPatterns)
	wts := filepath.Join(dir, "xor.wts")

	var stdout, stderr bytes.Buffer
	err := run(context.Background(), []string{
		"-lr", "0.5", "-epochs", "30", "-report", "10", "-seed", "3",
		"-train", pats, "-test", pats, "-save-weights", wts,
	}, &stdout, &stderr)
	require.NoError(t, err)

	out := stdout.String()
	assert.True(t, strings.HasPrefix(out, "BACKPROPAGATION LEARNING ALGORITHM\n"))
	assert.Contains(t, out, "Epoch 10:  SSE = ")
	assert.Contains(t, out, "Epoch 30:  SSE = ")
	assert.NotContains(t, out, "Epoch 5:")
	assert.Contains(t, out, "Final Epoch 30:  SSE = ")
	assert.Equal(t, 4, strings.Count(out, "INPUT:   "))
	assert.Contains(t, out, "Testing SSE = ")
	assert.True(t, strings.HasSuffix(out, "ARTIFICIAL NEURAL NETWORK RUN COMPLETE\n"))

	assert.Contains(t, stderr.String(), "network initialized")
	assert.Contains(t, stderr.String(), "run=")
	assert.FileExists(t, wts)

	// Saving over an existing file fails.
	err = run(context.Background(), []string{
		"-epochs", "1", "-seed", "3", "-train", pats, "-test", pats, "-save-weights", wts,
	}, &bytes.Buffer{}, &bytes.Buffer{})
	assert.ErrorIs(t, err, os.ErrExist)
}

func TestRunLoadWeightsTestOnly(t *testing.T) {
	dir := t.TempDir()
	pats := writeFile(t, dir, "xor.pat", xorPatterns)
	wts := filepath.Join(dir, "xor.wts")

	var first bytes.Buffer
	require.NoError(t, run(context.Background(), []string{
		"-epochs", "20", "-seed", "1", "-train", pats, "-test", pats, "-save-weights", wts,
	}, &first, &bytes.Buffer{}))

	var second bytes.Buffer
	require.NoError(t, run(context.Background(), []string{
		"-epochs", "0", "-seed", "99", "-test", pats, "-load-weights", wts,
	}, &second, &bytes.Buffer{}))

	// Same weights, same testing report.
	report := func(s string) string {
		return s[strings.Index(s, "\nINPUT:"):]
	}
	assert.Equal(t, report(first.String()), report(second.String()))
	assert.NotContains(t, second.String(), "Final Epoch")
}

func TestRunBadPatternFile(t *testing.T) {
	dir := t.TempDir()
	good := writeFile(t, dir, "xor.pat", xorPatterns)
	bad := writeFile(t, dir, "bad.pat", "0 2 1\n")

	err := run(context.Background(), []string{"-train", bad, "-test", good}, &bytes.Buffer{}, &bytes.Buffer{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "training pattern file")

	// Pattern sizes that disagree with the network fail the first epoch.
	err = run(context.Background(), []string{"-in", "3", "-train", good, "-test", good}, &bytes.Buffer{}, &bytes.Buffer{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "training epoch failed")
}
