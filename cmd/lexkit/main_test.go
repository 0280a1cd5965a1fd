package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func writeTempFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "input.txt")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestRunTokenizeJSON(t *testing.T) {
	path := writeTempFile(t, "x = 1")
	format = "json"

	stdout := os.Stdout
	r, w, err := os.Pipe()
	require.NoError(t, err)
	os.Stdout = w

	err = runTokenize(nil, []string{path})

	w.Close()
	os.Stdout = stdout
	require.NoError(t, err)

	var buf bytes.Buffer
	_, copyErr := buf.ReadFrom(r)
	require.NoError(t, copyErr)
	require.Contains(t, buf.String(), "IDENTIFIER")
}

func TestRunTokenizeRejectsUnknownFormat(t *testing.T) {
	path := writeTempFile(t, "x")
	format = "xml"
	err := runTokenize(nil, []string{path})
	require.Error(t, err)
}

func TestRunProfileValidatesFile(t *testing.T) {
	path := writeTempFile(t, "mode: streaming\ntab_width: 2\n")
	err := runProfile(nil, []string{path})
	require.NoError(t, err)
}

func TestRunProfileRejectsInvalidFile(t *testing.T) {
	path := writeTempFile(t, "mode: bogus\n")
	err := runProfile(nil, []string{path})
	require.Error(t, err)
}
