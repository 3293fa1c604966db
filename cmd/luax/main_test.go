package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func writeTree(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "tree.json")
	require.Nil(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestCompileFile(t *testing.T) {
	path := writeTree(t, `[
		{"type": "local",
		 "targets": [{"type": "ident", "name": "x"}],
		 "values": [{"type": "number", "value": 1}]}
	]`)
	module, err := compileFile(path)
	require.Nil(t, err)
	require.Equal(t, 1, module.FunctionCount())
	require.Equal(t, "__main__", module.EntryFunction().Name())
}

func TestCompileFileDecodeError(t *testing.T) {
	path := writeTree(t, `[{"type": "switch"}]`)
	_, err := compileFile(path)
	require.NotNil(t, err)
	require.Contains(t, err.Error(), `unknown statement type "switch"`)
}

func TestCompileFileCompileError(t *testing.T) {
	path := writeTree(t, `[{"type": "break"}]`)
	_, err := compileFile(path)
	require.NotNil(t, err)
	require.Contains(t, err.Error(), "break outside of a loop")
}

func TestCompileFileMissing(t *testing.T) {
	_, err := compileFile(filepath.Join(t.TempDir(), "nope.json"))
	require.NotNil(t, err)
}
