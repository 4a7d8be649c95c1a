package collector

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLeadingFloat(t *testing.T) {
	tests := []struct {
		in   string
		want float64
	}{
		{"52650000\n", 52650000},
		{"  42\n", 42},
		{"3.5", 3.5},
		{"-7", -7},
		{"+8", 8},
		{".5", 0.5},
		{"5.", 5},
		{"1e3\n", 1000},
		{"2e", 2},
		{"2e+", 2},
		{"12abc", 12},
		{"abc", 0},
		{"", 0},
		{"-", 0},
		{".", 0},
		{"1e999", 0},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, parseLeadingFloat(tt.in), "parseLeadingFloat(%q)", tt.in)
	}
}

func TestReadFloatFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "energy_now")
	writeTestFile(t, path, "41230000\n")

	v, err := readFloatFile(path)
	require.NoError(t, err)
	assert.Equal(t, 41230000.0, v)
}

func TestReadFloatFile_Unparsable(t *testing.T) {
	path := filepath.Join(t.TempDir(), "energy_now")
	writeTestFile(t, path, "unknown\n")

	v, err := readFloatFile(path)
	require.NoError(t, err)
	assert.Zero(t, v)
}

func TestReadFloatFile_Missing(t *testing.T) {
	path := filepath.Join(t.TempDir(), "energy_now")

	_, err := readFloatFile(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), path)
}
