package gcode

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	require := require.New(t)

	script := `; generated by PrusaSlicer
G28 ; home all axes

  G1 Z0.2 F3000
;LAYER:0
M117 Printing...   
G1 X10 Y10 E1.5;extrude
`
	cmds, err := Parse(strings.NewReader(script))
	require.NoError(err)
	require.Equal([]string{
		"G28",
		"G1 Z0.2 F3000",
		"M117 Printing...",
		"G1 X10 Y10 E1.5",
	}, cmds)
}

func TestParseFile(t *testing.T) {
	require := require.New(t)

	path := filepath.Join(t.TempDir(), "calibrate.gcode")
	require.NoError(os.WriteFile(path, []byte("G28\r\nG29\r\n"), 0644))

	cmds, err := ParseFile(path)
	require.NoError(err)
	require.Equal([]string{"G28", "G29"}, cmds)

	_, err = ParseFile(filepath.Join(t.TempDir(), "missing.gcode"))
	require.ErrorIs(err, os.ErrNotExist)
}

func TestCleanLine(t *testing.T) {
	tests := []struct {
		in   string
		want string
		ok   bool
	}{
		{"G28", "G28", true},
		{"  M105  ", "M105", true},
		{"; comment", "", false},
		{"", "", false},
		{"   ", "", false},
		{"G1 X1 ; move", "G1 X1", true},
	}
	for _, tt := range tests {
		got, ok := CleanLine(tt.in)
		if got != tt.want || ok != tt.ok {
			t.Errorf("CleanLine(%q) = %q, %v; want %q, %v", tt.in, got, ok, tt.want, tt.ok)
		}
	}
}

func TestCommands(t *testing.T) {
	require := require.New(t)

	c, ok := Lookup("home")
	require.True(ok)
	require.Equal(AutoHome, c.Code)

	_, ok = Lookup("print")
	require.False(ok)

	require.Equal("M117 Hello world", DisplayMessage(" Hello\nworld"))
}
