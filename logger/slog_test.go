package logger

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSlogLogger_JSON(t *testing.T) {
	require := require.New(t)

	var buf bytes.Buffer
	l := NewSlogWriter(&buf, InfoLevel, false, false)

	l.Debug("hidden")
	require.Zero(buf.Len())

	l.With("port", "/dev/ttyACM0").Info("printer connected", "baud", 115200)

	var rec map[string]any
	require.NoError(json.Unmarshal(buf.Bytes(), &rec))
	require.Equal("printer connected", rec["msg"])
	require.Equal("/dev/ttyACM0", rec["port"])
	require.EqualValues(115200, rec["baud"])
	require.Contains(rec, "ts")
}

func TestSlogLogger_Level(t *testing.T) {
	require := require.New(t)

	var buf bytes.Buffer
	l := NewSlogWriter(&buf, WarnLevel, false, true)
	require.Equal(WarnLevel, l.Level())

	child := l.With("component", "supervisor")
	child.SetLevel(DebugLevel)
	require.Equal(DebugLevel, l.Level())

	l.Debug("rx", "line", "ok")
	require.True(strings.Contains(buf.String(), "rx"))
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want Level
		ok   bool
	}{
		{"debug", DebugLevel, true},
		{"WARN", WarnLevel, true},
		{"", InfoLevel, true},
		{"error", ErrorLevel, true},
		{"verbose", InfoLevel, false},
	}
	for _, tt := range tests {
		got, ok := ParseLevel(tt.in)
		if got != tt.want || ok != tt.ok {
			t.Errorf("ParseLevel(%q) = %v, %v; want %v, %v", tt.in, got, ok, tt.want, tt.ok)
		}
	}
}
