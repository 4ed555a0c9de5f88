package printlink

import (
	"errors"
	"testing"
	"time"
)

func TestDefaultConfig(t *testing.T) {
	config := DefaultConfig()

	if config.BaudRate != 115200 {
		t.Errorf("BaudRate = %d, want 115200", config.BaudRate)
	}
	if config.ReadTimeout != 250*time.Millisecond {
		t.Errorf("ReadTimeout = %v, want 250ms", config.ReadTimeout)
	}
	if config.CommandTimeout != 5*time.Second {
		t.Errorf("CommandTimeout = %v, want 5s", config.CommandTimeout)
	}
	if config.ReadBufferSize != 128 {
		t.Errorf("ReadBufferSize = %d, want 128", config.ReadBufferSize)
	}
	if config.ReadyMarker != "ok" {
		t.Errorf("ReadyMarker = %q, want %q", config.ReadyMarker, "ok")
	}
	if config.Opener == nil || config.Discover == nil || config.Logger == nil {
		t.Error("DefaultConfig left a collaborator nil")
	}
}

func TestWithBaudRate(t *testing.T) {
	tests := []struct {
		name    string
		rate    int
		wantErr error
	}{
		{"115200 (default)", 115200, nil},
		{"250000 (marlin)", 250000, nil},
		{"9600", 9600, nil},
		{"0", 0, ErrInvalidBaudRate},
		{"12345 (non-standard)", 12345, ErrInvalidBaudRate},
		{"-1", -1, ErrInvalidBaudRate},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			config := DefaultConfig()
			err := WithBaudRate(tt.rate)(&config)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("WithBaudRate(%d) error = %v, want %v", tt.rate, err, tt.wantErr)
			}
			if err == nil && config.BaudRate != tt.rate {
				t.Errorf("BaudRate = %d, want %d", config.BaudRate, tt.rate)
			}
		})
	}
}

func TestWithReadTimeout(t *testing.T) {
	tests := []struct {
		name    string
		timeout time.Duration
		wantErr bool
	}{
		{"250ms (default)", 250 * time.Millisecond, false},
		{"10ms", 10 * time.Millisecond, false},
		{"1m (max)", time.Minute, false},
		{"0 (would block)", 0, true},
		{"-100ms (negative)", -100 * time.Millisecond, true},
		{"2m (exceeds max)", 2 * time.Minute, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			config := DefaultConfig()
			err := WithReadTimeout(tt.timeout)(&config)
			if (err != nil) != tt.wantErr {
				t.Errorf("WithReadTimeout(%v) error = %v, wantErr %v", tt.timeout, err, tt.wantErr)
			}
			if err == nil && config.ReadTimeout != tt.timeout {
				t.Errorf("ReadTimeout = %v, want %v", config.ReadTimeout, tt.timeout)
			}
		})
	}
}

func TestDurationOptions(t *testing.T) {
	tests := []struct {
		name    string
		opt     Option
		wantErr bool
	}{
		{"command timeout 1s", WithCommandTimeout(time.Second), false},
		{"command timeout 0", WithCommandTimeout(0), true},
		{"open timeout 2s", WithOpenTimeout(2 * time.Second), false},
		{"open timeout negative", WithOpenTimeout(-time.Second), true},
		{"buffer 128", WithReadBufferSize(128), false},
		{"buffer 0", WithReadBufferSize(0), true},
		{"buffer too large", WithReadBufferSize(1 << 20), true},
		{"line length 80", WithMaxLineLength(80), false},
		{"line length 0", WithMaxLineLength(0), true},
		{"ready marker", WithReadyMarker("ok"), false},
		{"blank ready marker", WithReadyMarker("  "), true},
		{"nil logger", WithLogger(nil), true},
		{"nil opener", WithOpener(nil), true},
		{"nil discovery", WithDiscovery(nil), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			config := DefaultConfig()
			err := tt.opt(&config)
			if (err != nil) != tt.wantErr {
				t.Errorf("error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, ErrInvalidConfig) {
				t.Errorf("error = %v, want ErrInvalidConfig", err)
			}
		})
	}
}

func TestWithErrorMarkers(t *testing.T) {
	config := DefaultConfig()
	if err := WithErrorMarkers("Error:", " MINTEMP ")(&config); err != nil {
		t.Fatalf("WithErrorMarkers() error = %v", err)
	}
	want := []string{"error:", "mintemp"}
	if len(config.ErrorMarkers) != len(want) {
		t.Fatalf("ErrorMarkers = %v, want %v", config.ErrorMarkers, want)
	}
	for i := range want {
		if config.ErrorMarkers[i] != want[i] {
			t.Errorf("ErrorMarkers[%d] = %q, want %q", i, config.ErrorMarkers[i], want[i])
		}
	}

	if err := WithErrorMarkers()(&config); err != nil {
		t.Fatalf("WithErrorMarkers() with no markers error = %v", err)
	}
	if len(config.ErrorMarkers) != 0 {
		t.Errorf("ErrorMarkers = %v, want empty", config.ErrorMarkers)
	}

	if err := WithErrorMarkers("")(&config); !errors.Is(err, ErrInvalidConfig) {
		t.Errorf("WithErrorMarkers(\"\") error = %v, want ErrInvalidConfig", err)
	}
}
