package printlink

import (
	"strings"
	"time"

	"github.com/allbin/go-printlink/logger"
)

// Config holds the configuration for a printer session
type Config struct {
	BaudRate       int
	ReadTimeout    time.Duration // per-read timeout of the transport
	OpenTimeout    time.Duration // bound on opening the port
	CommandTimeout time.Duration // bound on one acknowledgment wait
	ReadBufferSize int           // bytes requested per read
	MaxLineLength  int           // longest partial line the framer buffers
	ReadyMarker    string        // substring acknowledging a command
	ErrorMarkers   []string      // substrings reporting a device fault, case-insensitive

	Logger   logger.Logger
	Opener   Opener
	Discover DiscoverFunc
}

// Option is a functional option for configuring a printer session
type Option func(*Config) error

const (
	DefaultBaudRate       = 115200
	DefaultReadTimeout    = 250 * time.Millisecond
	DefaultOpenTimeout    = 5 * time.Second
	DefaultCommandTimeout = 5 * time.Second
	DefaultReadBufferSize = 128
	DefaultMaxLineLength  = 4096
	DefaultReadyMarker    = "ok"
)

// DefaultErrorMarkers are the fault lines Marlin-style firmware emits.
var DefaultErrorMarkers = []string{"error:", "cold extrusion", "!!"}

// DefaultConfig returns a configuration with sensible defaults
func DefaultConfig() Config {
	return Config{
		BaudRate:       DefaultBaudRate,
		ReadTimeout:    DefaultReadTimeout,
		OpenTimeout:    DefaultOpenTimeout,
		CommandTimeout: DefaultCommandTimeout,
		ReadBufferSize: DefaultReadBufferSize,
		MaxLineLength:  DefaultMaxLineLength,
		ReadyMarker:    DefaultReadyMarker,
		ErrorMarkers:   append([]string(nil), DefaultErrorMarkers...),
		Logger:         logger.GetLogger(),
		Opener:         OpenSerial,
		Discover:       ListCandidatePorts,
	}
}

var supportedBaudRates = []int{
	1200, 2400, 4800, 9600, 19200, 38400, 57600,
	115200, 230400, 250000, 460800, 500000, 921600, 1000000,
}

// WithBaudRate sets the baud rate
func WithBaudRate(rate int) Option {
	return func(c *Config) error {
		for _, r := range supportedBaudRates {
			if r == rate {
				c.BaudRate = rate
				return nil
			}
		}
		return ErrInvalidBaudRate
	}
}

// WithReadTimeout sets the per-read timeout of the transport.
// Zero is rejected: a zero read timeout would make every read block.
func WithReadTimeout(timeout time.Duration) Option {
	return func(c *Config) error {
		if timeout <= 0 || timeout > time.Minute {
			return ErrInvalidConfig
		}
		c.ReadTimeout = timeout
		return nil
	}
}

// WithOpenTimeout bounds how long opening the port may take
func WithOpenTimeout(timeout time.Duration) Option {
	return func(c *Config) error {
		if timeout <= 0 {
			return ErrInvalidConfig
		}
		c.OpenTimeout = timeout
		return nil
	}
}

// WithCommandTimeout bounds the acknowledgment wait of one command
func WithCommandTimeout(timeout time.Duration) Option {
	return func(c *Config) error {
		if timeout <= 0 {
			return ErrInvalidConfig
		}
		c.CommandTimeout = timeout
		return nil
	}
}

// WithReadBufferSize sets how many bytes are requested per read
func WithReadBufferSize(size int) Option {
	return func(c *Config) error {
		if size < 1 || size > 64*1024 {
			return ErrInvalidConfig
		}
		c.ReadBufferSize = size
		return nil
	}
}

// WithMaxLineLength caps the partial line held by the framer
func WithMaxLineLength(n int) Option {
	return func(c *Config) error {
		if n < 1 {
			return ErrInvalidConfig
		}
		c.MaxLineLength = n
		return nil
	}
}

// WithReadyMarker sets the acknowledgment substring
func WithReadyMarker(marker string) Option {
	return func(c *Config) error {
		if strings.TrimSpace(marker) == "" {
			return ErrInvalidConfig
		}
		c.ReadyMarker = marker
		return nil
	}
}

// WithErrorMarkers replaces the device fault substrings. An empty list
// disables fault detection.
func WithErrorMarkers(markers ...string) Option {
	return func(c *Config) error {
		out := make([]string, 0, len(markers))
		for _, m := range markers {
			m = strings.TrimSpace(m)
			if m == "" {
				return ErrInvalidConfig
			}
			out = append(out, strings.ToLower(m))
		}
		c.ErrorMarkers = out
		return nil
	}
}

// WithLogger sets the logger used by the session
func WithLogger(l logger.Logger) Option {
	return func(c *Config) error {
		if l == nil {
			return ErrInvalidConfig
		}
		c.Logger = l
		return nil
	}
}

// WithOpener replaces the function used to open the transport
func WithOpener(opener Opener) Option {
	return func(c *Config) error {
		if opener == nil {
			return ErrInvalidConfig
		}
		c.Opener = opener
		return nil
	}
}

// WithDiscovery replaces the port discovery function
func WithDiscovery(discover DiscoverFunc) Option {
	return func(c *Config) error {
		if discover == nil {
			return ErrInvalidConfig
		}
		c.Discover = discover
		return nil
	}
}

func (c Config) mode() Mode {
	return Mode{BaudRate: c.BaudRate, ReadTimeout: c.ReadTimeout}
}
