// Package config loads printlink settings from flags, environment and an
// optional config file.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
	"golang.org/x/term"

	printlink "github.com/allbin/go-printlink"
	"github.com/allbin/go-printlink/logger"
)

// EnvPrefix prefixes every environment variable, e.g. PRINTLINK_PORT
const EnvPrefix = "PRINTLINK"

// Settings is the decoded configuration
type Settings struct {
	Port           string        `mapstructure:"port"`
	Baud           int           `mapstructure:"baud"`
	ReadTimeout    time.Duration `mapstructure:"read_timeout"`
	OpenTimeout    time.Duration `mapstructure:"open_timeout"`
	CommandTimeout time.Duration `mapstructure:"command_timeout"`
	RetryInterval  time.Duration `mapstructure:"retry_interval"`
	ReadyMarker    string        `mapstructure:"ready_marker"`
	ErrorMarkers   []string      `mapstructure:"error_markers"`
	MaxLineLength  int           `mapstructure:"max_line_length"`
	Log            LogSettings   `mapstructure:"log"`
}

// LogSettings selects the log level and handler
type LogSettings struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"` // auto, console or json
}

// New returns a viper instance with defaults and environment binding set up.
func New() *viper.Viper {
	v := viper.New()
	SetDefaults(v)

	v.SetConfigName("printlink")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	if home, err := os.UserHomeDir(); err == nil {
		v.AddConfigPath(home + "/.config/printlink")
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	return v
}

// SetDefaults registers the default of every key
func SetDefaults(v *viper.Viper) {
	v.SetDefault("port", "")
	v.SetDefault("baud", printlink.DefaultBaudRate)
	v.SetDefault("read_timeout", printlink.DefaultReadTimeout)
	v.SetDefault("open_timeout", printlink.DefaultOpenTimeout)
	v.SetDefault("command_timeout", printlink.DefaultCommandTimeout)
	v.SetDefault("retry_interval", printlink.DefaultRetryInterval)
	v.SetDefault("ready_marker", printlink.DefaultReadyMarker)
	v.SetDefault("error_markers", printlink.DefaultErrorMarkers)
	v.SetDefault("max_line_length", printlink.DefaultMaxLineLength)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "auto")
}

// ReadFile reads the config file if one exists. A missing file is not an
// error; a malformed one is.
func ReadFile(v *viper.Viper, path string) error {
	if path != "" {
		v.SetConfigFile(path)
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path == "" && errors.As(err, &notFound) {
			return nil
		}
		return fmt.Errorf("read config: %w", err)
	}
	return nil
}

// Load decodes and validates the settings held by v
func Load(v *viper.Viper) (Settings, error) {
	var s Settings
	if err := v.Unmarshal(&s); err != nil {
		return Settings{}, fmt.Errorf("decode config: %w", err)
	}
	if _, ok := logger.ParseLevel(s.Log.Level); !ok {
		return Settings{}, fmt.Errorf("log.level %q: %w", s.Log.Level, printlink.ErrInvalidConfig)
	}
	switch s.Log.Format {
	case "auto", "console", "json":
	default:
		return Settings{}, fmt.Errorf("log.format %q: %w", s.Log.Format, printlink.ErrInvalidConfig)
	}
	return s, nil
}

// Logger builds the logger described by the log settings
func (s Settings) Logger() logger.Logger {
	level, _ := logger.ParseLevel(s.Log.Level)
	switch s.Log.Format {
	case "console":
		return logger.NewSlogWriter(os.Stderr, level, false, true)
	case "json":
		return logger.NewSlogWriter(os.Stderr, level, false, false)
	default:
		return logger.NewSlogWriter(os.Stderr, level, false, term.IsTerminal(int(os.Stderr.Fd())))
	}
}

// SessionOptions converts the settings into session options
func (s Settings) SessionOptions(l logger.Logger) []printlink.Option {
	opts := []printlink.Option{
		printlink.WithBaudRate(s.Baud),
		printlink.WithReadTimeout(s.ReadTimeout),
		printlink.WithOpenTimeout(s.OpenTimeout),
		printlink.WithCommandTimeout(s.CommandTimeout),
		printlink.WithReadyMarker(s.ReadyMarker),
		printlink.WithErrorMarkers(s.ErrorMarkers...),
		printlink.WithMaxLineLength(s.MaxLineLength),
	}
	if l != nil {
		opts = append(opts, printlink.WithLogger(l))
	}
	return opts
}

// NewSession creates a session from the settings with its port configured
func (s Settings) NewSession(l logger.Logger) (*printlink.SerialSession, error) {
	session, err := printlink.NewSession(s.SessionOptions(l)...)
	if err != nil {
		return nil, err
	}
	if s.Port != "" {
		session.Configure(s.Port)
	}
	return session, nil
}
