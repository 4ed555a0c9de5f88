/*
Copyright © 2025 Mathias Djärv <mathias.djarv@allbinary.se>
*/
package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	printlink "github.com/allbin/go-printlink"
	"github.com/allbin/go-printlink/internal/config"
	"github.com/allbin/go-printlink/logger"
)

var (
	cfgFile  string
	v        = config.New()
	settings config.Settings
	log      logger.Logger = logger.GetLogger()
)

var (
	infoStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("99")).Bold(true)
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("40")).Bold(true)
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true)
	mutedStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("243"))
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "printlink",
	Short: "Talk G-code to a USB-attached 3D printer",
	Long: `printlink finds a 3D printer on a USB serial port, sends it G-code
commands one at a time and waits for each acknowledgment.

Settings come from flags, PRINTLINK_* environment variables and an optional
printlink.yaml in the working directory or ~/.config/printlink.

Example usage:
  printlink list
  printlink send G28 M105 --port /dev/ttyACM0
  printlink run part.gcode
  printlink console`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if err := config.ReadFile(v, cfgFile); err != nil {
			exitWithError(err)
		}
		s, err := config.Load(v)
		if err != nil {
			exitWithError(err)
		}
		settings = s
		log = s.Logger()
		logger.SetLogger(log)
	},
}

// Execute adds all child commands to the root command and runs it
func Execute(ctx context.Context) {
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.StringVar(&cfgFile, "config", "", "Config file (default ./printlink.yaml or ~/.config/printlink/printlink.yaml)")
	flags.StringP("port", "p", "", "Printer serial port (default: the only USB candidate)")
	flags.IntP("baud", "b", printlink.DefaultBaudRate, "Baud rate")
	flags.Duration("command-timeout", printlink.DefaultCommandTimeout, "Time to wait for each acknowledgment")
	flags.Duration("retry-interval", printlink.DefaultRetryInterval, "Delay between reconnection attempts")
	flags.String("log-level", "info", "Log level: debug, info, warn, error")
	flags.String("log-format", "auto", "Log format: auto, console, json")

	for key, flag := range map[string]string{
		"port":            "port",
		"baud":            "baud",
		"command_timeout": "command-timeout",
		"retry_interval":  "retry-interval",
		"log.level":       "log-level",
		"log.format":      "log-format",
	} {
		if err := v.BindPFlag(key, flags.Lookup(flag)); err != nil {
			panic(err)
		}
	}
}

func exitWithError(err error) {
	fmt.Fprintf(os.Stderr, "%s %v\n", errorStyle.Render("✗"), err)
	os.Exit(1)
}

// resolvePort returns the port named on the command line, the configured
// port, or the only USB candidate on the host.
func resolvePort(args []string) (string, error) {
	if len(args) > 0 && args[0] != "" {
		return args[0], nil
	}
	if settings.Port != "" {
		return settings.Port, nil
	}

	ports, err := printlink.ListCandidatePorts()
	if err != nil {
		return "", err
	}
	switch len(ports) {
	case 0:
		return "", fmt.Errorf("%w: no USB serial ports found", printlink.ErrNoPrinterConfigured)
	case 1:
		log.Info("using the only candidate port", "port", ports[0].Name)
		return ports[0].Name, nil
	default:
		return "", fmt.Errorf("%w: %d candidate ports found, choose one with --port",
			printlink.ErrNoPrinterConfigured, len(ports))
	}
}

// newSession builds a session for port from the loaded settings
func newSession(port string) *printlink.SerialSession {
	session, err := settings.NewSession(log)
	if err != nil {
		exitWithError(err)
	}
	session.Configure(port)
	return session
}

// connect resolves the port and starts a session on it
func connect(ctx context.Context, args []string) *printlink.SerialSession {
	port, err := resolvePort(args)
	if err != nil {
		exitWithError(err)
	}

	fmt.Printf("%s Connecting to %s...\n", infoStyle.Render("⚡"), port)
	session := newSession(port)
	if err := session.Start(ctx); err != nil {
		exitWithError(err)
	}
	fmt.Printf("%s Connected\n", successStyle.Render("✓"))
	return session
}
