/*
Copyright © 2025 Mathias Djärv <mathias.djarv@allbinary.se>
*/
package cmd

import (
	"context"
	"strings"

	"github.com/spf13/cobra"

	printlink "github.com/allbin/go-printlink"
	"github.com/allbin/go-printlink/internal/gcode"
)

// superviseCmd represents the supervise command
var superviseCmd = &cobra.Command{
	Use:   "supervise [port]",
	Short: "Keep a printer session connected and log its traffic",
	Long: `Keep a session to the printer open, reconnecting after failures.

Connection attempts repeat every --retry-interval until the printer answers.
State changes and every line the printer sends are written to the log.
With --home the printer is homed (G28) after each connection.

Example usage:
  printlink supervise /dev/ttyACM0 --log-format json
  printlink supervise --retry-interval 30s --home`,
	Args: cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		home, _ := cmd.Flags().GetBool("home")

		port, err := resolvePort(args)
		if err != nil {
			exitWithError(err)
		}
		session := newSession(port)
		defer session.Stop()

		session.AddStateHandler(func(prev, next printlink.State) {
			log.Info("printer state changed", "port", port, "from", prev, "to", next)
		})
		session.AddLineHandler(func(line string) {
			log.Debug("printer line", "port", port, "line", strings.TrimRight(line, "\r\n"))
		})

		sup := newSupervisor(session, home)
		if err := sup.Run(cmd.Context()); err != nil {
			session.Stop()
			exitWithError(err)
		}
		log.Info("supervision stopped", "port", port,
			"connect_attempts", sup.Metrics().ConnAttemptCount.Load(),
			"commands_sent", session.Metrics().CommandSendCount.Load())
	},
}

func init() {
	rootCmd.AddCommand(superviseCmd)

	superviseCmd.Flags().Bool("home", false, "Home all axes (G28) after each connection")
}

// newSupervisor builds the reconnect loop for session from the settings
func newSupervisor(session printlink.Adapter, home bool) *printlink.Supervisor {
	opts := []printlink.SupervisorOption{
		printlink.WithRetryInterval(settings.RetryInterval),
		printlink.WithSupervisorLogger(log),
	}
	if home {
		opts = append(opts, printlink.WithConnectHook(func(ctx context.Context, a printlink.Adapter) error {
			return a.SendCommand(ctx, gcode.AutoHome)
		}))
	}
	return printlink.NewSupervisor(session, opts...)
}
