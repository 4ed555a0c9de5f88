/*
Copyright © 2025 Mathias Djärv <mathias.djarv@allbinary.se>
*/
package cmd

import (
	"context"
	"errors"
	"io"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	printlink "github.com/allbin/go-printlink"
	"github.com/allbin/go-printlink/internal/tui/models"
	"github.com/allbin/go-printlink/logger"
)

// consoleCmd represents the console command
var consoleCmd = &cobra.Command{
	Use:   "console [port]",
	Short: "Interactive G-code console",
	Long: `Open an interactive console to the printer.

The session is supervised: it connects when the printer becomes available
and reconnects after the connection is lost. Every command shows its
outcome (OK, TIMEOUT, FAULT or ERROR) and everything the printer sends is
shown as it arrives.

Key bindings (normal mode):
  i        type a command (enter sends, esc returns)
  H L T F  home, level bed, report temperatures, firmware info
  c        clear the log
  t        toggle timestamps
  ?        help
  q        quit

Logs would draw over the console, so they are discarded unless --log-file
is given.`,
	Args: cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		home, _ := cmd.Flags().GetBool("home")
		logFile, _ := cmd.Flags().GetString("log-file")

		port, err := resolvePort(args)
		if err != nil {
			exitWithError(err)
		}

		var logOut io.Writer = io.Discard
		if logFile != "" {
			f, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
			if err != nil {
				exitWithError(err)
			}
			defer f.Close()
			logOut = f
		}
		level, _ := logger.ParseLevel(settings.Log.Level)
		log = logger.NewSlogWriter(logOut, level, false, false)
		logger.SetLogger(log)

		if err := runConsole(cmd.Context(), port, home); err != nil {
			exitWithError(err)
		}
	},
}

func init() {
	rootCmd.AddCommand(consoleCmd)

	consoleCmd.Flags().Bool("home", false, "Home all axes (G28) after each connection")
	consoleCmd.Flags().String("log-file", "", "Append logs to this file")
}

func runConsole(parent context.Context, port string, home bool) error {
	ctx, cancel := context.WithCancel(parent)
	defer cancel()

	session := newSession(port)
	defer session.Stop()

	m := models.NewConsole(ctx, session, port, settings.Baud,
		models.WithMetrics(session.Metrics()))
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx))

	// Handlers run on session goroutines; p.Send returns once the program exits
	session.AddStateHandler(func(prev, next printlink.State) {
		p.Send(models.StateMsg{Prev: prev, Next: next, Timestamp: time.Now()})
	})
	session.AddLineHandler(func(line string) {
		p.Send(models.LineMsg{Line: line, Timestamp: time.Now()})
	})

	sup := newSupervisor(session, home)
	go func() {
		if err := sup.Run(ctx); err != nil {
			p.Send(models.ErrorMsg{Err: err})
		}
	}()

	_, err := p.Run()
	cancel()
	if errors.Is(err, tea.ErrProgramKilled) && parent.Err() != nil {
		return nil
	}
	return err
}
