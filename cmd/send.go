/*
Copyright © 2025 Mathias Djärv <mathias.djarv@allbinary.se>
*/
package cmd

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	printlink "github.com/allbin/go-printlink"
	"github.com/allbin/go-printlink/internal/gcode"
)

// sendCmd represents the send command
var sendCmd = &cobra.Command{
	Use:   "send [command...]",
	Short: "Send G-code commands and wait for each acknowledgment",
	Long: `Send G-code commands to the printer one at a time. Each command must be
acknowledged with "ok" before the next one is sent.

Commands can be provided as:
- Arguments: printlink send G28 "G1 X10 F3000"
- From stdin (pipe): echo M115 | printlink send
- Interactively: printlink send (prompts for commands until EOF)

The shortcut names home, level, info and temp expand to G28, G29, M115
and M105. --message shows text on the printer display with M117.

Example usage:
  printlink send home temp --port /dev/ttyACM0
  printlink send --message "Print starting"`,
	Run: func(cmd *cobra.Command, args []string) {
		message, _ := cmd.Flags().GetString("message")

		commands := make([]string, 0, len(args)+1)
		if message != "" {
			commands = append(commands, gcode.DisplayMessage(message))
		}
		for _, a := range args {
			commands = append(commands, expandShortcut(a))
		}

		ctx := cmd.Context()
		session := connect(ctx, nil)
		defer session.Stop()

		var failed int
		switch {
		case len(commands) > 0:
			failed = sendAll(ctx, session, commands)
		case term.IsTerminal(int(os.Stdin.Fd())):
			failed = promptLoop(ctx, session, os.Stdin)
		default:
			lines, err := gcode.Parse(os.Stdin)
			if err != nil {
				exitWithError(err)
			}
			failed = sendAll(ctx, session, lines)
		}

		if failed > 0 {
			session.Stop()
			exitWithError(fmt.Errorf("%d command(s) failed", failed))
		}
	},
}

func init() {
	rootCmd.AddCommand(sendCmd)

	sendCmd.Flags().StringP("message", "m", "", "Show a message on the printer display first")
}

// expandShortcut translates shortcut names such as "home" to G-code
func expandShortcut(s string) string {
	if c, ok := gcode.Lookup(strings.ToLower(s)); ok {
		return c.Code
	}
	return s
}

// sendOne sends a command and prints its outcome
func sendOne(ctx context.Context, session *printlink.SerialSession, command string) error {
	start := time.Now()
	err := session.SendCommand(ctx, command)
	elapsed := mutedStyle.Render(time.Since(start).Round(time.Millisecond).String())
	if err != nil {
		fmt.Printf("%s %s %v\n", errorStyle.Render("✗"), command, err)
		return err
	}
	fmt.Printf("%s %s %s\n", successStyle.Render("✓"), command, elapsed)
	return nil
}

// sendAll sends commands in order and returns the number that failed.
// It gives up once the connection is lost.
func sendAll(ctx context.Context, session *printlink.SerialSession, commands []string) int {
	failed := 0
	for i, c := range commands {
		err := sendOne(ctx, session, c)
		if err == nil {
			continue
		}
		if printlink.IsConnectionLost(err) || ctx.Err() != nil {
			return failed + len(commands) - i
		}
		failed++
	}
	return failed
}

// promptLoop reads commands from an interactive terminal until EOF or ctx
// is cancelled and returns the number that failed
func promptLoop(ctx context.Context, session *printlink.SerialSession, in io.Reader) int {
	promptStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("99"))

	failed := 0
	scanner := bufio.NewScanner(in)
	for ctx.Err() == nil {
		fmt.Print(promptStyle.Render("gcode> "))
		if !scanner.Scan() {
			fmt.Println()
			break
		}
		line, ok := gcode.CleanLine(scanner.Text())
		if !ok {
			continue
		}
		if err := sendOne(ctx, session, expandShortcut(line)); err != nil {
			failed++
			if printlink.IsConnectionLost(err) {
				break
			}
		}
	}
	return failed
}
