/*
Copyright © 2025 Mathias Djärv <mathias.djarv@allbinary.se>
*/
package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	printlink "github.com/allbin/go-printlink"
	"github.com/allbin/go-printlink/internal/gcode"
)

// runCmd represents the run command
var runCmd = &cobra.Command{
	Use:   "run <file.gcode>",
	Short: "Stream a G-code file to the printer",
	Long: `Stream a G-code file to the printer, one acknowledged command at a time.

Comments and blank lines are skipped. A command that times out is resent
up to --retries times; a printer error or a lost connection stops the run.

Example usage:
  printlink run calibration.gcode --port /dev/ttyACM0
  printlink run part.gcode --command-timeout 2m --retries 2`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		retries, _ := cmd.Flags().GetInt("retries")
		quiet, _ := cmd.Flags().GetBool("quiet")

		commands, err := gcode.ParseFile(args[0])
		if err != nil {
			exitWithError(err)
		}
		if len(commands) == 0 {
			fmt.Println("No commands in", args[0])
			return
		}

		ctx := cmd.Context()
		session := connect(ctx, nil)
		defer session.Stop()

		start := time.Now()
		total := len(commands)
		for i, c := range commands {
			var err error
			for attempt := 0; attempt <= retries; attempt++ {
				if err = session.SendCommand(ctx, c); !printlink.IsTimeout(err) {
					break
				}
				log.Warn("command timed out", "command", c, "line", i+1, "attempt", attempt+1)
			}
			if err != nil {
				fmt.Printf("%s [%d/%d] %s %v\n", errorStyle.Render("✗"), i+1, total, c, err)
				session.Stop()
				exitWithError(fmt.Errorf("run stopped at command %d of %d", i+1, total))
			}
			if !quiet {
				fmt.Printf("%s [%d/%d] %s\n", successStyle.Render("✓"), i+1, total, c)
			}
		}

		fmt.Printf("%s %d commands in %s\n", successStyle.Render("✓"), total,
			time.Since(start).Round(time.Second))
	},
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().IntP("retries", "r", 0, "Resend a command this many times after a timeout")
	runCmd.Flags().BoolP("quiet", "q", false, "Only report failures and the summary")
}
