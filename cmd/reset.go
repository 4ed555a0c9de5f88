/*
Copyright © 2025 Mathias Djärv <mathias.djarv@allbinary.se>
*/
package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	printlink "github.com/allbin/go-printlink"
)

// resetCmd represents the reset command
var resetCmd = &cobra.Command{
	Use:   "reset [port]",
	Short: "Reset the printer's USB device",
	Long: `Perform a USB-level reset on the printer. This can recover a printer
whose USB serial interface hung without physically unplugging it.

The device re-enumerates after the reset, so the port path may change
(e.g., /dev/ttyACM0 might become /dev/ttyACM1). Use --serial to identify the
printer by its USB serial number instead.

Requirements:
- Linux (uses the usbfs reset ioctl)
- Write access to /dev/bus/usb, usually root

Examples:
  sudo printlink reset /dev/ttyACM0
  sudo printlink reset --serial CZPX1419X004XK51384`,
	Args: func(cmd *cobra.Command, args []string) error {
		serialFlag, _ := cmd.Flags().GetString("serial")
		if serialFlag != "" && len(args) > 0 {
			return errors.New("cannot specify both port path and --serial flag")
		}
		return cobra.MaximumNArgs(1)(cmd, args)
	},
	Run: func(cmd *cobra.Command, args []string) {
		serialFlag, _ := cmd.Flags().GetString("serial")

		var err error
		if serialFlag != "" {
			fmt.Printf("%s Resetting USB device with serial %s\n", infoStyle.Render("⚡"), serialFlag)
			err = printlink.ResetUSBDeviceBySerial(serialFlag)
		} else {
			portPath, perr := resolvePort(args)
			if perr != nil {
				exitWithError(perr)
			}
			fmt.Printf("%s Resetting USB device %s\n", infoStyle.Render("⚡"), portPath)
			err = printlink.ResetUSBDevice(portPath)
		}

		if err != nil {
			fmt.Fprintf(os.Stderr, "%s %v\n", errorStyle.Render("✗"), err)
			switch {
			case errors.Is(err, printlink.ErrUSBInfoNotAvailable):
				fmt.Fprintln(os.Stderr, "This port does not appear to be a USB device")
			case errors.Is(err, printlink.ErrPermissionDenied):
				fmt.Fprintln(os.Stderr, "Try again with sudo")
			}
			os.Exit(1)
		}

		fmt.Printf("%s USB device reset\n", successStyle.Render("✓"))
		fmt.Println(mutedStyle.Render("The port path may change, use 'printlink list' to find it"))
	},
}

func init() {
	rootCmd.AddCommand(resetCmd)

	resetCmd.Flags().StringP("serial", "s", "", "Reset the printer with this USB serial number")
}
