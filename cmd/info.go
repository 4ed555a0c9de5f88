/*
Copyright © 2025 Mathias Djärv <mathias.djarv@allbinary.se>
*/
package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	printlink "github.com/allbin/go-printlink"
)

// infoCmd represents the info command
var infoCmd = &cobra.Command{
	Use:   "info [port]",
	Short: "Display detailed information about a printer port",
	Long: `Display detailed information about a printer port including USB metadata.

Examples:
  printlink info /dev/ttyACM0
  printlink info /dev/serial/by-id/usb-Prusa_Research_Original_Prusa_i3_MK3-if00

On Linux the USB bus and device numbers are read from sysfs. Without a port
argument the configured or only candidate port is used.`,
	Args: cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		portPath, err := resolvePort(args)
		if err != nil {
			exitWithError(err)
		}

		info, err := printlink.LookupPort(portPath)
		if err != nil {
			exitWithError(fmt.Errorf("%s: %w", portPath, err))
		}

		fmt.Printf("Port Information: %s\n\n", info.Name)
		fmt.Printf("  Type:        %s\n", info.Kind)
		fmt.Printf("  Description: %s\n", info.Description())

		if !info.IsUSB() {
			return
		}

		fmt.Println("\nUSB Device Information:")
		fmt.Printf("  Vendor ID:    %s\n", info.VendorID)
		fmt.Printf("  Product ID:   %s\n", info.ProductID)
		if info.SerialNumber != "" {
			fmt.Printf("  Serial:       %s\n", info.SerialNumber)
		}

		loc, err := printlink.LocateUSBDevice(info.Name)
		switch {
		case errors.Is(err, printlink.ErrUSBInfoNotAvailable):
			log.Debug("USB location not available", "port", info.Name, "error", err)
			return
		case err != nil:
			fmt.Printf("  %s\n", mutedStyle.Render(err.Error()))
			return
		}
		fmt.Printf("  Bus/Device:   %s\n", loc)
		if loc.Manufacturer != "" {
			fmt.Printf("  Manufacturer: %s\n", loc.Manufacturer)
		}
		if loc.Product != "" {
			fmt.Printf("  Product:      %s\n", loc.Product)
		}
	},
}

func init() {
	rootCmd.AddCommand(infoCmd)
}
