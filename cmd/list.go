/*
Copyright © 2025 Mathias Djärv <mathias.djarv@allbinary.se>
*/
package cmd

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/evertras/bubble-table/table"
	"github.com/spf13/cobra"

	printlink "github.com/allbin/go-printlink"
)

// listCmd represents the list command
var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List serial ports a printer may be attached to",
	Long: `List the USB serial ports a printer may be attached to.

On macOS every USB device appears twice, as tty.* and cu.*; only the tty.*
entry is listed. Use --all to include non-USB ports and callout aliases.`,
	Args: cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		all, _ := cmd.Flags().GetBool("all")
		tableFormat, _ := cmd.Flags().GetBool("table")

		list := printlink.ListCandidatePorts
		if all {
			list = printlink.ListAllPorts
		}
		ports, err := list()
		if err != nil {
			exitWithError(err)
		}

		if len(ports) == 0 {
			fmt.Println("No printer ports found")
			return
		}

		if tableFormat {
			renderTable(ports)
		} else {
			renderSimple(ports)
		}
	},
}

func init() {
	rootCmd.AddCommand(listCmd)

	listCmd.Flags().BoolP("all", "a", false, "Include non-USB ports and callout aliases")
	listCmd.Flags().BoolP("table", "t", false, "Display output in a styled table format")
}

const (
	columnPort    = "port"
	columnKind    = "kind"
	columnID      = "id"
	columnSerial  = "serial"
	columnProduct = "product"
)

// renderTable renders the port list as a static table
func renderTable(ports []printlink.PortDescriptor) {
	fmt.Printf("Found %d port(s):\n\n", len(ports))

	headerStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("99"))
	columns := []table.Column{
		table.NewColumn(columnPort, "Port", 28).WithStyle(lipgloss.NewStyle().Align(lipgloss.Left)),
		table.NewColumn(columnKind, "Type", 6),
		table.NewColumn(columnID, "VID:PID", 10),
		table.NewColumn(columnSerial, "Serial", 18),
		table.NewColumn(columnProduct, "Description", 30).WithStyle(lipgloss.NewStyle().Align(lipgloss.Left)),
	}

	rows := make([]table.Row, 0, len(ports))
	for _, p := range ports {
		id := ""
		if p.IsUSB() {
			id = p.VendorID + ":" + p.ProductID
		}
		rows = append(rows, table.NewRow(table.RowData{
			columnPort:    p.Name,
			columnKind:    p.Kind.String(),
			columnID:      id,
			columnSerial:  p.SerialNumber,
			columnProduct: p.Description(),
		}))
	}

	t := table.New(columns).
		WithRows(rows).
		HeaderStyle(headerStyle).
		BorderRounded()
	fmt.Println(t.View())
}

// renderSimple prints one port per line
func renderSimple(ports []printlink.PortDescriptor) {
	for _, p := range ports {
		if p.IsUSB() {
			fmt.Printf("%s\t%s:%s\t%s\n", p.Name, p.VendorID, p.ProductID, p.Description())
		} else {
			fmt.Printf("%s\t\t%s\n", p.Name, p.Description())
		}
	}
}
