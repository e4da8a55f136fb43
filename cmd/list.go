/*
Copyright © 2025 Mathias Djärv <mathias.djarv@allbinary.se>
*/
package cmd

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/allbin/tempscope"
	"github.com/allbin/tempscope/internal/app"
	"github.com/allbin/tempscope/internal/config"
)

// listCmd represents the list command
var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List serial ports and mark the temperature sensor",
	Long: `List the serial ports discovery sees, with their hardware ids.

The port the plotter would pick, the first whose hardware id contains
VID:PID=F055:0012, is marked with an arrow. Virtual terminals and
pseudo-terminals are excluded.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return err
		}

		ports, err := app.EnumeratorFor(cfg.Discovery.Enumerator).Enumerate()
		if err != nil {
			return fmt.Errorf("error listing ports: %w", err)
		}

		renderTable(os.Stdout, ports, tempscope.SensorID)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(listCmd)
}

// renderTable renders the port list in a styled static table format
func renderTable(w io.Writer, ports []tempscope.PortDescriptor, target tempscope.DeviceIdentifier) {
	if len(ports) == 0 {
		fmt.Fprintln(w, "No serial ports found")
		return
	}

	fmt.Fprintf(w, "Found %d serial port(s):\n\n", len(ports))

	// Define column widths
	portWidth := 15
	typeWidth := 16
	descWidth := 24

	headerStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("99")).
		Border(lipgloss.NormalBorder(), false, false, true, false).
		BorderForeground(lipgloss.Color("240"))

	cellStyle := lipgloss.NewStyle().
		PaddingRight(2)

	sensorStyle := cellStyle.
		Foreground(lipgloss.Color("42")).
		Bold(true)

	header := fmt.Sprintf("  %-*s %-*s %-*s %s",
		portWidth, "Port",
		typeWidth, "Type",
		descWidth, "Description",
		"Hardware ID")
	fmt.Fprintln(w, headerStyle.Render(header))

	pattern := strings.ToUpper(target.Pattern())
	found := false
	for _, p := range ports {
		marker := " "
		style := cellStyle
		// Same rule as discovery: first match wins
		if !found && strings.Contains(strings.ToUpper(p.HardwareID), pattern) {
			marker = "→"
			style = sensorStyle
			found = true
		}

		row := fmt.Sprintf("%s %-*s %-*s %-*s %s",
			marker,
			portWidth, p.Name,
			typeWidth, getPortType(p.Name),
			descWidth, p.Description,
			p.HardwareID)
		fmt.Fprintln(w, style.Render(row))
	}

	fmt.Fprintln(w)
	if found {
		fmt.Fprintf(w, "→ temperature sensor (%s)\n", target)
	} else {
		fmt.Fprintf(w, "No port matches %s\n", target)
	}
}

// getPortType returns a more specific type classification for the port
func getPortType(name string) string {
	name = strings.ToLower(name)
	name = name[strings.LastIndex(name, "/")+1:]
	switch {
	case strings.HasPrefix(name, "ttyusb"):
		return "USB Serial"
	case strings.HasPrefix(name, "ttyacm"):
		return "USB CDC/ACM"
	case strings.HasPrefix(name, "ttyama"):
		return "ARM Serial"
	case strings.HasPrefix(name, "ttymxc"):
		return "i.MX Serial"
	case strings.HasPrefix(name, "ttysac"):
		return "Samsung Serial"
	case strings.HasPrefix(name, "ttyths"):
		return "Tegra Serial"
	case strings.HasPrefix(name, "ttyo"):
		return "OMAP Serial"
	case strings.HasPrefix(name, "ttys"):
		return "Standard Serial"
	default:
		return "Serial Port"
	}
}
