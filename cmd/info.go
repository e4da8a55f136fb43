/*
Copyright © 2025 Mathias Djärv <mathias.djarv@allbinary.se>
*/
package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/allbin/tempscope"
)

// infoCmd represents the info command
var infoCmd = &cobra.Command{
	Use:   "info",
	Short: "Display USB details of the temperature sensor",
	Long: `Locate the temperature sensor and display its port and USB metadata
from sysfs: vendor/product ids, serial number, interface, bus and device
numbers.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		desc, err := locateSensor(io.Discard)
		if err != nil {
			return err
		}

		info, err := tempscope.GetPortInfo(desc.Name)
		if err != nil {
			return fmt.Errorf("error getting port info: %w", err)
		}

		printPortInfo(os.Stdout, info)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(infoCmd)
}

func printPortInfo(w io.Writer, info *tempscope.PortInfo) {
	fmt.Fprintf(w, "Port Information: %s\n\n", info.Path)
	fmt.Fprintf(w, "  Name:        %s\n", info.Name)
	fmt.Fprintf(w, "  Description: %s\n", info.Description)
	fmt.Fprintf(w, "  Hardware ID: %s\n", info.HardwareID())

	if !info.IsUSB() {
		return
	}

	fmt.Fprintln(w, "\nUSB Device Information:")
	fields := []struct{ label, value string }{
		{"Vendor ID", info.VendorID},
		{"Product ID", info.ProductID},
		{"Serial", info.SerialNumber},
		{"Interface", info.InterfaceNumber},
		{"Location", info.Location},
		{"Bus", info.BusNumber},
		{"Device", info.DeviceNumber},
		{"Manufacturer", info.Manufacturer},
		{"Product", info.Product},
	}
	for _, f := range fields {
		if f.value != "" {
			fmt.Fprintf(w, "  %-13s %s\n", f.label+":", f.value)
		}
	}
}
