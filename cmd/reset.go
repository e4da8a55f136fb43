/*
Copyright © 2025 Mathias Djärv <mathias.djarv@allbinary.se>
*/
package cmd

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/allbin/tempscope"
	"github.com/allbin/tempscope/internal/app"
	"github.com/allbin/tempscope/internal/config"
)

// resetCmd represents the reset command
var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "USB-reset the temperature sensor",
	Long: `Locate the temperature sensor and perform a USB-level reset on it. This can
recover a sensor whose firmware stopped printing samples without physically
unplugging it.

The device re-enumerates after the reset, so its port path may change.

Requirements:
- usbreset utility must be installed (from usbutils package)
- Root/sudo permissions required for USB operations

Example:
  sudo tempscope reset`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if !tempscope.IsUSBResetAvailable() {
			fmt.Fprintln(os.Stderr, "Install with: sudo apt-get install usbutils")
			return tempscope.ErrUSBResetNotAvailable
		}

		desc, err := locateSensor(os.Stdout)
		if err != nil {
			return err
		}

		fmt.Printf("Resetting USB device: %s\n", desc.Name)
		if err := tempscope.ResetUSBDevice(desc.Name); err != nil {
			if errors.Is(err, tempscope.ErrUSBInfoNotAvailable) {
				fmt.Fprintln(os.Stderr, "This device does not appear to be a USB device")
			}
			return err
		}

		fmt.Println("USB device reset successfully")
		fmt.Println("Device will re-enumerate (port path may change)")
		fmt.Println("\nUse 'tempscope list' to see the updated device list")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(resetCmd)
}

// locateSensor runs discovery with the configured enumerator, tracing to trace
func locateSensor(trace io.Writer) (tempscope.PortDescriptor, error) {
	cfg, err := config.Load()
	if err != nil {
		return tempscope.PortDescriptor{}, err
	}
	locator := tempscope.NewLocator(app.EnumeratorFor(cfg.Discovery.Enumerator), trace, nil)
	return locator.Locate(tempscope.SensorID)
}
