package tempscope

import (
	"fmt"
	"io"
	"strings"

	"go.bug.st/serial/enumerator"
	"go.uber.org/zap"
)

// DeviceIdentifier is a USB vendor/product id pair
type DeviceIdentifier struct {
	VendorID  uint16
	ProductID uint16
}

// SensorID identifies the temperature sensor firmware
var SensorID = DeviceIdentifier{VendorID: 0xF055, ProductID: 0x0012}

// Pattern returns the substring searched for in hardware id strings
func (id DeviceIdentifier) Pattern() string {
	return fmt.Sprintf("VID:PID=%04X:%04X", id.VendorID, id.ProductID)
}

func (id DeviceIdentifier) String() string {
	return fmt.Sprintf("VID:0x%04x PID:0x%04x", id.VendorID, id.ProductID)
}

// PortDescriptor is one enumerated serial device
type PortDescriptor struct {
	Name        string // device path, e.g. /dev/ttyACM0
	HardwareID  string
	Description string
}

// Enumerator lists the serial devices currently attached
type Enumerator interface {
	Enumerate() ([]PortDescriptor, error)
}

// SysfsEnumerator enumerates /dev and reads USB metadata from sysfs
type SysfsEnumerator struct{}

// Enumerate implements Enumerator
func (SysfsEnumerator) Enumerate() ([]PortDescriptor, error) {
	paths, err := ListPorts()
	if err != nil {
		return nil, fmt.Errorf("failed to list serial ports: %w", err)
	}

	ports := make([]PortDescriptor, 0, len(paths))
	for _, path := range paths {
		info, err := GetPortInfo(path)
		if err != nil {
			// Vanished between listing and stat
			continue
		}
		ports = append(ports, PortDescriptor{
			Name:        info.Path,
			HardwareID:  info.HardwareID(),
			Description: portDescription(info),
		})
	}
	return ports, nil
}

func portDescription(info *PortInfo) string {
	if info.Product != "" {
		return info.Product
	}
	return info.Description
}

// DetailedEnumerator enumerates through go.bug.st/serial's platform enumerator
type DetailedEnumerator struct{}

// Enumerate implements Enumerator
func (DetailedEnumerator) Enumerate() ([]PortDescriptor, error) {
	details, err := enumerator.GetDetailedPortsList()
	if err != nil {
		return nil, fmt.Errorf("failed to list serial ports: %w", err)
	}

	ports := make([]PortDescriptor, 0, len(details))
	for _, d := range details {
		desc := PortDescriptor{
			Name:        d.Name,
			HardwareID:  "n/a",
			Description: "Serial Port",
		}
		if d.IsUSB {
			desc.HardwareID = formatUSBHardwareID(d.VID, d.PID, d.SerialNumber, "")
			desc.Description = "USB Serial Device"
		}
		ports = append(ports, desc)
	}
	return ports, nil
}

// Locator picks the first enumerated device whose hardware id carries a target VID:PID
type Locator struct {
	enumerator Enumerator
	trace      io.Writer
	logger     *zap.Logger
}

// NewLocator creates a locator. Every port considered is written to trace.
func NewLocator(e Enumerator, trace io.Writer, logger *zap.Logger) *Locator {
	if trace == nil {
		trace = io.Discard
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Locator{enumerator: e, trace: trace, logger: logger}
}

// Locate returns the first port matching target. The match is a
// case-insensitive substring test of target.Pattern() against the hardware
// id. Enumeration order decides between several matches.
func (l *Locator) Locate(target DeviceIdentifier) (PortDescriptor, error) {
	fmt.Fprintln(l.trace, "Searching for serial ports...")

	ports, err := l.enumerator.Enumerate()
	if err != nil {
		return PortDescriptor{}, err
	}

	pattern := strings.ToUpper(target.Pattern())
	for _, p := range ports {
		fmt.Fprintf(l.trace, "  - Found port: %s, desc: %s, hwid: %s\n", p.Name, p.Description, p.HardwareID)
		l.logger.Debug("Considering serial port",
			zap.String("port", p.Name),
			zap.String("description", p.Description),
			zap.String("hwid", p.HardwareID),
		)

		if strings.Contains(strings.ToUpper(p.HardwareID), pattern) {
			l.logger.Info("Sensor located", zap.String("port", p.Name), zap.Stringer("target", target))
			return p, nil
		}
	}

	return PortDescriptor{}, fmt.Errorf("%w: %s", ErrDeviceNotFound, target)
}
