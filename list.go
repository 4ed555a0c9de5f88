package printlink

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.bug.st/serial/enumerator"
)

// TransportKind classifies how a port is attached to the host
type TransportKind int

const (
	TransportOther TransportKind = iota
	TransportUSB
)

func (k TransportKind) String() string {
	if k == TransportUSB {
		return "usb"
	}
	return "other"
}

// PortDescriptor describes one serial port found on the host
type PortDescriptor struct {
	Name         string
	Kind         TransportKind
	VendorID     string
	ProductID    string
	SerialNumber string
	Product      string
}

// IsUSB reports whether the port is attached over USB
func (p PortDescriptor) IsUSB() bool {
	return p.Kind == TransportUSB
}

// Description returns a human-readable classification of the port
func (p PortDescriptor) Description() string {
	if p.Product != "" {
		return p.Product
	}
	return getPortDescription(filepath.Base(p.Name))
}

// DiscoverFunc lists the ports a session may connect to
type DiscoverFunc func() ([]PortDescriptor, error)

// calloutMarker prefixes the outbound alias macOS creates next to each
// dial-in device (cu.usbmodem1 beside tty.usbmodem1).
const calloutMarker = "cu."

// enumeratePorts is replaced in tests
var enumeratePorts = enumerator.GetDetailedPortsList

// ListCandidatePorts returns the USB serial ports a printer may be attached
// to, in host enumeration order, with callout aliases removed.
func ListCandidatePorts() ([]PortDescriptor, error) {
	all, err := ListAllPorts()
	if err != nil {
		return nil, err
	}
	return filterCandidates(all), nil
}

// ListAllPorts returns every serial port the host reports, unfiltered
func ListAllPorts() ([]PortDescriptor, error) {
	details, err := enumeratePorts()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDiscoveryFailed, err)
	}

	ports := make([]PortDescriptor, 0, len(details))
	for _, d := range details {
		if d == nil {
			continue
		}
		desc := PortDescriptor{Name: d.Name, Kind: TransportOther}
		if d.IsUSB {
			desc.Kind = TransportUSB
			desc.VendorID = d.VID
			desc.ProductID = d.PID
			desc.SerialNumber = d.SerialNumber
			desc.Product = d.Product
		}
		ports = append(ports, desc)
	}
	return ports, nil
}

func filterCandidates(ports []PortDescriptor) []PortDescriptor {
	out := make([]PortDescriptor, 0, len(ports))
	for _, p := range ports {
		if !p.IsUSB() || isCalloutAlias(p.Name) {
			continue
		}
		out = append(out, p)
	}
	return out
}

func isCalloutAlias(name string) bool {
	return strings.HasPrefix(filepath.Base(name), calloutMarker)
}

// LookupPort returns the descriptor of a single port. Symlinks such as
// /dev/serial/by-id entries are resolved before matching. A character device
// the enumerator does not report is returned as TransportOther.
func LookupPort(name string) (PortDescriptor, error) {
	ports, err := ListAllPorts()
	if err != nil {
		return PortDescriptor{}, err
	}
	if p, ok := findPort(ports, name); ok {
		return p, nil
	}
	if isCharacterDevice(name) {
		return PortDescriptor{Name: name, Kind: TransportOther}, nil
	}
	return PortDescriptor{}, ErrDeviceNotFound
}

// findPort matches name against ports directly or through its symlink target
func findPort(ports []PortDescriptor, name string) (PortDescriptor, bool) {
	resolved := name
	if r, err := filepath.EvalSymlinks(name); err == nil {
		resolved = r
	}
	for _, p := range ports {
		if p.Name == name || p.Name == resolved {
			return p, true
		}
	}
	return PortDescriptor{}, false
}

// isCharacterDevice checks if the given path is a character device
func isCharacterDevice(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return info.Mode()&os.ModeCharDevice != 0
}

// getPortDescription provides human-readable descriptions for different port types
func getPortDescription(name string) string {
	switch {
	case strings.HasPrefix(name, "ttyUSB"):
		return "USB Serial Port"
	case strings.HasPrefix(name, "ttyACM"):
		return "USB CDC/ACM Device"
	case strings.HasPrefix(name, "tty.usbmodem"), strings.HasPrefix(name, "cu.usbmodem"):
		return "USB Modem"
	case strings.HasPrefix(name, "tty.usbserial"), strings.HasPrefix(name, "cu.usbserial"):
		return "USB Serial Port"
	case strings.HasPrefix(name, "ttyAMA"):
		return "ARM Serial Port"
	case strings.HasPrefix(name, "ttyS"):
		return "Standard Serial Port"
	case strings.HasPrefix(name, "COM"):
		return "Windows COM Port"
	default:
		return "Serial Port"
	}
}
