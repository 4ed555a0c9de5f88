package printlink

import (
	"fmt"
	"strconv"
)

// USBLocation identifies the USB device behind a serial port
type USBLocation struct {
	Bus          int
	Device       int
	VendorID     string
	ProductID    string
	SerialNumber string
	Manufacturer string
	Product      string
}

// String returns the location in the BBB/DDD form used by usbfs and lsusb
func (l USBLocation) String() string {
	return fmt.Sprintf("%03d/%03d", l.Bus, l.Device)
}

// ResetUSBDeviceBySerial resets the printer whose USB serial number matches.
// Useful when device paths change after a reset or reboot.
func ResetUSBDeviceBySerial(serialNumber string) error {
	ports, err := ListCandidatePorts()
	if err != nil {
		return err
	}

	for _, p := range ports {
		if p.SerialNumber == serialNumber {
			return ResetUSBDevice(p.Name)
		}
	}

	return fmt.Errorf("device with serial %s not found: %w", serialNumber, ErrDeviceNotFound)
}

func parseUSBNumber(s string) (int, error) {
	n, err := strconv.Atoi(s)
	if err != nil || n <= 0 || n > 999 {
		return 0, ErrUSBInfoNotAvailable
	}
	return n, nil
}
