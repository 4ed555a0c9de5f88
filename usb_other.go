//go:build !linux

package printlink

// LocateUSBDevice is only implemented on Linux.
func LocateUSBDevice(portName string) (USBLocation, error) {
	return USBLocation{}, ErrUSBInfoNotAvailable
}

// ResetUSBDevice is only implemented on Linux.
func ResetUSBDevice(portName string) error {
	return ErrUSBResetNotAvailable
}
