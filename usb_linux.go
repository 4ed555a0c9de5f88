//go:build linux

package printlink

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"golang.org/x/sys/unix"
)

// usbdevfsReset is USBDEVFS_RESET, _IO('U', 20)
const usbdevfsReset = 0x5514

// replaced in tests
var (
	sysfsRoot   = "/sys"
	usbfsRoot   = "/dev/bus/usb"
	resetSettle = 2 * time.Second
)

// LocateUSBDevice reads the USB identity of a serial port from sysfs.
// Symlinks such as /dev/serial/by-id entries are resolved first.
func LocateUSBDevice(portName string) (USBLocation, error) {
	if resolved, err := filepath.EvalSymlinks(portName); err == nil {
		portName = resolved
	}
	name := filepath.Base(portName)

	devicePath, err := filepath.EvalSymlinks(filepath.Join(sysfsRoot, "class", "tty", name, "device"))
	if err != nil {
		return USBLocation{}, fmt.Errorf("%s: %w", name, ErrUSBInfoNotAvailable)
	}

	// ttyUSB links to a child of the interface, ttyACM to the interface
	// itself; the USB device directory is the first ancestor with busnum.
	dir := devicePath
	for i := 0; i < 4; i++ {
		if _, err := os.Stat(filepath.Join(dir, "busnum")); err == nil {
			return readUSBLocation(dir)
		}
		dir = filepath.Dir(dir)
	}

	return USBLocation{}, fmt.Errorf("%s: %w", name, ErrUSBInfoNotAvailable)
}

func readUSBLocation(dir string) (USBLocation, error) {
	bus, err := parseUSBNumber(readSysfsFile(filepath.Join(dir, "busnum")))
	if err != nil {
		return USBLocation{}, err
	}
	dev, err := parseUSBNumber(readSysfsFile(filepath.Join(dir, "devnum")))
	if err != nil {
		return USBLocation{}, err
	}

	return USBLocation{
		Bus:          bus,
		Device:       dev,
		VendorID:     readSysfsFile(filepath.Join(dir, "idVendor")),
		ProductID:    readSysfsFile(filepath.Join(dir, "idProduct")),
		SerialNumber: readSysfsFile(filepath.Join(dir, "serial")),
		Manufacturer: readSysfsFile(filepath.Join(dir, "manufacturer")),
		Product:      readSysfsFile(filepath.Join(dir, "product")),
	}, nil
}

// readSysfsFile returns the trimmed content of a sysfs attribute, or "" when
// it cannot be read.
func readSysfsFile(path string) string {
	data, err := os.ReadFile(path)
	if err != nil {
		return ""
	}
	return strings.TrimSpace(string(data))
}

// ResetUSBDevice performs a USB-level reset of the device behind portName.
// This can recover a printer whose USB bridge stopped responding. The port
// must be closed; after the reset the device re-enumerates and may come back
// under a different name.
//
// Requires write access to /dev/bus/usb (typically root or a udev rule).
func ResetUSBDevice(portName string) error {
	loc, err := LocateUSBDevice(portName)
	if err != nil {
		return err
	}

	f, err := os.OpenFile(filepath.Join(usbfsRoot, loc.String()), os.O_WRONLY, 0)
	if err != nil {
		if errors.Is(err, os.ErrPermission) {
			return fmt.Errorf("%s: %w", loc, ErrPermissionDenied)
		}
		return fmt.Errorf("open usb device %s: %w", loc, err)
	}
	defer f.Close()

	if err := unix.IoctlSetInt(int(f.Fd()), usbdevfsReset, 0); err != nil {
		if errors.Is(err, unix.EACCES) || errors.Is(err, unix.EPERM) {
			return fmt.Errorf("%s: %w", loc, ErrPermissionDenied)
		}
		return fmt.Errorf("usb reset %s: %w", loc, err)
	}

	// USB devices typically take 1-2 seconds to become available again
	time.Sleep(resetSettle)

	return nil
}
