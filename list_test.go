package printlink

import (
	"errors"
	"testing"

	"go.bug.st/serial/enumerator"
)

func stubEnumerator(t *testing.T, ports []*enumerator.PortDetails, err error) {
	t.Helper()
	orig := enumeratePorts
	enumeratePorts = func() ([]*enumerator.PortDetails, error) { return ports, err }
	t.Cleanup(func() { enumeratePorts = orig })
}

func TestListCandidatePorts(t *testing.T) {
	stubEnumerator(t, []*enumerator.PortDetails{
		{Name: "/dev/cu.usbmodem1101", IsUSB: true, VID: "2341", PID: "0043"},
		{Name: "/dev/tty.usbmodem1101", IsUSB: true, VID: "2341", PID: "0043", SerialNumber: "8573"},
		{Name: "/dev/tty.Bluetooth-Incoming-Port"},
		{Name: "/dev/ttyS0"},
		nil,
		{Name: "/dev/ttyACM0", IsUSB: true, VID: "1d50", PID: "614e", Product: "Marlin USB Device"},
	}, nil)

	ports, err := ListCandidatePorts()
	if err != nil {
		t.Fatalf("ListCandidatePorts failed: %v", err)
	}

	want := []string{"/dev/tty.usbmodem1101", "/dev/ttyACM0"}
	if len(ports) != len(want) {
		t.Fatalf("got %d ports %v, want %v", len(ports), ports, want)
	}
	for i, name := range want {
		if ports[i].Name != name {
			t.Errorf("ports[%d] = %s, want %s", i, ports[i].Name, name)
		}
		if !ports[i].IsUSB() {
			t.Errorf("ports[%d] is not USB", i)
		}
	}
	if ports[0].SerialNumber != "8573" {
		t.Errorf("SerialNumber = %q, want %q", ports[0].SerialNumber, "8573")
	}
	if ports[1].Description() != "Marlin USB Device" {
		t.Errorf("Description() = %q, want product name", ports[1].Description())
	}
}

func TestListCandidatePortsNoUSB(t *testing.T) {
	stubEnumerator(t, []*enumerator.PortDetails{{Name: "COM1"}}, nil)

	ports, err := ListCandidatePorts()
	if err != nil {
		t.Fatalf("ListCandidatePorts failed: %v", err)
	}
	if len(ports) != 0 {
		t.Errorf("got %v, want no ports", ports)
	}

	all, err := ListAllPorts()
	if err != nil {
		t.Fatalf("ListAllPorts failed: %v", err)
	}
	if len(all) != 1 || all[0].Kind != TransportOther {
		t.Errorf("ListAllPorts() = %v, want COM1 as other", all)
	}
}

func TestListCandidatePortsEnumeratorFailure(t *testing.T) {
	cause := errors.New("ioreg: permission denied")
	stubEnumerator(t, nil, cause)

	_, err := ListCandidatePorts()
	if !errors.Is(err, ErrDiscoveryFailed) {
		t.Errorf("error = %v, want ErrDiscoveryFailed", err)
	}
	if !errors.Is(err, cause) {
		t.Errorf("error = %v, want cause preserved", err)
	}
}

func TestIsCalloutAlias(t *testing.T) {
	tests := []struct {
		name     string
		expected bool
	}{
		{"/dev/cu.usbserial-1420", true},
		{"cu.usbmodem1", true},
		{"/dev/tty.usbserial-1420", false},
		{"/dev/ttyACM0", false},
		{"/dev/serial/by-id/usb-Prusa_cu.1-if00", false},
		{"COM3", false},
	}

	for _, test := range tests {
		if got := isCalloutAlias(test.name); got != test.expected {
			t.Errorf("isCalloutAlias(%s) = %v, expected %v", test.name, got, test.expected)
		}
	}
}

func TestIsCharacterDevice(t *testing.T) {
	tests := []struct {
		path     string
		expected bool
	}{
		{"/dev/null", true},
		{"/dev/zero", true},
		{"/tmp", false},
		{"/nonexistent", false},
	}

	for _, test := range tests {
		result := isCharacterDevice(test.path)
		if result != test.expected {
			t.Errorf("isCharacterDevice(%s) = %v, expected %v", test.path, result, test.expected)
		}
	}
}

func TestGetPortDescription(t *testing.T) {
	tests := []struct {
		name     string
		expected string
	}{
		{"ttyUSB0", "USB Serial Port"},
		{"ttyACM0", "USB CDC/ACM Device"},
		{"tty.usbmodem1101", "USB Modem"},
		{"tty.usbserial-1420", "USB Serial Port"},
		{"ttyS0", "Standard Serial Port"},
		{"ttyAMA0", "ARM Serial Port"},
		{"COM3", "Windows COM Port"},
		{"unknown", "Serial Port"},
	}

	for _, test := range tests {
		result := getPortDescription(test.name)
		if result != test.expected {
			t.Errorf("getPortDescription(%s) = %s, expected %s", test.name, result, test.expected)
		}
	}
}

func TestLookupPort(t *testing.T) {
	stubEnumerator(t, []*enumerator.PortDetails{
		{Name: "/dev/ttyACM0", IsUSB: true, VID: "1d50", PID: "614e"},
	}, nil)

	info, err := LookupPort("/dev/ttyACM0")
	if err != nil {
		t.Fatalf("LookupPort failed: %v", err)
	}
	if info.VendorID != "1d50" {
		t.Errorf("VendorID = %q, want 1d50", info.VendorID)
	}

	// /dev/null is a character device the enumerator does not know
	info, err = LookupPort("/dev/null")
	if err != nil {
		t.Fatalf("LookupPort failed for /dev/null: %v", err)
	}
	if info.Kind != TransportOther {
		t.Errorf("Kind = %v, want other", info.Kind)
	}

	_, err = LookupPort("/dev/nonexistent")
	if !errors.Is(err, ErrDeviceNotFound) {
		t.Errorf("Expected ErrDeviceNotFound, got %v", err)
	}
}
