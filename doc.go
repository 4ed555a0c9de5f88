// Package printlink connects to a 3D printer on a USB serial port and
// exchanges G-code with it one acknowledged command at a time.
//
// # Basic Usage
//
// Create a session, point it at a port and start it:
//
//	session, err := printlink.NewSession(
//	    printlink.WithBaudRate(115200),
//	    printlink.WithCommandTimeout(30*time.Second),
//	)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	session.Configure("/dev/ttyACM0")
//	if err := session.Start(ctx); err != nil {
//	    log.Fatal(err)
//	}
//	defer session.Stop()
//
//	if err := session.SendCommand(ctx, "G28"); err != nil {
//	    log.Printf("home failed: %v", err)
//	}
//
// SendCommand writes the command with a newline and waits for the printer to
// answer "ok". Lines containing an error marker such as "Error:" fail the
// command with ErrDeviceFault; no decisive line within the command timeout
// fails it with ErrTimeout. Commands from concurrent callers are sent one at
// a time.
//
// # Port Discovery
//
// ListCandidatePorts returns the USB serial ports a printer may be attached
// to. On macOS each device appears as tty.* and cu.*; only the tty.* entry is
// returned.
//
//	ports, err := printlink.ListCandidatePorts()
//	for _, p := range ports {
//	    fmt.Println(p.Name, p.VendorID, p.ProductID, p.Description())
//	}
//
// # Session States
//
// A session moves between DISCONNECTED, CONNECTING, READY, PRINTING and
// ERROR. Register a StateChangeHandler to observe transitions and a
// LineHandler to receive every line the printer sends, including
// temperature reports and echo messages:
//
//	session.AddStateHandler(func(prev, next printlink.State) {
//	    fmt.Printf("%s -> %s\n", prev, next)
//	})
//	session.AddLineHandler(func(line string) {
//	    fmt.Print(line)
//	})
//
// A write or read failure closes the port and moves the session to ERROR.
// Timeouts and printer errors leave the session READY.
//
// # Supervision
//
// A Supervisor keeps a session connected, retrying at a fixed interval:
//
//	sup := printlink.NewSupervisor(session,
//	    printlink.WithRetryInterval(10*time.Second),
//	    printlink.WithConnectHook(func(ctx context.Context, a printlink.Adapter) error {
//	        return a.SendCommand(ctx, "G28")
//	    }),
//	)
//	go sup.Run(ctx)
//
// # Error Handling
//
// Every session error is an *AdapterError carrying one of the Err* kinds:
//
//	err := session.SendCommand(ctx, "G29")
//	switch {
//	case printlink.IsTimeout(err):
//	    // no acknowledgment, the printer may still be busy
//	case errors.Is(err, printlink.ErrDeviceFault):
//	    // the printer rejected the command
//	case printlink.IsConnectionLost(err):
//	    // restart the session
//	}
//
// # USB Reset
//
// On Linux a hung printer can be reset at the USB level without unplugging
// it. This needs write access to /dev/bus/usb:
//
//	err := printlink.ResetUSBDevice("/dev/ttyACM0")
//	err = printlink.ResetUSBDeviceBySerial("CZPX1419X004XK51384")
package printlink
