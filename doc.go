// Package tempscope reads temperature samples from a USB serial sensor and
// keeps the most recent ones in a sliding window for live display.
//
// The sensor is a microcontroller enumerating as VID 0xF055 / PID 0x0012 that
// prints one decimal temperature per line at 115200 baud.
//
// # Discovery
//
// A Locator walks the attached serial ports and returns the first whose
// hardware id contains "VID:PID=F055:0012" (case-insensitive):
//
//	loc := tempscope.NewLocator(tempscope.SysfsEnumerator{}, os.Stdout, logger)
//	desc, err := loc.Locate(tempscope.SensorID)
//	if errors.Is(err, tempscope.ErrDeviceNotFound) {
//	    // not plugged in
//	}
//
// # Reading
//
// A Source owns the connection. Close is safe on every path, including
// when Open failed:
//
//	src := tempscope.NewSource(nil, logger)
//	defer src.Close()
//	if err := src.Open(desc); err != nil {
//	    return err // wraps ErrPortOpenFailure
//	}
//
// # Render loop
//
// A Loop is ticked by an external timer every TickInterval. Each tick makes at
// most one read attempt; accepted samples go into a Window and the updated
// Frame is pushed to a Surface:
//
//	loop := tempscope.NewLoop(src, tempscope.NewWindow(tempscope.WindowCapacity), nil, logger)
//	loop.Arm(surface)
//	for range time.Tick(tempscope.TickInterval) {
//	    loop.Tick()
//	}
//
// # Platform Support
//
// The termios port layer and sysfs discovery are Linux-only.
// DetailedEnumerator uses go.bug.st/serial's enumerator instead of sysfs.
package tempscope
