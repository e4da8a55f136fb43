package tempscope

import "errors"

// Predefined error types for robust error handling
var (
	ErrDeviceNotFound   = errors.New("sensor device not found")
	ErrPortNotFound     = errors.New("serial port does not exist")
	ErrPortOpenFailure  = errors.New("failed to open serial port")
	ErrPermissionDenied = errors.New("permission denied accessing serial device")
	ErrDeviceInUse      = errors.New("serial device already in use")
	ErrInvalidBaudRate  = errors.New("invalid baud rate")
	ErrInvalidConfig    = errors.New("invalid serial configuration")
	ErrPortClosed       = errors.New("serial port is closed")
	ErrReadTimeout      = errors.New("read operation timed out")

	// Sample errors
	ErrParseFailure = errors.New("line is not a valid temperature sample")

	// Render loop errors
	ErrLoopState = errors.New("render loop is not in a valid state for this operation")

	// USB-related errors
	ErrUSBInfoNotAvailable  = errors.New("USB device information not available")
	ErrUSBResetNotAvailable = errors.New("usbreset utility not available")
)
