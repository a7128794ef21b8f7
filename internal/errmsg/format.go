// Package errmsg provides consistent error formatting for user-facing messages.
package errmsg

import "fmt"

// Op represents an operation that can fail.
type Op string

// Operation constants - grouped by domain.
const (
	// Device operations
	OpDeviceCreate Op = "create playback device"
	OpDevicePlay   Op = "play media"
	OpDevicePause  Op = "pause media"
	OpDeviceSeek   Op = "seek media"
	OpDeviceStop   Op = "stop media"
	OpDeviceClose  Op = "close playback device"

	// Journal operations
	OpJournalOpen   Op = "open event journal"
	OpJournalRecord Op = "record playback event"
	OpJournalLoad   Op = "load event journal"

	// Integration
	OpMPRISStart Op = "start MPRIS adapter"

	// Initialization
	OpConfigLoad Op = "load configuration"
	OpLogSetup   Op = "set up logging"
	OpInitialize Op = "initialize application"
)

// Format creates a user-friendly error message.
func Format(op Op, err error) string {
	if err == nil {
		return ""
	}
	return fmt.Sprintf("Failed to %s: %v", op, err)
}

// FormatWith creates an error message with additional context.
func FormatWith(op Op, context string, err error) string {
	if err == nil {
		return ""
	}
	if context == "" {
		return Format(op, err)
	}
	return fmt.Sprintf("Failed to %s '%s': %v", op, context, err)
}

// DeviceError formats a native device failure. An empty message falls
// back to the numeric code.
func DeviceError(code int, message string) string {
	if message == "" {
		return fmt.Sprintf("Media element error code: %d", code)
	}
	if code == 0 {
		return fmt.Sprintf("Media element error: %s", message)
	}
	return fmt.Sprintf("Media element error code %d: %s", code, message)
}
