package vidcapinv

import (
	"errors"
	"fmt"
	"strings"

	"github.com/obinnaokechukwu/vidcapinv/internal/backend"
	"github.com/obinnaokechukwu/vidcapinv/internal/native"
	"github.com/obinnaokechukwu/vidcapinv/internal/platform"
)

// Common errors
var (
	// ErrUnsupportedPlatform indicates no backend exists for the running platform.
	ErrUnsupportedPlatform = errors.New("vidcapinv: unsupported platform")

	// ErrBackendFailure indicates the backend returned a non-zero status code.
	ErrBackendFailure = errors.New("vidcapinv: backend failure")

	// ErrProtocolViolation indicates a broken backend: a format was reported
	// before any device, or a report arrived after population finished.
	ErrProtocolViolation = errors.New("vidcapinv: backend protocol violation")

	// ErrLibraryNotFound indicates the vidcapinv native library could not be found.
	ErrLibraryNotFound = native.ErrLibraryNotFound

	// ErrUnknownBackend indicates a backend preference that is not auto, v4l2 or native.
	ErrUnknownBackend = errors.New("vidcapinv: unknown backend")
)

// windowsErrorReference documents HRESULT values.
const windowsErrorReference = "https://docs.microsoft.com/en-us/openspecs/windows_protocols/ms-erref/18d8fbe8-a967-4f1c-ae50-99ca8e491d2d"

// UnsupportedPlatformError is returned when the platform identifier does not
// match a known family. It matches ErrUnsupportedPlatform with errors.Is.
type UnsupportedPlatformError struct {
	Platform string
}

func (e *UnsupportedPlatformError) Error() string {
	return fmt.Sprintf("vidcapinv: not implemented for %q", e.Platform)
}

// Is reports whether target is ErrUnsupportedPlatform.
func (e *UnsupportedPlatformError) Is(target error) bool {
	return target == ErrUnsupportedPlatform
}

// BackendError is returned when a population pass ends with a non-zero
// status code. Message is a diagnostic built for the backend's platform.
type BackendError struct {
	Code    int32
	Backend backend.Kind
	Message string
}

func (e *BackendError) Error() string {
	return "vidcapinv: " + e.Message
}

// Is reports whether target is ErrBackendFailure.
func (e *BackendError) Is(target error) bool {
	return target == ErrBackendFailure
}

// ProtocolViolationError is returned when a backend breaks the reporting
// protocol. It indicates a defect in the backend, not a runtime condition.
type ProtocolViolationError struct {
	Op     string
	Reason string
}

func (e *ProtocolViolationError) Error() string {
	return fmt.Sprintf("vidcapinv: backend protocol violation in %s: %s", e.Op, e.Reason)
}

// Is reports whether target is ErrProtocolViolation.
func (e *ProtocolViolationError) Is(target error) bool {
	return target == ErrProtocolViolation
}

// ErrorCode returns the backend status code carried by err, or 0 if err is
// not a backend failure.
func ErrorCode(err error) int32 {
	var be *BackendError
	if errors.As(err, &be) {
		return be.Code
	}
	return 0
}

// formatError builds the diagnostic for a failed population pass. It never
// fails: if the lookup errors or has nothing to say, the bare code is used.
func formatError(kind backend.Kind, code int32, lookup backend.ErrorTextLookup) string {
	switch kind.Family() {
	case platform.FamilyWindows:
		return fmt.Sprintf("Native DLL returned Windows error code while getting video capture devices: 0x%08X."+
			" Refer to %s", uint32(code), windowsErrorReference)
	default:
		msg := fmt.Sprintf("Native shared library returned error code while getting video capture devices: %d", code)
		if text := lookupText(lookup, code); text != "" {
			msg += " : " + text
		}
		return msg
	}
}

func lookupText(lookup backend.ErrorTextLookup, code int32) (text string) {
	if lookup == nil {
		return ""
	}
	// The lookup may call into native code; a panic there must not escape.
	defer func() {
		if recover() != nil {
			text = ""
		}
	}()
	s, err := lookup.ErrorText(code)
	if err != nil {
		return ""
	}
	return strings.TrimSpace(s)
}
