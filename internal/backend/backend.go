// Package backend defines the contract between the inventory core and the
// platform-specific code that queries the operating system for devices.
//
// A backend is invoked once per inventory request. It reports devices and
// their frame sizes, in the order they should appear, through a Reporter and
// returns a status code: StatusOK on success, otherwise a platform-defined
// code (an errno on Linux, an HRESULT on Windows).
package backend

import (
	"fmt"

	"github.com/obinnaokechukwu/vidcapinv/internal/platform"
)

// StatusOK is the status code for a successful population pass.
const StatusOK int32 = 0

// Kind tags the closed set of backend variants.
type Kind int

const (
	// KindWindowsNative drives the vidcapinv native DLL (Media Foundation + DirectShow).
	KindWindowsNative Kind = iota + 1
	// KindLinuxV4L2 queries Video4Linux2 device nodes directly.
	KindLinuxV4L2
	// KindLinuxNative drives the vidcapinv shared library on Linux.
	KindLinuxNative
)

// String returns a short name for the backend kind.
func (k Kind) String() string {
	switch k {
	case KindWindowsNative:
		return "windows-native"
	case KindLinuxV4L2:
		return "linux-v4l2"
	case KindLinuxNative:
		return "linux-native"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Family returns the platform family the backend serves.
func (k Kind) Family() platform.Family {
	switch k {
	case KindWindowsNative:
		return platform.FamilyWindows
	case KindLinuxV4L2, KindLinuxNative:
		return platform.FamilyLinux
	default:
		return platform.FamilyUnknown
	}
}

// Reporter receives the enumeration stream. Formats attach to the most
// recently added device. A non-nil error means the reporter rejected the
// call; the backend must stop reporting and return.
type Reporter interface {
	AddDevice(id int, name string) error
	AddDiscrete(width, height int) error
	AddStepwise(minWidth, maxWidth, stepWidth, minHeight, maxHeight, stepHeight int) error
}

// Backend performs one enumeration pass.
type Backend interface {
	Kind() Kind
	Populate(r Reporter) int32
}

// ErrorTextLookup is implemented by backends that can describe their status
// codes. The lookup may fail, in which case callers fall back to the bare code.
type ErrorTextLookup interface {
	ErrorText(code int32) (string, error)
}
