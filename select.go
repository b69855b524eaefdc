package vidcapinv

import (
	"fmt"

	"github.com/obinnaokechukwu/vidcapinv/internal/backend"
	"github.com/obinnaokechukwu/vidcapinv/internal/native"
	"github.com/obinnaokechukwu/vidcapinv/internal/platform"
	"github.com/obinnaokechukwu/vidcapinv/internal/v4l2"
)

// selectBackend resolves the platform and returns the backend for it. An
// unrecognized platform fails before any backend is touched.
func (iv *Inventorier) selectBackend() (backend.Backend, error) {
	name := iv.opts.detect()
	family := platform.FamilyOf(name)
	if family == platform.FamilyUnknown {
		return nil, &UnsupportedPlatformError{Platform: name}
	}

	if iv.opts.backend != nil {
		return iv.opts.backend, nil
	}

	switch family {
	case platform.FamilyWindows:
		switch iv.opts.preference {
		case BackendAuto, BackendNative:
			return iv.openNative(backend.KindWindowsNative)
		default:
			return nil, fmt.Errorf("%w: %q is not available on %s", ErrUnknownBackend, iv.opts.preference, family)
		}
	case platform.FamilyLinux:
		switch iv.opts.preference {
		case BackendAuto, BackendV4L2:
			return v4l2.New(v4l2.Config{
				DeviceDir:   iv.opts.deviceDir,
				Concurrency: iv.opts.probeConcurrency,
			}), nil
		case BackendNative:
			return iv.openNative(backend.KindLinuxNative)
		default:
			return nil, fmt.Errorf("%w: %q", ErrUnknownBackend, iv.opts.preference)
		}
	}
	return nil, &UnsupportedPlatformError{Platform: name}
}

func (iv *Inventorier) openNative(kind backend.Kind) (backend.Backend, error) {
	be, err := native.Open(native.Config{
		Kind:        kind,
		LibraryPath: iv.opts.libraryPath,
	})
	if err != nil {
		return nil, fmt.Errorf("vidcapinv: %s backend: %w", kind, err)
	}
	return be, nil
}
