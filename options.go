package vidcapinv

import (
	"github.com/rs/zerolog"

	"github.com/obinnaokechukwu/vidcapinv/internal/backend"
	"github.com/obinnaokechukwu/vidcapinv/internal/platform"
)

// Backend preferences accepted by WithBackendPreference.
const (
	BackendAuto   = "auto"
	BackendV4L2   = "v4l2"
	BackendNative = "native"
)

// Option configures an Inventorier.
type Option func(*options)

type options struct {
	detect           func() string
	backend          backend.Backend
	preference       string
	libraryPath      string
	deviceDir        string
	probeConcurrency int
	logger           zerolog.Logger
}

func buildOptions(opts []Option) options {
	o := options{
		detect:     platform.Detect,
		preference: BackendAuto,
		logger:     zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// WithPlatform overrides platform detection with a fixed identifier such as
// "linux" or "Windows 10".
func WithPlatform(name string) Option {
	return func(o *options) {
		o.detect = func() string { return name }
	}
}

// WithPlatformDetector replaces the platform detection function. It is
// called once per inventory request.
func WithPlatformDetector(detect func() string) Option {
	return func(o *options) {
		if detect != nil {
			o.detect = detect
		}
	}
}

// WithBackend uses be instead of the platform's default backend. Platform
// detection still runs and an unsupported platform is still an error.
func WithBackend(be backend.Backend) Option {
	return func(o *options) {
		o.backend = be
	}
}

// WithBackendPreference selects the Linux backend: BackendAuto and
// BackendV4L2 query device nodes directly, BackendNative uses the vidcapinv
// shared library. Windows always uses the native library.
func WithBackendPreference(pref string) Option {
	return func(o *options) {
		if pref != "" {
			o.preference = pref
		}
	}
}

// WithLibraryPath adds dir to the front of the native library search path.
func WithLibraryPath(dir string) Option {
	return func(o *options) {
		o.libraryPath = dir
	}
}

// WithDeviceDir sets the directory scanned for video device nodes. Defaults
// to /dev.
func WithDeviceDir(dir string) Option {
	return func(o *options) {
		o.deviceDir = dir
	}
}

// WithProbeConcurrency limits how many device nodes are probed at once.
func WithProbeConcurrency(n int) Option {
	return func(o *options) {
		o.probeConcurrency = n
	}
}

// WithLogger sets the logger. The default discards everything.
func WithLogger(l zerolog.Logger) Option {
	return func(o *options) {
		o.logger = l
	}
}
