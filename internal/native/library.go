//go:build (linux || windows) && (amd64 || arm64)

package native

import (
	"fmt"
	"sync"

	"github.com/ebitengine/purego"

	"github.com/obinnaokechukwu/vidcapinv/internal/backend"
)

// library holds the bound entry points of a loaded vidcapinv library.
type library struct {
	handle uintptr

	populateFn     func(ctx, addDevice, addDiscrete, addStepwise uintptr) int32
	errorMessageFn func(code int32) string // nil when not exported
}

// Loaded libraries stay loaded for the life of the process.
var (
	libMu sync.Mutex
	libs  = make(map[string]*library)
)

// Callbacks are created once and shared by every population pass; purego
// can only create a limited number of them per process.
var (
	callbacksOnce sync.Once
	addDeviceCB   uintptr
	addDiscreteCB uintptr
	addStepwiseCB uintptr
)

func initCallbacks() {
	callbacksOnce.Do(func() {
		// int32_t add_device(void *ctx, int32_t id, const char *name)
		addDeviceCB = purego.NewCallback(func(_ purego.CDecl, ctx, id uintptr, name *byte) uintptr {
			return dispatchAddDevice(ctx, int32(id), goString(name))
		})

		// int32_t add_discrete(void *ctx, int32_t width, int32_t height)
		addDiscreteCB = purego.NewCallback(func(_ purego.CDecl, ctx, width, height uintptr) uintptr {
			return dispatchAddDiscrete(ctx, int32(width), int32(height))
		})

		// int32_t add_stepwise(void *ctx, const vidcapinv_stepwise *s)
		addStepwiseCB = purego.NewCallback(func(_ purego.CDecl, ctx uintptr, s *stepwiseABI) uintptr {
			return dispatchAddStepwise(ctx, s)
		})
	})
}

// Open loads the vidcapinv library for cfg.Kind. Libraries are cached, so
// repeated calls with the same configuration are cheap.
func Open(cfg Config) (*Backend, error) {
	switch cfg.Kind {
	case backend.KindWindowsNative, backend.KindLinuxNative:
	default:
		return nil, fmt.Errorf("vidcapinv: %s is not a native backend", cfg.Kind)
	}

	lib, err := loadLibrary(cfg)
	if err != nil {
		return nil, err
	}
	return &Backend{kind: cfg.Kind, lib: lib}, nil
}

func loadLibrary(cfg Config) (*library, error) {
	libMu.Lock()
	defer libMu.Unlock()

	key := cfg.Kind.String() + "|" + cfg.LibraryPath
	if lib, ok := libs[key]; ok {
		return lib, nil
	}

	var last error
	for _, path := range candidatePaths(cfg) {
		h, err := openLibrary(path)
		if err != nil {
			last = err
			continue
		}
		lib, err := bind(h)
		if err != nil {
			return nil, fmt.Errorf("vidcapinv: %s: %w", path, err)
		}
		libs[key] = lib
		return lib, nil
	}
	return nil, notFound(last)
}

// bind registers the library's entry points. vidcapinv_populate is
// required; vidcapinv_error_message is optional.
func bind(h uintptr) (*library, error) {
	lib := &library{handle: h}

	sym, err := lookupSymbol(h, symPopulate)
	if err != nil {
		return nil, fmt.Errorf("missing symbol %s: %w", symPopulate, err)
	}
	purego.RegisterFunc(&lib.populateFn, sym)

	if sym, err := lookupSymbol(h, symErrorMessage); err == nil && sym != 0 {
		purego.RegisterFunc(&lib.errorMessageFn, sym)
	}
	return lib, nil
}

func (l *library) populate(ctx uintptr) int32 {
	initCallbacks()
	return l.populateFn(ctx, addDeviceCB, addDiscreteCB, addStepwiseCB)
}

func (l *library) errorText(code int32) (string, error) {
	if l.errorMessageFn == nil {
		return "", errNoErrorText
	}
	s := l.errorMessageFn(code)
	if s == "" {
		return "", errNoErrorText
	}
	return s, nil
}
