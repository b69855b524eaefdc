// Package native drives the vidcapinv shared library, a small C ABI wrapper
// around the operating system's capture APIs (Media Foundation and
// DirectShow on Windows, V4L2 on Linux). The library is loaded with purego,
// so no cgo toolchain is needed.
//
// The library exports:
//
//	int32_t vidcapinv_populate(void *ctx,
//	        int32_t (*add_device)(void *ctx, int32_t id, const char *name),
//	        int32_t (*add_discrete)(void *ctx, int32_t width, int32_t height),
//	        int32_t (*add_stepwise)(void *ctx, const vidcapinv_stepwise *s));
//
//	/* optional */
//	const char *vidcapinv_error_message(int32_t code);
//
// Callbacks return 0 to continue and non-zero to ask the library to stop.
package native

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"unsafe"

	"github.com/obinnaokechukwu/vidcapinv/internal/backend"
	"github.com/obinnaokechukwu/vidcapinv/internal/handles"
	"github.com/obinnaokechukwu/vidcapinv/internal/platform"
)

// ErrLibraryNotFound is returned when the vidcapinv library cannot be found.
var ErrLibraryNotFound = errors.New("vidcapinv: native library not found")

// ErrUnsupported is returned on platforms where native libraries cannot be
// loaded without cgo.
var ErrUnsupported = errors.New("vidcapinv: native backend not supported on " + runtime.GOOS + "/" + runtime.GOARCH)

var errNoErrorText = errors.New("vidcapinv: library does not describe error codes")

// LibraryPathEnv names the environment variable holding an extra directory
// to search for the library.
const LibraryPathEnv = "VIDCAPINV_LIB_PATH"

// Symbol names exported by the library.
const (
	symPopulate     = "vidcapinv_populate"
	symErrorMessage = "vidcapinv_error_message"
)

// Callback return values.
const (
	callbackContinue uintptr = 0
	callbackAbort    uintptr = 1
)

// Config selects and locates the library.
type Config struct {
	// Kind is KindWindowsNative or KindLinuxNative.
	Kind backend.Kind

	// LibraryPath is searched before every other location.
	LibraryPath string
}

// Backend is a loaded vidcapinv library.
type Backend struct {
	kind backend.Kind
	lib  *library
}

var _ backend.Backend = (*Backend)(nil)
var _ backend.ErrorTextLookup = (*Backend)(nil)

// Kind returns the backend kind given at Open.
func (b *Backend) Kind() backend.Kind {
	return b.kind
}

// Populate runs vidcapinv_populate, forwarding every callback to r. The
// call is synchronous: all callbacks have happened by the time it returns.
func (b *Backend) Populate(r backend.Reporter) int32 {
	h := reporters.Register(r)
	defer reporters.Release(h)
	return b.lib.populate(h)
}

// ErrorText describes code using vidcapinv_error_message. Windows builds of
// the library have no such export; HRESULTs are documented online instead.
func (b *Backend) ErrorText(code int32) (string, error) {
	if b.kind.Family() == platform.FamilyWindows {
		return "", errNoErrorText
	}
	return b.lib.errorText(code)
}

// reporters maps the ctx argument of native callbacks to the reporter of the
// population pass in progress.
var reporters handles.Table[backend.Reporter]

// stepwiseABI mirrors vidcapinv_stepwise.
type stepwiseABI struct {
	MinWidth   int32
	MaxWidth   int32
	StepWidth  int32
	MinHeight  int32
	MaxHeight  int32
	StepHeight int32
}

func dispatchAddDevice(ctx uintptr, id int32, name string) uintptr {
	r, ok := reporters.Lookup(ctx)
	if !ok {
		return callbackAbort
	}
	if err := r.AddDevice(int(id), name); err != nil {
		return callbackAbort
	}
	return callbackContinue
}

func dispatchAddDiscrete(ctx uintptr, width, height int32) uintptr {
	r, ok := reporters.Lookup(ctx)
	if !ok {
		return callbackAbort
	}
	if err := r.AddDiscrete(int(width), int(height)); err != nil {
		return callbackAbort
	}
	return callbackContinue
}

func dispatchAddStepwise(ctx uintptr, s *stepwiseABI) uintptr {
	r, ok := reporters.Lookup(ctx)
	if !ok || s == nil {
		return callbackAbort
	}
	err := r.AddStepwise(int(s.MinWidth), int(s.MaxWidth), int(s.StepWidth),
		int(s.MinHeight), int(s.MaxHeight), int(s.StepHeight))
	if err != nil {
		return callbackAbort
	}
	return callbackContinue
}

// maxNameLen bounds how far goString scans for a terminator.
const maxNameLen = 4096

// goString copies a NUL-terminated C string.
func goString(p *byte) string {
	if p == nil {
		return ""
	}
	n := 0
	for n < maxNameLen && *(*byte)(unsafe.Add(unsafe.Pointer(p), n)) != 0 {
		n++
	}
	return string(unsafe.Slice(p, n))
}

// libraryNames lists candidate base names in preference order.
func libraryNames(kind backend.Kind) []string {
	if kind.Family() == platform.FamilyWindows {
		return []string{"vidcapinv", "VideoCaptureInventoryWin64"}
	}
	return []string{"vidcapinv"}
}

var libraryVersions = []int{1}

// candidatePaths returns every path to try, most specific first. Bare names
// come last so the system loader gets the final say.
func candidatePaths(cfg Config) []string {
	var paths []string
	for _, dir := range searchDirs(cfg.LibraryPath) {
		for _, name := range libraryNames(cfg.Kind) {
			for _, ver := range libraryVersions {
				paths = append(paths, filepath.Join(dir, platform.FormatLibraryName(name, ver)))
			}
			paths = append(paths, filepath.Join(dir, platform.FormatLibraryName(name, 0)))
		}
	}
	for _, name := range libraryNames(cfg.Kind) {
		for _, ver := range libraryVersions {
			paths = append(paths, platform.FormatLibraryName(name, ver))
		}
		paths = append(paths, platform.FormatLibraryName(name, 0))
	}
	return paths
}

// searchDirs returns the directories searched for the library.
func searchDirs(extra string) []string {
	var dirs []string
	if extra != "" {
		dirs = append(dirs, extra)
	}
	if env := os.Getenv(LibraryPathEnv); env != "" {
		dirs = append(dirs, filepath.SplitList(env)...)
	}

	switch runtime.GOOS {
	case "windows":
		if exe, err := os.Executable(); err == nil {
			dirs = append(dirs, filepath.Dir(exe))
		}
		if p := os.Getenv("PATH"); p != "" {
			dirs = append(dirs, filepath.SplitList(p)...)
		}
	default:
		if p := os.Getenv("LD_LIBRARY_PATH"); p != "" {
			dirs = append(dirs, filepath.SplitList(p)...)
		}
		if exe, err := os.Executable(); err == nil {
			dirs = append(dirs, filepath.Dir(exe))
		}
		dirs = append(dirs,
			"/usr/local/lib",
			"/usr/lib/x86_64-linux-gnu",
			"/usr/lib/aarch64-linux-gnu",
			"/usr/lib",
		)
	}
	return dirs
}

func notFound(last error) error {
	if last != nil {
		return fmt.Errorf("%w: %v (set %s or library_path)", ErrLibraryNotFound, last, LibraryPathEnv)
	}
	return fmt.Errorf("%w (set %s or library_path)", ErrLibraryNotFound, LibraryPathEnv)
}
