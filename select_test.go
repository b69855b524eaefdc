package vidcapinv

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/obinnaokechukwu/vidcapinv/internal/backend"
	"github.com/obinnaokechukwu/vidcapinv/internal/native"
	"github.com/obinnaokechukwu/vidcapinv/internal/v4l2"
)

func TestSelectBackendLinuxDefaultsToV4L2(t *testing.T) {
	for _, name := range []string{"linux", "Linux", "Linux 6.8"} {
		t.Run(name, func(t *testing.T) {
			be, err := New(WithPlatform(name)).selectBackend()
			require.NoError(t, err)
			assert.Equal(t, backend.KindLinuxV4L2, be.Kind())
			assert.IsType(t, &v4l2.Backend{}, be)
		})
	}
}

func TestSelectBackendLinuxExplicitV4L2(t *testing.T) {
	be, err := New(WithPlatform("linux"), WithBackendPreference(BackendV4L2)).selectBackend()
	require.NoError(t, err)
	assert.Equal(t, backend.KindLinuxV4L2, be.Kind())
}

func TestSelectBackendUnknownPreference(t *testing.T) {
	_, err := New(WithPlatform("linux"), WithBackendPreference("gstreamer")).selectBackend()
	assert.ErrorIs(t, err, ErrUnknownBackend)

	_, err = New(WithPlatform("windows"), WithBackendPreference(BackendV4L2)).selectBackend()
	assert.ErrorIs(t, err, ErrUnknownBackend)
}

func TestSelectBackendUnsupportedPlatform(t *testing.T) {
	for _, name := range []string{"SolarOS", "darwin", "Mac OS X", ""} {
		t.Run(name, func(t *testing.T) {
			_, err := New(WithPlatform(name)).selectBackend()
			assert.ErrorIs(t, err, ErrUnsupportedPlatform)
		})
	}
}

func TestSelectBackendNativeMissingLibrary(t *testing.T) {
	dir := t.TempDir()
	t.Setenv(native.LibraryPathEnv, "")
	t.Setenv("LD_LIBRARY_PATH", dir)

	for _, platformName := range []string{"linux", "windows"} {
		t.Run(platformName, func(t *testing.T) {
			iv := New(WithPlatform(platformName), WithBackendPreference(BackendNative), WithLibraryPath(dir))
			be, err := iv.selectBackend()
			if err == nil {
				t.Skipf("a vidcapinv library is installed on this host (%s)", be.Kind())
			}
			assert.True(t, errorsIsAny(err, ErrLibraryNotFound, native.ErrUnsupported), "unexpected error: %v", err)
		})
	}
}

func TestGetWithV4L2OverEmptyDeviceDir(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "media0"), nil, 0o600))

	inv, err := Get(WithPlatform("linux"), WithDeviceDir(dir), WithProbeConcurrency(1))
	require.NoError(t, err)
	assert.Equal(t, 0, inv.Len())
}

func TestInjectedBackendStillChecksPlatform(t *testing.T) {
	be := &scriptedBackend{}
	_, err := New(WithPlatformDetector(func() string { return "SolarOS" }), WithBackend(be)).Get()
	assert.ErrorIs(t, err, ErrUnsupportedPlatform)
	assert.Equal(t, 0, be.populateCalls())
}
