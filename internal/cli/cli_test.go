package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	yaml "github.com/goccy/go-yaml"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/obinnaokechukwu/vidcapinv"
	"github.com/obinnaokechukwu/vidcapinv/internal/backend"
)

type fakeBackend struct {
	mu     sync.Mutex
	calls  int
	status int32
	// devices is called with the 1-based call number.
	devices func(call int, r backend.Reporter)
}

func (f *fakeBackend) Kind() backend.Kind { return backend.KindLinuxV4L2 }

func (f *fakeBackend) Populate(r backend.Reporter) int32 {
	f.mu.Lock()
	f.calls++
	n := f.calls
	f.mu.Unlock()
	if f.devices != nil {
		f.devices(n, r)
	}
	return f.status
}

func twoCameras(_ int, r backend.Reporter) {
	_ = r.AddDevice(0, "Integrated Camera")
	_ = r.AddDiscrete(640, 480)
	_ = r.AddDiscrete(640, 480)
	_ = r.AddDiscrete(1280, 720)
	_ = r.AddDevice(2, "mmal service 16.1")
	_ = r.AddStepwise(32, 2592, 2, 32, 1944, 2)
}

type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func isolate(t *testing.T) {
	t.Helper()
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(t.TempDir()))
	t.Cleanup(func() { _ = os.Chdir(wd) })
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("HOME", t.TempDir())
}

func run(t *testing.T, be backend.Backend, args ...string) (string, string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	cmd := NewRootCmd(vidcapinv.WithBackend(be))
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return stdout.String(), stderr.String(), err
}

func TestListText(t *testing.T) {
	isolate(t)

	out, _, err := run(t, &fakeBackend{devices: twoCameras}, "list", "--platform", "linux")
	require.NoError(t, err)

	assert.Equal(t, strings.Join([]string{
		"Number of cameras: 2",
		"DeviceId: 0, Camera: Integrated Camera",
		"  640 x 480",
		"  1280 x 720",
		"DeviceId: 2, Camera: mmal service 16.1",
		"  32->2592 step 2  X  32->1944 step 2",
		"",
	}, "\n"), out)
}

func TestListJSON(t *testing.T) {
	isolate(t)

	out, _, err := run(t, &fakeBackend{devices: twoCameras}, "list", "--platform", "linux", "-o", "json")
	require.NoError(t, err)

	var got inventoryView
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	require.Len(t, got.Devices, 2)
	assert.Equal(t, []formatView{
		{Type: "discrete", Width: 640, Height: 480},
		{Type: "discrete", Width: 1280, Height: 720},
	}, got.Devices[0].Formats)
	assert.Equal(t, formatView{
		Type:     "stepwise",
		MinWidth: 32, MaxWidth: 2592, StepWidth: 2,
		MinHeight: 32, MaxHeight: 1944, StepHeight: 2,
	}, got.Devices[1].Formats[0])
}

func TestListYAML(t *testing.T) {
	isolate(t)

	out, _, err := run(t, &fakeBackend{devices: twoCameras}, "list", "--platform", "linux", "--output", "yaml")
	require.NoError(t, err)

	var got inventoryView
	require.NoError(t, yaml.Unmarshal([]byte(out), &got))
	require.Len(t, got.Devices, 2)
	assert.Equal(t, "mmal service 16.1", got.Devices[1].Name)
	assert.Equal(t, 2, got.Devices[1].ID)
}

func TestListEmptyJSON(t *testing.T) {
	isolate(t)

	out, _, err := run(t, &fakeBackend{}, "list", "--platform", "linux", "-o", "json")
	require.NoError(t, err)
	assert.JSONEq(t, `{"devices":[]}`, out)
}

func TestListUnknownOutput(t *testing.T) {
	isolate(t)

	be := &fakeBackend{devices: twoCameras}
	_, _, err := run(t, be, "list", "--platform", "linux", "-o", "xml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "xml")
	assert.Zero(t, be.calls)
}

func TestListBackendFailure(t *testing.T) {
	isolate(t)

	out, _, err := run(t, &fakeBackend{devices: twoCameras, status: 5}, "list", "--platform", "linux")
	require.ErrorIs(t, err, vidcapinv.ErrBackendFailure)
	assert.Contains(t, err.Error(), "error code while getting video capture devices: 5")
	assert.Empty(t, out)
}

func TestListUnsupportedPlatform(t *testing.T) {
	isolate(t)

	_, _, err := run(t, &fakeBackend{}, "list", "--platform", "Mac OS X")
	require.ErrorIs(t, err, vidcapinv.ErrUnsupportedPlatform)
	assert.Contains(t, err.Error(), "Mac OS X")
}

func TestInvalidConfigRejected(t *testing.T) {
	isolate(t)

	_, _, err := run(t, &fakeBackend{}, "list", "--platform", "linux", "--backend", "directshow")
	assert.Error(t, err)
}

func TestLogsGoToStderr(t *testing.T) {
	isolate(t)

	out, errOut, err := run(t, &fakeBackend{devices: twoCameras},
		"list", "--platform", "linux", "--log-level", "debug", "--log-format", "json")
	require.NoError(t, err)
	assert.NotContains(t, out, `"level"`)
	assert.Contains(t, errOut, `"app":"vcinventory"`)
	assert.Contains(t, errOut, `"devices":2`)
}

func TestWatchReprintsOnNodeChange(t *testing.T) {
	isolate(t)
	dir := t.TempDir()

	be := &fakeBackend{devices: func(call int, r backend.Reporter) {
		for i := 1; i < call; i++ {
			_ = r.AddDevice(i-1, "Camera")
		}
	}}

	out := &syncBuffer{}
	cmd := NewRootCmd(vidcapinv.WithBackend(be))
	cmd.SetOut(out)
	cmd.SetErr(&syncBuffer{})
	cmd.SetArgs([]string{"watch", "--platform", "linux", "--device-dir", dir})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	done := make(chan error, 1)
	go func() { done <- cmd.ExecuteContext(ctx) }()

	require.Eventually(t, func() bool {
		return strings.Contains(out.String(), "Number of cameras: 0")
	}, 5*time.Second, 10*time.Millisecond)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "video0"), nil, 0o600))

	require.Eventually(t, func() bool {
		return strings.Contains(out.String(), "Number of cameras: 1")
	}, 5*time.Second, 10*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("watch did not stop")
	}
}

func TestWatchMissingDir(t *testing.T) {
	isolate(t)

	_, _, err := run(t, &fakeBackend{}, "watch", "--platform", "linux",
		"--device-dir", filepath.Join(t.TempDir(), "missing"))
	assert.Error(t, err)
}
