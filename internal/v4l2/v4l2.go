// Package v4l2 is the Linux inventory backend. It walks the video device
// nodes under /dev and asks each one, through Video4Linux2 ioctls, which
// frame sizes it can capture.
//
// Device nodes are probed concurrently, but results are always reported in
// node order from the goroutine that called Populate.
package v4l2

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"syscall"

	"golang.org/x/sync/errgroup"

	"github.com/obinnaokechukwu/vidcapinv/internal/backend"
)

// Defaults used when Config fields are zero.
const (
	DefaultDeviceDir   = "/dev"
	DefaultConcurrency = 4
)

// statusAborted is returned when the reporter rejects a report. The
// reporter already knows why.
const statusAborted int32 = -1

// Config configures the backend.
type Config struct {
	// DeviceDir is scanned for videoN nodes.
	DeviceDir string

	// Concurrency bounds the number of nodes probed at once.
	Concurrency int
}

// Backend enumerates V4L2 capture devices.
type Backend struct {
	dir         string
	concurrency int
	prober      prober
}

var _ backend.Backend = (*Backend)(nil)
var _ backend.ErrorTextLookup = (*Backend)(nil)

// New returns a Backend using cfg.
func New(cfg Config) *Backend {
	b := &Backend{
		dir:         cfg.DeviceDir,
		concurrency: cfg.Concurrency,
		prober:      ioctlProber{},
	}
	if b.dir == "" {
		b.dir = DefaultDeviceDir
	}
	if b.concurrency < 1 {
		b.concurrency = DefaultConcurrency
	}
	return b
}

// Kind returns KindLinuxV4L2.
func (b *Backend) Kind() backend.Kind {
	return backend.KindLinuxV4L2
}

// sizeKind mirrors enum v4l2_frmsizetypes.
type sizeKind uint32

const (
	sizeDiscrete   sizeKind = 1
	sizeContinuous sizeKind = 2
	sizeStepwise   sizeKind = 3
)

// frameSize is one VIDIOC_ENUM_FRAMESIZES result. Discrete sizes use only
// MaxWidth and MaxHeight.
type frameSize struct {
	Kind                             sizeKind
	MinWidth, MaxWidth, StepWidth    int
	MinHeight, MaxHeight, StepHeight int
}

// capture is what a probe learned about one node.
type capture struct {
	// Skip is set for nodes that vanished or cannot capture video.
	Skip  bool
	Name  string
	Sizes []frameSize
}

type prober interface {
	probe(path string) (capture, syscall.Errno)
}

// node is a /dev/videoN entry.
type node struct {
	path  string
	index int
}

// listNodes returns the videoN nodes in dir ordered by N. Indexes need not
// be contiguous.
func listNodes(dir string) ([]node, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	var nodes []node
	for _, e := range entries {
		num, ok := strings.CutPrefix(e.Name(), "video")
		if !ok || num == "" {
			continue
		}
		n, err := strconv.Atoi(num)
		if err != nil || n < 0 {
			continue
		}
		nodes = append(nodes, node{path: filepath.Join(dir, e.Name()), index: n})
	}
	sort.Slice(nodes, func(i, j int) bool { return nodes[i].index < nodes[j].index })
	return nodes, nil
}

type probeResult struct {
	capture capture
	errno   syscall.Errno
}

// Populate reports every capture-capable node as a device whose id is the
// node number. The first node whose probe fails ends the pass with that
// errno; nodes after it are not reported.
func (b *Backend) Populate(r backend.Reporter) int32 {
	nodes, err := listNodes(b.dir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return backend.StatusOK
		}
		return int32(errnoOf(err))
	}

	results := make([]probeResult, len(nodes))
	var g errgroup.Group
	g.SetLimit(b.concurrency)
	for i, n := range nodes {
		i, n := i, n
		g.Go(func() error {
			c, errno := b.prober.probe(n.path)
			results[i] = probeResult{capture: c, errno: errno}
			return nil
		})
	}
	_ = g.Wait()

	for i, n := range nodes {
		res := results[i]
		if res.errno != 0 {
			return int32(res.errno)
		}
		if res.capture.Skip {
			continue
		}
		if status := report(r, n.index, res.capture); status != backend.StatusOK {
			return status
		}
	}
	return backend.StatusOK
}

func report(r backend.Reporter, id int, c capture) int32 {
	if err := r.AddDevice(id, c.Name); err != nil {
		return statusAborted
	}
	for _, s := range c.Sizes {
		var err error
		switch s.Kind {
		case sizeDiscrete:
			err = r.AddDiscrete(s.MaxWidth, s.MaxHeight)
		case sizeContinuous, sizeStepwise:
			err = r.AddStepwise(s.MinWidth, s.MaxWidth, s.StepWidth, s.MinHeight, s.MaxHeight, s.StepHeight)
		default:
			continue
		}
		if err != nil {
			return statusAborted
		}
	}
	return backend.StatusOK
}

// ErrorText describes an errno, e.g. "Input/output error (EIO)".
func (b *Backend) ErrorText(code int32) (string, error) {
	if code <= 0 {
		return "", fmt.Errorf("v4l2: %d is not an errno", code)
	}
	return errnoText(syscall.Errno(code))
}

func errnoOf(err error) syscall.Errno {
	var errno syscall.Errno
	if errors.As(err, &errno) {
		return errno
	}
	return syscall.EIO
}
