//go:build linux && (386 || amd64 || arm || arm64 || riscv64 || loong64 || s390x)

package v4l2

import (
	"bytes"
	"fmt"
	"syscall"
	"unsafe"

	"golang.org/x/sys/unix"
)

// asm-generic ioctl encoding. mips, powerpc and sparc lay the bits out
// differently and are excluded by the build constraint.
const (
	iocWrite = 1
	iocRead  = 2

	iocNRShift   = 0
	iocTypeShift = 8
	iocSizeShift = 16
	iocDirShift  = 30
)

func ioc(dir, typ, nr, size uintptr) uintptr {
	return dir<<iocDirShift | size<<iocSizeShift | typ<<iocTypeShift | nr<<iocNRShift
}

// struct v4l2_capability (104 bytes)
type v4l2Capability struct {
	Driver       [16]byte
	Card         [32]byte
	BusInfo      [32]byte
	Version      uint32
	Capabilities uint32
	DeviceCaps   uint32
	Reserved     [3]uint32
}

// struct v4l2_fmtdesc (64 bytes)
type v4l2FmtDesc struct {
	Index       uint32
	Type        uint32
	Flags       uint32
	Description [32]byte
	PixelFormat uint32
	MbusCode    uint32
	Reserved    [3]uint32
}

// struct v4l2_frmsizeenum (44 bytes). Union holds either
// {width, height} or {min_width, max_width, step_width, min_height,
// max_height, step_height}.
type v4l2FrmSizeEnum struct {
	Index       uint32
	PixelFormat uint32
	Type        uint32
	Union       [6]uint32
	Reserved    [2]uint32
}

var (
	vidiocQuerycap       = ioc(iocRead, 'V', 0, unsafe.Sizeof(v4l2Capability{}))
	vidiocEnumFmt        = ioc(iocRead|iocWrite, 'V', 2, unsafe.Sizeof(v4l2FmtDesc{}))
	vidiocEnumFramesizes = ioc(iocRead|iocWrite, 'V', 74, unsafe.Sizeof(v4l2FrmSizeEnum{}))
)

const (
	capVideoCapture       = 0x00000001
	capVideoCaptureMplane = 0x00001000
	capDeviceCaps         = 0x80000000

	bufTypeVideoCapture       = 1
	bufTypeVideoCaptureMplane = 9
)

type ioctlProber struct{}

func (ioctlProber) probe(path string) (capture, syscall.Errno) {
	fd, err := unix.Open(path, unix.O_RDONLY|unix.O_NONBLOCK|unix.O_CLOEXEC, 0)
	if err != nil {
		errno := errnoOf(err)
		switch errno {
		case unix.ENOENT, unix.ENODEV, unix.ENXIO:
			return capture{Skip: true}, 0
		}
		return capture{}, errno
	}
	defer unix.Close(fd)

	var cp v4l2Capability
	if errno := ioctl(fd, vidiocQuerycap, unsafe.Pointer(&cp)); errno != 0 {
		switch errno {
		case unix.ENOTTY, unix.EINVAL, unix.ENODEV:
			return capture{Skip: true}, 0
		}
		return capture{}, errno
	}

	caps := cp.Capabilities
	if caps&capDeviceCaps != 0 {
		caps = cp.DeviceCaps
	}
	var bufType uint32
	switch {
	case caps&capVideoCapture != 0:
		bufType = bufTypeVideoCapture
	case caps&capVideoCaptureMplane != 0:
		bufType = bufTypeVideoCaptureMplane
	default:
		return capture{Skip: true}, 0
	}

	c := capture{Name: cString(cp.Card[:])}
	for i := uint32(0); ; i++ {
		desc := v4l2FmtDesc{Index: i, Type: bufType}
		if errno := ioctl(fd, vidiocEnumFmt, unsafe.Pointer(&desc)); errno != 0 {
			if errno == unix.EINVAL {
				break
			}
			return capture{}, errno
		}
		if errno := enumFrameSizes(fd, desc.PixelFormat, &c); errno != 0 {
			return capture{}, errno
		}
	}
	return c, 0
}

func enumFrameSizes(fd int, pixelFormat uint32, c *capture) syscall.Errno {
	for i := uint32(0); ; i++ {
		fs := v4l2FrmSizeEnum{Index: i, PixelFormat: pixelFormat}
		if errno := ioctl(fd, vidiocEnumFramesizes, unsafe.Pointer(&fs)); errno != 0 {
			if errno == unix.EINVAL {
				return 0
			}
			return errno
		}
		u := fs.Union
		switch sizeKind(fs.Type) {
		case sizeDiscrete:
			c.Sizes = append(c.Sizes, frameSize{
				Kind:     sizeDiscrete,
				MaxWidth: int(u[0]), MaxHeight: int(u[1]),
			})
		case sizeContinuous, sizeStepwise:
			c.Sizes = append(c.Sizes, frameSize{
				Kind:     sizeKind(fs.Type),
				MinWidth: int(u[0]), MaxWidth: int(u[1]), StepWidth: int(u[2]),
				MinHeight: int(u[3]), MaxHeight: int(u[4]), StepHeight: int(u[5]),
			})
			// Ranges are reported once, at index 0.
			return 0
		}
	}
}

func ioctl(fd int, req uintptr, arg unsafe.Pointer) syscall.Errno {
	for {
		_, _, errno := unix.Syscall(unix.SYS_IOCTL, uintptr(fd), req, uintptr(arg))
		if errno != unix.EINTR {
			return errno
		}
	}
}

func cString(b []byte) string {
	if i := bytes.IndexByte(b, 0); i >= 0 {
		b = b[:i]
	}
	return string(bytes.TrimSpace(b))
}

func errnoText(errno syscall.Errno) (string, error) {
	name := unix.ErrnoName(errno)
	if name == "" {
		return "", fmt.Errorf("v4l2: unknown errno %d", int(errno))
	}
	return fmt.Sprintf("%s (%s)", errno.Error(), name), nil
}
