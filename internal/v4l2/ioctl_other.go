//go:build !(linux && (386 || amd64 || arm || arm64 || riscv64 || loong64 || s390x))

package v4l2

import (
	"fmt"
	"syscall"
)

// ioctlProber fails every probe: V4L2 is only reachable on Linux.
type ioctlProber struct{}

func (ioctlProber) probe(string) (capture, syscall.Errno) {
	return capture{}, syscall.ENOSYS
}

func errnoText(errno syscall.Errno) (string, error) {
	s := errno.Error()
	if s == "" {
		return "", fmt.Errorf("v4l2: unknown errno %d", int(errno))
	}
	return s, nil
}
