//go:build windows && (amd64 || arm64)

package native

import "golang.org/x/sys/windows"

// purego has no Dlopen on Windows; the system loader hands back a module
// handle that purego.RegisterFunc accepts once resolved to a proc address.
func openLibrary(path string) (uintptr, error) {
	h, err := windows.LoadLibrary(path)
	if err != nil {
		return 0, err
	}
	return uintptr(h), nil
}

func lookupSymbol(lib uintptr, name string) (uintptr, error) {
	return windows.GetProcAddress(windows.Handle(lib), name)
}
