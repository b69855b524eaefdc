//go:build linux && (amd64 || arm64)

package native

import "github.com/ebitengine/purego"

// openLibrary opens path with RTLD_NOW so missing symbols fail at load
// time rather than mid-enumeration.
func openLibrary(path string) (uintptr, error) {
	return purego.Dlopen(path, purego.RTLD_NOW|purego.RTLD_LOCAL)
}

func lookupSymbol(lib uintptr, name string) (uintptr, error) {
	return purego.Dlsym(lib, name)
}
