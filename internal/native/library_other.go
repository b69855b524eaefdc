//go:build !((linux || windows) && (amd64 || arm64))

package native

type library struct{}

// Open always fails: purego cannot call into native code here.
func Open(cfg Config) (*Backend, error) {
	return nil, ErrUnsupported
}

func (l *library) populate(uintptr) int32 {
	return -1
}

func (l *library) errorText(int32) (string, error) {
	return "", errNoErrorText
}
