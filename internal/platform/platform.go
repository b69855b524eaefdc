// Package platform identifies the host operating system and maps it onto the
// platform families that have an inventory backend. It also knows how shared
// libraries are named on each of them.
package platform

import (
	"fmt"
	"runtime"
	"strings"
)

// Family is a group of operating systems served by the same backend.
type Family int

const (
	// FamilyUnknown is any platform without a backend.
	FamilyUnknown Family = iota
	// FamilyWindows covers every Windows release.
	FamilyWindows
	// FamilyLinux covers every Linux distribution.
	FamilyLinux
)

// String returns the family name.
func (f Family) String() string {
	switch f {
	case FamilyWindows:
		return "Windows"
	case FamilyLinux:
		return "Linux"
	default:
		return "unknown"
	}
}

// Detect returns the identifier of the running operating system.
func Detect() string {
	return runtime.GOOS
}

// FamilyOf maps a platform identifier onto a Family. Matching is a
// case-insensitive prefix match, so Go's GOOS values ("windows", "linux") and
// descriptive names ("Windows 10", "Linux") are both recognized.
func FamilyOf(name string) Family {
	n := strings.ToLower(strings.TrimSpace(name))
	switch {
	case strings.HasPrefix(n, "windows"):
		return FamilyWindows
	case strings.HasPrefix(n, "linux"):
		return FamilyLinux
	default:
		return FamilyUnknown
	}
}

// LibraryExtension is the file extension for shared libraries on this platform.
var LibraryExtension string

// LibraryPrefix is the prefix for shared library names on this platform.
var LibraryPrefix string

func init() {
	LibraryPrefix, LibraryExtension = libraryAffixes(runtime.GOOS)
}

func libraryAffixes(goos string) (prefix, ext string) {
	switch goos {
	case "darwin":
		return "lib", ".dylib"
	case "windows":
		return "", ".dll"
	default: // linux, freebsd, etc.
		return "lib", ".so"
	}
}

// FormatLibraryName returns the platform-specific library filename.
// If version is 0, returns the unversioned library name.
//
// Examples:
//   - Linux:   FormatLibraryName("vidcapinv", 1) -> "libvidcapinv.so.1"
//   - Windows: FormatLibraryName("vidcapinv", 1) -> "vidcapinv-1.dll"
func FormatLibraryName(name string, version int) string {
	return formatLibraryName(runtime.GOOS, name, version)
}

func formatLibraryName(goos, name string, version int) string {
	prefix, ext := libraryAffixes(goos)
	switch goos {
	case "darwin":
		if version > 0 {
			return fmt.Sprintf("%s%s.%d%s", prefix, name, version, ext)
		}
	case "windows":
		if version > 0 {
			return fmt.Sprintf("%s%s-%d%s", prefix, name, version, ext)
		}
	default:
		if version > 0 {
			return fmt.Sprintf("%s%s%s.%d", prefix, name, ext, version)
		}
	}
	return prefix + name + ext
}
