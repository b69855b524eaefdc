// Package vidcapinv takes an inventory of the video capture devices attached
// to the local machine and the frame sizes each one can capture.
//
// On Windows the inventory comes from the vidcapinv native library, loaded
// at runtime with purego; no cgo is involved. On Linux the default backend
// queries /dev/videoN nodes directly through Video4Linux2 ioctls, and the
// native library can be selected with WithBackendPreference.
//
// Every call to Get is an independent enumeration pass. The returned
// Inventory is frozen: it never changes after Get returns and can be shared
// between goroutines.
package vidcapinv
