package vidcapinv

// Device is a video capture device attached to the local machine.
type Device struct {
	id      int
	name    string
	formats []Format
}

func newDevice(id int, name string) *Device {
	return &Device{id: id, name: name}
}

// ID returns the backend-assigned device id. Pass it to capture libraries
// that open devices by index (for example OpenCV's VideoCapture). On Linux it
// is the N of /dev/videoN, so ids are not necessarily contiguous.
func (d *Device) ID() int {
	return d.id
}

// Name returns the name reported by the operating system. It may be empty.
func (d *Device) Name() string {
	return d.name
}

// Formats returns the frame sizes supported by the device in the order the
// backend reported them. The returned slice is a copy.
func (d *Device) Formats() []Format {
	out := make([]Format, len(d.formats))
	copy(out, d.formats)
	return out
}

// addFormat appends f. Deduplication is the builder's job.
func (d *Device) addFormat(f Format) {
	d.formats = append(d.formats, f)
}

func (d *Device) hasSize(f Format) bool {
	for _, existing := range d.formats {
		if SameSize(existing, f) {
			return true
		}
	}
	return false
}
