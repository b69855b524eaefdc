package vidcapinv

import "github.com/obinnaokechukwu/vidcapinv/internal/backend"

type builderState int

const (
	stateEmpty builderState = iota
	stateBuildingDevice
	stateFrozen
)

// builder accumulates the reports of one population pass. It is confined to
// the goroutine running that pass and is never shared, so it has no locking.
type builder struct {
	state   builderState
	devices []*Device
	current *Device

	// violation is sticky: once set, every later call fails with it.
	violation *ProtocolViolationError
}

var _ backend.Reporter = (*builder)(nil)

func newBuilder() *builder {
	return &builder{}
}

// AddDevice starts a new device. Subsequent formats attach to it.
func (b *builder) AddDevice(id int, name string) error {
	if err := b.check("AddDevice"); err != nil {
		return err
	}
	d := newDevice(id, name)
	b.devices = append(b.devices, d)
	b.current = d
	b.state = stateBuildingDevice
	return nil
}

// AddDiscrete adds an exact frame size to the current device.
func (b *builder) AddDiscrete(width, height int) error {
	return b.addFormat("AddDiscrete", NewDiscrete(width, height))
}

// AddStepwise adds a frame size range to the current device.
func (b *builder) AddStepwise(minWidth, maxWidth, stepWidth, minHeight, maxHeight, stepHeight int) error {
	return b.addFormat("AddStepwise",
		NewStepwise(minWidth, maxWidth, stepWidth, minHeight, maxHeight, stepHeight))
}

func (b *builder) addFormat(op string, f Format) error {
	if err := b.check(op); err != nil {
		return err
	}
	if b.state != stateBuildingDevice {
		return b.fail(op, "format reported before any device")
	}
	if !b.current.hasSize(f) {
		b.current.addFormat(f)
	}
	return nil
}

func (b *builder) check(op string) error {
	if b.violation != nil {
		return b.violation
	}
	if b.state == stateFrozen {
		return b.fail(op, "report after population finished")
	}
	return nil
}

func (b *builder) fail(op, reason string) error {
	b.violation = &ProtocolViolationError{Op: op, Reason: reason}
	return b.violation
}

// err returns the first protocol violation, if any.
func (b *builder) err() error {
	if b.violation == nil {
		return nil
	}
	return b.violation
}

// freeze ends the pass and returns the finished inventory. The builder
// rejects every later report.
func (b *builder) freeze() *Inventory {
	b.state = stateFrozen
	b.current = nil
	devices := b.devices
	b.devices = nil
	return &Inventory{devices: devices}
}
