package vidcapinv

import "fmt"

// FormatKind identifies the variant of a Format.
type FormatKind int

const (
	// FormatDiscrete is a single exact frame size.
	FormatDiscrete FormatKind = iota + 1
	// FormatStepwise is a range of frame sizes in fixed increments.
	FormatStepwise
)

// String returns the lower-case name of the kind.
func (k FormatKind) String() string {
	switch k {
	case FormatDiscrete:
		return "discrete"
	case FormatStepwise:
		return "stepwise"
	default:
		return fmt.Sprintf("FormatKind(%d)", int(k))
	}
}

// Format is a frame size supported by a device.
// The only implementations are Discrete and Stepwise; switch on Kind or on
// the concrete type to handle both.
type Format interface {
	Kind() FormatKind
	String() string

	// format seals the interface.
	format()
}

// Discrete is an exact frame size.
type Discrete struct {
	Width  int
	Height int
}

// NewDiscrete returns a Discrete format of width x height.
func NewDiscrete(width, height int) Discrete {
	return Discrete{Width: width, Height: height}
}

// Kind returns FormatDiscrete.
func (Discrete) Kind() FormatKind { return FormatDiscrete }

func (d Discrete) String() string {
	return fmt.Sprintf("%dx%d", d.Width, d.Height)
}

func (Discrete) format() {}

// Stepwise is a range of frame sizes. Widths run from MinWidth to MaxWidth in
// StepWidth increments and heights likewise. Only reported by backends that
// describe ranges instead of listing sizes, such as V4L2 drivers for the
// Raspberry Pi camera.
type Stepwise struct {
	MinWidth   int
	MaxWidth   int
	StepWidth  int
	MinHeight  int
	MaxHeight  int
	StepHeight int
}

// NewStepwise returns a Stepwise format. Arguments are not validated.
func NewStepwise(minWidth, maxWidth, stepWidth, minHeight, maxHeight, stepHeight int) Stepwise {
	return Stepwise{
		MinWidth:   minWidth,
		MaxWidth:   maxWidth,
		StepWidth:  stepWidth,
		MinHeight:  minHeight,
		MaxHeight:  maxHeight,
		StepHeight: stepHeight,
	}
}

// Kind returns FormatStepwise.
func (Stepwise) Kind() FormatKind { return FormatStepwise }

func (s Stepwise) String() string {
	return fmt.Sprintf("%d-%d/%d x %d-%d/%d",
		s.MinWidth, s.MaxWidth, s.StepWidth, s.MinHeight, s.MaxHeight, s.StepHeight)
}

func (Stepwise) format() {}

// Contains reports whether width x height lies on the grid described by s.
func (s Stepwise) Contains(width, height int) bool {
	return onGrid(width, s.MinWidth, s.MaxWidth, s.StepWidth) &&
		onGrid(height, s.MinHeight, s.MaxHeight, s.StepHeight)
}

func onGrid(v, lo, hi, step int) bool {
	if v < lo || v > hi {
		return false
	}
	if step <= 0 {
		return v == lo
	}
	return (v-lo)%step == 0
}

// SameSize reports whether a and b describe the same frame size. Formats of
// different kinds never match, even when a stepwise range collapses to a
// single size.
func SameSize(a, b Format) bool {
	switch a := a.(type) {
	case Discrete:
		b, ok := b.(Discrete)
		return ok && a == b
	case Stepwise:
		b, ok := b.(Stepwise)
		return ok && a == b
	default:
		return false
	}
}
