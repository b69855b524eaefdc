package vidcapinv

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/obinnaokechukwu/vidcapinv/internal/backend"
)

// Inventory is a read-only snapshot of the video capture devices attached
// to the local machine.
type Inventory struct {
	devices []*Device
}

// Devices returns the attached devices in the order the backend reported
// them. The returned slice is a copy.
func (inv *Inventory) Devices() []*Device {
	out := make([]*Device, len(inv.devices))
	copy(out, inv.devices)
	return out
}

// Len returns the number of devices.
func (inv *Inventory) Len() int {
	return len(inv.devices)
}

// Device returns the first device with the given backend id.
func (inv *Inventory) Device(id int) (*Device, bool) {
	for _, d := range inv.devices {
		if d.id == id {
			return d, true
		}
	}
	return nil, false
}

// Inventorier takes inventories with a fixed set of options. Each call to
// Get performs platform selection and enumeration afresh; nothing is cached
// between calls. An Inventorier is safe for concurrent use.
type Inventorier struct {
	opts options
}

// New returns an Inventorier configured by opts.
func New(opts ...Option) *Inventorier {
	return &Inventorier{opts: buildOptions(opts)}
}

// Get takes an inventory of the attached video capture devices.
//
// Example:
//
//	inv, err := vidcapinv.Get()
//	if err != nil {
//	    return err
//	}
//	for _, d := range inv.Devices() {
//	    for _, f := range d.Formats() {
//	        switch f := f.(type) {
//	        case vidcapinv.Discrete:
//	            fmt.Println(d.Name(), f.Width, f.Height)
//	        case vidcapinv.Stepwise:
//	            fmt.Println(d.Name(), f.MinWidth, f.MaxWidth, f.StepWidth)
//	        }
//	    }
//	}
func Get(opts ...Option) (*Inventory, error) {
	return New(opts...).Get()
}

// GetContext is like Get but gives up when ctx is done.
func GetContext(ctx context.Context, opts ...Option) (*Inventory, error) {
	return New(opts...).GetContext(ctx)
}

// Get performs one population pass on the calling goroutine.
func (iv *Inventorier) Get() (*Inventory, error) {
	return iv.populate()
}

// GetContext performs one population pass on a worker goroutine and waits
// for it or for ctx. The worker owns all intermediate state; only a frozen
// inventory or an error is ever handed back. If ctx ends first the worker's
// result is dropped when it arrives.
func (iv *Inventorier) GetContext(ctx context.Context) (*Inventory, error) {
	if ctx.Done() == nil {
		return iv.populate()
	}
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("vidcapinv: %w", err)
	}

	type result struct {
		inv *Inventory
		err error
	}
	done := make(chan result, 1)
	go func() {
		inv, err := iv.populate()
		done <- result{inv: inv, err: err}
	}()

	select {
	case r := <-done:
		return r.inv, r.err
	case <-ctx.Done():
		iv.opts.logger.Warn().Err(ctx.Err()).Msg("inventory abandoned before backend finished")
		return nil, fmt.Errorf("vidcapinv: %w", ctx.Err())
	}
}

func (iv *Inventorier) populate() (*Inventory, error) {
	log := iv.opts.logger

	be, err := iv.selectBackend()
	if err != nil {
		log.Warn().Err(err).Msg("backend selection failed")
		return nil, err
	}
	log.Debug().Stringer("backend", be.Kind()).Msg("populating inventory")

	b := newBuilder()
	status := be.Populate(b)

	if err := b.err(); err != nil {
		log.Warn().Err(err).Stringer("backend", be.Kind()).Int32("status", status).Msg("backend broke reporting protocol")
		return nil, err
	}

	if status != backend.StatusOK {
		lookup, _ := be.(backend.ErrorTextLookup)
		berr := &BackendError{
			Code:    status,
			Backend: be.Kind(),
			Message: formatError(be.Kind(), status, lookup),
		}
		log.Warn().Int32("status", status).Stringer("backend", be.Kind()).Msg(berr.Message)
		return nil, berr
	}

	inv := b.freeze()
	if log.GetLevel() <= zerolog.DebugLevel {
		formats := 0
		for _, d := range inv.devices {
			formats += len(d.formats)
		}
		log.Debug().Int("devices", inv.Len()).Int("formats", formats).Msg("inventory complete")
	}
	return inv, nil
}
