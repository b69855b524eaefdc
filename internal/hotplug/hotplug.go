// Package hotplug reports video device nodes appearing in or leaving a
// device directory.
package hotplug

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog"
)

// DefaultDelay is how long the watcher waits for a burst of node events to
// settle before reporting it. udev creates and chmods nodes in quick
// succession.
const DefaultDelay = 250 * time.Millisecond

// Change is one node event.
type Change struct {
	Node  string
	Added bool
}

// Watcher watches a single directory.
type Watcher struct {
	fsw   *fsnotify.Watcher
	dir   string
	delay time.Duration
}

// New starts watching dir. A delay of zero uses DefaultDelay.
func New(dir string, delay time.Duration) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("hotplug: %w", err)
	}
	if err := fsw.Add(dir); err != nil {
		_ = fsw.Close()
		return nil, fmt.Errorf("hotplug: watch %s: %w", dir, err)
	}
	if delay <= 0 {
		delay = DefaultDelay
	}
	return &Watcher{fsw: fsw, dir: dir, delay: delay}, nil
}

// Run delivers settled batches of changes to fn until ctx is done. It closes
// the watcher before returning.
func (w *Watcher) Run(ctx context.Context, fn func(ctx context.Context, changes []Change)) error {
	defer w.fsw.Close()
	logger := zerolog.Ctx(ctx)

	var (
		pending []Change
		timer   *time.Timer
		fire    <-chan time.Time
	)
	for {
		select {
		case <-ctx.Done():
			if timer != nil {
				timer.Stop()
			}
			return nil

		case event, ok := <-w.fsw.Events:
			if !ok {
				return nil
			}
			c, ok := classify(event)
			if !ok {
				continue
			}
			logger.Debug().Str("node", c.Node).Bool("added", c.Added).Msg("device node changed")
			pending = append(pending, c)
			if timer == nil {
				timer = time.NewTimer(w.delay)
			} else {
				timer.Reset(w.delay)
			}
			fire = timer.C

		case <-fire:
			batch := pending
			pending, fire = nil, nil
			fn(ctx, batch)

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return nil
			}
			logger.Warn().Err(err).Str("dir", w.dir).Msg("fsnotify error")
		}
	}
}

// Close stops the watcher without running it.
func (w *Watcher) Close() error {
	return w.fsw.Close()
}

func classify(e fsnotify.Event) (Change, bool) {
	name := filepath.Base(e.Name)
	if !IsVideoNode(name) {
		return Change{}, false
	}
	switch {
	case e.Has(fsnotify.Create):
		return Change{Node: name, Added: true}, true
	case e.Has(fsnotify.Remove), e.Has(fsnotify.Rename):
		return Change{Node: name}, true
	}
	return Change{}, false
}

// IsVideoNode reports whether name looks like videoN.
func IsVideoNode(name string) bool {
	num, ok := strings.CutPrefix(name, "video")
	if !ok || num == "" {
		return false
	}
	for _, r := range num {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
