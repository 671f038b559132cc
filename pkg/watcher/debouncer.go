package watcher

import (
	"context"
	"time"

	"github.com/cratewatch/cratewatch/pkg/logging"
)

// Debouncer batches rapid file system events to avoid re-gathering the
// registry once per written file when cargo rewrites the lock
type Debouncer struct {
	input       <-chan ChangeEvent
	output      chan ChangeEvent
	quietPeriod time.Duration
	maxWait     time.Duration
}

// NewDebouncer creates a new event debouncer
func NewDebouncer(input <-chan ChangeEvent, quietPeriod, maxWait time.Duration) *Debouncer {
	return &Debouncer{
		input:       input,
		output:      make(chan ChangeEvent, 10),
		quietPeriod: quietPeriod,
		maxWait:     maxWait,
	}
}

// Events returns the debounced event channel
func (d *Debouncer) Events() <-chan ChangeEvent {
	return d.output
}

// Start begins processing events with debouncing
func (d *Debouncer) Start(ctx context.Context) {
	go d.run(ctx)
}

func (d *Debouncer) run(ctx context.Context) {
	var (
		quietTimer   *time.Timer
		maxWaitTimer *time.Timer
		accumulated  = make(map[ChangeType][]string)
		eventCount   int
	)

	stopTimers := func() {
		if quietTimer != nil {
			quietTimer.Stop()
			quietTimer = nil
		}
		if maxWaitTimer != nil {
			maxWaitTimer.Stop()
			maxWaitTimer = nil
		}
	}

	flush := func() {
		if eventCount == 0 {
			return
		}
		logging.Debug("flushing accumulated events", "count", eventCount)

		// Manifest changes first: they imply a full re-gather anyway.
		if paths, ok := accumulated[ChangeTypeManifest]; ok && len(paths) > 0 {
			d.output <- ChangeEvent{Type: ChangeTypeManifest, Paths: paths, Timestamp: time.Now()}
		}
		if paths, ok := accumulated[ChangeTypeLockfile]; ok && len(paths) > 0 {
			d.output <- ChangeEvent{Type: ChangeTypeLockfile, Paths: paths, Timestamp: time.Now()}
		}

		accumulated = make(map[ChangeType][]string)
		eventCount = 0
		stopTimers()
	}

	quietC := func() <-chan time.Time {
		if quietTimer == nil {
			return nil
		}
		return quietTimer.C
	}
	maxWaitC := func() <-chan time.Time {
		if maxWaitTimer == nil {
			return nil
		}
		return maxWaitTimer.C
	}

	for {
		select {
		case <-ctx.Done():
			stopTimers()
			close(d.output)
			return

		case ev, ok := <-d.input:
			if !ok {
				flush()
				close(d.output)
				return
			}

			accumulated[ev.Type] = append(accumulated[ev.Type], ev.Paths...)
			eventCount++

			if quietTimer == nil {
				quietTimer = time.NewTimer(d.quietPeriod)
			} else {
				quietTimer.Reset(d.quietPeriod)
			}
			if maxWaitTimer == nil {
				maxWaitTimer = time.NewTimer(d.maxWait)
			}

		case <-quietC():
			quietTimer = nil
			flush()

		case <-maxWaitC():
			maxWaitTimer = nil
			flush()
		}
	}
}
