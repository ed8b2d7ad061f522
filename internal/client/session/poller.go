package session

import (
	"context"
	"sync"
	"time"

	"github.com/dvolkovs/fileshare/internal/logging"
)

// DefaultPollInterval is how often an active session view refreshes.
const DefaultPollInterval = 3 * time.Second

// Poller drives periodic Refresh calls for one session while its view is
// active. Cycles are wall-clock-scheduled: each tick fires regardless of
// whether the previous refresh finished, so a slow response delays only its
// own cycle. Overlapping refreshes are absorbed by the service's
// last-write-wins snapshot replacement.
//
// The poller stops when Stop is called, the context is cancelled, or a
// refresh observes the session's terminal state.
type Poller struct {
	svc      *Service
	log      logging.Logger
	interval time.Duration

	// onEnded, if set, is invoked once when a poll observes terminal state.
	onEnded func()

	stopOnce sync.Once
	stop     chan struct{}
	done     chan struct{}
}

func NewPoller(svc *Service, interval time.Duration, log logging.Logger) *Poller {
	if interval <= 0 {
		interval = DefaultPollInterval
	}
	return &Poller{
		svc:      svc,
		log:      log,
		interval: interval,
		stop:     make(chan struct{}),
		done:     make(chan struct{}),
	}
}

// OnEnded registers a callback fired when terminal state is observed.
// Must be called before Start.
func (p *Poller) OnEnded(fn func()) {
	p.onEnded = fn
}

// Start begins polling in a background goroutine. An initial refresh runs
// immediately so the view is populated before the first tick.
func (p *Poller) Start(ctx context.Context, sessionID int64) {
	go p.run(ctx, sessionID)
}

func (p *Poller) run(ctx context.Context, sessionID int64) {
	defer close(p.done)

	p.refresh(ctx, sessionID)
	if p.svc.Ended() {
		return
	}

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			// Each cycle runs independently so a hung request delays
			// its own cycle without blocking the next tick.
			go func() {
				if !p.refresh(ctx, sessionID) {
					return
				}
				if p.svc.Ended() {
					if p.onEnded != nil {
						p.onEnded()
					}
					p.Stop()
				}
			}()
		case <-ctx.Done():
			return
		case <-p.stop:
			return
		}
	}
}

// refresh runs one poll cycle. Failures are logged and swallowed: stale
// data stays visible until the next successful poll.
func (p *Poller) refresh(ctx context.Context, sessionID int64) bool {
	if err := p.svc.Refresh(ctx, sessionID); err != nil {
		p.log.Warn(ctx, "session poll failed", "session_id", sessionID, "error", err)
		return false
	}
	return true
}

// Stop halts polling. Safe to call more than once and concurrently with
// the poller's own terminal-state stop.
func (p *Poller) Stop() {
	p.stopOnce.Do(func() { close(p.stop) })
}

// Done is closed when the polling loop has exited.
func (p *Poller) Done() <-chan struct{} {
	return p.done
}
