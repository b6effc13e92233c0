// Package barrier implements the cross-output animation rendezvous: a
// barrier that keeps looped decoded-animation frames aligned across
// outputs, but tolerates a stuck or departed worker by dropping it from
// future rendezvous rather than blocking everyone else forever.
package barrier

import (
	"sync"
	"time"
)

// Barrier is a rendezvous point for the animation workers sharing one
// ImageAnimator request. Workers join implicitly on their first Wait call;
// a worker that arrives more than tolerance after the first arrival is
// dropped from the goal, permanently shrinking the group it waits with.
type Barrier struct {
	mu sync.Mutex

	// goal is the number of workers the barrier currently expects each
	// round; it only ever shrinks (new joiners raise it back up).
	goal int
	// arrived counts workers that have called Wait this round.
	arrived int
	// epoch increments each time the round completes, letting a waiter
	// that was asleep detect the round already moved on.
	epoch int
	cond  *sync.Cond

	// started is the wall-clock time the first arrival of the current
	// round was recorded, used to measure the tolerance window.
	started time.Time
}

// New creates an empty Barrier. Workers register by calling Wait.
func New() *Barrier {
	b := &Barrier{}
	b.cond = sync.NewCond(&b.mu)
	return b
}

// Wait blocks until either every currently-registered worker has called
// Wait this round, or tolerance has elapsed since the first arrival — in
// which case the goal is reduced to the arrivals actually observed,
// permanently dropping any worker that didn't show up in time.
//
// Parameters:
//   - tolerance: how long to wait for stragglers before dropping them
func (b *Barrier) Wait(tolerance time.Duration) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.arrived == 0 {
		b.started = time.Now()
	}
	b.arrived++
	if b.arrived > b.goal {
		b.goal = b.arrived
	}
	myEpoch := b.epoch

	if b.arrived >= b.goal {
		b.release()
		return
	}

	deadline := b.started.Add(tolerance)
	for b.epoch == myEpoch {
		remaining := time.Until(deadline)
		if remaining <= 0 {
			if b.epoch == myEpoch {
				// Still waiting past tolerance: drop the stragglers by
				// shrinking the goal to what actually arrived.
				b.goal = b.arrived
				b.release()
			}
			return
		}
		b.waitFor(remaining)
	}
}

// release ends the current round and wakes every waiter.
func (b *Barrier) release() {
	b.arrived = 0
	b.epoch++
	b.cond.Broadcast()
}

// waitFor blocks on the condition variable for at most d, re-locking
// before returning (sync.Cond.Wait always relocks, but has no timeout of
// its own, so a helper goroutine nudges it after d elapses).
func (b *Barrier) waitFor(d time.Duration) {
	woke := make(chan struct{})
	timer := time.AfterFunc(d, func() {
		b.mu.Lock()
		b.cond.Broadcast()
		b.mu.Unlock()
		close(woke)
	})
	b.cond.Wait()
	timer.Stop()
	select {
	case <-woke:
	default:
	}
}

// Leave reduces the goal by one, for a worker that is shutting down
// outside of a Wait call (e.g. its wallpaper was removed). Safe to call
// even if the worker never joined.
func (b *Barrier) Leave() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.goal > 0 {
		b.goal--
	}
	if b.arrived >= b.goal && b.goal > 0 {
		b.release()
	}
}
