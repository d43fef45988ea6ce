// Package gate arbitrates the password reveal for a selected restricted
// item.
package gate

import (
	"sync"
	"time"
)

// State is the unlock state of the current selection.
type State string

const (
	// Locked means the item's content is hidden pending a correct password.
	Locked State = "locked"
	// Unlocked is terminal for the lifetime of the current selection.
	Unlocked State = "unlocked"
	// AuthFailed is a transient substate of Locked; it reverts on a timer.
	AuthFailed State = "auth_failed"
)

// DefaultRevertAfter is how long a failed attempt stays visible before the
// gate reverts to Locked.
const DefaultRevertAfter = 2 * time.Second

// Verify reports whether candidate proves possession of secret. The
// comparison is an exact plaintext match: case-sensitive, no
// normalization. Hardening this to a salted digest swaps only this
// function.
func Verify(secret, candidate string) bool {
	return secret != "" && candidate == secret
}

// Gate is the unlock state machine for one selection at a time. Arm
// rebinds it to a new item's secret and resets all transient state.
type Gate struct {
	mu          sync.Mutex
	state       State
	secret      string
	gen         int
	timer       *time.Timer
	revertAfter time.Duration
	onRevert    func(State)
}

// New creates a Gate. onRevert, if non-nil, is called when a failed
// attempt auto-reverts to Locked (it is never called from Submit or Arm).
func New(onRevert func(State)) *Gate {
	return &Gate{
		state:       Locked,
		revertAfter: DefaultRevertAfter,
		onRevert:    onRevert,
	}
}

// SetRevertAfter overrides the auto-revert delay. Tests use this to avoid
// real 2-second waits.
func (g *Gate) SetRevertAfter(d time.Duration) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.revertAfter = d
}

// Arm binds the gate to a new selection's secret, cancelling any pending
// revert. An empty secret means the item is unrestricted and the gate
// reports Unlocked immediately. Arm is idempotent and safe to call
// repeatedly for the same selection.
func (g *Gate) Arm(secret string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.gen++
	g.stopTimerLocked()
	g.secret = secret
	if secret == "" {
		g.state = Unlocked
	} else {
		g.state = Locked
	}
}

// Submit attempts to unlock with candidate and returns the resulting
// state. Every attempt is independent: no lockout, no rate limiting.
func (g *Gate) Submit(candidate string) State {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.state == Unlocked {
		return g.state
	}

	if Verify(g.secret, candidate) {
		g.stopTimerLocked()
		g.state = Unlocked
		return g.state
	}

	g.state = AuthFailed
	g.stopTimerLocked()
	gen := g.gen
	g.timer = time.AfterFunc(g.revertAfter, func() { g.revert(gen) })
	return g.state
}

// State returns the current unlock state.
func (g *Gate) State() State {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.state
}

// revert flips AuthFailed back to Locked unless the gate was re-armed or
// unlocked in the meantime.
func (g *Gate) revert(gen int) {
	g.mu.Lock()
	if gen != g.gen || g.state != AuthFailed {
		g.mu.Unlock()
		return
	}
	g.state = Locked
	cb := g.onRevert
	g.mu.Unlock()

	if cb != nil {
		cb(Locked)
	}
}

func (g *Gate) stopTimerLocked() {
	if g.timer != nil {
		g.timer.Stop()
		g.timer = nil
	}
}
