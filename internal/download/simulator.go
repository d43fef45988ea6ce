// Package download runs the cosmetic transfer animation and resolves the
// real payload delivered at the end of it. The progress is intentionally
// decoupled from the (already complete) byte transfer.
package download

import (
	"math/rand"
	"sync"
	"time"
)

// State is the phase of the simulated transfer.
type State string

const (
	Idle       State = "idle"
	InProgress State = "in_progress"
	Complete   State = "complete"
)

// DefaultTick is the period of the progress timer.
const DefaultTick = 150 * time.Millisecond

// maxStep bounds the random progress increment per tick: [0, maxStep).
const maxStep = 20.0

// Simulator animates Idle -> InProgress -> Complete for one selection at a
// time. The timer is cancellable so a selection change never leaves an
// orphaned goroutine mutating stale state.
type Simulator struct {
	mu       sync.Mutex
	state    State
	progress float64
	gen      int
	stop     chan struct{}

	tick       time.Duration
	step       func() float64
	onTick     func(progress float64)
	onComplete func()
}

// NewSimulator creates a Simulator. onTick receives each progress update;
// onComplete fires exactly once per run, when progress clamps to 100.
// Either callback may be nil.
func NewSimulator(onTick func(float64), onComplete func()) *Simulator {
	return &Simulator{
		state:      Idle,
		tick:       DefaultTick,
		step:       func() float64 { return rand.Float64() * maxStep },
		onTick:     onTick,
		onComplete: onComplete,
	}
}

// SetTick overrides the timer period (tests shrink it).
func (s *Simulator) SetTick(d time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tick = d
}

// SetStep overrides the per-tick increment function (tests make it
// deterministic).
func (s *Simulator) SetStep(step func() float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.step = step
}

// Start begins a run. It reports false when a run is already in progress
// or the previous run has not been reset.
func (s *Simulator) Start() bool {
	s.mu.Lock()
	if s.state != Idle {
		s.mu.Unlock()
		return false
	}
	s.state = InProgress
	s.progress = 0
	s.gen++
	gen := s.gen
	stop := make(chan struct{})
	s.stop = stop
	tick := s.tick
	s.mu.Unlock()

	go s.run(gen, stop, tick)
	return true
}

// Cancel stops any in-flight run and returns the simulator to Idle. It is
// idempotent and must be called on selection change.
func (s *Simulator) Cancel() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cancelLocked()
	s.state = Idle
	s.progress = 0
}

// Reset re-arms a completed run ("download again"). It does nothing while
// a run is in progress.
func (s *Simulator) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state == Complete {
		s.state = Idle
		s.progress = 0
	}
}

// Snapshot returns the current state and progress rounded to a percent.
func (s *Simulator) Snapshot() (State, int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state, int(s.progress + 0.5)
}

func (s *Simulator) run(gen int, stop chan struct{}, tick time.Duration) {
	ticker := time.NewTicker(tick)
	defer ticker.Stop()

	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
		}

		s.mu.Lock()
		if gen != s.gen || s.state != InProgress {
			s.mu.Unlock()
			return
		}
		s.progress += s.step()
		if s.progress >= 100 {
			s.progress = 100
			s.state = Complete
			s.stop = nil
			onTick, onComplete := s.onTick, s.onComplete
			s.mu.Unlock()
			if onTick != nil {
				onTick(100)
			}
			if onComplete != nil {
				onComplete()
			}
			return
		}
		p := s.progress
		onTick := s.onTick
		s.mu.Unlock()
		if onTick != nil {
			onTick(p)
		}
	}
}

// cancelLocked invalidates the running goroutine. Callers hold mu.
func (s *Simulator) cancelLocked() {
	s.gen++
	if s.stop != nil {
		close(s.stop)
		s.stop = nil
	}
}
