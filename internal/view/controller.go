// Package view owns the selection-derived state for one client session:
// which item the URL fragment resolves to, its unlock state, and the
// simulated download. Changing the selection resets everything downstream,
// and the reset is applied before the new state is emitted.
package view

import (
	"sync"

	"github.com/nexuscore/vaultd/internal/catalog"
	"github.com/nexuscore/vaultd/internal/download"
	"github.com/nexuscore/vaultd/internal/gate"
	"github.com/nexuscore/vaultd/internal/route"
)

// DetailTab is the secondary tab on the item detail pane.
type DetailTab string

const (
	TabOverview DetailTab = "overview"
	TabConfig   DetailTab = "config"
)

// State is a snapshot of the session's derived view state.
type State struct {
	SelectedID string         `json:"selected_id"`
	Restricted bool           `json:"restricted"`
	Gate       gate.State     `json:"gate"`
	Download   download.State `json:"download"`
	Progress   int            `json:"progress"`
	DetailTab  DetailTab      `json:"detail_tab"`
}

// Callbacks receive asynchronous updates from the controller. All fields
// may be nil. OnComplete fires at most once per finished download run,
// with the item that was selected when the run started; a selection
// change while the run is settling drops the delivery instead.
type Callbacks struct {
	OnState    func(State)
	OnProgress func(progress int)
	OnComplete func(item catalog.Item)
}

// Controller is the per-session state machine. It is safe for concurrent
// use; in practice one reader loop drives it.
type Controller struct {
	mu       sync.Mutex
	catalog  *catalog.Store
	registry *catalog.SessionRegistry
	gate     *gate.Gate
	sim      *download.Simulator
	cb       Callbacks

	selected  string
	detailTab DetailTab

	// runGen invalidates in-flight completions: Navigate and Close bump
	// it, StartDownload pins the current value alongside the item so a
	// run that settles after a selection change delivers nothing.
	runGen     int
	pending    catalog.Item
	pendingGen int
}

// NewController creates a Controller with no selection.
func NewController(store *catalog.Store, registry *catalog.SessionRegistry, cb Callbacks) *Controller {
	c := &Controller{
		catalog:   store,
		registry:  registry,
		cb:        cb,
		detailTab: TabOverview,
	}
	c.gate = gate.New(func(gate.State) { c.emitState() })
	c.sim = download.NewSimulator(c.onTick, c.onComplete)
	return c
}

// Gate exposes the unlock machine (tests tune its revert delay).
func (c *Controller) Gate() *gate.Gate { return c.gate }

// Simulator exposes the download machine (tests tune its tick and step).
func (c *Controller) Simulator() *download.Simulator { return c.sim }

// Navigate resolves the fragment to an item id (unknown ids resolve to no
// selection) and unconditionally resets the dependent state: unlock back
// to locked, auth error cleared, download cancelled, detail tab back to
// its default. The reset is idempotent and never rewrites the fragment,
// so there is no feedback loop.
func (c *Controller) Navigate(fragment string) State {
	id := route.ParseFragment(fragment)
	item, ok := c.catalog.FindByID(id)
	if !ok {
		id = ""
	}

	c.sim.Cancel()

	c.mu.Lock()
	c.selected = id
	c.detailTab = TabOverview
	c.runGen++
	c.mu.Unlock()

	c.gate.Arm(item.AccessPassword)

	return c.emitState()
}

// Unlock submits a password for the current selection. Unrestricted and
// empty selections pass through unchanged. Every call emits a state so
// clients always get an acknowledgment, even for no-ops.
func (c *Controller) Unlock(candidate string) State {
	item, ok := c.selectedItem()
	if !ok || !item.Restricted() {
		return c.emitState()
	}
	c.gate.Submit(candidate)
	return c.emitState()
}

// StartDownload begins the simulated transfer. Restricted items must be
// unlocked first; a refused start still emits the unchanged state.
func (c *Controller) StartDownload() State {
	item, ok := c.selectedItem()
	if !ok {
		return c.emitState()
	}
	if item.Restricted() && c.gate.State() != gate.Unlocked {
		return c.emitState()
	}
	if c.sim.Start() {
		c.mu.Lock()
		c.pending = item
		c.pendingGen = c.runGen
		c.mu.Unlock()
	}
	return c.emitState()
}

// ResetDownload re-arms a completed transfer.
func (c *Controller) ResetDownload() State {
	c.sim.Reset()
	return c.emitState()
}

// SetDetailTab switches the detail pane tab. Unknown values fall back to
// the overview tab.
func (c *Controller) SetDetailTab(tab DetailTab) State {
	if tab != TabConfig {
		tab = TabOverview
	}
	c.mu.Lock()
	c.detailTab = tab
	c.mu.Unlock()
	return c.emitState()
}

// Close cancels any in-flight timers. Call on session teardown.
func (c *Controller) Close() {
	c.sim.Cancel()
	c.mu.Lock()
	c.runGen++
	c.mu.Unlock()
}

// Snapshot returns the current view state.
func (c *Controller) Snapshot() State {
	return c.snapshot()
}

func (c *Controller) selectedItem() (catalog.Item, bool) {
	c.mu.Lock()
	id := c.selected
	c.mu.Unlock()
	return c.catalog.FindByID(id)
}

func (c *Controller) snapshot() State {
	c.mu.Lock()
	id := c.selected
	tab := c.detailTab
	c.mu.Unlock()

	item, ok := c.catalog.FindByID(id)
	dlState, progress := c.sim.Snapshot()

	return State{
		SelectedID: id,
		Restricted: ok && item.Restricted(),
		Gate:       c.gate.State(),
		Download:   dlState,
		Progress:   progress,
		DetailTab:  tab,
	}
}

func (c *Controller) emitState() State {
	st := c.snapshot()
	if c.cb.OnState != nil {
		c.cb.OnState(st)
	}
	return st
}

func (c *Controller) onTick(progress float64) {
	if c.cb.OnProgress != nil {
		c.cb.OnProgress(int(progress + 0.5))
	}
}

func (c *Controller) onComplete() {
	// The simulator commits Complete before calling back, so a Navigate
	// can land in between. The pinned generation catches that window.
	c.mu.Lock()
	item := c.pending
	stale := c.pendingGen != c.runGen
	c.mu.Unlock()
	if stale {
		return
	}
	if c.cb.OnComplete != nil {
		c.cb.OnComplete(item)
	}
}
