// Package event implements the named-listener fan-out used internally by
// queries and the world (spec §4.6). Unlike the teacher's reflect-typed,
// double-buffered Bus, dispatch here is synchronous and string-keyed: a
// mutation fires its event the instant it happens, with no tick delay.
package event

// Listener receives a dispatched event's positional payload. Shape is
// event-specific by convention (e.g. (entity) for ENTITY_ADDED, (entity,
// TypeID, component) for COMPONENT_CHANGED).
type Listener func(args ...any)

// Token identifies a single subscription for Remove. Go funcs are not
// comparable, so Add hands back a Token rather than asking Remove to match
// the original Listener value.
type Token struct {
	name string
	id   int64
}

type entry struct {
	id int64
	fn Listener
}

// Dispatcher is a named-listener registry with fired/handled counters for
// diagnostics. Dispatch snapshots the listener slice before iterating, so a
// listener may add or remove listeners (including itself) without
// corrupting the delivery in progress.
type Dispatcher struct {
	listeners map[string][]entry
	fired     map[string]int
	handled   map[string]int
	seq       int64
}

// NewDispatcher constructs an empty dispatcher.
func NewDispatcher() *Dispatcher {
	return &Dispatcher{
		listeners: make(map[string][]entry),
		fired:     make(map[string]int),
		handled:   make(map[string]int),
	}
}

// Add registers l for name and returns a Token that can later be passed to
// Remove.
func (d *Dispatcher) Add(name string, l Listener) Token {
	d.seq++
	tok := Token{name: name, id: d.seq}
	d.listeners[name] = append(d.listeners[name], entry{id: tok.id, fn: l})
	return tok
}

// Remove unregisters the listener identified by tok. A Token for an
// already-removed or unknown listener is a silent no-op.
func (d *Dispatcher) Remove(tok Token) {
	entries := d.listeners[tok.name]
	for i, en := range entries {
		if en.id == tok.id {
			d.listeners[tok.name] = append(entries[:i:i], entries[i+1:]...)
			return
		}
	}
}

// Has reports whether any listener is registered for name.
func (d *Dispatcher) Has(name string) bool {
	return len(d.listeners[name]) > 0
}

// Dispatch delivers args to every listener registered for name, in
// subscription order, against a snapshot taken before the first call. A
// panicking listener aborts delivery for the remaining listeners of this
// dispatch — the dispatcher does not recover on a listener's behalf;
// listeners own their own error containment (§7).
func (d *Dispatcher) Dispatch(name string, args ...any) {
	entries := d.listeners[name]
	if len(entries) == 0 {
		return
	}
	d.fired[name]++
	snapshot := make([]entry, len(entries))
	copy(snapshot, entries)
	for _, en := range snapshot {
		en.fn(args...)
		d.handled[name]++
	}
}

// Counters returns the fired/handled dispatch counts, keyed by event name.
func (d *Dispatcher) Counters() (fired, handled map[string]int) {
	return d.fired, d.handled
}

// ResetCounters zeroes every fired/handled counter without removing any
// listener. Declared but unused by the rest of the engine in the source
// this was ported from; exposed here as the public diagnostic reset the
// port was meant to add (§9 open question).
func (d *Dispatcher) ResetCounters() {
	for k := range d.fired {
		d.fired[k] = 0
	}
	for k := range d.handled {
		d.handled[k] = 0
	}
}
