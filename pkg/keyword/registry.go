package keyword

import (
	"reflect"
	"sync"
)

// Registry owns the mutable table of (keyword, callback) bindings and
// lazily compiles them into an Automaton. A Registry is safe for
// concurrent use; compilation is memoized behind a dirty flag so repeated
// calls to Compile or Snapshot are cheap once stable.
type Registry struct {
	mu       sync.Mutex
	order    []string // first-seen order of every keyword ever registered
	bindings map[string][]Callback
	dirty    bool
	cached   *Snapshot
}

// NewRegistry returns an empty Registry.
func NewRegistry() *Registry {
	return &Registry{bindings: make(map[string][]Callback), dirty: true}
}

// Register binds cb to keyword, appending it to that keyword's callback
// list. Callbacks for the same keyword run in the order they were
// registered. Returns ErrInvalidKeyword if keyword is empty.
func (r *Registry) Register(kw string, cb Callback) error {
	if kw == "" {
		return ErrInvalidKeyword
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.bindings[kw]; !ok {
		r.order = append(r.order, kw)
	}
	r.bindings[kw] = append(r.bindings[kw], cb)
	r.dirty = true
	return nil
}

// Deregister removes the first binding in kw's callback list whose
// callback equals cb (by ordinary == for non-func values, by code pointer
// for funcs). A no-op if no such binding exists.
func (r *Registry) Deregister(kw string, cb Callback) {
	r.mu.Lock()
	defer r.mu.Unlock()
	list := r.bindings[kw]
	for i, c := range list {
		if callbacksEqual(c, cb) {
			r.bindings[kw] = append(list[:i:i], list[i+1:]...)
			r.dirty = true
			return
		}
	}
}

// MaxLen returns the rune length of the longest keyword currently bound to
// at least one callback (0 if none).
func (r *Registry) MaxLen() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	max := 0
	for _, kw := range r.activeKeywordsLocked() {
		if n := runeLen(kw); n > max {
			max = n
		}
	}
	return max
}

// Compile rebuilds the automaton if the registry has been mutated since the
// last compile. Safe to call repeatedly.
func (r *Registry) Compile() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.compileLocked()
}

// Snapshot returns an immutable handle to the currently compiled automaton
// and bindings. A Processor captures one snapshot at construction; later
// registry mutations do not affect streams already holding a snapshot.
func (r *Registry) Snapshot() *Snapshot {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.compileLocked()
	return r.cached
}

func (r *Registry) compileLocked() {
	if !r.dirty && r.cached != nil {
		return
	}
	keywords := r.activeKeywordsLocked()
	automaton := buildAutomaton(keywords)
	bindings := make(map[string][]Callback, len(keywords))
	for _, kw := range keywords {
		cbs := r.bindings[kw]
		cp := make([]Callback, len(cbs))
		copy(cp, cbs)
		bindings[kw] = cp
	}
	r.cached = &Snapshot{automaton: automaton, bindings: bindings}
	r.dirty = false
}

// activeKeywordsLocked returns keywords with at least one bound callback,
// in first-registration order. Caller must hold r.mu.
func (r *Registry) activeKeywordsLocked() []string {
	active := make([]string, 0, len(r.order))
	for _, kw := range r.order {
		if len(r.bindings[kw]) > 0 {
			active = append(active, kw)
		}
	}
	return active
}

func runeLen(s string) int {
	n := 0
	for range s {
		n++
	}
	return n
}

// callbacksEqual compares two Callback values for the identity needed by
// Deregister. Function values (including CallbackFunc) compare by code
// pointer, since Go forbids == on func-typed interface values; anything
// else falls back to ordinary interface equality.
func callbacksEqual(a, b Callback) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	va, vb := reflect.ValueOf(a), reflect.ValueOf(b)
	if va.Type() != vb.Type() {
		return false
	}
	if va.Kind() == reflect.Func {
		return va.Pointer() == vb.Pointer()
	}
	return a == b
}

// Snapshot is an immutable, point-in-time compiled view of a Registry:
// its automaton and the callback bindings active when it was taken.
type Snapshot struct {
	automaton *Automaton
	bindings  map[string][]Callback
}

// MaxLen returns L for this snapshot's automaton.
func (s *Snapshot) MaxLen() int { return s.automaton.MaxLen() }

// Root returns the automaton's initial state.
func (s *Snapshot) Root() *Node { return s.automaton.Root() }

// Step advances the automaton state on rune r.
func (s *Snapshot) Step(n *Node, r rune) *Node { return s.automaton.Step(n, r) }

// Matches returns the keywords reported at state n, longest first.
func (s *Snapshot) Matches(n *Node) []Match { return s.automaton.Matches(n) }

// Callbacks returns the callback list bound to kw at snapshot time, in
// registration order. Returns nil if kw has no bindings.
func (s *Snapshot) Callbacks(kw string) []Callback { return s.bindings[kw] }
