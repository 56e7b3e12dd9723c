package panel

import (
	"sort"
	"sync"
)

// Kind identifies the type of a panel output change
type Kind string

const (
	KindBool       Kind = "bool"
	KindUshort     Kind = "ushort"
	KindString     Kind = "string"
	KindListBool   Kind = "list_bool"
	KindListString Kind = "list_string"
	KindListCount  Kind = "list_count"
)

// Change describes one output write, as sent to transports
type Change struct {
	Kind  Kind   `json:"kind"`
	Join  Join   `json:"join,omitempty"`
	List  ListID `json:"list,omitempty"`
	Slot  int    `json:"slot,omitempty"`
	Field int    `json:"field,omitempty"`
	Value any    `json:"value"`
}

// Watcher receives every output change of a panel
type Watcher func(panelKey string, c Change)

// Panel is an in-memory Surface. It keeps the latest output state for new
// transport clients and routes transport input to the registered actions.
type Panel struct {
	key string

	mu          sync.RWMutex
	bools       map[Join]bool
	ushorts     map[Join]uint16
	strings     map[Join]string
	listBools   map[ListSig]bool
	listStrings map[ListSig]string
	listCounts  map[ListID]int

	boolActions   map[Join]func(bool)
	ushortActions map[Join]func(uint16)
	listActions   map[ListSig]func()

	watchers []Watcher
}

// New creates an empty Panel
func New(key string) *Panel {
	return &Panel{
		key:           key,
		bools:         make(map[Join]bool),
		ushorts:       make(map[Join]uint16),
		strings:       make(map[Join]string),
		listBools:     make(map[ListSig]bool),
		listStrings:   make(map[ListSig]string),
		listCounts:    make(map[ListID]int),
		boolActions:   make(map[Join]func(bool)),
		ushortActions: make(map[Join]func(uint16)),
		listActions:   make(map[ListSig]func()),
	}
}

// Key returns the panel key
func (p *Panel) Key() string {
	return p.key
}

// Watch registers w for all future output changes
func (p *Panel) Watch(w Watcher) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.watchers = append(p.watchers, w)
}

func (p *Panel) emit(c Change) {
	p.mu.RLock()
	watchers := p.watchers
	p.mu.RUnlock()

	for _, w := range watchers {
		w(p.key, c)
	}
}

func (p *Panel) SetBool(j Join, v bool) {
	p.mu.Lock()
	old, ok := p.bools[j]
	p.bools[j] = v
	p.mu.Unlock()
	if !ok || old != v {
		p.emit(Change{Kind: KindBool, Join: j, Value: v})
	}
}

func (p *Panel) SetUshort(j Join, v uint16) {
	p.mu.Lock()
	old, ok := p.ushorts[j]
	p.ushorts[j] = v
	p.mu.Unlock()
	if !ok || old != v {
		p.emit(Change{Kind: KindUshort, Join: j, Value: v})
	}
}

func (p *Panel) SetString(j Join, v string) {
	p.mu.Lock()
	old, ok := p.strings[j]
	p.strings[j] = v
	p.mu.Unlock()
	if !ok || old != v {
		p.emit(Change{Kind: KindString, Join: j, Value: v})
	}
}

func (p *Panel) BoolValue(j Join) bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.bools[j]
}

func (p *Panel) UshortValue(j Join) uint16 {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.ushorts[j]
}

func (p *Panel) StringValue(j Join) string {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.strings[j]
}

func (p *Panel) SetPressAction(j Join, fn func()) {
	p.SetBoolAction(j, func(pressed bool) {
		if !pressed {
			fn()
		}
	})
}

func (p *Panel) SetBoolAction(j Join, fn func(bool)) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.boolActions[j] = fn
}

func (p *Panel) ClearBoolAction(j Join) {
	p.mu.Lock()
	defer p.mu.Unlock()
	delete(p.boolActions, j)
}

func (p *Panel) SetUshortAction(j Join, fn func(uint16)) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.ushortActions[j] = fn
}

func (p *Panel) ClearUshortAction(j Join) {
	p.mu.Lock()
	defer p.mu.Unlock()
	delete(p.ushortActions, j)
}

func (p *Panel) SetListBool(s ListSig, v bool) {
	p.mu.Lock()
	p.listBools[s] = v
	p.mu.Unlock()
	p.emit(Change{Kind: KindListBool, List: s.List, Slot: s.Slot, Field: s.Field, Value: v})
}

func (p *Panel) SetListString(s ListSig, v string) {
	p.mu.Lock()
	p.listStrings[s] = v
	p.mu.Unlock()
	p.emit(Change{Kind: KindListString, List: s.List, Slot: s.Slot, Field: s.Field, Value: v})
}

func (p *Panel) SetListCount(l ListID, n int) {
	p.mu.Lock()
	p.listCounts[l] = n
	p.mu.Unlock()
	p.emit(Change{Kind: KindListCount, List: l, Value: n})
}

func (p *Panel) ListCount(l ListID) int {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.listCounts[l]
}

func (p *Panel) ListString(s ListSig) string {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.listStrings[s]
}

func (p *Panel) ListBool(s ListSig) bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.listBools[s]
}

func (p *Panel) SetListPressAction(s ListSig, fn func()) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.listActions[s] = fn
}

func (p *Panel) ClearList(l ListID) {
	p.mu.Lock()
	for s := range p.listBools {
		if s.List == l {
			delete(p.listBools, s)
		}
	}
	for s := range p.listStrings {
		if s.List == l {
			delete(p.listStrings, s)
		}
	}
	for s := range p.listActions {
		if s.List == l {
			delete(p.listActions, s)
		}
	}
	p.listCounts[l] = 0
	p.mu.Unlock()
	p.emit(Change{Kind: KindListCount, List: l, Value: 0})
}

// Input

// SetInputBool delivers a button state change from the panel. It reports
// whether an action was registered for j.
func (p *Panel) SetInputBool(j Join, pressed bool) bool {
	p.mu.RLock()
	fn, ok := p.boolActions[j]
	p.mu.RUnlock()
	if ok {
		fn(pressed)
	}
	return ok
}

// Press delivers a full press and release of the button at j
func (p *Panel) Press(j Join) bool {
	if !p.SetInputBool(j, true) {
		return false
	}
	p.SetInputBool(j, false)
	return true
}

// SetInputUshort delivers an analog value (e.g. a slider) from the panel
func (p *Panel) SetInputUshort(j Join, v uint16) bool {
	p.mu.RLock()
	fn, ok := p.ushortActions[j]
	p.mu.RUnlock()
	if ok {
		fn(v)
	}
	return ok
}

// PressListItem delivers a release of the list button at s
func (p *Panel) PressListItem(s ListSig) bool {
	p.mu.RLock()
	fn, ok := p.listActions[s]
	p.mu.RUnlock()
	if ok {
		fn()
	}
	return ok
}

// Snapshot returns every current output as a list of changes, in a stable order
func (p *Panel) Snapshot() []Change {
	p.mu.RLock()
	defer p.mu.RUnlock()

	var out []Change
	for j, v := range p.bools {
		out = append(out, Change{Kind: KindBool, Join: j, Value: v})
	}
	for j, v := range p.ushorts {
		out = append(out, Change{Kind: KindUshort, Join: j, Value: v})
	}
	for j, v := range p.strings {
		out = append(out, Change{Kind: KindString, Join: j, Value: v})
	}
	for l, n := range p.listCounts {
		out = append(out, Change{Kind: KindListCount, List: l, Value: n})
	}
	for s, v := range p.listBools {
		out = append(out, Change{Kind: KindListBool, List: s.List, Slot: s.Slot, Field: s.Field, Value: v})
	}
	for s, v := range p.listStrings {
		out = append(out, Change{Kind: KindListString, List: s.List, Slot: s.Slot, Field: s.Field, Value: v})
	}

	sort.Slice(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if a.Kind != b.Kind {
			return a.Kind < b.Kind
		}
		if a.Join != b.Join {
			return a.Join < b.Join
		}
		if a.List != b.List {
			return a.List < b.List
		}
		if a.Slot != b.Slot {
			return a.Slot < b.Slot
		}
		return a.Field < b.Field
	})
	return out
}
