// Package srl projects ordered items into a fixed-capacity slot list on the panel
package srl

import (
	"sort"

	"github.com/navikt/roompanel/internal/panel"
)

// List is a bounded, slot-addressed list on a panel surface. Slots are 1-based.
type List struct {
	surface  panel.Surface
	id       panel.ListID
	capacity int
	count    int
}

// New creates a list with room for capacity rows
func New(s panel.Surface, id panel.ListID, capacity int) *List {
	return &List{surface: s, id: id, capacity: capacity}
}

// ID returns the panel list the rows are written to
func (l *List) ID() panel.ListID {
	return l.id
}

// Capacity returns the number of rows the surface can show
func (l *List) Capacity() int {
	return l.capacity
}

// Count returns the number of rows currently projected
func (l *List) Count() int {
	return l.count
}

// Clear removes every row with its press actions
func (l *List) Clear() {
	l.surface.ClearList(l.id)
	l.count = 0
}

// Add renders the next row. It returns false when the list is full.
func (l *List) Add(render func(Row)) bool {
	if l.count >= l.capacity {
		return false
	}
	l.count++
	render(Row{list: l, slot: l.count})
	l.surface.SetListCount(l.id, l.count)
	return true
}

// Row writes the fields of one slot
type Row struct {
	list *List
	slot int
}

// Slot returns the 1-based slot index
func (r Row) Slot() int {
	return r.slot
}

func (r Row) sig(field int) panel.ListSig {
	return panel.ListSig{List: r.list.id, Slot: r.slot, Field: field}
}

// SetString writes a string field
func (r Row) SetString(field int, v string) {
	r.list.surface.SetListString(r.sig(field), v)
}

// SetBool writes a bool field
func (r Row) SetBool(field int, v bool) {
	r.list.surface.SetListBool(r.sig(field), v)
}

// OnPress registers fn for a release of the button at field
func (r Row) OnPress(field int, fn func()) {
	r.list.surface.SetListPressAction(r.sig(field), fn)
}

// Rebuild clears l and renders the items accepted by include, ordered by
// less, into consecutive slots. Items past the capacity are dropped. A nil
// include accepts everything and a nil less keeps the given order.
// It returns the number of rows rendered.
func Rebuild[T any](l *List, items []T, include func(T) bool, less func(a, b T) bool, render func(Row, T)) int {
	l.Clear()

	selected := make([]T, 0, len(items))
	for _, item := range items {
		if include == nil || include(item) {
			selected = append(selected, item)
		}
	}
	if less != nil {
		sort.SliceStable(selected, func(i, j int) bool { return less(selected[i], selected[j]) })
	}

	for _, item := range selected {
		if !l.Add(func(r Row) { render(r, item) }) {
			break
		}
	}
	return l.count
}
