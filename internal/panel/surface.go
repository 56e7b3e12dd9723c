// Package panel models the touch panel display surface: named bool, ushort
// and string outputs, slot lists, and the input actions wired to them
package panel

import (
	"github.com/navikt/roompanel/internal/feedback"
)

// Surface is the display-surface channel set the orchestrator writes to.
// Implementations are only touched from the dispatch context.
type Surface interface {
	SetBool(j Join, v bool)
	SetUshort(j Join, v uint16)
	SetString(j Join, v string)
	BoolValue(j Join) bool
	UshortValue(j Join) uint16
	StringValue(j Join) string

	// SetPressAction runs fn when the button at j is released
	SetPressAction(j Join, fn func())
	// SetBoolAction runs fn for every press and release at j
	SetBoolAction(j Join, fn func(bool))
	ClearBoolAction(j Join)
	SetUshortAction(j Join, fn func(uint16))
	ClearUshortAction(j Join)

	SetListBool(s ListSig, v bool)
	SetListString(s ListSig, v string)
	SetListCount(l ListID, n int)
	ListCount(l ListID) int
	ListString(s ListSig) string
	ListBool(s ListSig) bool
	// SetListPressAction runs fn when the list button at s is released
	SetListPressAction(s ListSig, fn func())
	// ClearList drops every value and action of the list
	ClearList(l ListID)
}

// LinkBool mirrors fb onto the bool join j until the subscription is released
func LinkBool(s Surface, fb *feedback.Bool, j Join) *feedback.Subscription {
	s.SetBool(j, fb.Get())
	return fb.Subscribe(func(v bool) { s.SetBool(j, v) })
}

// LinkUshort mirrors fb onto the ushort join j until the subscription is released
func LinkUshort(s Surface, fb *feedback.Value[uint16], j Join) *feedback.Subscription {
	s.SetUshort(j, fb.Get())
	return fb.Subscribe(func(v uint16) { s.SetUshort(j, v) })
}
