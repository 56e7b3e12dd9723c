package models

import (
	"sort"

	"github.com/navikt/roompanel/internal/device"
)

// SourceListItem is one routable source of a room's source list
type SourceListItem struct {
	// Key is the route key the item selects
	Key                 string `yaml:"-" json:"key"`
	PreferredName       string `yaml:"preferred_name" json:"preferred_name"`
	Icon                string `yaml:"icon" json:"icon"`
	Order               int    `yaml:"order" json:"order"`
	IncludeInSourceList bool   `yaml:"include_in_source_list" json:"include_in_source_list"`
	// DisableCodecSharing marks sources that must not be shared into a call
	DisableCodecSharing bool   `yaml:"disable_codec_sharing" json:"disable_codec_sharing"`
	SourceKey           string `yaml:"source_key" json:"source_key,omitempty"`

	// SourceDevice is resolved from SourceKey when the room is built
	SourceDevice device.Device `yaml:"-" json:"-"`
}

// SourceList maps route keys to items
type SourceList map[string]SourceListItem

// SourceLists maps source list keys to lists
type SourceLists map[string]SourceList

// Sorted returns the items ordered by Order, then by key, with Key filled in
func (l SourceList) Sorted() []SourceListItem {
	items := make([]SourceListItem, 0, len(l))
	for key, item := range l {
		item.Key = key
		items = append(items, item)
	}
	sort.Slice(items, func(i, j int) bool {
		if items[i].Order != items[j].Order {
			return items[i].Order < items[j].Order
		}
		return items[i].Key < items[j].Key
	})
	return items
}
