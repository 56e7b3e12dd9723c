package models

import (
	"errors"
	"fmt"
	"sort"
	"time"
)

// ErrMeetingNotFound is returned when a meeting does not exist in a room's schedule
var ErrMeetingNotFound = errors.New("meeting not found")

// Meeting is one entry of a room's schedule as provided by the calendar
type Meeting struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Organizer string    `json:"organizer"`
	StartTime time.Time `json:"start_time"`
	EndTime   time.Time `json:"end_time"`
	Joinable  bool      `json:"joinable"`
	// DialString is what the codec dials to join, e.g. a SIP URI
	DialString string `json:"dial_string,omitempty"`
}

// Validate checks the fields a schedule entry cannot do without
func (m *Meeting) Validate() error {
	if m.ID == "" {
		return fmt.Errorf("meeting id is required")
	}
	if !m.EndTime.IsZero() && m.EndTime.Before(m.StartTime) {
		return fmt.Errorf("meeting %s ends before it starts", m.ID)
	}
	return nil
}

// StartsWithin reports whether the meeting starts in the window [now, now+window]
// or has started and not yet ended
func (m *Meeting) StartsWithin(now time.Time, window time.Duration) bool {
	if m.StartTime.After(now.Add(window)) {
		return false
	}
	if !m.EndTime.IsZero() && !m.EndTime.After(now) {
		return false
	}
	return true
}

// SortMeetings orders meetings by start time, then by id, so every reader
// sees the same order
func SortMeetings(meetings []*Meeting) {
	sort.SliceStable(meetings, func(i, j int) bool {
		if !meetings[i].StartTime.Equal(meetings[j].StartTime) {
			return meetings[i].StartTime.Before(meetings[j].StartTime)
		}
		return meetings[i].ID < meetings[j].ID
	})
}
