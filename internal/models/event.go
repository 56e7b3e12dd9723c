package models

import (
	"fmt"
)

// Schedule event types accepted by the webhook
const (
	EventScheduleReplaced = "schedule.replaced"
	EventMeetingUpserted  = "meeting.upserted"
	EventMeetingDeleted   = "meeting.deleted"
)

// ScheduleEvent is the body of a calendar webhook call
type ScheduleEvent struct {
	Event   string          `json:"event"`
	Payload SchedulePayload `json:"payload"`
	EventTS int64           `json:"event_ts"` // Unix timestamp in milliseconds
}

// SchedulePayload names the room the event is about and carries its meetings
type SchedulePayload struct {
	Room      string     `json:"room"`
	Meetings  []*Meeting `json:"meetings,omitempty"`
	MeetingID string     `json:"meeting_id,omitempty"`
}

// Validate checks that the event is complete for its type
func (e *ScheduleEvent) Validate() error {
	if e.Payload.Room == "" {
		return fmt.Errorf("event %q has no room", e.Event)
	}
	switch e.Event {
	case EventScheduleReplaced:
	case EventMeetingUpserted:
		if len(e.Payload.Meetings) != 1 {
			return fmt.Errorf("event %q needs exactly one meeting, got %d", e.Event, len(e.Payload.Meetings))
		}
	case EventMeetingDeleted:
		if e.Payload.MeetingID == "" {
			return fmt.Errorf("event %q has no meeting_id", e.Event)
		}
		return nil
	default:
		return fmt.Errorf("unsupported event type %q", e.Event)
	}
	for _, m := range e.Payload.Meetings {
		if m == nil {
			return fmt.Errorf("event %q contains an empty meeting", e.Event)
		}
		if err := m.Validate(); err != nil {
			return err
		}
	}
	return nil
}
