package orchestrator

import (
	"time"

	"github.com/navikt/roompanel/internal/models"
	"github.com/navikt/roompanel/internal/panel"
	"github.com/navikt/roompanel/internal/srl"
)

// NoMeetingsMessage fills the meeting list when nothing is booked
const NoMeetingsMessage = "No Meetings are booked for the remainder of the day."

// Meeting list fields
const (
	meetingFieldStart     = 1
	meetingFieldEnd       = 2
	meetingFieldTitle     = 3
	meetingFieldOrganizer = 4
	meetingFieldJoinText  = 5

	// bool fields
	meetingFieldJoinPress = 1
	meetingFieldJoinable  = 2
)

func (o *Orchestrator) formatTime(t time.Time) string {
	return t.In(o.cfg.Location).Format(time.Kitchen)
}

func (o *Orchestrator) refreshMeetingsList() {
	sched := o.schedule()
	if sched == nil {
		return
	}
	o.surface.SetString(panel.JoinMeetingsListIcon, "Calendar")
	o.surface.SetString(panel.JoinMeetingsListTitleText, "Today's Meetings")

	n := srl.Rebuild(o.meetingList, sched.Meetings(), func(m *models.Meeting) bool { return m != nil }, nil,
		func(r srl.Row, m *models.Meeting) {
			r.SetString(meetingFieldStart, o.formatTime(m.StartTime))
			r.SetString(meetingFieldEnd, o.formatTime(m.EndTime))
			r.SetString(meetingFieldTitle, m.Title)
			r.SetString(meetingFieldOrganizer, "<br>"+m.Organizer)
			r.SetString(meetingFieldJoinText, "Join")
			r.SetBool(meetingFieldJoinable, m.Joinable)
			if m.Joinable {
				r.OnPress(meetingFieldJoinPress, func() { o.joinMeeting(m) })
			}
		})

	if n == 0 {
		o.meetingList.Add(func(r srl.Row) {
			r.SetString(meetingFieldStart, "")
			r.SetString(meetingFieldEnd, "")
			r.SetString(meetingFieldTitle, NoMeetingsMessage)
			r.SetString(meetingFieldOrganizer, "")
			r.SetString(meetingFieldJoinText, "")
		})
	}
	o.log.Debug("meeting list rebuilt", "room", o.room.Key(), "meetings", n)
}

func (o *Orchestrator) joinMeeting(m *models.Meeting) {
	o.popups.Hide()
	o.ActivityCallButtonPressed()
	o.RoomOnAndDialMeeting(m)
}

// RoomOnAndDialMeeting dials m, first powering the room on and waiting
// for it to warm up if it is off
func (o *Orchestrator) RoomOnAndDialMeeting(m *models.Meeting) {
	if o.room == nil || m == nil {
		return
	}
	codec := o.room.Codec()
	if codec == nil {
		o.log.Warn("cannot dial, room has no call device", "room", o.room.Key(), "meeting", m.ID)
		return
	}
	dial := func() {
		codec.Dial(m)
		// Do not prompt for a meeting we joined
		o.lastMeetingDismissedID = m.ID
	}

	if o.room.OnFeedback().Get() {
		dial()
		return
	}

	o.warmDial.Unsubscribe()
	o.warmDial = o.room.IsWarmingUpFeedback().Once(func(warming bool) bool { return !warming }, func(bool) {
		o.warmDial = nil
		// Warming also ends when the warm-up is aborted by a power off
		if !o.room.OnFeedback().Get() {
			o.log.Info("room did not power on, meeting not dialed", "room", o.room.Key(), "meeting", m.ID)
			return
		}
		dial()
	})
	o.ActivityCallButtonPressed()

	// Rooms without a warm-up period are on already
	if o.warmDial != nil && o.room.OnFeedback().Get() && !o.room.IsWarmingUpFeedback().Get() {
		o.warmDial.Unsubscribe()
		o.warmDial = nil
		dial()
	}
}

// Next meeting prompt

func (o *Orchestrator) scheduleNextMeetingCheck() {
	o.stopNextMeetingCheck()
	gen := o.checkGen
	o.checkTimer = o.clock.AfterFunc(o.cfg.NextMeetingCheckInterval, func() {
		o.post.Post(func() {
			if gen != o.checkGen || o.room == nil {
				return
			}
			o.checkNextMeeting()
			o.scheduleNextMeetingCheck()
		})
	})
	o.checkNextMeeting()
}

func (o *Orchestrator) stopNextMeetingCheck() {
	o.checkGen++
	if o.checkTimer != nil {
		o.checkTimer.Stop()
		o.checkTimer = nil
	}
}

// checkNextMeeting prompts for the first joinable meeting about to start
// that was not dismissed or joined already
func (o *Orchestrator) checkNextMeeting() {
	sched := o.schedule()
	if sched == nil || o.view().inCall {
		o.hideNextMeetingPopup()
		return
	}

	now := o.clock.Now()
	var next *models.Meeting
	for _, m := range sched.Meetings() {
		if m != nil && m.Joinable && m.ID != o.lastMeetingDismissedID && m.StartsWithin(now, o.cfg.NextMeetingWindow) {
			next = m
			break
		}
	}
	if next == nil {
		o.hideNextMeetingPopup()
		return
	}
	if o.promptedMeeting != nil && o.promptedMeeting.ID == next.ID && o.surface.BoolValue(panel.JoinNextMeetingModalVisible) {
		return
	}

	o.promptedMeeting = next
	o.surface.SetString(panel.JoinNextMeetingTitle, next.Title)
	o.surface.SetString(panel.JoinNextMeetingTime, o.formatTime(next.StartTime)+" - "+o.formatTime(next.EndTime))
	o.surface.SetBool(panel.JoinNextMeetingModalVisible, true)
	o.log.Info("prompting next meeting", "room", o.room.Key(), "meeting", next.ID)
}

func (o *Orchestrator) hideNextMeetingPopup() {
	o.surface.SetBool(panel.JoinNextMeetingModalVisible, false)
}

func (o *Orchestrator) joinPromptedMeeting() {
	m := o.promptedMeeting
	if m == nil {
		return
	}
	o.promptedMeeting = nil
	o.hideNextMeetingPopup()
	o.joinMeeting(m)
}

func (o *Orchestrator) dismissPromptedMeeting() {
	if o.promptedMeeting != nil {
		o.lastMeetingDismissedID = o.promptedMeeting.ID
		o.promptedMeeting = nil
	}
	o.hideNextMeetingPopup()
}
