package domain

import (
	"encoding/json"
	"strconv"
	"time"
)

type MeetingStatus string

const (
	StatusConfirmed MeetingStatus = "confirmed"
	StatusPending   MeetingStatus = "pending"
	StatusCancelled MeetingStatus = "cancelled"
)

func ParseStatus(s string) (MeetingStatus, bool) {
	switch MeetingStatus(s) {
	case StatusConfirmed, StatusPending, StatusCancelled:
		return MeetingStatus(s), true
	default:
		return "", false
	}
}

// MeetingID is either a durable identity assigned by the backend or a
// provisional identity synthesized for an optimistic record. The two are
// distinguished by construction, never by inspecting the string format, so
// reconciliation cannot confuse them.
type MeetingID struct {
	value       string
	provisional bool
}

func RealMeetingID(value string) MeetingID {
	return MeetingID{value: value}
}

func ProvisionalMeetingID(now time.Time) MeetingID {
	return MeetingID{value: strconv.FormatInt(now.UnixMilli(), 10), provisional: true}
}

func (id MeetingID) String() string { return id.value }

func (id MeetingID) Provisional() bool { return id.provisional }

func (id MeetingID) IsZero() bool { return id.value == "" }

func (id MeetingID) MarshalJSON() ([]byte, error) {
	return json.Marshal(id.value)
}

// UnmarshalJSON only ever sees backend payloads, so the decoded identity is
// durable.
func (id *MeetingID) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	*id = RealMeetingID(s)
	return nil
}

// Meeting is a reservation linking an account to a service at a date/time
// for a duration in minutes.
type Meeting struct {
	ID        MeetingID     `json:"id"`
	ServiceID string        `json:"serviceId"`
	UserEmail string        `json:"userEmail"`
	Date      Date          `json:"date"`
	Time      TimeOfDay     `json:"time"`
	Duration  int           `json:"duration"`
	Status    MeetingStatus `json:"status"`
}

// StartAt is the combined date-time instant used for ordering.
func (m Meeting) StartAt() time.Time {
	return time.Date(m.Date.Year, m.Date.Month, m.Date.Day, m.Time.Hour, m.Time.Minute, 0, 0, time.Local)
}

func (m Meeting) EndAt() time.Time {
	return m.StartAt().Add(time.Duration(m.Duration) * time.Minute)
}

// Overlaps reports whether the two half-open intervals [start, start+duration)
// intersect. Equal start times alone do not define overlap; any intersection
// does. Cancelled meetings never occupy a slot.
func (m Meeting) Overlaps(other Meeting) bool {
	if m.Status == StatusCancelled || other.Status == StatusCancelled {
		return false
	}
	return m.StartAt().Before(other.EndAt()) && other.StartAt().Before(m.EndAt())
}
