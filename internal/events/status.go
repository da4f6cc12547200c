package events

type EventStatus string

const (
	StatusDraft     EventStatus = "draft"
	StatusPublished EventStatus = "published"
	StatusCancelled EventStatus = "cancelled"
)

// IsValid checks if the event status is valid
func (s EventStatus) IsValid() bool {
	switch s {
	case StatusDraft, StatusPublished, StatusCancelled:
		return true
	}
	return false
}

// IsBookable reports whether reservations are accepted for events in this
// status. Start time is checked separately at reserve time.
func (s EventStatus) IsBookable() bool {
	return s == StatusPublished
}
