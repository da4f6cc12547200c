package bookings

type Status string

const (
	StatusPending   Status = "PENDING"
	StatusPaid      Status = "PAID"
	StatusFailed    Status = "FAILED"
	StatusCancelled Status = "CANCELLED"
	StatusExpired   Status = "EXPIRED"
	StatusRefunded  Status = "REFUNDED"
)

// IsValid checks if the booking status is valid
func (s Status) IsValid() bool {
	switch s {
	case StatusPending, StatusPaid, StatusFailed, StatusCancelled, StatusExpired, StatusRefunded:
		return true
	}
	return false
}

// String returns the string representation of Status
func (s Status) String() string {
	return string(s)
}

// IsTerminal reports whether no further transition is possible.
// PAID is not terminal: it can still move to CANCELLED or REFUNDED.
func (s Status) IsTerminal() bool {
	switch s {
	case StatusFailed, StatusCancelled, StatusExpired, StatusRefunded:
		return true
	}
	return false
}

// CanBeCancelled checks if a booking with this status can be cancelled
func (s Status) CanBeCancelled() bool {
	return s == StatusPaid
}

// HoldsInventory reports whether the booking's units are blocked for other
// buyers. Pending bookings block through their holds, paid ones through
// booking membership.
func (s Status) HoldsInventory() bool {
	return s == StatusPending || s == StatusPaid
}
