package scheduling

// ===============================
// Booking Status
// ===============================

type Status string

const (
	StatusPending        Status = "pending"
	StatusPendingPayment Status = "pending_payment"
	StatusConfirmed      Status = "confirmed"
	StatusCancelled      Status = "cancelled"
	StatusCompleted      Status = "completed"
	StatusNoShow         Status = "no_show"
)

// InitialStatus is the only status a booking can be created with.
func InitialStatus() Status {
	return StatusPending
}

// AvailabilityStatuses are the statuses that occupy slots in the public
// availability computation. A freshly created `pending` booking does NOT
// hold its slot against other customers until payment starts; only the
// pre-commit overlap guard counts it.
var AvailabilityStatuses = []string{
	string(StatusConfirmed),
	string(StatusPendingPayment),
}

// ReleasedStatuses no longer occupy their interval anywhere.
var ReleasedStatuses = []string{
	string(StatusCancelled),
	string(StatusNoShow),
}

// ===============================
// Block Type
// ===============================

const (
	BlockTypeBlocked           = "blocked"
	BlockTypeAvailableOverride = "available_override"
)
