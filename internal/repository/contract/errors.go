package contract

import "errors"

// Errors returned by the conditional counter updates. The counters on
// purchases and class schedules are only ever mutated through single
// conditional UPDATE statements; when the guard in the WHERE clause no
// longer holds, the repository classifies the miss into one of these.
var (
	// ErrStaleState: the expected-value condition on an optimistic
	// update did not match. The caller must re-read and retry or give
	// up.
	ErrStaleState = errors.New("stale state: conditional update did not match")

	// ErrInsufficientCredit: a consume was attempted on a purchase
	// whose classes_remaining is already 0.
	ErrInsufficientCredit = errors.New("insufficient credit")

	// ErrCreditClamped: a refund would have pushed classes_remaining
	// above total_classes and was refused.
	ErrCreditClamped = errors.New("refund clamped: purchase already at full credit")

	// ErrCapacityFull: a seat reservation found the schedule at
	// max_capacity.
	ErrCapacityFull = errors.New("schedule at capacity")

	// ErrScheduleUnavailable: a seat reservation hit a cancelled
	// schedule.
	ErrScheduleUnavailable = errors.New("schedule is cancelled")

	// ErrSeatCountClamped: a seat release found current_bookings
	// already at 0 and did nothing.
	ErrSeatCountClamped = errors.New("seat release clamped at zero")

	ErrNotFound = errors.New("record not found")
)
