package service

import "errors"

// Business errors surfaced to controllers. Controllers map these onto
// HTTP statuses; repositories never leak their own sentinels past the
// service layer.
var (
	ErrScheduleNotFound = errors.New("schedule not found")
	ErrBookingNotFound  = errors.New("booking not found")
	ErrPackageNotFound  = errors.New("package not found")
	ErrUserNotFound     = errors.New("user not found")

	// ErrClassFull: no seats remain on the schedule.
	ErrClassFull = errors.New("class is full")

	// ErrClassPast: the class start time has already passed.
	ErrClassPast = errors.New("class has already started")

	// ErrClassCancelled: the schedule was cancelled by the studio.
	ErrClassCancelled = errors.New("class is cancelled")

	// ErrAlreadyBooked: the user already holds a confirmed booking on
	// this schedule.
	ErrAlreadyBooked = errors.New("already booked for this class")

	// ErrNoCreditAvailable: the user has no usable purchase to back
	// the booking.
	ErrNoCreditAvailable = errors.New("no usable class credit")

	// ErrNotCancellable: the booking is not confirmed, or the
	// cancellation window has closed.
	ErrNotCancellable = errors.New("booking cannot be cancelled")

	// ErrAlreadyFinalized: the booking already left the confirmed
	// state and cannot take attendance updates.
	ErrAlreadyFinalized = errors.New("booking already finalized")

	// ErrBookingFailed: the booking could not be completed after
	// retries; all partial effects were compensated.
	ErrBookingFailed = errors.New("booking failed, please retry")

	// ErrDuplicateGrant: a credit grant with this payment reference
	// already exists. Webhook handlers treat this as success.
	ErrDuplicateGrant = errors.New("credit already granted for this payment")

	// ErrInvalidSignature: a webhook delivery failed signature
	// verification.
	ErrInvalidSignature = errors.New("invalid webhook signature")

	ErrForbidden = errors.New("forbidden")
)
