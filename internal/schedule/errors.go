package schedule

import "errors"

var (
	// ErrMissingClientID is returned when a request has no client id.
	ErrMissingClientID = errors.New("client id is required")

	// ErrMissingClinicianID is returned when a request has no clinician id.
	ErrMissingClinicianID = errors.New("clinician id is required")

	// ErrInvalidDuration is returned for non-positive durations.
	ErrInvalidDuration = errors.New("duration must be positive")

	// ErrMissingDateTime is returned when a request has no start time.
	ErrMissingDateTime = errors.New("appointment time is required")
)
