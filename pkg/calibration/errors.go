package calibration

import "errors"

var (
	// ErrInsufficientPoints is returned when fewer than MinPoints reference
	// points are supplied.
	ErrInsufficientPoints = errors.New("need at least 2 calibration points")

	// ErrInvalidPoint is returned when a reference point has a zero or
	// negative logical coordinate.
	ErrInvalidPoint = errors.New("calibration point has a non-positive logical coordinate")

	// ErrDegenerateEstimate is returned when the computed scale is not
	// strictly positive. Such an estimate is never persisted.
	ErrDegenerateEstimate = errors.New("computed scale is not positive")

	// ErrInconsistentPoints is returned instead of a warning when strict
	// consistency is enabled and the points disagree beyond tolerance.
	ErrInconsistentPoints = errors.New("calibration points disagree beyond tolerance")

	// ErrNotCalibrated is returned by queries and conversions before any
	// successful calibration.
	ErrNotCalibrated = errors.New("not calibrated")

	// ErrCorruptState is returned when a persisted record exists but cannot
	// be decoded or violates record invariants.
	ErrCorruptState = errors.New("calibration state is corrupt")
)
