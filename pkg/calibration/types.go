package calibration

import (
	"time"

	pkgerrors "github.com/pkg/errors"
)

// MinPoints is the minimum number of reference points a calibration needs.
const MinPoints = 2

// ConsistencyTolerance is the maximum relative deviation of a per-point
// scale ratio from the median before the point set is flagged inconsistent.
const ConsistencyTolerance = 0.02

// Point is one simultaneous observation of the same screen location in both
// coordinate spaces. Immutable once submitted.
type Point struct {
	PhysicalX float64 `json:"physical_x"`
	PhysicalY float64 `json:"physical_y"`
	LogicalX  float64 `json:"logical_x"`
	LogicalY  float64 `json:"logical_y"`
	// Label is an optional landmark name, e.g. "start_button".
	Label string `json:"label,omitempty"`
}

// State is the persisted calibration record. There is exactly one per
// machine; every calibrate run replaces it whole.
type State struct {
	ScaleX  float64 `json:"scale_x"`
	ScaleY  float64 `json:"scale_y"`
	OffsetX float64 `json:"offset_x"`
	OffsetY float64 `json:"offset_y"`

	ComputedAt time.Time  `json:"computed_at"`
	Verified   bool       `json:"verified"`
	VerifiedAt *time.Time `json:"verified_at,omitempty"`
	// VerificationNotes records the outcome of the most recent verification
	// attempt, successful or not.
	VerificationNotes string `json:"verification_notes,omitempty"`

	ConsistencyWarning bool `json:"consistency_warning"`
	// SpreadX/SpreadY are the max relative deviations of per-point scale
	// ratios from the median, per axis. Advisory, like ConsistencyWarning.
	SpreadX float64 `json:"spread_x"`
	SpreadY float64 `json:"spread_y"`

	SampleCount int     `json:"sample_count"`
	Points      []Point `json:"points"`
}

// Status is the calibration lifecycle position derived from a record.
type Status string

const (
	StatusUncalibrated Status = "uncalibrated"
	StatusCalibrated   Status = "calibrated"
	StatusVerified     Status = "verified"
)

// Status reports where the record sits in the lifecycle. A nil record is
// uncalibrated.
func (s *State) Status() Status {
	if s == nil {
		return StatusUncalibrated
	}
	if s.Verified {
		return StatusVerified
	}
	return StatusCalibrated
}

// IsStale reports whether the record is older than threshold at the given
// time. Staleness is advisory and never blocks conversion.
func (s *State) IsStale(now time.Time, threshold time.Duration) bool {
	if s == nil {
		return false
	}
	return now.Sub(s.ComputedAt) > threshold
}

// Validate checks the record invariants. The store refuses to persist a
// record that fails, and treats a persisted record that fails as corrupt.
func (s *State) Validate() error {
	if s == nil {
		return pkgerrors.New("state is nil")
	}
	if s.ScaleX <= 0 || s.ScaleY <= 0 {
		return pkgerrors.Errorf("scale must be positive, got %g x %g", s.ScaleX, s.ScaleY)
	}
	if len(s.Points) < MinPoints {
		return pkgerrors.Errorf("record must keep at least %d points, got %d", MinPoints, len(s.Points))
	}
	if s.SampleCount != len(s.Points) {
		return pkgerrors.Errorf("sample count %d does not match %d points", s.SampleCount, len(s.Points))
	}
	if s.Verified != (s.VerifiedAt != nil) {
		return pkgerrors.New("verified flag and verified_at timestamp disagree")
	}
	if s.ComputedAt.IsZero() {
		return pkgerrors.New("computed_at is unset")
	}
	return nil
}
