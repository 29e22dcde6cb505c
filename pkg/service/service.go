// Package service orchestrates the calibration engine behind the four
// public operations: calibrate, verify, get and convert.
package service

import (
	"time"

	pkgerrors "github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/precision-desktop/precisiond/pkg/calibration"
	"github.com/precision-desktop/precisiond/pkg/config"
	"github.com/precision-desktop/precisiond/pkg/store"
)

// Service owns the calibration workflow for the one record this machine
// has. The store is an explicit dependency, not a global, so tests and the
// daemon can wire their own.
type Service struct {
	store store.Store
	conf  config.Config

	// now is swapped out in tests.
	now func() time.Time
}

func New(st store.Store, conf config.Config) *Service {
	return &Service{
		store: st,
		conf:  conf,
		now:   func() time.Time { return time.Now().UTC() },
	}
}

// Summary is what a calibrate run reports back to the caller.
type Summary struct {
	ScaleX  float64 `json:"scale_x"`
	ScaleY  float64 `json:"scale_y"`
	OffsetX float64 `json:"offset_x"`
	OffsetY float64 `json:"offset_y"`

	ConsistencyWarning bool    `json:"consistency_warning"`
	SpreadX            float64 `json:"spread_x"`
	SpreadY            float64 `json:"spread_y"`

	PointsUsed int `json:"points_used"`
}

// Calibrate estimates scale and offset from the given points and replaces
// the persisted record with a fresh, unverified one. Under strict
// consistency, point sets that disagree beyond tolerance are rejected
// instead of flagged.
func (s *Service) Calibrate(points []calibration.Point) (*Summary, error) {
	est, err := calibration.Estimate(points)
	if err != nil {
		return nil, err
	}

	if est.ConsistencyWarning && s.conf.StrictConsistency() {
		return nil, pkgerrors.Wrapf(calibration.ErrInconsistentPoints,
			"spread %.4f / %.4f exceeds %.2f", est.SpreadX, est.SpreadY, calibration.ConsistencyTolerance)
	}

	state := est.NewState(points, s.now())
	if err := s.store.Save(state); err != nil {
		return nil, err
	}

	logrus.WithFields(logrus.Fields{
		"scaleX":  est.ScaleX,
		"scaleY":  est.ScaleY,
		"offsetX": est.OffsetX,
		"offsetY": est.OffsetY,
		"points":  len(points),
		"warning": est.ConsistencyWarning,
	}).Info("calibration computed")

	return &Summary{
		ScaleX:  est.ScaleX,
		ScaleY:  est.ScaleY,
		OffsetX: est.OffsetX,
		OffsetY: est.OffsetY,

		ConsistencyWarning: est.ConsistencyWarning,
		SpreadX:            est.SpreadX,
		SpreadY:            est.SpreadY,

		PointsUsed: len(points),
	}, nil
}

// Verify records the outcome of a verification attempt. Success moves the
// record from calibrated to verified; failure keeps it calibrated and only
// records the notes, since the caller is expected to re-derive points and
// calibrate again.
func (s *Service) Verify(success bool, notes string) (*calibration.State, error) {
	state, err := s.store.Load()
	if err != nil {
		return nil, err
	}

	if success {
		now := s.now()
		state.Verified = true
		state.VerifiedAt = &now
	} else {
		state.Verified = false
		state.VerifiedAt = nil
	}
	state.VerificationNotes = notes

	if err := s.store.Save(state); err != nil {
		return nil, err
	}

	logrus.WithFields(logrus.Fields{
		"success": success,
		"status":  state.Status(),
	}).Info("verification recorded")

	return state, nil
}

// Get returns the full persisted record.
func (s *Service) Get() (*calibration.State, error) {
	return s.store.Load()
}

// Convert transforms one coordinate pair between spaces using the persisted
// record.
func (s *Service) Convert(x, y float64, from, to calibration.Space) (int, int, error) {
	state, err := s.store.Load()
	if err != nil {
		return 0, 0, err
	}
	return calibration.Convert(x, y, from, to, state)
}

// IsStale reports whether the persisted record is older than the configured
// threshold. Uncalibrated machines are not stale, they are uncalibrated.
func (s *Service) IsStale(now time.Time) (bool, error) {
	state, err := s.store.Load()
	if err != nil {
		return false, err
	}
	return state.IsStale(now, s.conf.StalenessThreshold()), nil
}
