package service

import (
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/precision-desktop/precisiond/pkg/calibration"
	"github.com/precision-desktop/precisiond/pkg/config"
	"github.com/precision-desktop/precisiond/pkg/store"
	"github.com/precision-desktop/precisiond/pkg/utils/ptr"
)

func newTestService(t *testing.T, raw *config.RawFileConfig) *Service {
	t.Helper()
	st := store.NewFile(filepath.Join(t.TempDir(), "calibration.json"))
	return New(st, config.NewFileFromConfig(raw, ""))
}

func goodPoints() []calibration.Point {
	return []calibration.Point{
		{PhysicalX: 175, PhysicalY: 350, LogicalX: 100, LogicalY: 200, Label: "start_button"},
		{PhysicalX: 1400, PhysicalY: 1050, LogicalX: 800, LogicalY: 600, Label: "datetime"},
		{PhysicalX: 2100, PhysicalY: 1575, LogicalX: 1200, LogicalY: 900, Label: "minimize"},
	}
}

func inconsistentPoints() []calibration.Point {
	return []calibration.Point{
		{PhysicalX: 200, PhysicalY: 200, LogicalX: 100, LogicalY: 100},
		{PhysicalX: 1000, PhysicalY: 1000, LogicalX: 500, LogicalY: 500},
		{PhysicalX: 2200, PhysicalY: 2200, LogicalX: 1000, LogicalY: 1000}, // ratio 2.2
	}
}

func TestCalibratePersistsUnverifiedState(t *testing.T) {
	svc := newTestService(t, nil)

	sum, err := svc.Calibrate(goodPoints())
	if err != nil {
		t.Fatalf("Calibrate failed: %v", err)
	}
	if sum.ScaleX != 1.75 || sum.ScaleY != 1.75 {
		t.Errorf("summary scale = %g/%g, want 1.75", sum.ScaleX, sum.ScaleY)
	}
	if sum.ConsistencyWarning {
		t.Error("unexpected consistency warning")
	}
	if sum.PointsUsed != 3 {
		t.Errorf("PointsUsed = %d, want 3", sum.PointsUsed)
	}

	state, err := svc.Get()
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if state.Status() != calibration.StatusCalibrated {
		t.Errorf("status = %s, want %s", state.Status(), calibration.StatusCalibrated)
	}
	if state.SampleCount != 3 || len(state.Points) != 3 {
		t.Errorf("points not persisted: %+v", state)
	}
	if state.ComputedAt.IsZero() {
		t.Error("ComputedAt not set")
	}
}

func TestGetBeforeCalibrate(t *testing.T) {
	svc := newTestService(t, nil)
	if _, err := svc.Get(); !errors.Is(err, calibration.ErrNotCalibrated) {
		t.Fatalf("got %v, want ErrNotCalibrated", err)
	}
}

func TestConvertBeforeCalibrate(t *testing.T) {
	svc := newTestService(t, nil)
	_, _, err := svc.Convert(100, 100, calibration.SpaceLogical, calibration.SpacePhysical)
	if !errors.Is(err, calibration.ErrNotCalibrated) {
		t.Fatalf("got %v, want ErrNotCalibrated", err)
	}
}

func TestConvertAfterCalibrate(t *testing.T) {
	svc := newTestService(t, nil)
	if _, err := svc.Calibrate(goodPoints()); err != nil {
		t.Fatal(err)
	}

	x, y, err := svc.Convert(100, 200, calibration.SpaceLogical, calibration.SpacePhysical)
	if err != nil {
		t.Fatalf("Convert failed: %v", err)
	}
	if x != 175 || y != 350 {
		t.Errorf("got (%d, %d), want (175, 350)", x, y)
	}
}

func TestVerifyBeforeCalibrate(t *testing.T) {
	svc := newTestService(t, nil)
	if _, err := svc.Verify(true, ""); !errors.Is(err, calibration.ErrNotCalibrated) {
		t.Fatalf("got %v, want ErrNotCalibrated", err)
	}
}

func TestVerificationStateMachine(t *testing.T) {
	svc := newTestService(t, nil)
	if _, err := svc.Calibrate(goodPoints()); err != nil {
		t.Fatal(err)
	}

	// Failed attempt: still calibrated, notes recorded, no timestamp.
	state, err := svc.Verify(false, "cursor missed the minimize button")
	if err != nil {
		t.Fatalf("Verify(false) failed: %v", err)
	}
	if state.Status() != calibration.StatusCalibrated {
		t.Errorf("after failed verify: %s, want %s", state.Status(), calibration.StatusCalibrated)
	}
	if state.VerifiedAt != nil {
		t.Error("failed verify must not set verified_at")
	}
	if state.VerificationNotes == "" {
		t.Error("failed verify should keep its notes")
	}

	// Successful attempt: verified.
	state, err = svc.Verify(true, "landed on the landmark")
	if err != nil {
		t.Fatalf("Verify(true) failed: %v", err)
	}
	if state.Status() != calibration.StatusVerified {
		t.Errorf("after verify: %s, want %s", state.Status(), calibration.StatusVerified)
	}
	if state.VerifiedAt == nil {
		t.Error("verify must set verified_at")
	}

	// A fresh calibration always demotes verification.
	if _, err := svc.Calibrate(goodPoints()); err != nil {
		t.Fatal(err)
	}
	state, err = svc.Get()
	if err != nil {
		t.Fatal(err)
	}
	if state.Status() != calibration.StatusCalibrated {
		t.Errorf("re-calibrate did not demote: %s", state.Status())
	}
	if state.VerifiedAt != nil || state.VerificationNotes != "" {
		t.Error("re-calibrate must reset the verification fields")
	}
}

func TestStrictConsistencyPolicy(t *testing.T) {
	relaxed := newTestService(t, nil)
	sum, err := relaxed.Calibrate(inconsistentPoints())
	if err != nil {
		t.Fatalf("advisory mode must accept inconsistent points: %v", err)
	}
	if !sum.ConsistencyWarning {
		t.Error("expected consistency warning")
	}

	strict := newTestService(t, &config.RawFileConfig{StrictConsistency: ptr.To(true)})
	if _, err := strict.Calibrate(inconsistentPoints()); !errors.Is(err, calibration.ErrInconsistentPoints) {
		t.Fatalf("strict mode: got %v, want ErrInconsistentPoints", err)
	}
	// Nothing may have been persisted by the rejected run.
	if _, err := strict.Get(); !errors.Is(err, calibration.ErrNotCalibrated) {
		t.Fatalf("strict rejection persisted state: %v", err)
	}
}

func TestIsStale(t *testing.T) {
	svc := newTestService(t, &config.RawFileConfig{StalenessDays: ptr.To(7)})

	base := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return base }

	if _, err := svc.Calibrate(goodPoints()); err != nil {
		t.Fatal(err)
	}

	stale, err := svc.IsStale(base.Add(3 * 24 * time.Hour))
	if err != nil {
		t.Fatal(err)
	}
	if stale {
		t.Error("3-day-old calibration reported stale")
	}

	stale, err = svc.IsStale(base.Add(8 * 24 * time.Hour))
	if err != nil {
		t.Fatal(err)
	}
	if !stale {
		t.Error("8-day-old calibration not reported stale")
	}
}
