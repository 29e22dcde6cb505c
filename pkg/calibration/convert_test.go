package calibration

import (
	"errors"
	"testing"
	"time"
)

func testState(scaleX, scaleY, offsetX, offsetY float64) *State {
	return &State{
		ScaleX:      scaleX,
		ScaleY:      scaleY,
		OffsetX:     offsetX,
		OffsetY:     offsetY,
		ComputedAt:  time.Now(),
		SampleCount: 2,
		Points: []Point{
			{PhysicalX: 200, PhysicalY: 200, LogicalX: 100, LogicalY: 100},
			{PhysicalX: 400, PhysicalY: 400, LogicalX: 200, LogicalY: 200},
		},
	}
}

func TestConvertLogicalToPhysical(t *testing.T) {
	s := testState(1.75, 1.75, 0, 0)

	x, y, err := Convert(2109, 1332, SpaceLogical, SpacePhysical, s)
	if err != nil {
		t.Fatalf("Convert failed: %v", err)
	}
	if x != 3691 || y != 2331 {
		t.Errorf("got (%d, %d), want (3691, 2331)", x, y)
	}
}

func TestConvertPhysicalToLogical(t *testing.T) {
	s := testState(2.0, 2.0, 10, -10)

	x, y, err := Convert(410, 390, SpacePhysical, SpaceLogical, s)
	if err != nil {
		t.Fatalf("Convert failed: %v", err)
	}
	if x != 200 || y != 200 {
		t.Errorf("got (%d, %d), want (200, 200)", x, y)
	}
}

func TestConvertIdentity(t *testing.T) {
	s := testState(1.5, 1.5, 0, 0)

	for _, space := range []Space{SpacePhysical, SpaceLogical} {
		x, y, err := Convert(123, -45, space, space, s)
		if err != nil {
			t.Fatalf("%s -> %s: %v", space, space, err)
		}
		if x != 123 || y != -45 {
			t.Errorf("%s -> %s: got (%d, %d), want input back", space, space, x, y)
		}
	}
}

func TestConvertRoundTripWithinOnePixel(t *testing.T) {
	states := []*State{
		testState(1.25, 1.25, 0, 0),
		testState(1.75, 1.5, 13, -7),
		testState(2.0, 2.0, 3840, 0),
	}

	for _, s := range states {
		for x := -50; x <= 2500; x += 137 {
			for y := -50; y <= 1500; y += 91 {
				px, py, err := Convert(float64(x), float64(y), SpaceLogical, SpacePhysical, s)
				if err != nil {
					t.Fatalf("to physical: %v", err)
				}
				lx, ly, err := Convert(float64(px), float64(py), SpacePhysical, SpaceLogical, s)
				if err != nil {
					t.Fatalf("to logical: %v", err)
				}
				if abs(lx-x) > 1 || abs(ly-y) > 1 {
					t.Fatalf("round trip (%d,%d) -> (%d,%d) -> (%d,%d) drifted more than 1px (scale %g/%g offset %g/%g)",
						x, y, px, py, lx, ly, s.ScaleX, s.ScaleY, s.OffsetX, s.OffsetY)
				}
			}
		}
	}
}

func TestConvertRoundsHalfAwayFromZero(t *testing.T) {
	s := testState(0.5, 0.5, 0, 0)

	// 5 * 0.5 = 2.5 and -5 * 0.5 = -2.5: both must round away from zero.
	x, y, err := Convert(5, -5, SpaceLogical, SpacePhysical, s)
	if err != nil {
		t.Fatalf("Convert failed: %v", err)
	}
	if x != 3 || y != -3 {
		t.Errorf("got (%d, %d), want (3, -3)", x, y)
	}
}

func TestConvertErrors(t *testing.T) {
	if _, _, err := Convert(1, 2, SpacePhysical, SpaceLogical, nil); !errors.Is(err, ErrNotCalibrated) {
		t.Errorf("nil state: got %v, want ErrNotCalibrated", err)
	}

	s := testState(1.5, 1.5, 0, 0)
	if _, _, err := Convert(1, 2, Space("screen"), SpaceLogical, s); err == nil {
		t.Error("bad from space: expected error")
	}
	if _, _, err := Convert(1, 2, SpacePhysical, Space(""), s); err == nil {
		t.Error("bad to space: expected error")
	}

	broken := testState(1.5, 1.5, 0, 0)
	broken.ScaleY = 0
	if _, _, err := Convert(1, 2, SpacePhysical, SpaceLogical, broken); !errors.Is(err, ErrDegenerateEstimate) {
		t.Errorf("zero scale: got %v, want ErrDegenerateEstimate", err)
	}
}

func TestParseSpace(t *testing.T) {
	if _, err := ParseSpace("physical"); err != nil {
		t.Errorf("physical: %v", err)
	}
	if _, err := ParseSpace("logical"); err != nil {
		t.Errorf("logical: %v", err)
	}
	if _, err := ParseSpace("virtual"); err == nil {
		t.Error("virtual: expected error")
	}
}

func abs(i int) int {
	if i < 0 {
		return -i
	}
	return i
}
