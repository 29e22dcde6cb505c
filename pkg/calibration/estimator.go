package calibration

import (
	"math"
	"sort"
	"time"
)

// Estimation is the result of a scale/offset estimation run. The consistency
// warning is advisory: the estimate is still usable and may be persisted.
type Estimation struct {
	ScaleX  float64 `json:"scale_x"`
	ScaleY  float64 `json:"scale_y"`
	OffsetX float64 `json:"offset_x"`
	OffsetY float64 `json:"offset_y"`

	ConsistencyWarning bool    `json:"consistency_warning"`
	SpreadX            float64 `json:"spread_x"`
	SpreadY            float64 `json:"spread_y"`
}

// Estimate computes per-axis scale and offset from at least MinPoints
// reference points. The scale is the median of per-point physical/logical
// ratios, which tolerates one misread landmark better than a mean would.
// The offset is the median residual physical - scale*logical, rounded to a
// whole pixel; it is near zero for single-monitor setups and materially
// non-zero when points sit on a secondary monitor with a translated
// virtual-desktop origin.
//
// Pure function: no state is read or written here.
func Estimate(points []Point) (*Estimation, error) {
	if len(points) < MinPoints {
		return nil, ErrInsufficientPoints
	}
	for _, p := range points {
		if p.LogicalX <= 0 || p.LogicalY <= 0 {
			return nil, ErrInvalidPoint
		}
	}

	ratiosX := make([]float64, 0, len(points))
	ratiosY := make([]float64, 0, len(points))
	for _, p := range points {
		ratiosX = append(ratiosX, p.PhysicalX/p.LogicalX)
		ratiosY = append(ratiosY, p.PhysicalY/p.LogicalY)
	}

	scaleX := median(ratiosX)
	scaleY := median(ratiosY)
	if scaleX <= 0 || scaleY <= 0 {
		return nil, ErrDegenerateEstimate
	}

	spreadX := maxDeviation(ratiosX, scaleX)
	spreadY := maxDeviation(ratiosY, scaleY)

	offsetsX := make([]float64, 0, len(points))
	offsetsY := make([]float64, 0, len(points))
	for _, p := range points {
		offsetsX = append(offsetsX, p.PhysicalX-scaleX*p.LogicalX)
		offsetsY = append(offsetsY, p.PhysicalY-scaleY*p.LogicalY)
	}

	return &Estimation{
		ScaleX:  scaleX,
		ScaleY:  scaleY,
		OffsetX: math.Round(median(offsetsX)),
		OffsetY: math.Round(median(offsetsY)),

		ConsistencyWarning: spreadX > ConsistencyTolerance || spreadY > ConsistencyTolerance,
		SpreadX:            spreadX,
		SpreadY:            spreadY,
	}, nil
}

// NewState builds a fresh, unverified record from an estimation. A fresh
// calibration always demotes any prior verification.
func (e *Estimation) NewState(points []Point, computedAt time.Time) *State {
	pts := make([]Point, len(points))
	copy(pts, points)

	return &State{
		ScaleX:  e.ScaleX,
		ScaleY:  e.ScaleY,
		OffsetX: e.OffsetX,
		OffsetY: e.OffsetY,

		ComputedAt: computedAt,
		Verified:   false,
		VerifiedAt: nil,

		ConsistencyWarning: e.ConsistencyWarning,
		SpreadX:            e.SpreadX,
		SpreadY:            e.SpreadY,

		SampleCount: len(pts),
		Points:      pts,
	}
}

func median(vals []float64) float64 {
	s := make([]float64, len(vals))
	copy(s, vals)
	sort.Float64s(s)

	n := len(s)
	if n%2 == 1 {
		return s[n/2]
	}
	return (s[n/2-1] + s[n/2]) / 2
}

// maxDeviation returns the largest relative deviation of vals from center.
func maxDeviation(vals []float64, center float64) float64 {
	max := 0.0
	for _, v := range vals {
		if d := math.Abs(v-center) / center; d > max {
			max = d
		}
	}
	return max
}
