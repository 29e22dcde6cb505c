package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/precision-desktop/precisiond/pkg/calibration"
)

// parsePoint parses a "PX,PY=LX,LY[:label]" flag value into a reference point.
func parsePoint(s string) (calibration.Point, error) {
	var p calibration.Point

	spec := s
	if i := strings.LastIndex(spec, ":"); i >= 0 {
		p.Label = strings.TrimSpace(spec[i+1:])
		spec = spec[:i]
	}

	halves := strings.Split(spec, "=")
	if len(halves) != 2 {
		return p, fmt.Errorf("invalid point %q: want PX,PY=LX,LY[:label]", s)
	}

	phys := strings.Split(halves[0], ",")
	logi := strings.Split(halves[1], ",")
	if len(phys) != 2 || len(logi) != 2 {
		return p, fmt.Errorf("invalid point %q: want PX,PY=LX,LY[:label]", s)
	}

	coords := []struct {
		dst *float64
		src string
	}{
		{&p.PhysicalX, phys[0]},
		{&p.PhysicalY, phys[1]},
		{&p.LogicalX, logi[0]},
		{&p.LogicalY, logi[1]},
	}
	for _, c := range coords {
		v, err := strconv.ParseFloat(strings.TrimSpace(c.src), 64)
		if err != nil {
			return p, fmt.Errorf("invalid coordinate %q in point %q", c.src, s)
		}
		*c.dst = v
	}

	return p, nil
}

func NewCalibrateCommand() *cobra.Command {
	var rawPoints []string

	cmd := &cobra.Command{
		Use:     "calibrate",
		Short:   "Compute a new calibration from reference points",
		GroupID: gBasic,
		Long: `Compute a new calibration from reference points.

Each --point pairs one physical (device pixel) position with the logical
(DPI-scaled) position of the same on-screen feature, as PX,PY=LX,LY with an
optional :label suffix. At least 2 points are required; use 'precisiond
landmarks' for suggestions on what to measure.

Calibrating replaces any previous calibration and resets verification, so
follow up with 'precisiond verify' after a successful test click.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			points := make([]calibration.Point, 0, len(rawPoints))
			for _, raw := range rawPoints {
				p, err := parsePoint(raw)
				if err != nil {
					return err
				}
				points = append(points, p)
			}

			res, err := apiClient.Calibrate(points)
			if err != nil {
				return fmt.Errorf("failed to calibrate: %w", err)
			}

			cmd.Println(bold("Calibration computed:"))
			cmd.Printf("  Scale: %s\n", bold("%.4f x %.4f", res.ScaleX, res.ScaleY))
			cmd.Printf("  Offset: %s\n", bold("%.0f, %.0f", res.OffsetX, res.OffsetY))
			cmd.Printf("  Points used: %s\n", bold("%d", res.PointsUsed))
			if res.ConsistencyWarning {
				cmd.Printf("  Consistency: %s (spread %.1f%% x / %.1f%% y)\n",
					warn("inconsistent"), res.SpreadX*100, res.SpreadY*100)
				cmd.Println("    Your reference points disagree about the scale factor. Re-measure them,")
				cmd.Println("    or check whether your monitors use different DPI scaling.")
			} else {
				cmd.Printf("  Consistency: %s\n", ok("ok"))
			}
			cmd.Println()
			cmd.Println(res.NextStep)

			return nil
		},
	}

	f := cmd.Flags()

	f.StringArrayVarP(&rawPoints, "point", "p", nil,
		"reference point as PX,PY=LX,LY[:label] (repeatable, at least 2)")

	return cmd
}

func NewVerifyCommand() *cobra.Command {
	var notes string

	cmd := &cobra.Command{
		Use:       "verify {pass|fail}",
		Short:     "Record the outcome of a calibration test",
		GroupID:   gBasic,
		ValidArgs: []string{"pass", "fail"},
		Args:      cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		Long: `Record the outcome of a calibration test.

After calibrating, convert a known logical position to physical pixels, click
there with your automation tool, and report whether the click landed where
expected. 'verify pass' marks the calibration verified; 'verify fail' keeps
the calibration but flags it as unverified so you know not to trust it.`,
		RunE: func(_ *cobra.Command, args []string) error {
			success := args[0] == "pass"

			res, err := apiClient.Verify(success, notes)
			if err != nil {
				return fmt.Errorf("failed to record verification: %w", err)
			}

			logrus.Infof("daemon responded: %s", res.Message)

			return nil
		},
	}

	f := cmd.Flags()

	f.StringVar(&notes, "notes", "", "free-form notes about the verification attempt")

	return cmd
}
