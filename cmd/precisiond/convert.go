package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/precision-desktop/precisiond/pkg/calibration"
)

func NewConvertCommand() *cobra.Command {
	var (
		from = string(calibration.SpaceLogical)
		to   = string(calibration.SpacePhysical)
	)

	cmd := &cobra.Command{
		Use:     "convert X Y",
		Short:   "Convert a coordinate between physical and logical space",
		GroupID: gBasic,
		Args:    cobra.ExactArgs(2),
		Long: `Convert a coordinate between physical and logical space.

By default this converts logical (DPI-scaled) coordinates, as reported by UI
automation tools, into physical device pixels suitable for mouse injection.
Use --from and --to to convert the other way.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			x, err := strconv.ParseFloat(args[0], 64)
			if err != nil {
				return fmt.Errorf("invalid x coordinate %q", args[0])
			}
			y, err := strconv.ParseFloat(args[1], 64)
			if err != nil {
				return fmt.Errorf("invalid y coordinate %q", args[1])
			}

			fromSpace, err := calibration.ParseSpace(from)
			if err != nil {
				return err
			}
			toSpace, err := calibration.ParseSpace(to)
			if err != nil {
				return err
			}

			res, err := apiClient.Convert(x, y, fromSpace, toSpace)
			if err != nil {
				return err
			}

			cmd.Printf("%d %d\n", res.X, res.Y)

			return nil
		},
	}

	f := cmd.Flags()

	f.StringVar(&from, "from", from, "source coordinate space (physical or logical)")
	f.StringVar(&to, "to", to, "target coordinate space (physical or logical)")

	return cmd
}

func NewLandmarksCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "landmarks",
		Short:   "List suggested on-screen reference points",
		GroupID: gBasic,
		Long: `List suggested on-screen reference points.

These are UI elements that are easy to locate in both coordinate spaces and
make good --point inputs for 'precisiond calibrate'.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			lms, err := apiClient.GetLandmarks()
			if err != nil {
				return err
			}

			for _, lm := range lms {
				cmd.Printf("%s (%s)\n", bold("%s", lm.ID), lm.Region)
				cmd.Printf("  %s\n", lm.Description)
			}

			return nil
		},
	}
}
