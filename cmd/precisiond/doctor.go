package main

import (
	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/precision-desktop/precisiond/pkg/health"
	"github.com/precision-desktop/precisiond/pkg/patches"
)

func statusText(s string) string {
	switch s {
	case health.StatusOK:
		return ok("%s", s)
	case health.StatusError:
		return color.New(color.Bold, color.FgRed).Sprint(s)
	default:
		return warn("%s", s)
	}
}

func NewDoctorCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "doctor",
		Short:   "Check calibration and bridge health",
		GroupID: gBasic,
		Long: `Check calibration and bridge health.

Runs every environment check the daemon knows about and prints what needs
attention. Intended for session start: if everything is ok, coordinates can
be trusted; otherwise fix what it says first.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			report, err := apiClient.GetHealth()
			if err != nil {
				return err
			}

			cmd.Println(bold("Health checks:"))
			printCheck(cmd, "Calibration", report.Calibration)
			printCheck(cmd, "Bridge", report.Bridge)
			cmd.Println()
			cmd.Printf("%s %s\n", bold("Overall:"), statusText(report.Overall.Status))

			return nil
		},
	}
}

func printCheck(cmd *cobra.Command, name string, c health.Check) {
	cmd.Printf("  %s: %s\n", name, statusText(c.Status))
	cmd.Printf("    %s\n", c.Message)
	if c.Path != "" {
		cmd.Printf("    Path: %s\n", c.Path)
	}
}

func NewPatchesCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "patches",
		Short:   "Show bridge patch intents and whether they are applied",
		GroupID: gAdvanced,
		Long: `Show bridge patch intents and whether they are applied.

The daemon ships a catalog of changes the automation bridge needs to play
well with calibrated coordinates. This lists each one along with whether the
local bridge install already contains it.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			statuses, err := apiClient.GetPatchStatus()
			if err != nil {
				return err
			}

			for _, s := range statuses {
				var tag string
				switch s.Status {
				case patches.StatusApplied:
					tag = ok("%s", s.Status)
				case patches.StatusNotApplied:
					tag = warn("%s", s.Status)
				default:
					tag = s.Status
				}
				cmd.Printf("%s [%s, priority %s, phase %d]\n", bold("%s", s.ID), tag, s.Priority, s.Phase)
				cmd.Printf("  %s\n", s.Description)
				if s.Reason != "" {
					cmd.Printf("  %s\n", s.Reason)
				}
			}

			return nil
		},
	}
}
