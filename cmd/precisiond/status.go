package main

import (
	"fmt"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/precision-desktop/precisiond/pkg/calibration"
	"github.com/precision-desktop/precisiond/pkg/config"
)

type statusData struct {
	state  *calibration.State
	config *config.RawFileConfig
}

// fetchStatusData gathers all data required for the status command from the daemon.
func fetchStatusData() (*statusData, error) {
	state, err := apiClient.GetCalibration()
	if err != nil {
		return nil, err
	}

	conf, err := apiClient.GetConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to get config: %w", err)
	}

	return &statusData{
		state:  state,
		config: conf,
	}, nil
}

func NewStatusCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "status",
		GroupID: gBasic,
		Short:   "Get the current calibration status",
		Long:    `Get calibration state, verification status, and daemon configuration.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			// Get various info first.
			data, err := fetchStatusData()
			if err != nil {
				return err
			}

			conf := config.NewFileFromConfig(data.config, "")
			state := data.state
			now := time.Now().UTC()

			// Calibration.
			cmd.Println(bold("Calibration:"))

			switch state.Status() {
			case calibration.StatusVerified:
				cmd.Printf("  Status: %s\n", ok(string(calibration.StatusVerified)))
			case calibration.StatusCalibrated:
				cmd.Printf("  Status: %s\n", warn(string(calibration.StatusCalibrated)))
				cmd.Println("    The calibration has not been verified with a test click yet.")
				cmd.Println("    Run 'precisiond verify pass' after a successful test.")
			}
			cmd.Printf("  Scale: %s\n", bold("%.4f x %.4f", state.ScaleX, state.ScaleY))
			cmd.Printf("  Offset: %s\n", bold("%.0f, %.0f", state.OffsetX, state.OffsetY))
			cmd.Printf("  Reference points: %s\n", bold("%d", state.SampleCount))
			cmd.Printf("  Computed: %s\n", bold("%s (%s ago)",
				state.ComputedAt.Local().Format(time.RFC1123),
				now.Sub(state.ComputedAt).Round(time.Minute)))
			if state.IsStale(now, conf.StalenessThreshold()) {
				cmd.Printf("  Freshness: %s (older than %d days)\n", warn("stale"), conf.StalenessDays())
				cmd.Println("    Display settings may have changed since. Recalibrate to be safe.")
			} else {
				cmd.Printf("  Freshness: %s\n", ok("fresh"))
			}
			if state.ConsistencyWarning {
				cmd.Printf("  Consistency: %s (spread %.1f%% x / %.1f%% y)\n",
					warn("inconsistent"), state.SpreadX*100, state.SpreadY*100)
			}
			if state.VerifiedAt != nil {
				cmd.Printf("  Verified: %s\n", bold("%s", state.VerifiedAt.Local().Format(time.RFC1123)))
			}
			if state.VerificationNotes != "" {
				cmd.Printf("  Notes: %s\n", state.VerificationNotes)
			}

			cmd.Println()

			// Config.
			cmd.Println(bold("Daemon configuration:"))
			cmd.Printf("  State path: %s\n", bold("%s", conf.StatePath()))
			if conf.BridgePath() != "" {
				cmd.Printf("  Bridge path: %s\n", bold("%s", conf.BridgePath()))
			}
			cmd.Printf("  Staleness threshold: %s\n", bold("%d days", conf.StalenessDays()))
			cmd.Printf("  Reject inconsistent points: %s\n", bool2Text(conf.StrictConsistency()))
			cmd.Printf("  Allow non-root users to access the daemon: %s\n", bool2Text(conf.AllowNonRootAccess()))
			return nil
		},
	}
}

func bool2Text(b bool) string {
	if b {
		return color.New(color.Bold, color.FgGreen).Sprint("✔")
	}
	return color.New(color.Bold, color.FgRed).Sprint("✘")
}

func bold(format string, a ...interface{}) string {
	return color.New(color.Bold).Sprintf(format, a...)
}

func ok(format string, a ...interface{}) string {
	return color.New(color.Bold, color.FgGreen).Sprintf(format, a...)
}

func warn(format string, a ...interface{}) string {
	return color.New(color.Bold, color.FgYellow).Sprintf(format, a...)
}
