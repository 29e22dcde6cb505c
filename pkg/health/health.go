// Package health runs environment checks for the calibration engine and the
// external automation bridge it serves. Meant to run at session start so an
// agent knows whether to calibrate before it starts clicking.
package health

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/precision-desktop/precisiond/pkg/calibration"
	"github.com/precision-desktop/precisiond/pkg/config"
	"github.com/precision-desktop/precisiond/pkg/store"
)

const (
	StatusOK           = "ok"
	StatusMissing      = "missing"
	StatusStale        = "stale"
	StatusUnverified   = "unverified"
	StatusInconsistent = "inconsistent"
	StatusError        = "error"
	StatusActionNeeded = "action_needed"
)

// Check is one named probe result.
type Check struct {
	Status       string  `json:"status"`
	Message      string  `json:"message"`
	ActionNeeded bool    `json:"action_needed"`
	ScaleX       float64 `json:"scale_x,omitempty"`
	ScaleY       float64 `json:"scale_y,omitempty"`
	Path         string  `json:"path,omitempty"`
	Version      string  `json:"version,omitempty"`
}

// Report combines all probes with an overall roll-up.
type Report struct {
	Calibration Check `json:"calibration"`
	Bridge      Check `json:"bridge"`
	Overall     Check `json:"overall"`
}

// Run executes every check and rolls them up: any error beats any
// action-needed beats ok.
func Run(st store.Store, conf config.Config, now time.Time) *Report {
	r := &Report{
		Calibration: CheckCalibration(st, conf, now),
		Bridge:      CheckBridge(conf.BridgePath()),
	}

	anyAction := r.Calibration.ActionNeeded || r.Bridge.ActionNeeded
	anyError := r.Calibration.Status == StatusError || r.Bridge.Status == StatusError

	switch {
	case anyError:
		r.Overall = Check{Status: StatusError, Message: "some checks need attention", ActionNeeded: true}
	case anyAction:
		r.Overall = Check{Status: StatusActionNeeded, Message: "some checks need attention", ActionNeeded: true}
	default:
		r.Overall = Check{Status: StatusOK, Message: "all checks passed"}
	}

	return r
}

// CheckCalibration grades the persisted record: missing, stale, unverified
// and inconsistent all want a (re-)calibration pass; only a fresh, verified,
// consistent record is ok.
func CheckCalibration(st store.Store, conf config.Config, now time.Time) Check {
	state, err := st.Load()
	if err != nil {
		if errors.Is(err, calibration.ErrNotCalibrated) {
			return Check{
				Status:       StatusMissing,
				Message:      "no calibration data. Run 'precisiond calibrate'.",
				ActionNeeded: true,
			}
		}
		logrus.Errorf("health: failed to load calibration state: %v", err)
		return Check{
			Status:       StatusError,
			Message:      err.Error(),
			ActionNeeded: true,
		}
	}

	if state.IsStale(now, conf.StalenessThreshold()) {
		age := int(now.Sub(state.ComputedAt).Hours() / 24)
		return Check{
			Status:       StatusStale,
			Message:      fmt.Sprintf("calibration is %d days old. Consider re-calibrating.", age),
			ActionNeeded: true,
			ScaleX:       state.ScaleX,
			ScaleY:       state.ScaleY,
		}
	}

	if state.Status() != calibration.StatusVerified {
		return Check{
			Status:       StatusUnverified,
			Message:      "calibration computed but not verified. Run the verification step.",
			ActionNeeded: true,
			ScaleX:       state.ScaleX,
			ScaleY:       state.ScaleY,
		}
	}

	if state.ConsistencyWarning {
		return Check{
			Status: StatusInconsistent,
			Message: fmt.Sprintf("calibration points disagree (spread: x=%.4f, y=%.4f). Re-calibrate with better points.",
				state.SpreadX, state.SpreadY),
			ActionNeeded: true,
			ScaleX:       state.ScaleX,
			ScaleY:       state.ScaleY,
		}
	}

	return Check{
		Status:  StatusOK,
		Message: fmt.Sprintf("calibration valid. Scale: %gx / %gy", state.ScaleX, state.ScaleY),
		ScaleX:  state.ScaleX,
		ScaleY:  state.ScaleY,
	}
}

// CheckBridge probes the automation bridge install on the filesystem only;
// whether the bridge actually runs is its own problem.
func CheckBridge(bridgePath string) Check {
	if bridgePath == "" {
		return Check{
			Status:       StatusMissing,
			Message:      "automation bridge path not configured (set bridgePath or PRECISIOND_BRIDGE_PATH)",
			ActionNeeded: true,
		}
	}

	entrypoint := filepath.Join(bridgePath, "main.py")
	if _, err := os.Stat(bridgePath); err != nil {
		return Check{
			Status:       StatusMissing,
			Message:      "automation bridge not found at expected path",
			ActionNeeded: true,
			Path:         bridgePath,
		}
	}
	if _, err := os.Stat(entrypoint); err != nil {
		return Check{
			Status:       StatusError,
			Message:      "bridge directory exists but its entrypoint is missing",
			ActionNeeded: true,
			Path:         bridgePath,
		}
	}

	version := "unknown"
	if b, err := os.ReadFile(filepath.Join(bridgePath, "manifest.json")); err == nil {
		var mf struct {
			Version string `json:"version"`
		}
		if err := json.Unmarshal(b, &mf); err == nil && mf.Version != "" {
			version = mf.Version
		}
	}

	return Check{
		Status:  StatusOK,
		Message: fmt.Sprintf("automation bridge v%s found", version),
		Path:    bridgePath,
		Version: version,
	}
}
