package client

import (
	"encoding/json"

	pkgerrors "github.com/pkg/errors"

	"github.com/precision-desktop/precisiond/pkg/calibration"
	"github.com/precision-desktop/precisiond/pkg/config"
	"github.com/precision-desktop/precisiond/pkg/health"
	"github.com/precision-desktop/precisiond/pkg/landmarks"
	"github.com/precision-desktop/precisiond/pkg/patches"
)

// CalibrateResult is the daemon's calibrate response.
type CalibrateResult struct {
	Status             string  `json:"status"`
	ScaleX             float64 `json:"scale_x"`
	ScaleY             float64 `json:"scale_y"`
	OffsetX            float64 `json:"offset_x"`
	OffsetY            float64 `json:"offset_y"`
	ConsistencyWarning bool    `json:"consistency_warning"`
	SpreadX            float64 `json:"spread_x"`
	SpreadY            float64 `json:"spread_y"`
	PointsUsed         int     `json:"points_used"`
	NextStep           string  `json:"next_step"`
}

func (c *Client) Calibrate(points []calibration.Point) (*CalibrateResult, error) {
	payload, err := json.Marshal(struct {
		Points []calibration.Point `json:"points"`
	}{Points: points})
	if err != nil {
		return nil, err
	}

	ret, err := c.Post("/calibration", string(payload))
	if err != nil {
		return nil, pkgerrors.Wrapf(err, "failed to calibrate")
	}

	var res CalibrateResult
	if err := json.Unmarshal([]byte(ret), &res); err != nil {
		return nil, pkgerrors.Wrapf(err, "failed to unmarshal calibrate response")
	}
	return &res, nil
}

// VerifyResult is the daemon's verify response.
type VerifyResult struct {
	Status  string  `json:"status"`
	Message string  `json:"message"`
	ScaleX  float64 `json:"scale_x"`
	ScaleY  float64 `json:"scale_y"`
}

func (c *Client) Verify(success bool, notes string) (*VerifyResult, error) {
	payload, err := json.Marshal(struct {
		Success bool   `json:"success"`
		Notes   string `json:"notes,omitempty"`
	}{Success: success, Notes: notes})
	if err != nil {
		return nil, err
	}

	ret, err := c.Post("/calibration/verify", string(payload))
	if err != nil {
		return nil, pkgerrors.Wrapf(err, "failed to record verification")
	}

	var res VerifyResult
	if err := json.Unmarshal([]byte(ret), &res); err != nil {
		return nil, pkgerrors.Wrapf(err, "failed to unmarshal verify response")
	}
	return &res, nil
}

func (c *Client) GetCalibration() (*calibration.State, error) {
	ret, err := c.Get("/calibration")
	if err != nil {
		if pkgerrors.Is(err, ErrNotCalibrated) {
			return nil, err
		}
		return nil, pkgerrors.Wrapf(err, "failed to get calibration")
	}

	var state calibration.State
	if err := json.Unmarshal([]byte(ret), &state); err != nil {
		return nil, pkgerrors.Wrapf(err, "failed to unmarshal calibration state")
	}
	return &state, nil
}

// ConvertResult is the daemon's convert response.
type ConvertResult struct {
	X          int    `json:"x"`
	Y          int    `json:"y"`
	FromSystem string `json:"from_system"`
	ToSystem   string `json:"to_system"`
}

func (c *Client) Convert(x, y float64, from, to calibration.Space) (*ConvertResult, error) {
	payload, err := json.Marshal(struct {
		X          float64 `json:"x"`
		Y          float64 `json:"y"`
		FromSystem string  `json:"from_system"`
		ToSystem   string  `json:"to_system"`
	}{X: x, Y: y, FromSystem: string(from), ToSystem: string(to)})
	if err != nil {
		return nil, err
	}

	ret, err := c.Post("/convert", string(payload))
	if err != nil {
		if pkgerrors.Is(err, ErrNotCalibrated) {
			return nil, err
		}
		return nil, pkgerrors.Wrapf(err, "failed to convert coordinates")
	}

	var res ConvertResult
	if err := json.Unmarshal([]byte(ret), &res); err != nil {
		return nil, pkgerrors.Wrapf(err, "failed to unmarshal convert response")
	}
	return &res, nil
}

func (c *Client) GetLandmarks() ([]landmarks.Landmark, error) {
	ret, err := c.Get("/landmarks")
	if err != nil {
		return nil, pkgerrors.Wrapf(err, "failed to get landmarks")
	}

	var lms []landmarks.Landmark
	if err := json.Unmarshal([]byte(ret), &lms); err != nil {
		return nil, pkgerrors.Wrapf(err, "failed to unmarshal landmarks")
	}
	return lms, nil
}

func (c *Client) GetHealth() (*health.Report, error) {
	ret, err := c.Get("/health")
	if err != nil {
		return nil, pkgerrors.Wrapf(err, "failed to get health report")
	}

	var report health.Report
	if err := json.Unmarshal([]byte(ret), &report); err != nil {
		return nil, pkgerrors.Wrapf(err, "failed to unmarshal health report")
	}
	return &report, nil
}

func (c *Client) GetPatchStatus() ([]patches.Status, error) {
	ret, err := c.Get("/patches")
	if err != nil {
		return nil, pkgerrors.Wrapf(err, "failed to get patch status")
	}

	var statuses []patches.Status
	if err := json.Unmarshal([]byte(ret), &statuses); err != nil {
		return nil, pkgerrors.Wrapf(err, "failed to unmarshal patch status")
	}
	return statuses, nil
}

func (c *Client) GetConfig() (*config.RawFileConfig, error) {
	ret, err := c.Get("/config")
	if err != nil {
		return nil, pkgerrors.Wrapf(err, "failed to get config")
	}

	var conf config.RawFileConfig
	if err := json.Unmarshal([]byte(ret), &conf); err != nil {
		return nil, pkgerrors.Wrapf(err, "failed to unmarshal config")
	}
	return &conf, nil
}

func (c *Client) GetVersion() (string, error) {
	ret, err := c.Get("/version")
	if err != nil {
		return "", pkgerrors.Wrapf(err, "failed to get version")
	}
	// Remove "" around JSON string. I don't want to use a JSON decoder just for this.
	ret = ret[1 : len(ret)-1] // remove the surrounding quotes
	return ret, nil
}
