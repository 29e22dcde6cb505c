package daemon

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/precision-desktop/precisiond/pkg/calibration"
	"github.com/precision-desktop/precisiond/pkg/config"
	"github.com/precision-desktop/precisiond/pkg/health"
	"github.com/precision-desktop/precisiond/pkg/landmarks"
	"github.com/precision-desktop/precisiond/pkg/patches"
	"github.com/precision-desktop/precisiond/pkg/version"
)

// abortWithDomainError maps the engine error taxonomy onto HTTP statuses:
// caller mistakes are 400, a missing calibration is 404, everything else
// (corrupt state, persistence failures) is 500.
func abortWithDomainError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, calibration.ErrNotCalibrated):
		status = http.StatusNotFound
	case errors.Is(err, calibration.ErrInsufficientPoints),
		errors.Is(err, calibration.ErrInvalidPoint),
		errors.Is(err, calibration.ErrInconsistentPoints):
		status = http.StatusBadRequest
	}

	c.IndentedJSON(status, err.Error())
	_ = c.AbortWithError(status, err)
}

type calibrateRequest struct {
	Points []calibration.Point `json:"points"`
}

type calibrateResponse struct {
	Status string `json:"status"`
	*calibrationSummary
	NextStep string `json:"next_step"`
}

type calibrationSummary struct {
	ScaleX             float64 `json:"scale_x"`
	ScaleY             float64 `json:"scale_y"`
	OffsetX            float64 `json:"offset_x"`
	OffsetY            float64 `json:"offset_y"`
	ConsistencyWarning bool    `json:"consistency_warning"`
	SpreadX            float64 `json:"spread_x"`
	SpreadY            float64 `json:"spread_y"`
	PointsUsed         int     `json:"points_used"`
}

func postCalibration(c *gin.Context) {
	var req calibrateRequest
	if err := c.BindJSON(&req); err != nil {
		c.IndentedJSON(http.StatusBadRequest, err.Error())
		_ = c.AbortWithError(http.StatusBadRequest, err)
		return
	}

	sum, err := svc.Calibrate(req.Points)
	if err != nil {
		logrus.Errorf("calibrate failed: %v", err)
		abortWithDomainError(c, err)
		return
	}

	c.IndentedJSON(http.StatusCreated, calibrateResponse{
		Status: "calibrated",
		calibrationSummary: &calibrationSummary{
			ScaleX:             sum.ScaleX,
			ScaleY:             sum.ScaleY,
			OffsetX:            sum.OffsetX,
			OffsetY:            sum.OffsetY,
			ConsistencyWarning: sum.ConsistencyWarning,
			SpreadX:            sum.SpreadX,
			SpreadY:            sum.SpreadY,
			PointsUsed:         sum.PointsUsed,
		},
		NextStep: "Calibration computed. To verify: move the cursor to a known " +
			"landmark, confirm it landed correctly, then call the verify operation " +
			"with the result.",
	})
}

type verifyRequest struct {
	Success bool   `json:"success"`
	Notes   string `json:"notes"`
}

type verifyResponse struct {
	Status  string  `json:"status"`
	Message string  `json:"message"`
	ScaleX  float64 `json:"scale_x"`
	ScaleY  float64 `json:"scale_y"`
}

func postVerify(c *gin.Context) {
	var req verifyRequest
	if err := c.BindJSON(&req); err != nil {
		c.IndentedJSON(http.StatusBadRequest, err.Error())
		_ = c.AbortWithError(http.StatusBadRequest, err)
		return
	}

	state, err := svc.Verify(req.Success, req.Notes)
	if err != nil {
		logrus.Errorf("verify failed: %v", err)
		abortWithDomainError(c, err)
		return
	}

	status := "verified"
	if !req.Success {
		status = "failed"
	}
	msg := "Calibration " + status + "."
	if req.Notes != "" {
		msg += " Notes: " + req.Notes
	}

	c.IndentedJSON(http.StatusCreated, verifyResponse{
		Status:  status,
		Message: msg,
		ScaleX:  state.ScaleX,
		ScaleY:  state.ScaleY,
	})
}

func getCalibration(c *gin.Context) {
	state, err := svc.Get()
	if err != nil {
		abortWithDomainError(c, err)
		return
	}
	c.IndentedJSON(http.StatusOK, state)
}

type convertRequest struct {
	X          float64 `json:"x"`
	Y          float64 `json:"y"`
	FromSystem string  `json:"from_system"`
	ToSystem   string  `json:"to_system"`
}

type convertResponse struct {
	X          int    `json:"x"`
	Y          int    `json:"y"`
	FromSystem string `json:"from_system"`
	ToSystem   string `json:"to_system"`
}

func postConvert(c *gin.Context) {
	var req convertRequest
	if err := c.BindJSON(&req); err != nil {
		c.IndentedJSON(http.StatusBadRequest, err.Error())
		_ = c.AbortWithError(http.StatusBadRequest, err)
		return
	}

	from, err := calibration.ParseSpace(req.FromSystem)
	if err != nil {
		c.IndentedJSON(http.StatusBadRequest, err.Error())
		_ = c.AbortWithError(http.StatusBadRequest, err)
		return
	}
	to, err := calibration.ParseSpace(req.ToSystem)
	if err != nil {
		c.IndentedJSON(http.StatusBadRequest, err.Error())
		_ = c.AbortWithError(http.StatusBadRequest, err)
		return
	}

	x, y, err := svc.Convert(req.X, req.Y, from, to)
	if err != nil {
		abortWithDomainError(c, err)
		return
	}

	c.IndentedJSON(http.StatusOK, convertResponse{
		X:          x,
		Y:          y,
		FromSystem: req.FromSystem,
		ToSystem:   req.ToSystem,
	})
}

func getLandmarks(c *gin.Context) {
	c.IndentedJSON(http.StatusOK, landmarks.All())
}

func getHealth(c *gin.Context) {
	report := health.Run(stateStore, conf, time.Now().UTC())
	c.IndentedJSON(http.StatusOK, report)
}

func getPatchStatus(c *gin.Context) {
	statuses, err := patches.GetStatus(conf.BridgePath())
	if err != nil {
		logrus.Errorf("patch status failed: %v", err)
		c.IndentedJSON(http.StatusInternalServerError, err.Error())
		_ = c.AbortWithError(http.StatusInternalServerError, err)
		return
	}
	c.IndentedJSON(http.StatusOK, statuses)
}

func getConfig(c *gin.Context) {
	fc, err := config.NewRawFileConfigFromConfig(conf)
	if err != nil {
		_ = c.AbortWithError(http.StatusInternalServerError, err)
		return
	}
	c.IndentedJSON(http.StatusOK, fc)
}

func getVersion(c *gin.Context) {
	c.IndentedJSON(http.StatusOK, version.Version)
}
