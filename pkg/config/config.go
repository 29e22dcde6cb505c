// Package config holds daemon settings: persistence paths, the staleness
// threshold, the consistency policy, and socket access mode.
package config

import (
	"time"

	"github.com/sirupsen/logrus"
)

type Config interface {
	// StatePath is where the calibration record lives.
	StatePath() string
	// BridgePath is the install location of the external desktop-automation
	// bridge, used by health checks and the patch-status probe.
	BridgePath() string
	// StalenessDays is the age in days after which a calibration is
	// reported stale. Advisory only.
	StalenessDays() int
	// StrictConsistency rejects point sets that disagree beyond tolerance
	// instead of persisting them with a warning.
	StrictConsistency() bool
	AllowNonRootAccess() bool

	SetStatePath(string)
	SetBridgePath(string)
	SetStalenessDays(int)
	SetStrictConsistency(bool)
	SetAllowNonRootAccess(bool)

	// StalenessThreshold is StalenessDays as a duration.
	StalenessThreshold() time.Duration

	LogrusFields() logrus.Fields

	// Load reads the configuration from the source.
	Load() error
	// Save saves the configuration to the source.
	Save() error
}
