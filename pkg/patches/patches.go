// Package patches is the descriptive catalog of changes the external
// automation bridge needs to cooperate with calibrated coordinates. It only
// reports intents and whether they are applied; it never patches anything.
package patches

import (
	_ "embed"
	"os"
	"path/filepath"
	"strings"

	pkgerrors "github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

//go:embed intents.yaml
var intentsYAML []byte

// Intent describes one wanted change to the bridge.
type Intent struct {
	ID          string `yaml:"id" json:"id"`
	Description string `yaml:"description" json:"description"`
	Intent      string `yaml:"intent" json:"intent"`
	// Marker is a token whose presence in the bridge entrypoint means the
	// patch is applied.
	Marker   string `yaml:"marker" json:"-"`
	Priority string `yaml:"priority" json:"priority"`
	Phase    int    `yaml:"phase" json:"phase"`
}

const (
	StatusApplied     = "applied"
	StatusNotApplied  = "not_applied"
	StatusCannotCheck = "cannot_check"
)

// Status is one catalog entry plus its applied state on this machine.
type Status struct {
	ID          string `json:"id"`
	Description string `json:"description"`
	Status      string `json:"status"`
	Priority    string `json:"priority"`
	Phase       int    `json:"phase"`
	Reason      string `json:"reason,omitempty"`
}

// Catalog parses the embedded intent list.
func Catalog() ([]Intent, error) {
	var doc struct {
		Patches []Intent `yaml:"patches"`
	}
	if err := yaml.Unmarshal(intentsYAML, &doc); err != nil {
		return nil, pkgerrors.Wrap(err, "failed to parse embedded patch intents")
	}
	return doc.Patches, nil
}

// GetStatus reads the current bridge entrypoint and reports, per intent,
// whether its marker is present.
func GetStatus(bridgePath string) ([]Status, error) {
	intents, err := Catalog()
	if err != nil {
		return nil, err
	}

	source, readErr := os.ReadFile(filepath.Join(bridgePath, "main.py"))

	out := make([]Status, 0, len(intents))
	for _, in := range intents {
		s := Status{
			ID:          in.ID,
			Description: in.Description,
			Priority:    in.Priority,
			Phase:       in.Phase,
		}
		switch {
		case bridgePath == "" || readErr != nil:
			s.Status = StatusCannotCheck
			s.Reason = "bridge entrypoint not found"
		case strings.Contains(string(source), in.Marker):
			s.Status = StatusApplied
		default:
			s.Status = StatusNotApplied
		}
		out = append(out, s)
	}

	return out, nil
}
