// Package store is the exclusive durable owner of the machine's calibration
// record.
package store

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"sync"

	pkgerrors "github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/precision-desktop/precisiond/pkg/calibration"
)

// Store loads and saves the single calibration record. Load before any
// successful calibrate returns calibration.ErrNotCalibrated; an unreadable
// or invariant-violating record returns calibration.ErrCorruptState.
type Store interface {
	Load() (*calibration.State, error)
	Save(*calibration.State) error
}

var _ Store = &File{}

// File persists the record as an indented JSON file. Saves go through a
// temp file and an atomic rename so a crash mid-write never leaves a
// half-written record. Writers are serialized; readers need no exclusion
// because the rename swaps complete records.
type File struct {
	path func() string
	mu   sync.Mutex
}

func NewFile(path string) *File {
	return NewFileFunc(func() string { return path })
}

// NewFileFunc returns a store that resolves its path on every access. The
// daemon uses this so a config reload that moves the state file takes effect
// without replacing the store, which would discard the writer lock that
// serializes in-flight saves.
func NewFileFunc(path func() string) *File {
	return &File{path: path}
}

func (f *File) Load() (*calibration.State, error) {
	path := f.path()

	b, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			// First run. Normal, not an I/O failure.
			return nil, calibration.ErrNotCalibrated
		}
		return nil, pkgerrors.Wrapf(err, "failed to read state file %s", path)
	}

	if strings.TrimSpace(string(b)) == "" {
		return nil, calibration.ErrNotCalibrated
	}

	state := calibration.State{}
	if err := json.Unmarshal(b, &state); err != nil {
		return nil, pkgerrors.Wrapf(calibration.ErrCorruptState, "failed to unmarshal state file %s: %v", path, err)
	}

	if err := state.Validate(); err != nil {
		return nil, pkgerrors.Wrapf(calibration.ErrCorruptState, "state file %s: %v", path, err)
	}

	return &state, nil
}

func (f *File) Save(state *calibration.State) error {
	if err := state.Validate(); err != nil {
		return pkgerrors.Wrap(err, "refusing to persist invalid state")
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	// Resolve under the lock so a save and a concurrent path change cannot
	// interleave: each save lands whole on the path it resolved.
	path := f.path()

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return pkgerrors.Wrapf(err, "failed to create state directory %s", dir)
	}

	tmp, err := os.CreateTemp(dir, ".calibration-*.json")
	if err != nil {
		return pkgerrors.Wrapf(err, "failed to create temp state file in %s", dir)
	}
	tmpName := tmp.Name()

	// Any failure from here on leaves the old record untouched.
	cleanup := func() {
		if err := os.Remove(tmpName); err != nil && !os.IsNotExist(err) {
			logrus.Warnf("failed to remove temp state file %s: %v", tmpName, err)
		}
	}

	enc := json.NewEncoder(tmp)
	enc.SetIndent("", "  ")
	if err := enc.Encode(state); err != nil {
		_ = tmp.Close()
		cleanup()
		return pkgerrors.Wrapf(err, "failed to encode state to %s", tmpName)
	}

	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		cleanup()
		return pkgerrors.Wrapf(err, "failed to sync %s", tmpName)
	}

	if err := tmp.Close(); err != nil {
		cleanup()
		return pkgerrors.Wrapf(err, "failed to close %s", tmpName)
	}

	if err := os.Chmod(tmpName, 0644); err != nil {
		cleanup()
		return pkgerrors.Wrapf(err, "failed to chmod %s", tmpName)
	}

	if err := os.Rename(tmpName, path); err != nil {
		cleanup()
		return pkgerrors.Wrapf(err, "failed to replace state file %s", path)
	}

	return nil
}
