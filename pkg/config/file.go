package config

import (
	"encoding/json"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	pkgerrors "github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/precision-desktop/precisiond/pkg/utils/ptr"
)

var (
	defaultFileConfig = &RawFileConfig{
		StatePath:     ptr.To("/var/lib/precisiond/calibration.json"),
		BridgePath:    ptr.To(""),
		StalenessDays: ptr.To(7),
		// Inconsistent points produce a warning by default; a degraded but
		// usable calibration beats blocking the caller outright.
		StrictConsistency:  ptr.To(false),
		AllowNonRootAccess: ptr.To(false),
	}
)

var _ Config = &File{}

type File struct {
	c        *RawFileConfig
	mu       *sync.RWMutex
	filepath string
}

func NewFile(configPath string) (*File, error) {
	f := &File{
		filepath: configPath,
		mu:       &sync.RWMutex{},
	}
	err := f.Load()
	if err != nil {
		return nil, err
	}

	return f, nil
}

func NewFileFromConfig(c *RawFileConfig, configPath string) *File {
	if c == nil {
		c = defaultFileConfig
	}

	return &File{
		c:        c,
		mu:       &sync.RWMutex{},
		filepath: configPath,
	}
}

type RawFileConfig struct {
	StatePath          *string `json:"statePath,omitempty"`
	BridgePath         *string `json:"bridgePath,omitempty"`
	StalenessDays      *int    `json:"stalenessDays,omitempty"`
	StrictConsistency  *bool   `json:"strictConsistency,omitempty"`
	AllowNonRootAccess *bool   `json:"allowNonRootAccess,omitempty"`
}

func NewRawFileConfigFromConfig(c Config) (*RawFileConfig, error) {
	if c == nil {
		return nil, pkgerrors.New("config is nil")
	}

	return &RawFileConfig{
		StatePath:          ptr.To(c.StatePath()),
		BridgePath:         ptr.To(c.BridgePath()),
		StalenessDays:      ptr.To(c.StalenessDays()),
		StrictConsistency:  ptr.To(c.StrictConsistency()),
		AllowNonRootAccess: ptr.To(c.AllowNonRootAccess()),
	}, nil
}

func (f *File) StatePath() string {
	if f.c == nil {
		panic("config is nil")
	}

	f.mu.RLock()
	defer f.mu.RUnlock()

	if f.c.StatePath != nil {
		return *f.c.StatePath
	}
	return *defaultFileConfig.StatePath
}

func (f *File) BridgePath() string {
	if f.c == nil {
		panic("config is nil")
	}

	f.mu.RLock()
	defer f.mu.RUnlock()

	if f.c.BridgePath != nil && *f.c.BridgePath != "" {
		return *f.c.BridgePath
	}
	// The env var wins over an unset config value so agents can point at a
	// non-standard bridge install without editing the config file.
	if env := os.Getenv("PRECISIOND_BRIDGE_PATH"); env != "" {
		return env
	}
	return *defaultFileConfig.BridgePath
}

func (f *File) StalenessDays() int {
	if f.c == nil {
		panic("config is nil")
	}

	f.mu.RLock()
	defer f.mu.RUnlock()

	if f.c.StalenessDays != nil {
		return *f.c.StalenessDays
	}
	return *defaultFileConfig.StalenessDays
}

func (f *File) StrictConsistency() bool {
	if f.c == nil {
		panic("config is nil")
	}

	f.mu.RLock()
	defer f.mu.RUnlock()

	if f.c.StrictConsistency != nil {
		return *f.c.StrictConsistency
	}
	return *defaultFileConfig.StrictConsistency
}

func (f *File) AllowNonRootAccess() bool {
	if f.c == nil {
		panic("config is nil")
	}

	f.mu.RLock()
	defer f.mu.RUnlock()

	if f.c.AllowNonRootAccess != nil {
		return *f.c.AllowNonRootAccess
	}
	return *defaultFileConfig.AllowNonRootAccess
}

func (f *File) SetStatePath(p string) {
	if f.c == nil {
		panic("config is nil")
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	f.c.StatePath = &p
}

func (f *File) SetBridgePath(p string) {
	if f.c == nil {
		panic("config is nil")
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	f.c.BridgePath = &p
}

func (f *File) SetStalenessDays(d int) {
	if f.c == nil {
		panic("config is nil")
	}

	if d <= 0 {
		panic("staleness threshold must be at least one day")
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	f.c.StalenessDays = &d
}

func (f *File) SetStrictConsistency(b bool) {
	if f.c == nil {
		panic("config is nil")
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	f.c.StrictConsistency = &b
}

func (f *File) SetAllowNonRootAccess(b bool) {
	if f.c == nil {
		panic("config is nil")
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	f.c.AllowNonRootAccess = &b
}

func (f *File) StalenessThreshold() time.Duration {
	return time.Duration(f.StalenessDays()) * 24 * time.Hour
}

func (f *File) Load() error {
	f.mu.Lock()
	defer f.mu.Unlock()

	fp, err := os.Open(f.filepath)
	if err != nil {
		if os.IsNotExist(err) {
			// If the file does not exist, return the empty config.
			// Do not make f.c a nil.
			f.c = &RawFileConfig{}
			return nil
		}
		return pkgerrors.Wrapf(err, "failed to open file %s", f.filepath)
	}
	defer func(fp *os.File) {
		err := fp.Close()
		if err != nil {
			logrus.Warnf("failed to close file %s", f.filepath)
		}
	}(fp)

	// Since we want to tell if the file is empty, using json.Decoder will
	// not work.
	b, err := io.ReadAll(fp)
	if err != nil {
		return pkgerrors.Wrapf(err, "failed to read file %s", f.filepath)
	}

	if strings.TrimSpace(string(b)) == "" {
		// If the file is empty, return the empty config.
		// Do not make f.c a nil.
		f.c = &RawFileConfig{}
		return nil
	}

	conf := RawFileConfig{}
	err = json.Unmarshal(b, &conf)
	if err != nil {
		return pkgerrors.Wrapf(err, "failed to unmarshal config from file %s", f.filepath)
	}
	f.c = &conf

	return nil
}

func (f *File) Save() error {
	f.mu.RLock()
	defer f.mu.RUnlock()

	if f.c == nil {
		return pkgerrors.New("config is nil")
	}

	fp, err := os.OpenFile(f.filepath, os.O_RDWR|os.O_CREATE|os.O_TRUNC, 0644)
	if err != nil {
		return pkgerrors.Wrapf(err, "failed to open file %s", f.filepath)
	}
	defer func(fp *os.File) {
		err := fp.Close()
		if err != nil {
			logrus.Warnf("failed to close file %s", f.filepath)
		}
	}(fp)

	enc := json.NewEncoder(fp)
	enc.SetIndent("", "  ")
	err = enc.Encode(f.c)
	if err != nil {
		return pkgerrors.Wrapf(err, "failed to encode config to file %s", f.filepath)
	}

	return nil
}

func (f *File) LogrusFields() logrus.Fields {
	if f.c == nil {
		panic("config is nil")
	}

	return logrus.Fields{
		"statePath":          f.StatePath(),
		"bridgePath":         f.BridgePath(),
		"stalenessDays":      f.StalenessDays(),
		"strictConsistency":  f.StrictConsistency(),
		"allowNonRootAccess": f.AllowNonRootAccess(),
	}
}
