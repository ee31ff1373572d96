package calibration

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"time"

	"github.com/agbru/quadcalc/internal/config"
)

const (
	// CurrentProfileVersion is bumped whenever the profile layout changes.
	CurrentProfileVersion = 1
	// DefaultProfileFileName is stored in the user's home directory.
	DefaultProfileFileName = ".quadcalc_calibration.json"
	// MaxProfileAge is how long a cached profile is trusted.
	MaxProfileAge = 30 * 24 * time.Hour
)

// CalibrationProfile is the persisted outcome of a calibration run. It is
// only valid on the hardware it was measured on.
type CalibrationProfile struct {
	ProfileVersion int       `json:"profile_version"`
	CalibratedAt   time.Time `json:"calibrated_at"`

	NumCPU    int    `json:"num_cpu"`
	GOARCH    string `json:"goarch"`
	GOOS      string `json:"goos"`
	GoVersion string `json:"go_version"`
	WordSize  int    `json:"word_size"`

	OptimalWorkers  int    `json:"optimal_workers"`
	Function        string `json:"function"`
	CalibrationN    int    `json:"calibration_n"`
	CalibrationTime string `json:"calibration_time"`
}

// NewProfile returns a profile stamped with the current hardware.
func NewProfile() *CalibrationProfile {
	return &CalibrationProfile{
		ProfileVersion: CurrentProfileVersion,
		CalibratedAt:   time.Now(),
		NumCPU:         runtime.NumCPU(),
		GOARCH:         runtime.GOARCH,
		GOOS:           runtime.GOOS,
		GoVersion:      runtime.Version(),
		WordSize:       32 << (^uint(0) >> 63),
	}
}

// IsValid reports whether the profile was measured on this hardware with
// the current layout.
func (p *CalibrationProfile) IsValid() bool {
	if p == nil {
		return false
	}
	current := NewProfile()
	return p.ProfileVersion == CurrentProfileVersion &&
		p.NumCPU == current.NumCPU &&
		p.GOARCH == current.GOARCH &&
		p.WordSize == current.WordSize &&
		p.OptimalWorkers > 0
}

// IsStale reports whether the profile is older than maxAge.
func (p *CalibrationProfile) IsStale(maxAge time.Duration) bool {
	if p == nil {
		return true
	}
	return time.Since(p.CalibratedAt) > maxAge
}

// String summarizes the profile on one line.
func (p *CalibrationProfile) String() string {
	return fmt.Sprintf("calibration profile v%d: %d workers optimal for %s at n=%d (%d CPUs, %s/%s, %s, measured %s)",
		p.ProfileVersion, p.OptimalWorkers, p.Function, p.CalibrationN,
		p.NumCPU, p.GOOS, p.GOARCH, p.GoVersion, p.CalibratedAt.Format(time.RFC3339))
}

// SaveProfile writes the profile as indented JSON, creating parent
// directories as needed.
func (p *CalibrationProfile) SaveProfile(path string) error {
	if dir := filepath.Dir(path); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("creating profile directory: %w", err)
		}
	}
	data, err := json.MarshalIndent(p, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding profile: %w", err)
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("writing profile: %w", err)
	}
	return nil
}

func loadProfile(path string) (*CalibrationProfile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var p CalibrationProfile
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("decoding profile %s: %w", path, err)
	}
	return &p, nil
}

// LoadOrCreateProfile loads the profile at path, or returns a fresh one.
// The boolean reports whether a file was loaded.
func LoadOrCreateProfile(path string) (*CalibrationProfile, bool) {
	if p, err := loadProfile(path); err == nil {
		return p, true
	}
	return NewProfile(), false
}

// GetDefaultProfilePath returns ~/.quadcalc_calibration.json, or the file
// name alone when the home directory is unknown.
func GetDefaultProfilePath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return DefaultProfileFileName
	}
	return filepath.Join(home, DefaultProfileFileName)
}

// LoadCachedCalibration applies a valid, fresh profile's worker count when
// cfg leaves the worker count automatic. path may be empty to use the
// default location.
func LoadCachedCalibration(cfg config.AppConfig, path string) (config.AppConfig, bool) {
	if cfg.Workers != 0 {
		return cfg, false
	}
	if path == "" {
		path = GetDefaultProfilePath()
	}
	p, err := loadProfile(path)
	if err != nil || !p.IsValid() || p.IsStale(MaxProfileAge) {
		return cfg, false
	}
	cfg.Workers = p.OptimalWorkers
	return cfg, true
}
