package calibration

import (
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
	"time"

	"github.com/agbru/quadcalc/internal/config"
)

func TestNewProfile(t *testing.T) {
	t.Parallel()
	profile := NewProfile()

	if profile.NumCPU != runtime.NumCPU() {
		t.Errorf("NumCPU = %d, want %d", profile.NumCPU, runtime.NumCPU())
	}
	if profile.GOARCH != runtime.GOARCH || profile.GOOS != runtime.GOOS {
		t.Errorf("platform = %s/%s, want %s/%s", profile.GOOS, profile.GOARCH, runtime.GOOS, runtime.GOARCH)
	}
	if profile.GoVersion != runtime.Version() {
		t.Errorf("GoVersion = %s, want %s", profile.GoVersion, runtime.Version())
	}
	if profile.ProfileVersion != CurrentProfileVersion {
		t.Errorf("ProfileVersion = %d, want %d", profile.ProfileVersion, CurrentProfileVersion)
	}
	if want := 32 << (^uint(0) >> 63); profile.WordSize != want {
		t.Errorf("WordSize = %d, want %d", profile.WordSize, want)
	}
	if profile.CalibratedAt.IsZero() {
		t.Error("CalibratedAt is zero")
	}
}

func validProfile() *CalibrationProfile {
	p := NewProfile()
	p.OptimalWorkers = 4
	p.Function = "quadratic"
	p.CalibrationN = 1000
	return p
}

func TestProfileSaveLoad(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "nested", "profile.json")

	original := validProfile()
	if err := original.SaveProfile(path); err != nil {
		t.Fatalf("SaveProfile: %v", err)
	}
	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("profile not written: %v", err)
	}
	if runtime.GOOS != "windows" && info.Mode().Perm() != 0o600 {
		t.Errorf("permissions = %v, want 0600", info.Mode().Perm())
	}

	loaded, err := loadProfile(path)
	if err != nil {
		t.Fatalf("loadProfile: %v", err)
	}
	if loaded.OptimalWorkers != 4 || loaded.Function != "quadratic" || loaded.CalibrationN != 1000 {
		t.Errorf("loaded = %+v", loaded)
	}
	if !loaded.CalibratedAt.Equal(original.CalibratedAt) {
		t.Errorf("CalibratedAt = %v, want %v", loaded.CalibratedAt, original.CalibratedAt)
	}
}

func TestLoadProfileErrors(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()

	if _, err := loadProfile(filepath.Join(dir, "missing.json")); err == nil {
		t.Error("expected error for missing file")
	}

	bad := filepath.Join(dir, "bad.json")
	if err := os.WriteFile(bad, []byte("{not json"), 0o600); err != nil {
		t.Fatal(err)
	}
	if _, err := loadProfile(bad); err == nil {
		t.Error("expected error for malformed JSON")
	}
}

func TestProfileIsValid(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name   string
		mutate func(*CalibrationProfile)
		want   bool
	}{
		{"current", func(*CalibrationProfile) {}, true},
		{"other cpu count", func(p *CalibrationProfile) { p.NumCPU++ }, false},
		{"other arch", func(p *CalibrationProfile) { p.GOARCH = "sparc" }, false},
		{"other word size", func(p *CalibrationProfile) { p.WordSize = 16 }, false},
		{"old version", func(p *CalibrationProfile) { p.ProfileVersion = CurrentProfileVersion - 1 }, false},
		{"no workers", func(p *CalibrationProfile) { p.OptimalWorkers = 0 }, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			p := validProfile()
			tt.mutate(p)
			if got := p.IsValid(); got != tt.want {
				t.Errorf("IsValid() = %v, want %v", got, tt.want)
			}
		})
	}

	var nilProfile *CalibrationProfile
	if nilProfile.IsValid() {
		t.Error("nil profile reported valid")
	}
}

func TestProfileIsStale(t *testing.T) {
	t.Parallel()
	p := validProfile()
	if p.IsStale(time.Hour) {
		t.Error("fresh profile reported stale")
	}
	p.CalibratedAt = time.Now().Add(-2 * time.Hour)
	if !p.IsStale(time.Hour) {
		t.Error("old profile not reported stale")
	}
	var nilProfile *CalibrationProfile
	if !nilProfile.IsStale(time.Hour) {
		t.Error("nil profile must be stale")
	}
}

func TestProfileString(t *testing.T) {
	t.Parallel()
	s := validProfile().String()
	for _, want := range []string{"4 workers", "quadratic", "n=1000", runtime.GOARCH} {
		if !strings.Contains(s, want) {
			t.Errorf("String() = %q, missing %q", s, want)
		}
	}
}

func TestLoadOrCreateProfile(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "profile.json")

	p, loaded := LoadOrCreateProfile(path)
	if loaded || p == nil {
		t.Fatalf("LoadOrCreateProfile on missing file = (%v, %v)", p, loaded)
	}

	if err := validProfile().SaveProfile(path); err != nil {
		t.Fatal(err)
	}
	p, loaded = LoadOrCreateProfile(path)
	if !loaded || p.OptimalWorkers != 4 {
		t.Errorf("LoadOrCreateProfile = (%+v, %v)", p, loaded)
	}
}

func TestGetDefaultProfilePath(t *testing.T) {
	t.Parallel()
	if got := GetDefaultProfilePath(); filepath.Base(got) != DefaultProfileFileName {
		t.Errorf("GetDefaultProfilePath() = %q", got)
	}
}

func TestLoadCachedCalibration(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	fresh := filepath.Join(dir, "fresh.json")
	if err := validProfile().SaveProfile(fresh); err != nil {
		t.Fatal(err)
	}
	stale := filepath.Join(dir, "stale.json")
	old := validProfile()
	old.CalibratedAt = time.Now().Add(-2 * MaxProfileAge)
	if err := old.SaveProfile(stale); err != nil {
		t.Fatal(err)
	}

	t.Run("applies fresh profile", func(t *testing.T) {
		t.Parallel()
		cfg, ok := LoadCachedCalibration(config.AppConfig{}, fresh)
		if !ok || cfg.Workers != 4 {
			t.Errorf("got (%d, %v), want (4, true)", cfg.Workers, ok)
		}
	})
	t.Run("explicit workers win", func(t *testing.T) {
		t.Parallel()
		cfg, ok := LoadCachedCalibration(config.AppConfig{Workers: 2}, fresh)
		if ok || cfg.Workers != 2 {
			t.Errorf("got (%d, %v), want (2, false)", cfg.Workers, ok)
		}
	})
	t.Run("ignores stale profile", func(t *testing.T) {
		t.Parallel()
		if _, ok := LoadCachedCalibration(config.AppConfig{}, stale); ok {
			t.Error("stale profile applied")
		}
	})
	t.Run("ignores missing profile", func(t *testing.T) {
		t.Parallel()
		if _, ok := LoadCachedCalibration(config.AppConfig{}, filepath.Join(dir, "none.json")); ok {
			t.Error("missing profile applied")
		}
	})
}
