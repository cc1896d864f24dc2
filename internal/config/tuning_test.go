package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestDefaultTuningConfig(t *testing.T) {
	cfg := DefaultTuningConfig()

	if cfg.DepthTolerance == nil || *cfg.DepthTolerance != 0.01 {
		t.Errorf("Expected DepthTolerance 0.01, got %v", cfg.DepthTolerance)
	}
	if cfg.BlobSuppression == nil || *cfg.BlobSuppression != true {
		t.Errorf("Expected BlobSuppression true, got %v", cfg.BlobSuppression)
	}
	if cfg.GetConfirmationRangeFactor() != 2.0 {
		t.Errorf("GetConfirmationRangeFactor() = %f, want 2.0", cfg.GetConfirmationRangeFactor())
	}
	if cfg.GetObserversPerTick() != 1 {
		t.Errorf("GetObserversPerTick() = %d, want 1", cfg.GetObserversPerTick())
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("defaults should validate: %v", err)
	}
}

func TestEmptyTuningConfig_GettersFallBack(t *testing.T) {
	cfg := EmptyTuningConfig()
	if cfg.GetDepthTolerance() != 0.01 {
		t.Errorf("GetDepthTolerance() = %f, want 0.01", cfg.GetDepthTolerance())
	}
	if cfg.GetGridScale() != 0.8 {
		t.Errorf("GetGridScale() = %f, want 0.8", cfg.GetGridScale())
	}
	if cfg.GetNearClip() != 0.3 || cfg.GetFarClip() != 50 {
		t.Errorf("clip = (%f, %f), want (0.3, 50)", cfg.GetNearClip(), cfg.GetFarClip())
	}
	if cfg.GetDebug() {
		t.Error("GetDebug() should default to false")
	}
}

func TestLoadTuningConfig(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "test_config.json")

	testJSON := `{
  "depth_tolerance": 0.02,
  "blob_suppression": false,
  "observers_per_tick": 4,
  "far_clip": 120
}`
	if err := os.WriteFile(configPath, []byte(testJSON), 0644); err != nil {
		t.Fatalf("Failed to write test config: %v", err)
	}

	cfg, err := LoadTuningConfig(configPath)
	if err != nil {
		t.Fatalf("LoadTuningConfig failed: %v", err)
	}
	if cfg.GetDepthTolerance() != 0.02 {
		t.Errorf("GetDepthTolerance() = %f, want 0.02", cfg.GetDepthTolerance())
	}
	if cfg.GetBlobSuppression() {
		t.Error("GetBlobSuppression() = true, want false")
	}
	if cfg.GetObserversPerTick() != 4 {
		t.Errorf("GetObserversPerTick() = %d, want 4", cfg.GetObserversPerTick())
	}
	if cfg.GetFarClip() != 120 {
		t.Errorf("GetFarClip() = %f, want 120", cfg.GetFarClip())
	}
	// Omitted keys keep defaults
	if cfg.GetConfirmationRangeFactor() != 2.0 {
		t.Errorf("GetConfirmationRangeFactor() = %f, want 2.0", cfg.GetConfirmationRangeFactor())
	}
}

func TestLoadTuningConfig_Errors(t *testing.T) {
	tmpDir := t.TempDir()

	tests := []struct {
		name    string
		file    string
		body    string
		wantErr string
	}{
		{"wrong extension", "cfg.yaml", `{}`, ".json extension"},
		{"malformed", "bad.json", `{not json`, "failed to parse"},
		{"unknown key", "unknown.json", `{"depth_tol": 0.1}`, "schema"},
		{"wrong type", "type.json", `{"blob_suppression": "yes"}`, "schema"},
		{"tolerance out of range", "tol.json", `{"depth_tolerance": 2}`, "schema"},
		{"inverted clip planes", "clip.json", `{"near_clip": 10, "far_clip": 5}`, "clip planes"},
		{"zero observers", "obs.json", `{"observers_per_tick": 0}`, "schema"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(tmpDir, tt.file)
			if err := os.WriteFile(path, []byte(tt.body), 0644); err != nil {
				t.Fatal(err)
			}
			_, err := LoadTuningConfig(path)
			if err == nil {
				t.Fatalf("expected error containing %q", tt.wantErr)
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error = %v, want substring %q", err, tt.wantErr)
			}
		})
	}
}

func TestLoadTuningConfig_MissingFile(t *testing.T) {
	if _, err := LoadTuningConfig(filepath.Join(t.TempDir(), "nope.json")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestMustLoadDefaultConfig(t *testing.T) {
	cfg := MustLoadDefaultConfig()
	want := DefaultTuningConfig()
	if cfg.GetDepthTolerance() != want.GetDepthTolerance() {
		t.Errorf("defaults file depth_tolerance = %f, built-in = %f", cfg.GetDepthTolerance(), want.GetDepthTolerance())
	}
	if cfg.GetScreenWidth() != want.GetScreenWidth() || cfg.GetScreenHeight() != want.GetScreenHeight() {
		t.Errorf("defaults file screen = %dx%d, built-in = %dx%d",
			cfg.GetScreenWidth(), cfg.GetScreenHeight(), want.GetScreenWidth(), want.GetScreenHeight())
	}
}
