package config

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

// DefaultConfigPath is the path to the canonical tuning defaults file.
// This is the single source of truth for all default tuning values.
const DefaultConfigPath = "config/tuning.defaults.json"

//go:embed tuning.schema.json
var tuningSchema []byte

// TuningConfig represents the root configuration for detection tuning.
// Every field is optional; the Get* methods supply defaults for omitted keys.
type TuningConfig struct {
	// Detection core
	DepthTolerance          *float64 `json:"depth_tolerance,omitempty"`
	ConfirmationRangeFactor *float64 `json:"confirmation_range_factor,omitempty"`
	BlobSuppression         *bool    `json:"blob_suppression,omitempty"`

	// Scheduling
	ObserversPerTick *int `json:"observers_per_tick,omitempty"`

	// Depth grid sizing: grid = round(screen * grid_scale)
	GridScale    *float64 `json:"grid_scale,omitempty"`
	ScreenWidth  *int     `json:"screen_width,omitempty"`
	ScreenHeight *int     `json:"screen_height,omitempty"`

	// Observer camera
	FieldOfViewDegrees *float64 `json:"field_of_view_degrees,omitempty"`
	NearClip           *float64 `json:"near_clip,omitempty"`
	FarClip            *float64 `json:"far_clip,omitempty"`

	Debug *bool `json:"debug,omitempty"`
}

// Helper functions to create pointers
func ptrFloat64(v float64) *float64 { return &v }
func ptrBool(v bool) *bool          { return &v }
func ptrInt(v int) *int             { return &v }

// EmptyTuningConfig returns a TuningConfig with all fields set to nil.
// Use LoadTuningConfig to load actual values from the defaults file.
func EmptyTuningConfig() *TuningConfig {
	return &TuningConfig{}
}

// DefaultTuningConfig returns a TuningConfig with every field populated from
// the built-in defaults. It does not touch the filesystem.
func DefaultTuningConfig() *TuningConfig {
	e := EmptyTuningConfig()
	return &TuningConfig{
		DepthTolerance:          ptrFloat64(e.GetDepthTolerance()),
		ConfirmationRangeFactor: ptrFloat64(e.GetConfirmationRangeFactor()),
		BlobSuppression:         ptrBool(e.GetBlobSuppression()),
		ObserversPerTick:        ptrInt(e.GetObserversPerTick()),
		GridScale:               ptrFloat64(e.GetGridScale()),
		ScreenWidth:             ptrInt(e.GetScreenWidth()),
		ScreenHeight:            ptrInt(e.GetScreenHeight()),
		FieldOfViewDegrees:      ptrFloat64(e.GetFieldOfViewDegrees()),
		NearClip:                ptrFloat64(e.GetNearClip()),
		FarClip:                 ptrFloat64(e.GetFarClip()),
		Debug:                   ptrBool(e.GetDebug()),
	}
}

// LoadTuningConfig loads a TuningConfig from a JSON file.
// The file must have a .json extension, be under 1MB, and conform to the
// embedded schema. Fields omitted from the JSON file fall back to defaults.
func LoadTuningConfig(path string) (*TuningConfig, error) {
	cleanPath := filepath.Clean(path)
	if ext := filepath.Ext(cleanPath); ext != ".json" {
		return nil, fmt.Errorf("config file must have .json extension, got %q", ext)
	}

	fileInfo, err := os.Stat(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to stat config file: %w", err)
	}
	const maxFileSize = 1 * 1024 * 1024 // 1MB
	if fileInfo.Size() > maxFileSize {
		return nil, fmt.Errorf("config file too large: %d bytes (max %d)", fileInfo.Size(), maxFileSize)
	}

	data, err := os.ReadFile(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	return ParseTuningConfig(data)
}

// ParseTuningConfig decodes and validates a JSON tuning document.
func ParseTuningConfig(data []byte) (*TuningConfig, error) {
	if err := validateSchema(data); err != nil {
		return nil, err
	}

	cfg := EmptyTuningConfig()
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

func validateSchema(data []byte) error {
	result, err := gojsonschema.Validate(
		gojsonschema.NewBytesLoader(tuningSchema),
		gojsonschema.NewBytesLoader(data),
	)
	if err != nil {
		return fmt.Errorf("failed to parse config JSON: %w", err)
	}
	if result.Valid() {
		return nil
	}
	msgs := make([]string, 0, len(result.Errors()))
	for _, e := range result.Errors() {
		msgs = append(msgs, e.String())
	}
	return fmt.Errorf("config does not match schema: %s", strings.Join(msgs, "; "))
}

// MustLoadDefaultConfig loads the canonical tuning defaults from DefaultConfigPath.
// It searches for the file in the current directory and common parent directories.
// Panics if the file cannot be loaded, intended for test setup.
func MustLoadDefaultConfig() *TuningConfig {
	candidates := []string{
		DefaultConfigPath,
		"../../" + DefaultConfigPath,       // from internal/config/
		"../../../" + DefaultConfigPath,    // from internal/vision/l4detect/
		"../../../../" + DefaultConfigPath, // from internal/vision/storage/sqlite/
	}
	for _, path := range candidates {
		if cfg, err := LoadTuningConfig(path); err == nil {
			return cfg
		}
	}
	panic("cannot find " + DefaultConfigPath + " - run tests from repository root")
}

// Validate checks cross-field constraints the schema cannot express.
func (c *TuningConfig) Validate() error {
	if c.DepthTolerance != nil && (*c.DepthTolerance < 0 || *c.DepthTolerance > 1) {
		return fmt.Errorf("depth_tolerance must be between 0 and 1, got %f", *c.DepthTolerance)
	}
	if c.ConfirmationRangeFactor != nil && *c.ConfirmationRangeFactor <= 0 {
		return fmt.Errorf("confirmation_range_factor must be positive, got %f", *c.ConfirmationRangeFactor)
	}
	if c.ObserversPerTick != nil && *c.ObserversPerTick < 1 {
		return fmt.Errorf("observers_per_tick must be at least 1, got %d", *c.ObserversPerTick)
	}
	if c.GridScale != nil && (*c.GridScale <= 0 || *c.GridScale > 1) {
		return fmt.Errorf("grid_scale must be in (0, 1], got %f", *c.GridScale)
	}
	if fov := c.GetFieldOfViewDegrees(); fov <= 0 || fov >= 180 {
		return fmt.Errorf("field_of_view_degrees must be in (0, 180), got %f", fov)
	}
	if near, far := c.GetNearClip(), c.GetFarClip(); near <= 0 || far <= near {
		return fmt.Errorf("clip planes must satisfy 0 < near_clip < far_clip, got near=%f far=%f", near, far)
	}
	return nil
}

// GetDepthTolerance returns the depth_tolerance value or the default.
func (c *TuningConfig) GetDepthTolerance() float64 {
	if c.DepthTolerance == nil {
		return 0.01
	}
	return *c.DepthTolerance
}

// GetConfirmationRangeFactor returns the confirmation_range_factor value or the default.
func (c *TuningConfig) GetConfirmationRangeFactor() float64 {
	if c.ConfirmationRangeFactor == nil {
		return 2.0
	}
	return *c.ConfirmationRangeFactor
}

// GetBlobSuppression returns the blob_suppression value or the default.
func (c *TuningConfig) GetBlobSuppression() bool {
	if c.BlobSuppression == nil {
		return true
	}
	return *c.BlobSuppression
}

// GetObserversPerTick returns the observers_per_tick value or the default.
func (c *TuningConfig) GetObserversPerTick() int {
	if c.ObserversPerTick == nil {
		return 1
	}
	return *c.ObserversPerTick
}

// GetGridScale returns the grid_scale value or the default.
func (c *TuningConfig) GetGridScale() float64 {
	if c.GridScale == nil {
		return 0.8
	}
	return *c.GridScale
}

// GetScreenWidth returns the screen_width value or the default.
func (c *TuningConfig) GetScreenWidth() int {
	if c.ScreenWidth == nil {
		return 320
	}
	return *c.ScreenWidth
}

// GetScreenHeight returns the screen_height value or the default.
func (c *TuningConfig) GetScreenHeight() int {
	if c.ScreenHeight == nil {
		return 180
	}
	return *c.ScreenHeight
}

// GetFieldOfViewDegrees returns the vertical field_of_view_degrees value or the default.
func (c *TuningConfig) GetFieldOfViewDegrees() float64 {
	if c.FieldOfViewDegrees == nil {
		return 60
	}
	return *c.FieldOfViewDegrees
}

// GetNearClip returns the near_clip value or the default.
func (c *TuningConfig) GetNearClip() float64 {
	if c.NearClip == nil {
		return 0.3
	}
	return *c.NearClip
}

// GetFarClip returns the far_clip value or the default.
func (c *TuningConfig) GetFarClip() float64 {
	if c.FarClip == nil {
		return 50
	}
	return *c.FarClip
}

// GetDebug returns the debug value or the default.
func (c *TuningConfig) GetDebug() bool {
	if c.Debug == nil {
		return false
	}
	return *c.Debug
}
