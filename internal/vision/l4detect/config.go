package l4detect

import (
	"fmt"

	"github.com/banshee-data/sightline/internal/config"
	"github.com/banshee-data/sightline/internal/vision/l2depth"
	"github.com/banshee-data/sightline/internal/vision/l3targets"
)

// Default tuning values.
const (
	DefaultDepthTolerance          = 0.01
	DefaultConfirmationRangeFactor = 2.0
)

// Config tunes a Detector.
type Config struct {
	// DepthTolerance is the inclusive bound on the target-depth difference
	// between neighbouring pixels of the same silhouette.
	DepthTolerance float64
	// ConfirmationRangeFactor multiplies the distance implied by a pixel's
	// depth to bound its confirmation query. Depth is referenced to the near
	// plane and measured along the view axis, so the factor must leave slack.
	ConfirmationRangeFactor float64
	// BlobSuppression enables the flood fill. Disabling it never changes the
	// detected set, only the number of confirmation queries.
	BlobSuppression bool

	EnvironmentLayers l3targets.LayerMask
	TargetLayers      l3targets.LayerMask

	// GridWidth and GridHeight size the grids requested from the renderer.
	GridWidth  int
	GridHeight int

	Debug bool
}

// DefaultConfig returns the built-in detector configuration.
func DefaultConfig() Config {
	return ConfigFromTuning(config.EmptyTuningConfig())
}

// ConfigFromTuning builds a Config from a loaded TuningConfig.
func ConfigFromTuning(cfg *config.TuningConfig) Config {
	w, h := l2depth.ScaledDims(cfg.GetScreenWidth(), cfg.GetScreenHeight(), cfg.GetGridScale())
	return Config{
		DepthTolerance:          cfg.GetDepthTolerance(),
		ConfirmationRangeFactor: cfg.GetConfirmationRangeFactor(),
		BlobSuppression:         cfg.GetBlobSuppression(),
		EnvironmentLayers:       l3targets.LayerEnvironment,
		TargetLayers:            l3targets.LayerTargets,
		GridWidth:               w,
		GridHeight:              h,
		Debug:                   cfg.GetDebug(),
	}
}

// Validate checks if the configuration is valid.
func (c Config) Validate() error {
	if c.DepthTolerance < 0 {
		return fmt.Errorf("DepthTolerance must be non-negative, got %f", c.DepthTolerance)
	}
	if c.ConfirmationRangeFactor <= 0 {
		return fmt.Errorf("ConfirmationRangeFactor must be positive, got %f", c.ConfirmationRangeFactor)
	}
	if c.GridWidth <= 0 || c.GridHeight <= 0 {
		return fmt.Errorf("grid dimensions must be positive, got %dx%d", c.GridWidth, c.GridHeight)
	}
	if c.TargetLayers == l3targets.LayerNone {
		return fmt.Errorf("TargetLayers must not be empty")
	}
	return nil
}
