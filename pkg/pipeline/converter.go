// Package pipeline runs the image to voxel mesh conversion end to end.
package pipeline

import (
	"path/filepath"
	"time"

	"pixvox/internal/logging"
	"pixvox/internal/models"
	"pixvox/pkg/config"
	"pixvox/pkg/export"
	"pixvox/pkg/palette"
	"pixvox/pkg/raster"
	"pixvox/pkg/visualization"
	"pixvox/pkg/voxelizer"
)

// Stats summarises the last successful conversion
type Stats struct {
	// Pixels is the source image size, Opaque the pixels that produced voxels
	Pixels int
	Opaque int

	// Voxels equals Opaque * depth
	Voxels int

	// Materials is the number of distinct voxel colors
	Materials int

	Elapsed time.Duration
}

// Converter handles the conversion process:
// 1. Decoding the input raster
// 2. Voxelizing opaque pixels
// 3. Optionally writing slice images of the voxel grid
// 4. Exporting the mesh and its materials
//
// A Converter is not safe for concurrent use.
type Converter struct {
	cfg   *config.Config
	stats Stats
}

// NewConverter creates a converter for a configuration. The configuration
// is validated on every Process call.
func NewConverter(cfg *config.Config) *Converter {
	return &Converter{cfg: cfg}
}

// Process runs the complete pipeline. The first failing stage aborts it.
func (c *Converter) Process() error {
	if err := c.cfg.Validate(); err != nil {
		return err
	}
	start := time.Now()

	// The output format is checked up front so a bad extension fails
	// before any work is done.
	if _, err := export.FormatForPath(c.cfg.Paths.OutputModel); err != nil {
		return err
	}

	model, stats, err := c.buildModel()
	if err != nil {
		return err
	}

	if dir := c.cfg.Output.SlicesDir; dir != "" {
		logging.Debug("Step 3: Saving voxel slices...", "dir", dir)
		if err := saveSlices(model, dir); err != nil {
			logging.Warn("failed to save slices", "dir", dir, "err", err)
		}
	}

	logging.Debug("Step 4: Exporting model...", "path", c.cfg.Paths.OutputModel)
	if err := export.Export(model, c.cfg.Paths.OutputModel); err != nil {
		return err
	}

	stats.Materials = palette.FromModel(model).Len()
	stats.Elapsed = time.Since(start)
	c.stats = stats

	logging.Info("converted",
		"input", c.cfg.Paths.InputImage,
		"output", c.cfg.Paths.OutputModel,
		"voxels", stats.Voxels,
		"materials", stats.Materials,
		"elapsed", stats.Elapsed.Round(time.Microsecond))
	return nil
}

// buildModel decodes and voxelizes the input. The raster image does not
// outlive this call.
func (c *Converter) buildModel() (*models.VoxelModel, Stats, error) {
	logging.Debug("Step 1: Loading input image...", "path", c.cfg.Paths.InputImage)
	img, err := raster.Load(c.cfg.Paths.InputImage)
	if err != nil {
		return nil, Stats{}, err
	}
	logging.Debug("Loaded image", "width", img.Width, "height", img.Height)

	logging.Debug("Step 2: Voxelizing...", "depth", c.cfg.Voxel.Depth, "unit", c.cfg.Voxel.Unit)
	model, err := voxelizer.Voxelize(img, voxelizer.Params{
		Depth: c.cfg.Voxel.Depth,
		Unit:  c.cfg.Voxel.Unit,
	})
	if err != nil {
		return nil, Stats{}, err
	}

	return model, Stats{
		Pixels: img.Width * img.Height,
		Opaque: voxelizer.CountOpaque(img),
		Voxels: model.Count(),
	}, nil
}

// Stats returns the figures of the last successful Process call.
func (c *Converter) Stats() Stats {
	return c.stats
}

func saveSlices(m *models.VoxelModel, dir string) error {
	if m.Count() == 0 {
		return nil
	}
	viewer := visualization.NewViewer(m)
	for _, axis := range []string{"x", "y", "z"} {
		if err := viewer.SaveSliceSequence(axis, filepath.Join(dir, axis)); err != nil {
			return err
		}
	}
	return nil
}
