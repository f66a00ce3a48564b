package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"pixvox/internal/logging"
	"pixvox/pkg/config"
	"pixvox/pkg/export"
	"pixvox/pkg/pipeline"
)

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	fs := flag.NewFlagSet("pixvox", flag.ContinueOnError)
	fs.Usage = func() {
		fmt.Fprintf(fs.Output(), "pixvox %s, an image \"voxelizer\".\n", export.Version)
		fmt.Fprintf(fs.Output(), "Usage: pixvox -f image.tga -o model.obj [options]\n\nOptions:\n")
		fs.PrintDefaults()
	}

	// Parse command line arguments
	output := fs.String("o", "", "output model (.obj, .glb or .stl) (required)")
	front := fs.String("f", "", "front image (.tga or .bmp) (required)")
	unit := fs.Float64("u", 1.0, "unit, half the edge length of a voxel")
	depth := fs.Int("d", 1, "depth in units")
	configPath := fs.String("config", "", "optional YAML or TOML configuration file")
	initConfig := fs.String("init-config", "", "write a default configuration file and exit")
	slicesDir := fs.String("slices-dir", "", "directory to save PNG slices of the voxel grid")
	watch := fs.Bool("watch", false, "convert again whenever the image changes")
	verbose := fs.Bool("v", false, "verbose logging")
	if err := fs.Parse(args); err != nil {
		return 2
	}

	if *initConfig != "" {
		if err := config.CreateDefaultConfigFile(*initConfig); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return 1
		}
		fmt.Printf("Default configuration written to %s\n", *initConfig)
		return 0
	}

	cfg := config.DefaultConfig()
	if *configPath != "" {
		loaded, err := config.LoadConfig(*configPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return 1
		}
		cfg = loaded
	}

	// Flags given explicitly win over the configuration file
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "o":
			cfg.Paths.OutputModel = *output
		case "f":
			cfg.Paths.InputImage = *front
		case "u":
			cfg.Voxel.Unit = *unit
		case "d":
			cfg.Voxel.Depth = *depth
		case "slices-dir":
			cfg.Output.SlicesDir = *slicesDir
		case "watch":
			cfg.Watch = *watch
		case "v":
			cfg.Output.Verbose = *verbose
		}
	})

	logging.SetVerbose(cfg.Output.Verbose)

	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n\n", err)
		fs.Usage()
		return 1
	}

	converter := pipeline.NewConverter(cfg)

	if cfg.Watch {
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		if err := converter.Watch(ctx, nil); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return 1
		}
		return 0
	}

	if err := converter.Process(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}

	stats := converter.Stats()
	fmt.Printf("Wrote %s: %d voxels, %d materials (%d of %d pixels opaque)\n",
		cfg.Paths.OutputModel, stats.Voxels, stats.Materials, stats.Opaque, stats.Pixels)
	return 0
}
