package main

import (
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"stylevolume/internal/logging"
	"stylevolume/internal/models"
	"stylevolume/pkg/config"
	"stylevolume/pkg/visualization"
	"stylevolume/pkg/volume"
)

func init() {
	// GLFW and OpenGL calls must stay on the main thread
	runtime.LockOSThread()
}

func main() {
	// Parse command line arguments
	configPath := flag.String("config", "stylevolume.yaml", "YAML configuration file")
	initConfig := flag.Bool("init-config", false, "Write the default configuration to -config and exit")
	volumePath := flag.String("volume", "", "Raw volume file (overrides config)")
	width := flag.Int("width", 0, "Volume width in voxels (overrides config)")
	height := flag.Int("height", 0, "Volume height in voxels (overrides config)")
	depth := flag.Int("depth", 0, "Volume depth in voxels (overrides config)")
	bits := flag.Int("bits", 0, "Bits per sample, 8 or 16 (overrides config)")
	tfPath := flag.String("tf", "", "Transfer function file for the L and S keys (overrides config)")
	mode := flag.String("mode", "", "Transfer texture mode: style or color (overrides config)")
	interp := flag.String("interp", "", "Interpolation: natural, linear, akima or fritsch-butland (overrides config)")
	exportSlices := flag.String("export-slices", "", "Export slices along the given axes (e.g. xyz) as WebP and exit")
	slicesDir := flag.String("slices-dir", "slices", "Directory for exported slices")
	verbose := flag.Bool("verbose", false, "Enable debug logging")
	flag.Parse()

	if *initConfig {
		if err := config.CreateDefaultConfigFile(*configPath); err != nil {
			log.Fatalf("Failed to write default config: %v", err)
		}
		fmt.Printf("Default configuration written to %s\n", *configPath)
		return
	}

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Flags override the file
	if *volumePath != "" {
		cfg.Volume.Path = *volumePath
	}
	if *width > 0 {
		cfg.Volume.Width = *width
	}
	if *height > 0 {
		cfg.Volume.Height = *height
	}
	if *depth > 0 {
		cfg.Volume.Depth = *depth
	}
	if *bits > 0 {
		cfg.Volume.BitsPerSample = *bits
	}
	if *tfPath != "" {
		cfg.TransferFunction.Path = *tfPath
	}
	if *mode != "" {
		cfg.Render.Mode = *mode
	}
	if *interp != "" {
		cfg.TransferFunction.Interpolation = *interp
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	if cfg.Output.Verbose || *verbose {
		logging.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
	}

	if *exportSlices != "" {
		if err := exportSliceSequences(cfg, *exportSlices, *slicesDir); err != nil {
			log.Fatalf("Slice export failed: %v", err)
		}
		return
	}

	viewer, err := visualization.NewViewer(cfg)
	if err != nil {
		log.Fatalf("Failed to start viewer: %v", err)
	}
	defer viewer.Close()

	fmt.Println("L load / S save transfer function, R reload volume, P screenshot, E toggle editor")
	fmt.Println("Drag outside the editor or use the arrow keys to rotate, scroll to zoom")
	viewer.Run()
}

// exportSliceSequences loads the configured volume and writes every slice
// along each requested axis.
func exportSliceSequences(cfg *config.Config, axes, outputDir string) error {
	store := volume.NewStore()
	startTime := time.Now()
	if err := store.Load(volume.Params{
		Path:          cfg.Volume.Path,
		Width:         cfg.Volume.Width,
		Height:        cfg.Volume.Height,
		Depth:         cfg.Volume.Depth,
		BitsPerSample: cfg.Volume.BitsPerSample,
	}); err != nil {
		return err
	}
	fmt.Printf("Loaded %s in %.2f seconds\n", cfg.Volume.Path, time.Since(startTime).Seconds())

	lo, hi := volume.Range(store.Field())
	mean, std := volume.Statistics(store.Field())
	fmt.Printf("Intensity range: %.4f - %.4f (mean %.4f, std %.4f)\n", lo, hi, mean, std)

	for _, name := range strings.Split(strings.ToLower(axes), "") {
		axis, err := models.ParseAxis(name)
		if err != nil {
			return err
		}
		axisDir := filepath.Join(outputDir, axis.String())
		fmt.Printf("Saving %s-axis slices to: %s\n", axis, axisDir)
		if err := volume.SaveSliceSequence(store.Field(), axis, axisDir); err != nil {
			return fmt.Errorf("failed to save %s-axis slices: %w", axis, err)
		}
	}
	fmt.Println("Slice extraction completed!")
	return nil
}
