package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/log"

	"wobj-converter/internal/batch"
	"wobj-converter/internal/config"
)

func main() {
	// CLI flags
	configFile := flag.String("config", "", "Path to config.json file")
	inputDir := flag.String("input", "", "Directory to scan for source models")
	outputDir := flag.String("output", "", "Output directory (default: <input>/wobj)")
	workers := flag.Int("workers", 0, "Number of worker goroutines (default: NumCPU)")
	noScale := flag.Bool("noscale", false, "Replace scale tracks with a constant identity track")
	writeSubsets := flag.Bool("writemeshes", false, "Append per-mesh index ranges to outputs")
	verbose := flag.Bool("v", false, "Enable debug logging")

	flag.Parse()

	// Load config
	var cfg config.Config
	if *configFile != "" {
		var err error
		cfg, err = config.Load(*configFile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
			os.Exit(1)
		}
	}

	// CLI flags override config file
	cfg.Resolve(config.Flags{
		InputDir:     *inputDir,
		OutputDir:    *outputDir,
		Workers:      *workers,
		NoScale:      *noScale,
		WriteSubsets: *writeSubsets,
	})

	logger := log.New(io.Discard)
	if *verbose {
		logger = log.NewWithOptions(os.Stderr, log.Options{ReportTimestamp: false})
		logger.SetLevel(log.DebugLevel)
	}

	batchCfg := batch.Config{
		InputDir:     cfg.InputDir,
		OutputDir:    cfg.OutputDir,
		Extensions:   cfg.Extensions,
		NoScale:      cfg.NoScale,
		WriteSubsets: cfg.WriteSubsets,
		Workers:      cfg.Workers,
		Logger:       logger,
	}

	files, err := batch.Discover(batchCfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	if len(files) == 0 {
		fmt.Println("No files to convert.")
		os.Exit(0)
	}

	fmt.Printf("Files: %d, Workers: %d\n", len(files), cfg.Workers)
	fmt.Printf("Output: %s\n", cfg.OutputDir)
	fmt.Println("------------------------------------------------------------")

	start := time.Now()

	results := batch.Run(batchCfg, files)

	elapsed := time.Since(start)
	fmt.Println("------------------------------------------------------------")
	fmt.Printf("Done in %.1fs\n", elapsed.Seconds())

	// Count results
	success, failed := 0, 0
	var errors []batch.Result
	for _, r := range results {
		if r.Success {
			success++
		} else {
			failed++
			errors = append(errors, r)
		}
	}

	fmt.Printf("Converted: %d/%d\n", success, len(files))

	if len(errors) > 0 {
		fmt.Printf("\nFailed (%d):\n", failed)
		limit := 20
		if len(errors) < limit {
			limit = len(errors)
		}
		for _, e := range errors[:limit] {
			fmt.Printf("  %s: %s\n", e.Input, e.Error)
		}
	}

	// Write manifest
	manifestPath := filepath.Join(cfg.OutputDir, "manifest.json")
	os.MkdirAll(cfg.OutputDir, 0755)
	if err := batch.WriteManifest(manifestPath, results); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: manifest write failed: %v\n", err)
	} else {
		fmt.Printf("Manifest: %s\n", manifestPath)
	}

	if failed > 0 {
		os.Exit(1)
	}
}
