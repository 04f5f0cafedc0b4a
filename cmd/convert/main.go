package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/charmbracelet/log"

	"wobj-converter/internal/convert"
	"wobj-converter/internal/scene"
	"wobj-converter/internal/wobj"
)

// splitArgs separates positional paths from option tokens so that
// flags may trail the paths, e.g. "convert in.glb out.wobj -noscale".
// The stdlib flag package stops parsing at the first positional
// argument, so trailing recognized options are picked up here.
func splitArgs(args []string, opts *convert.Options, verbose *bool) []string {
	var paths []string
	for _, a := range args {
		switch a {
		case "-noscale", "--noscale":
			opts.NoScale = true
		case "-writemeshes", "--writemeshes":
			opts.WriteSubsets = true
		case "-v", "--v":
			*verbose = true
		default:
			paths = append(paths, a)
		}
	}
	return paths
}

func main() {
	noScale := flag.Bool("noscale", false, "Replace scale tracks with a constant identity track")
	writeSubsets := flag.Bool("writemeshes", false, "Append per-mesh index ranges to the output")
	verbose := flag.Bool("v", false, "Enable debug logging")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s <input> <output> [-noscale] [-writemeshes]\n", os.Args[0])
		flag.PrintDefaults()
	}
	flag.Parse()

	opts := convert.Options{NoScale: *noScale, WriteSubsets: *writeSubsets}
	paths := splitArgs(flag.Args(), &opts, verbose)
	if len(paths) != 2 {
		flag.Usage()
		os.Exit(2)
	}
	inPath := paths[0]
	outPath := paths[1]

	logger := log.NewWithOptions(os.Stderr, log.Options{ReportTimestamp: false})
	if *verbose {
		logger.SetLevel(log.DebugLevel)
	}
	opts.Logger = logger

	s, err := scene.Load(inPath)
	if err != nil {
		logger.Error("import failed", "file", inPath, "err", err)
		os.Exit(1)
	}

	doc, err := convert.Convert(s, opts)
	if err != nil {
		logger.Error("conversion failed", "file", inPath, "err", err)
		os.Exit(1)
	}

	if err := wobj.WriteFile(outPath, doc); err != nil {
		logger.Error("write failed", "file", outPath, "err", err)
		os.Exit(1)
	}

	logger.Info("converted",
		"input", inPath,
		"output", outPath,
		"vertices", len(doc.Vertices),
		"indices", len(doc.Indices),
		"animations", len(doc.Animations))
}
