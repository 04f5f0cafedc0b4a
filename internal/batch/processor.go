package batch

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/log"

	"wobj-converter/internal/convert"
	"wobj-converter/internal/scene"
	"wobj-converter/internal/wobj"
)

// Config holds all shared settings for a batch run.
type Config struct {
	InputDir     string
	OutputDir    string
	Extensions   []string
	NoScale      bool
	WriteSubsets bool
	Workers      int
	Logger       *log.Logger
}

// Result holds the outcome of converting one file.
type Result struct {
	Input    string
	Output   string
	Vertices int
	Indices  int
	Success  bool
	Error    string
}

// Discover walks the input directory and returns the relative paths of all
// files matching the configured extensions, in walk order.
func Discover(cfg Config) ([]string, error) {
	var files []string
	err := filepath.WalkDir(cfg.InputDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		ext := strings.ToLower(filepath.Ext(path))
		for _, want := range cfg.Extensions {
			if ext == strings.ToLower(want) {
				rel, err := filepath.Rel(cfg.InputDir, path)
				if err != nil {
					return err
				}
				files = append(files, rel)
				break
			}
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("batch: scan %s: %w", cfg.InputDir, err)
	}
	return files, nil
}

// Run converts all files using a worker pool.
func Run(cfg Config, files []string) []Result {
	if cfg.Workers < 1 {
		cfg.Workers = 1
	}
	total := len(files)
	results := make([]Result, total)
	var processed atomic.Int64

	start := time.Now()

	// Progress reporter
	done := make(chan struct{})
	go func() {
		ticker := time.NewTicker(2 * time.Second)
		defer ticker.Stop()
		for {
			select {
			case <-done:
				return
			case <-ticker.C:
				p := processed.Load()
				if p > 0 {
					elapsed := time.Since(start).Seconds()
					rate := float64(p) / elapsed
					fmt.Printf("  [%d/%d] %.1f files/sec\n", p, total, rate)
				}
			}
		}
	}()

	// Worker pool
	fileChan := make(chan int, cfg.Workers*2)
	var wg sync.WaitGroup

	for w := 0; w < cfg.Workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for idx := range fileChan {
				results[idx] = processFile(cfg, files[idx])
				processed.Add(1)
			}
		}()
	}

	// Send work
	for i := range files {
		fileChan <- i
	}
	close(fileChan)

	wg.Wait()
	close(done)

	return results
}

func processFile(cfg Config, rel string) Result {
	inPath := filepath.Join(cfg.InputDir, rel)

	s, err := scene.Load(inPath)
	if err != nil {
		return Result{Input: rel, Error: err.Error()}
	}

	doc, err := convert.Convert(s, convert.Options{
		NoScale:      cfg.NoScale,
		WriteSubsets: cfg.WriteSubsets,
		Logger:       cfg.Logger,
	})
	if err != nil {
		return Result{Input: rel, Error: err.Error()}
	}

	outRel := strings.TrimSuffix(rel, filepath.Ext(rel)) + ".wobj"
	outPath := filepath.Join(cfg.OutputDir, outRel)
	if err := os.MkdirAll(filepath.Dir(outPath), 0755); err != nil {
		return Result{Input: rel, Error: err.Error()}
	}

	if err := wobj.WriteFile(outPath, doc); err != nil {
		return Result{Input: rel, Error: err.Error()}
	}

	return Result{
		Input:    rel,
		Output:   outRel,
		Vertices: len(doc.Vertices),
		Indices:  len(doc.Indices),
		Success:  true,
	}
}
