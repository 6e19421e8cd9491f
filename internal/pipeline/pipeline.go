package pipeline

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync"

	"github.com/AnyUserName/gbcam/internal/monitoring"
)

// OutputSuffix is appended to batch outputs in place of the extension.
const OutputSuffix = ".gbc.png"

// Config holds all parameters for a batch run.
type Config struct {
	InputDir  string
	OutputDir string
	Workers   int
	Verbose   bool
}

// Result describes one processed source.
type Result struct {
	Source  Source
	OutPath string // relative to OutputDir
	OutSize int64
	Err     error
}

// Report aggregates a batch run.
type Report struct {
	Results     []Result
	InputBytes  int64
	OutputBytes int64
	Failed      int
}

// Runner applies a Transformer to every image under a directory.
type Runner struct {
	cfg       Config
	transform Transformer
}

// NewRunner creates a configured batch runner.
func NewRunner(cfg Config, t Transformer) *Runner {
	if cfg.Workers <= 0 {
		cfg.Workers = runtime.NumCPU()
	}
	return &Runner{cfg: cfg, transform: t}
}

// Run scans the input directory and filters every image found in
// parallel. Individual failures are recorded in the report; Run fails
// only when nothing could be processed.
func (r *Runner) Run() (*Report, error) {
	sources, err := ScanImages(r.cfg.InputDir)
	if err != nil {
		return nil, fmt.Errorf("scan: %w", err)
	}
	if len(sources) == 0 {
		return nil, fmt.Errorf("no images found in %s", r.cfg.InputDir)
	}
	if r.cfg.Verbose {
		monitoring.Logf("found %d images", len(sources))
	}

	results := make([]Result, len(sources))
	var wg sync.WaitGroup
	sem := make(chan struct{}, r.cfg.Workers)

	for i, src := range sources {
		wg.Add(1)
		go func(idx int, s Source) {
			defer wg.Done()
			sem <- struct{}{}        // acquire
			defer func() { <-sem }() // release

			results[idx] = r.process(s)
			if r.cfg.Verbose && results[idx].Err == nil {
				monitoring.Logf("done: %s -> %s", s.RelPath, results[idx].OutPath)
			}
		}(i, src)
	}
	wg.Wait()

	rep := &Report{Results: results}
	for _, res := range results {
		rep.InputBytes += res.Source.Size
		if res.Err != nil {
			rep.Failed++
			monitoring.Logf("error: %v", res.Err)
			continue
		}
		rep.OutputBytes += res.OutSize
	}
	if rep.Failed == len(sources) {
		return rep, fmt.Errorf("all %d images failed to process", rep.Failed)
	}
	return rep, nil
}

func (r *Runner) process(s Source) Result {
	res := Result{Source: s}
	rel := strings.TrimSuffix(s.RelPath, filepath.Ext(s.RelPath)) + OutputSuffix
	res.OutPath = rel

	in, err := os.Open(s.AbsPath)
	if err != nil {
		res.Err = fmt.Errorf("open %s: %w", s.RelPath, err)
		return res
	}
	defer in.Close()

	outPath := filepath.Join(r.cfg.OutputDir, filepath.FromSlash(rel))
	if err := os.MkdirAll(filepath.Dir(outPath), 0o755); err != nil {
		res.Err = fmt.Errorf("mkdir for %s: %w", rel, err)
		return res
	}
	if err := WriteFile(outPath, r.transform, in, "png"); err != nil {
		res.Err = fmt.Errorf("filter %s: %w", s.RelPath, err)
		return res
	}

	if info, err := os.Stat(outPath); err == nil {
		res.OutSize = info.Size()
	}
	return res
}

// WriteFile transforms src into a temporary file beside path and renames
// it into place once complete, so path never holds partial output.
func WriteFile(path string, t Transformer, src io.Reader, format string) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), ".gbcam-*")
	if err != nil {
		return err
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath) // no-op after a successful rename

	if err := t.Transform(tmp, src, format); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmpPath, path)
}
