// Package batch compiles one texture per source image found in a
// directory, running several pipelines at once.
package batch

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"sync"

	"github.com/disintegration/imaging"

	"github.com/AnyUserName/texturec/internal/encoder"
	"github.com/AnyUserName/texturec/internal/hasher"
	"github.com/AnyUserName/texturec/internal/pipeline"
	"github.com/AnyUserName/texturec/internal/preset"
	"github.com/AnyUserName/texturec/internal/report"
)

// ErrNoSources is returned when the input directory holds no images.
var ErrNoSources = errors.New("no images found")

// Config holds all parameters for a batch run.
type Config struct {
	InputDir  string
	OutputDir string
	// Steps is the filter chain; preset.InputPlaceholder values are replaced
	// by each source path.
	Steps []preset.Step
	// Compile is the per-texture configuration. Debug and PreviewPath are
	// set per source.
	Compile pipeline.Config
	// Jobs is the number of pipelines run at once; 0 means one per CPU.
	Jobs int
	// PreviewExt selects the preview encoder, "png" by default.
	PreviewExt string
	// ThumbWidth, when positive, also writes a thumbnail that wide.
	ThumbWidth int
	// OnDone, when set, is called after each source from the worker
	// goroutine.
	OnDone func(src Source, err error)
}

type jobResult struct {
	key string
	tex report.Texture
	err error
}

// Run compiles every source and returns the report. Sources that fail are
// logged and counted; Run fails only when nothing compiled.
func Run(cfg Config) (*report.Report, error) {
	if cfg.Jobs <= 0 {
		cfg.Jobs = runtime.NumCPU()
	}
	if cfg.PreviewExt == "" {
		cfg.PreviewExt = "png"
	}
	if len(cfg.Steps) == 0 {
		return nil, pipeline.ErrNoFilters
	}
	if !preset.UsesInput(cfg.Steps) {
		return nil, fmt.Errorf("filter chain does not reference %s", preset.InputPlaceholder)
	}

	sources, err := Scan(cfg.InputDir, cfg.OutputDir)
	if err != nil {
		return nil, fmt.Errorf("scan: %w", err)
	}
	if len(sources) == 0 {
		return nil, fmt.Errorf("%w in %s", ErrNoSources, cfg.InputDir)
	}
	if err := os.MkdirAll(cfg.OutputDir, 0o755); err != nil {
		return nil, fmt.Errorf("create output dir: %w", err)
	}
	pipeline.Logger().Debug("batch", "sources", len(sources), "jobs", cfg.Jobs)

	registry := encoder.NewRegistry()
	results := make([]jobResult, len(sources))
	var wg sync.WaitGroup
	sem := make(chan struct{}, cfg.Jobs)

	for i, src := range sources {
		wg.Add(1)
		go func(idx int, s Source) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()

			tex, err := compileSource(s, cfg, registry)
			results[idx] = jobResult{key: s.Key, tex: tex, err: err}
			if cfg.OnDone != nil {
				cfg.OnDone(s, err)
			}
		}(i, src)
	}
	wg.Wait()

	r := report.New("")
	r.Chain = report.Chain(cfg.Steps)
	r.BuildInfo = &report.BuildInfo{Threads: cfg.Compile.Threads, Jobs: cfg.Jobs}

	var errs []error
	for _, res := range results {
		if res.err != nil {
			errs = append(errs, res.err)
			continue
		}
		r.Textures[res.key] = res.tex
	}
	if len(errs) > 0 {
		for _, e := range errs {
			pipeline.Logger().Warn("batch source failed", "err", e)
		}
		if len(errs) == len(sources) {
			return nil, fmt.Errorf("all %d sources failed: %w", len(errs), errors.Join(errs...))
		}
	}
	r.Stats.Failed = len(errs)
	r.ComputeStats()
	return r, nil
}

func compileSource(s Source, cfg Config, registry *encoder.Registry) (report.Texture, error) {
	preview := filepath.Join(cfg.OutputDir, filepath.FromSlash(s.Key)+"."+cfg.PreviewExt)
	if err := os.MkdirAll(filepath.Dir(preview), 0o755); err != nil {
		return report.Texture{}, fmt.Errorf("%s: %w", s.RelPath, err)
	}

	pc := cfg.Compile
	pc.Debug = true
	pc.PreviewPath = preview
	c := pipeline.NewCompiler(pc, nil)
	for _, st := range preset.WithInput(cfg.Steps, s.AbsPath) {
		if err := c.AddFilter(st.Filter, st.Params); err != nil {
			return report.Texture{}, fmt.Errorf("%s: %w", s.RelPath, err)
		}
	}
	res, err := c.Run()
	if err != nil {
		return report.Texture{}, fmt.Errorf("%s: %w", s.RelPath, err)
	}

	tex, err := report.FromResult(res, cfg.OutputDir)
	if err != nil {
		return report.Texture{}, fmt.Errorf("%s: %w", s.RelPath, err)
	}
	tex.Source = &report.SourceInfo{Path: s.RelPath, Format: s.Format, Size: s.Size}

	if cfg.ThumbWidth > 0 {
		thumb, err := writeThumbnail(res, s, cfg, registry)
		if err != nil {
			return report.Texture{}, fmt.Errorf("%s: thumbnail: %w", s.RelPath, err)
		}
		tex.Thumbnail = thumb
	}
	return tex, nil
}

func writeThumbnail(res *pipeline.Result, s Source, cfg Config, registry *encoder.Registry) (*report.Preview, error) {
	rel := s.Key + ".thumb." + cfg.PreviewExt
	path := filepath.Join(cfg.OutputDir, filepath.FromSlash(rel))
	img := imaging.Resize(res.Canvas.ToRGBA(), cfg.ThumbWidth, 0, imaging.Lanczos)
	data, err := registry.WriteFile(path, img, 0)
	if err != nil {
		return nil, err
	}
	enc, _ := registry.ForPath(path)
	return &report.Preview{
		Format: enc.Format(),
		Path:   rel,
		Size:   int64(len(data)),
		Hash:   hasher.ContentHash(data, 0),
	}, nil
}
