// Package report writes and checks the JSON description of compiled
// textures.
package report

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/AnyUserName/texturec/internal/hasher"
	"github.com/AnyUserName/texturec/internal/pipeline"
)

// New creates an empty report with defaults.
func New(preset string) *Report {
	return &Report{
		Version:     SupportedReportVersion,
		GeneratedAt: time.Now().UTC().Format(time.RFC3339),
		Preset:      preset,
		BasePath:    "./",
		Textures:    make(map[string]Texture),
	}
}

// ComputeStats recalculates aggregate statistics from textures. Failed is
// kept as set by the caller.
func (r *Report) ComputeStats() {
	s := Stats{Failed: r.Stats.Failed}
	s.TotalTextures = len(r.Textures)
	for _, t := range r.Textures {
		s.TotalBytes += t.Size
		s.TotalPasses += len(t.Passes)
		for _, p := range t.Passes {
			s.TotalTexels += int64(p.Texels)
			s.TotalDropped += p.Dropped
		}
	}
	r.Stats = s
}

// WriteJSON serializes the report to a JSON file with stable ordering.
func WriteJSON(r *Report, path string) error {
	r.ComputeStats()

	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return err
	}
	data = append(data, '\n')
	return os.WriteFile(path, data, 0o644)
}

// ReadJSON loads a report written by WriteJSON. Unknown fields are ignored.
func ReadJSON(path string) (*Report, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read report: %w", err)
	}
	var r Report
	if err := json.Unmarshal(data, &r); err != nil {
		return nil, fmt.Errorf("parse report: %w", err)
	}
	return &r, nil
}

// FromResult describes a pipeline result. baseDir is the directory the
// report is written to; the preview path is stored relative to it.
func FromResult(res *pipeline.Result, baseDir string) (Texture, error) {
	c := res.Canvas
	t := Texture{
		Width:      c.Width(),
		Height:     c.Height(),
		Format:     c.Format().String(),
		Size:       int64(len(c.Bytes())),
		Digest:     res.Digest,
		DurationMS: ms(res.Duration),
	}
	for _, p := range res.Passes {
		t.Passes = append(t.Passes, Pass{
			Filter:     p.Filter,
			Format:     p.Format.String(),
			Texels:     p.Texels,
			Dropped:    p.Dropped,
			DurationMS: ms(p.Duration),
		})
	}
	if res.Preview == "" {
		return t, nil
	}

	info, err := os.Stat(res.Preview)
	if err != nil {
		return t, fmt.Errorf("stat preview: %w", err)
	}
	hash, err := hasher.File(res.Preview)
	if err != nil {
		return t, fmt.Errorf("hash preview: %w", err)
	}
	rel := res.Preview
	if baseDir != "" {
		if r, err := filepath.Rel(baseDir, res.Preview); err == nil {
			rel = r
		}
	}
	t.Preview = &Preview{
		Format: previewFormat(res.Preview),
		Path:   filepath.ToSlash(rel),
		Size:   info.Size(),
		Hash:   hash,
	}
	return t, nil
}

func previewFormat(path string) string {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(path), "."))
	switch ext {
	case "jpg":
		return "jpeg"
	case "tif":
		return "tiff"
	}
	return ext
}

func ms(d time.Duration) float64 {
	return float64(d.Microseconds()) / 1000
}
