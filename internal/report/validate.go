package report

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/AnyUserName/texturec/internal/hasher"
	"github.com/AnyUserName/texturec/internal/texture"
)

// Validate checks a report for internal consistency and that every
// referenced preview exists with the recorded size and hash. baseDir is
// the directory containing the report.
func Validate(r *Report, baseDir string) []string {
	var errs []string

	if r.Version != SupportedReportVersion {
		errs = append(errs, fmt.Sprintf("unsupported report version: %d", r.Version))
	}

	seenFiles := map[string]bool{}
	for key, t := range r.Textures {
		if t.Width <= 0 || t.Height <= 0 {
			errs = append(errs, fmt.Sprintf("texture %q: invalid dimensions %dx%d", key, t.Width, t.Height))
		} else if texture.NextPowerOfTwo(t.Width) != t.Width || texture.NextPowerOfTwo(t.Height) != t.Height {
			errs = append(errs, fmt.Sprintf("texture %q: dimensions %dx%d are not powers of two", key, t.Width, t.Height))
		}

		format, err := texture.ParseFormat(t.Format)
		if err != nil {
			errs = append(errs, fmt.Sprintf("texture %q: %v", key, err))
		} else if want := int64(t.Width * t.Height * format.TexelSize()); t.Width > 0 && t.Height > 0 && t.Size != want {
			errs = append(errs, fmt.Sprintf("texture %q: size %d, want %d for %dx%d %s",
				key, t.Size, want, t.Width, t.Height, format))
		}

		if t.Digest == "" {
			errs = append(errs, fmt.Sprintf("texture %q: missing digest", key))
		}
		if len(t.Passes) == 0 {
			errs = append(errs, fmt.Sprintf("texture %q: no passes", key))
		} else if last := t.Passes[len(t.Passes)-1]; last.Format != t.Format {
			errs = append(errs, fmt.Sprintf("texture %q: last pass format %s differs from texture format %s",
				key, last.Format, t.Format))
		}
		for i, p := range t.Passes {
			if p.Filter == "" {
				errs = append(errs, fmt.Sprintf("texture %q pass[%d]: empty filter", key, i))
			}
			if p.Texels != t.Width*t.Height {
				errs = append(errs, fmt.Sprintf("texture %q pass[%d]: %d texels for %dx%d canvas",
					key, i, p.Texels, t.Width, t.Height))
			}
		}

		for _, f := range []struct {
			label string
			pv    *Preview
		}{{"preview", t.Preview}, {"thumbnail", t.Thumbnail}} {
			if f.pv == nil {
				continue
			}
			if seenFiles[f.pv.Path] {
				errs = append(errs, fmt.Sprintf("texture %q: duplicate %s path %q", key, f.label, f.pv.Path))
			}
			seenFiles[f.pv.Path] = true
			errs = append(errs, checkFile(key, f.label, f.pv, baseDir)...)
		}
	}

	// Verify stats consistency.
	passes := 0
	for _, t := range r.Textures {
		passes += len(t.Passes)
	}
	if r.Stats.TotalTextures != len(r.Textures) {
		errs = append(errs, fmt.Sprintf("stats.total_textures mismatch: %d != %d", r.Stats.TotalTextures, len(r.Textures)))
	}
	if r.Stats.TotalPasses != passes {
		errs = append(errs, fmt.Sprintf("stats.total_passes mismatch: %d != %d", r.Stats.TotalPasses, passes))
	}
	return errs
}

func checkFile(key, label string, pv *Preview, baseDir string) []string {
	if pv.Path == "" {
		return []string{fmt.Sprintf("texture %q: %s without path", key, label)}
	}
	fullPath := filepath.Join(baseDir, filepath.FromSlash(pv.Path))
	info, err := os.Stat(fullPath)
	if err != nil {
		return []string{fmt.Sprintf("texture %q: %s not found: %s", key, label, pv.Path)}
	}
	var errs []string
	if pv.Size > 0 && info.Size() != pv.Size {
		errs = append(errs, fmt.Sprintf("texture %q: %s size mismatch: report=%d, disk=%d",
			key, label, pv.Size, info.Size()))
	}
	if pv.Hash != "" {
		if h, err := hasher.File(fullPath); err != nil || h != pv.Hash {
			errs = append(errs, fmt.Sprintf("texture %q: %s hash mismatch", key, label))
		}
	}
	return errs
}
