package encoder

import (
	"fmt"
	"image"
	"os"
	"path/filepath"
	"strings"
)

// Registry holds the available preview encoders.
type Registry struct {
	encoders map[string]Encoder
	byExt    map[string]Encoder
	order    []string
}

// NewRegistry creates a registry, probing all encoders for availability.
func NewRegistry() *Registry {
	r := &Registry{
		encoders: make(map[string]Encoder),
		byExt:    make(map[string]Encoder),
	}
	all := append(imagingEncoders(), &WebPEncoder{})
	for _, enc := range all {
		if !enc.Available() {
			continue
		}
		r.encoders[enc.Format()] = enc
		r.order = append(r.order, enc.Format())
		for _, ext := range enc.Extensions() {
			r.byExt[ext] = enc
		}
	}
	return r
}

// Get returns an encoder for the given format name, or nil if unavailable.
func (r *Registry) Get(format string) Encoder {
	return r.encoders[strings.ToLower(format)]
}

// ForPath picks the encoder matching the file extension of path.
func (r *Registry) ForPath(path string) (Encoder, error) {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(path), "."))
	if ext == "" {
		return nil, fmt.Errorf("no file extension in %q", path)
	}
	enc, ok := r.byExt[ext]
	if !ok {
		return nil, fmt.Errorf("no encoder available for .%s (have %s)", ext, strings.Join(r.order, ", "))
	}
	return enc, nil
}

// Available returns all available format names in registration order.
func (r *Registry) Available() []string {
	out := make([]string, len(r.order))
	copy(out, r.order)
	return out
}

// WriteFile encodes img with the encoder chosen by the extension of path
// and writes it, returning the encoded bytes.
func (r *Registry) WriteFile(path string, img image.Image, quality int) ([]byte, error) {
	enc, err := r.ForPath(path)
	if err != nil {
		return nil, err
	}
	data, err := enc.Encode(img, quality)
	if err != nil {
		return nil, fmt.Errorf("encode %s: %w", enc.Format(), err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return nil, fmt.Errorf("write %s: %w", path, err)
	}
	return data, nil
}

// String returns a summary of available encoders.
func (r *Registry) String() string {
	if len(r.order) == 0 {
		return "no encoders available"
	}
	return fmt.Sprintf("encoders: %s", strings.Join(r.order, ", "))
}
