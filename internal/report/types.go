package report

// Report is the top-level output of a compile or batch run.
type Report struct {
	Version     int                `json:"version"`
	GeneratedAt string             `json:"generated_at"`
	Preset      string             `json:"preset,omitempty"`
	BasePath    string             `json:"base_path"`
	BuildInfo   *BuildInfo         `json:"build_info,omitempty"`
	Chain       []FilterSpec       `json:"chain"`
	Textures    map[string]Texture `json:"textures"`
	Stats       Stats              `json:"stats"`
}

// BuildInfo captures run-time parameters for diagnostics.
type BuildInfo struct {
	Threads int `json:"threads"`
	Jobs    int `json:"jobs,omitempty"` // concurrent pipelines in batch mode
}

// FilterSpec is one filter of the chain as given on the command line.
type FilterSpec struct {
	Name   string            `json:"name"`
	Params map[string]string `json:"params,omitempty"`
}

// Texture describes one compiled texture.
type Texture struct {
	Source     *SourceInfo `json:"source,omitempty"` // batch input image
	Width      int         `json:"width"`
	Height     int         `json:"height"`
	Format     string      `json:"format"` // "L8", "LA8", "RGBA8", "RGBAF32", "F32"
	Size       int64       `json:"size"`   // canvas bytes
	Digest     string      `json:"digest"` // xxhash64 of size, format and texels
	Preview    *Preview    `json:"preview,omitempty"`
	Thumbnail  *Preview    `json:"thumbnail,omitempty"`
	Passes     []Pass      `json:"passes"`
	DurationMS float64     `json:"duration_ms"`
}

// SourceInfo holds metadata about a batch source image.
type SourceInfo struct {
	Path   string `json:"path"`
	Format string `json:"format"`
	Size   int64  `json:"size"`
}

// Preview is an image file written for a texture.
type Preview struct {
	Format string `json:"format"`
	Path   string `json:"path"` // relative to base_path
	Size   int64  `json:"size"`
	Hash   string `json:"hash"` // xxhash64 of the file
}

// Pass records one render pass.
type Pass struct {
	Filter     string  `json:"filter"`
	Format     string  `json:"format"`
	Texels     int     `json:"texels"`
	Dropped    int     `json:"dropped,omitempty"` // texels whose format did not match the canvas
	DurationMS float64 `json:"duration_ms"`
}

// Stats aggregates run metrics.
type Stats struct {
	TotalTextures int   `json:"total_textures"`
	TotalPasses   int   `json:"total_passes"`
	TotalTexels   int64 `json:"total_texels"`
	TotalBytes    int64 `json:"total_bytes"`
	TotalDropped  int   `json:"total_dropped,omitempty"`
	Failed        int   `json:"failed,omitempty"` // batch sources that did not compile
}

// SupportedReportVersion is the current schema version.
const SupportedReportVersion = 1
