package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/AnyUserName/texturec/internal/pipeline"
	"github.com/AnyUserName/texturec/internal/preset"
	"github.com/AnyUserName/texturec/internal/report"
	"github.com/AnyUserName/texturec/internal/texture"
)

var (
	compileChain   chainFlags
	compilePreset  string
	compileFormat  string
	compileWidth   int
	compileHeight  int
	compileThreads int
	compileDebug   bool
	compilePreview string
	compileReport  string
	compileName    string
)

var compileCmd = &cobra.Command{
	Use:   "compile",
	Short: "Run a filter chain and produce one texture",
	Long: `Runs the filters given with --filter (or a --preset) in order over one
canvas. Size and format are negotiated from the filters unless set with
--width, --height and --format; sizes are rounded up to powers of two.

Parameters apply to the most recent --filter:

  texturec compile -t noise -p mode=random -t brightness -p brightness=1.5 \
      -t greyscale --width 64 --height 64 -d

A numeric prefix targets another filter: -p 0:seed=7.
A parameter whose value names an existing file is loaded as a texture.`,
	Args: cobra.NoArgs,
	RunE: runCompile,
}

func init() {
	f := compileCmd.Flags()
	compileChain.register(f)
	f.StringVar(&compilePreset, "preset", "", "start from a built-in filter chain (see 'texturec filters')")
	f.StringVarP(&compileFormat, "format", "f", "", "output format: l8, la8, rgba8, rgbaf32, f32 (default: negotiated)")
	f.IntVar(&compileWidth, "width", 0, "canvas width (0 = negotiated)")
	f.IntVar(&compileHeight, "height", 0, "canvas height (0 = negotiated)")
	f.IntVarP(&compileThreads, "threads", "n", 0, "worker threads per pass (0 = NumCPU)")
	f.BoolVarP(&compileDebug, "debug", "d", false, "write an RGBA preview of the result")
	f.StringVar(&compilePreview, "preview", pipeline.DefaultPreviewPath, "preview path; the extension selects the encoder")
	f.StringVarP(&compileReport, "report", "r", "", "write a JSON report to this path")
	f.StringVar(&compileName, "name", "texture", "texture name in the report")
	rootCmd.AddCommand(compileCmd)
}

// chainSettings merges a preset with the flag chain and output flags.
type chainSettings struct {
	steps  []preset.Step
	format *texture.Format
	width  int
	height int
}

func resolveChain(chain *chainFlags, presetName, format string, width, height int) (chainSettings, error) {
	var s chainSettings
	var base []preset.Step
	if presetName != "" {
		p, err := preset.Get(presetName)
		if err != nil {
			return s, err
		}
		base = p.Steps
		s.width, s.height = p.Width, p.Height
		if format == "" {
			format = p.Format
		}
	}
	steps, err := chain.steps(base)
	if err != nil {
		return s, err
	}
	if len(steps) == 0 {
		return s, fmt.Errorf("no filters: use --filter or --preset (see 'texturec filters')")
	}
	s.steps = steps

	if width > 0 {
		s.width = width
	}
	if height > 0 {
		s.height = height
	}
	if format != "" {
		f, err := texture.ParseFormat(format)
		if err != nil {
			return s, err
		}
		s.format = &f
	}
	return s, nil
}

func runCompile(_ *cobra.Command, _ []string) error {
	start := time.Now()
	s, err := resolveChain(&compileChain, compilePreset, compileFormat, compileWidth, compileHeight)
	if err != nil {
		return err
	}

	cfg := pipeline.Config{
		Width:       s.width,
		Height:      s.height,
		Format:      s.format,
		Threads:     compileThreads,
		Debug:       compileDebug,
		PreviewPath: compilePreview,
	}
	var prog *progress
	if !verbose && isTerminal(os.Stderr) {
		prog = newProgress(os.Stderr)
		cfg.Observer = prog
	}
	c := pipeline.NewCompiler(cfg, nil)
	for _, st := range s.steps {
		if err := c.AddFilter(st.Filter, st.Params); err != nil {
			return err
		}
	}
	var names []string
	for _, f := range c.Filters() {
		names = append(names, f.Describe())
	}
	w, h, format := c.Negotiate()
	logVerbose("chain:   %v", names)
	logVerbose("canvas:  %dx%d -> %dx%d %s", w, h, texture.NextPowerOfTwo(w), texture.NextPowerOfTwo(h), format)

	if prog != nil {
		prog.names = names
	}

	res, err := c.Run()
	if err != nil {
		return err
	}

	if compileReport != "" {
		if err := writeCompileReport(res, s.steps); err != nil {
			return err
		}
	}
	printCompileReport(res, time.Since(start))
	return nil
}

func writeCompileReport(res *pipeline.Result, steps []preset.Step) error {
	abs, err := filepath.Abs(compileReport)
	if err != nil {
		return fmt.Errorf("resolve report path: %w", err)
	}
	baseDir := filepath.Dir(abs)
	if res.Preview != "" {
		if p, err := filepath.Abs(res.Preview); err == nil {
			res.Preview = p
		}
	}
	tex, err := report.FromResult(res, baseDir)
	if err != nil {
		return fmt.Errorf("report: %w", err)
	}
	r := report.New(compilePreset)
	r.Chain = report.Chain(steps)
	r.BuildInfo = &report.BuildInfo{Threads: res.Threads}
	r.Textures[compileName] = tex
	if err := report.WriteJSON(r, abs); err != nil {
		return fmt.Errorf("write report: %w", err)
	}
	logVerbose("report:  %s", abs)
	return nil
}

func printCompileReport(res *pipeline.Result, elapsed time.Duration) {
	c := res.Canvas
	fmt.Println()
	fmt.Printf("  Texture:  %dx%d %s (%s)\n", c.Width(), c.Height(), c.Format(), formatBytes(int64(len(c.Bytes()))))
	fmt.Printf("  Digest:   %s\n", res.Digest)
	fmt.Printf("  Threads:  %d\n", res.Threads)
	fmt.Printf("  Passes:   %d\n", len(res.Passes))
	for _, p := range res.Passes {
		line := fmt.Sprintf("    %d  %-32s %-7s %8s", p.Pass, truncKey(p.Filter, 32), p.Format, p.Duration.Round(time.Microsecond))
		if p.Dropped > 0 {
			line += fmt.Sprintf("  (%d texels dropped)", p.Dropped)
		}
		fmt.Println(line)
	}
	if res.Preview != "" {
		fmt.Printf("  Preview:  %s\n", res.Preview)
	}
	fmt.Printf("  Time:     %s\n", elapsed.Round(time.Millisecond))
	fmt.Println()
}
