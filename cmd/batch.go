package cmd

import (
	"fmt"
	"path/filepath"
	"sort"
	"sync/atomic"
	"time"

	"github.com/spf13/cobra"

	"github.com/AnyUserName/texturec/internal/batch"
	"github.com/AnyUserName/texturec/internal/pipeline"
	"github.com/AnyUserName/texturec/internal/preset"
	"github.com/AnyUserName/texturec/internal/report"
)

// ReportName is the report file written into a batch output directory.
const ReportName = "texturec.report.json"

var (
	batchChain      chainFlags
	batchPreset     string
	batchOutDir     string
	batchFormat     string
	batchWidth      int
	batchHeight     int
	batchThreads    int
	batchJobs       int
	batchPreviewExt string
	batchThumbWidth int
)

var batchCmd = &cobra.Command{
	Use:   "batch <input_dir>",
	Short: "Compile one texture per image in a directory",
	Long: `Scans input_dir for images (png, jpg, jpeg, gif, bmp, tiff, webp) and
runs the filter chain once per image. Every parameter value equal to
` + preset.InputPlaceholder + ` is replaced by the image path:

  texturec batch ./art -t resample -p base=@input -t greyscale -o ./out

Each texture gets a preview in the output directory and the run writes
` + ReportName + ` next to them.`,
	Args: cobra.ExactArgs(1),
	RunE: runBatch,
}

func init() {
	f := batchCmd.Flags()
	batchChain.register(f)
	f.StringVar(&batchPreset, "preset", "", "start from a built-in filter chain (see 'texturec filters')")
	f.StringVarP(&batchOutDir, "out", "o", "./texturec_out", "output directory")
	f.StringVarP(&batchFormat, "format", "f", "", "output format: l8, la8, rgba8, rgbaf32, f32 (default: negotiated)")
	f.IntVar(&batchWidth, "width", 0, "canvas width (0 = negotiated)")
	f.IntVar(&batchHeight, "height", 0, "canvas height (0 = negotiated)")
	f.IntVarP(&batchThreads, "threads", "n", 1, "worker threads per pass (0 = NumCPU)")
	f.IntVarP(&batchJobs, "jobs", "j", 0, "textures compiled at once (0 = NumCPU)")
	f.StringVar(&batchPreviewExt, "preview-ext", "png", "preview file extension; selects the encoder")
	f.IntVar(&batchThumbWidth, "thumb-width", 0, "also write thumbnails this wide (0 = off)")
	rootCmd.AddCommand(batchCmd)
}

func runBatch(_ *cobra.Command, args []string) error {
	start := time.Now()
	absInput, err := filepath.Abs(args[0])
	if err != nil {
		return fmt.Errorf("resolve input path: %w", err)
	}
	absOutput, err := filepath.Abs(batchOutDir)
	if err != nil {
		return fmt.Errorf("resolve output path: %w", err)
	}
	s, err := resolveChain(&batchChain, batchPreset, batchFormat, batchWidth, batchHeight)
	if err != nil {
		return err
	}

	logVerbose("input:   %s", absInput)
	logVerbose("output:  %s", absOutput)
	logVerbose("chain:   %d filters, %d threads per pass", len(s.steps), batchThreads)

	var done atomic.Int64
	r, err := batch.Run(batch.Config{
		InputDir:  absInput,
		OutputDir: absOutput,
		Steps:     s.steps,
		Compile: pipeline.Config{
			Width:   s.width,
			Height:  s.height,
			Format:  s.format,
			Threads: batchThreads,
		},
		Jobs:       batchJobs,
		PreviewExt: batchPreviewExt,
		ThumbWidth: batchThumbWidth,
		OnDone: func(src batch.Source, err error) {
			n := done.Add(1)
			if err != nil {
				logVerbose("failed:  %s: %v", src.RelPath, err)
				return
			}
			logVerbose("done:    %s (%d)", src.RelPath, n)
		},
	})
	if err != nil {
		return fmt.Errorf("batch: %w", err)
	}
	r.Preset = batchPreset

	reportPath := filepath.Join(absOutput, ReportName)
	if err := report.WriteJSON(r, reportPath); err != nil {
		return fmt.Errorf("write report: %w", err)
	}
	printBatchReport(r, time.Since(start))
	return nil
}

func printBatchReport(r *report.Report, elapsed time.Duration) {
	fmt.Println()
	fmt.Println("╔══════════════════════════════════════════════════╗")
	fmt.Println("║             texturec batch complete              ║")
	fmt.Println("╚══════════════════════════════════════════════════╝")
	fmt.Println()

	s := r.Stats
	fmt.Printf("  Textures:    %d\n", s.TotalTextures)
	if s.Failed > 0 {
		fmt.Printf("  Failed:      %d\n", s.Failed)
	}
	fmt.Printf("  Passes:      %d\n", s.TotalPasses)
	fmt.Printf("  Texels:      %d\n", s.TotalTexels)
	fmt.Printf("  Canvas size: %s\n", formatBytes(s.TotalBytes))
	if s.TotalDropped > 0 {
		fmt.Printf("  Dropped:     %d texels (format mismatch)\n", s.TotalDropped)
	}
	fmt.Printf("  Time:        %s\n", elapsed.Round(time.Millisecond))
	if r.BuildInfo != nil {
		fmt.Printf("  Jobs:        %d × %d threads\n", r.BuildInfo.Jobs, r.BuildInfo.Threads)
	}
	fmt.Println()

	// Top 10 slowest textures.
	if len(r.Textures) > 0 {
		type item struct {
			key string
			ms  float64
			tex report.Texture
		}
		var items []item
		for key, t := range r.Textures {
			items = append(items, item{key, t.DurationMS, t})
		}
		sort.Slice(items, func(i, j int) bool { return items[i].ms > items[j].ms })
		n := min(len(items), 10)
		fmt.Printf("  Top %d slowest:\n", n)
		for _, it := range items[:n] {
			fmt.Printf("    %-40s %5dx%-5d %-7s %8.1f ms\n",
				truncKey(it.key, 40), it.tex.Width, it.tex.Height, it.tex.Format, it.ms)
		}
		fmt.Println()
	}
	fmt.Printf("  Report:      %s\n", ReportName)
	fmt.Println()
}
