package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/spf13/cobra"

	"github.com/AnyUserName/texturec/internal/report"
)

var inspectCmd = &cobra.Command{
	Use:   "inspect <out_dir_or_report>",
	Short: "Display statistics for a compile or batch report",
	Args:  cobra.ExactArgs(1),
	RunE:  runInspect,
}

func init() {
	rootCmd.AddCommand(inspectCmd)
}

// reportPath resolves a directory to the report inside it.
func reportPath(path string) (string, error) {
	info, err := os.Stat(path)
	if err != nil {
		return "", fmt.Errorf("stat %s: %w", path, err)
	}
	if info.IsDir() {
		path = filepath.Join(path, ReportName)
	}
	return path, nil
}

func runInspect(_ *cobra.Command, args []string) error {
	path, err := reportPath(args[0])
	if err != nil {
		return err
	}
	r, err := report.ReadJSON(path)
	if err != nil {
		return err
	}
	printInspect(r)
	return nil
}

func printInspect(r *report.Report) {
	fmt.Println()
	fmt.Printf("  Report version:   %d\n", r.Version)
	fmt.Printf("  Generated:        %s\n", r.GeneratedAt)
	if r.Preset != "" {
		fmt.Printf("  Preset:           %s\n", r.Preset)
	}
	if r.BuildInfo != nil {
		fmt.Printf("  Threads:          %d\n", r.BuildInfo.Threads)
		if r.BuildInfo.Jobs > 0 {
			fmt.Printf("  Jobs:             %d\n", r.BuildInfo.Jobs)
		}
	}
	for i, f := range r.Chain {
		var keys []string
		for k := range f.Params {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		line := fmt.Sprintf("  Filter %d:         %s", i, f.Name)
		for _, k := range keys {
			line += fmt.Sprintf(" %s=%s", k, f.Params[k])
		}
		fmt.Println(line)
	}
	fmt.Println()

	s := r.Stats
	fmt.Printf("  Total textures:   %d\n", s.TotalTextures)
	fmt.Printf("  Total passes:     %d\n", s.TotalPasses)
	fmt.Printf("  Total texels:     %d\n", s.TotalTexels)
	fmt.Printf("  Canvas bytes:     %s\n", formatBytes(s.TotalBytes))
	fmt.Println()

	// Per-format breakdown.
	type formatStat struct {
		count int
		bytes int64
	}
	formats := map[string]formatStat{}
	for _, t := range r.Textures {
		fs := formats[t.Format]
		fs.count++
		fs.bytes += t.Size
		formats[t.Format] = fs
	}
	fmt.Println("  Format breakdown:")
	for _, f := range []string{"L8", "LA8", "RGBA8", "RGBAF32", "F32"} {
		if fs, ok := formats[f]; ok {
			fmt.Printf("    %-8s %4d textures  %s\n", f, fs.count, formatBytes(fs.bytes))
		}
	}
	fmt.Println()

	// Time per filter across all textures.
	filterMS := map[string]float64{}
	for _, t := range r.Textures {
		for _, p := range t.Passes {
			filterMS[p.Filter] += p.DurationMS
		}
	}
	var names []string
	for n := range filterMS {
		names = append(names, n)
	}
	sort.Slice(names, func(i, j int) bool { return filterMS[names[i]] > filterMS[names[j]] })
	fmt.Println("  Time per filter:")
	for _, n := range names {
		fmt.Printf("    %-36s %10.1f ms\n", truncKey(n, 36), filterMS[n])
	}

	previews := 0
	for _, t := range r.Textures {
		if t.Preview != nil {
			previews++
		}
	}
	fmt.Printf("\n  Preview coverage: %d / %d textures\n", previews, len(r.Textures))

	// Warnings.
	var warnings []string
	if s.Failed > 0 {
		warnings = append(warnings, fmt.Sprintf("%d sources failed to compile", s.Failed))
	}
	keys := make([]string, 0, len(r.Textures))
	for k := range r.Textures {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		for i, p := range r.Textures[k].Passes {
			if p.Dropped > 0 {
				warnings = append(warnings, fmt.Sprintf("texture %q pass %d (%s) dropped %d texels", k, i, p.Filter, p.Dropped))
			}
		}
	}
	if len(warnings) > 0 {
		fmt.Println()
		fmt.Printf("  Warnings (%d):\n", len(warnings))
		for _, w := range warnings {
			fmt.Printf("    ⚠ %s\n", w)
		}
	}
	fmt.Println()
}

func formatBytes(b int64) string {
	switch {
	case b >= 1<<20:
		return fmt.Sprintf("%.1f MB", float64(b)/(1<<20))
	case b >= 1<<10:
		return fmt.Sprintf("%.1f KB", float64(b)/(1<<10))
	default:
		return fmt.Sprintf("%d B", b)
	}
}

func truncKey(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return "..." + s[len(s)-max+3:]
}
