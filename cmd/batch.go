package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/AnyUserName/gbcam/internal/pipeline"
	"github.com/AnyUserName/gbcam/internal/profile"
	"github.com/spf13/cobra"
)

var (
	batchOutDir  string
	batchProfile string
	batchWorkers int
)

var batchCmd = &cobra.Command{
	Use:   "batch <input_dir>",
	Short: "Apply the camera filter to every image in a directory",
	Long: `Scans input directory for images (png, jpg, jpeg, gif, bmp, tiff, webp),
applies the Game Boy camera filter in parallel and writes
<name>.gbc.png files to the output directory, mirroring the input tree.`,
	Args: cobra.ExactArgs(1),
	RunE: runBatch,
}

func init() {
	batchCmd.Flags().StringVarP(&batchOutDir, "out", "o", "./gbcam_out", "output directory")
	batchCmd.Flags().StringVarP(&batchProfile, "profile", "p", "", "filter profile (default from config)")
	batchCmd.Flags().IntVarP(&batchWorkers, "workers", "w", 0, "parallel workers (0 = config or NumCPU)")
	rootCmd.AddCommand(batchCmd)
}

func runBatch(cmd *cobra.Command, args []string) error {
	start := time.Now()

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("profile") {
		cfg.Profile = batchProfile
	}
	if cmd.Flags().Changed("workers") {
		cfg.Workers = batchWorkers
	}

	absInput, err := filepath.Abs(args[0])
	if err != nil {
		return fmt.Errorf("resolve input path: %w", err)
	}
	absOutput, err := filepath.Abs(batchOutDir)
	if err != nil {
		return fmt.Errorf("resolve output path: %w", err)
	}

	prof, err := profile.Get(cfg.Profile)
	if err != nil {
		return err
	}
	f, err := pipeline.NewFilter(prof, cfg.MaxPixels)
	if err != nil {
		return err
	}

	logVerbose("input:   %s", absInput)
	logVerbose("output:  %s", absOutput)
	logVerbose("profile: %s (bound=%d, kernel=%s)", prof.Name, prof.Bound, prof.Kernel)

	if err := os.MkdirAll(absOutput, 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}

	rep, err := pipeline.NewRunner(pipeline.Config{
		InputDir:  absInput,
		OutputDir: absOutput,
		Workers:   cfg.Workers,
		Verbose:   verbose,
	}, f).Run()
	if err != nil {
		return fmt.Errorf("pipeline: %w", err)
	}

	printBatchReport(rep, time.Since(start))
	return nil
}

func printBatchReport(rep *pipeline.Report, elapsed time.Duration) {
	fmt.Println()
	fmt.Printf("  Images:      %d\n", len(rep.Results)-rep.Failed)
	if rep.Failed > 0 {
		fmt.Printf("  Failed:      %d\n", rep.Failed)
	}
	fmt.Printf("  Input size:  %s\n", formatBytes(rep.InputBytes))
	fmt.Printf("  Output size: %s\n", formatBytes(rep.OutputBytes))
	fmt.Printf("  Time:        %s\n", elapsed.Round(time.Millisecond))
	fmt.Println()

	results := append([]pipeline.Result(nil), rep.Results...)
	sort.Slice(results, func(i, j int) bool { return results[i].Source.RelPath < results[j].Source.RelPath })
	for _, r := range results {
		if r.Err != nil {
			fmt.Printf("    ✗ %-40s %v\n", truncKey(r.Source.RelPath, 40), r.Err)
			continue
		}
		fmt.Printf("    ✓ %-40s %8s → %8s\n",
			truncKey(r.Source.RelPath, 40),
			formatBytes(r.Source.Size),
			formatBytes(r.OutSize),
		)
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
