package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/AnyUserName/gbcam/internal/pipeline"
	"github.com/AnyUserName/gbcam/internal/profile"
	"github.com/spf13/cobra"
)

var filterProfile string

var filterCmd = &cobra.Command{
	Use:   "filter <input> [output]",
	Short: "Apply the camera filter to one image file",
	Long: `Applies the Game Boy camera filter to a single image.

Without an output path the input file is replaced. The output format
follows the output extension (gif, jpg/jpeg or png).`,
	Args: cobra.RangeArgs(1, 2),
	RunE: runFilter,
}

func init() {
	filterCmd.Flags().StringVarP(&filterProfile, "profile", "p", profile.DefaultName, "filter profile")
	rootCmd.AddCommand(filterCmd)
}

func runFilter(_ *cobra.Command, args []string) error {
	in := args[0]
	out := in
	if len(args) == 2 {
		out = args[1]
	}
	format := strings.TrimPrefix(strings.ToLower(filepath.Ext(out)), ".")

	prof, err := profile.Get(filterProfile)
	if err != nil {
		return err
	}
	f, err := pipeline.NewFilter(prof, 0)
	if err != nil {
		return err
	}

	src, err := os.Open(in)
	if err != nil {
		return fmt.Errorf("open input: %w", err)
	}
	defer src.Close()

	logVerbose("filter %s -> %s (%s, profile %s)", in, out, format, prof.Name)
	if err := pipeline.WriteFile(out, f, src, format); err != nil {
		return fmt.Errorf("filter %s: %w", in, err)
	}
	fmt.Printf("Saved to %s\n", out)
	return nil
}
