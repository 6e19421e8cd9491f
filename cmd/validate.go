package cmd

import (
	"fmt"
	"image"
	"os"
	"path/filepath"
	"strings"

	"github.com/AnyUserName/gbcam/internal/imagestore"
	"github.com/spf13/cobra"
)

var validateCmd = &cobra.Command{
	Use:   "validate [storage_dir]",
	Short: "Check that every stored image is validly named and decodable",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runValidate,
}

func init() {
	rootCmd.AddCommand(validateCmd)
}

func runValidate(_ *cobra.Command, args []string) error {
	dir, err := storageDir(args)
	if err != nil {
		return err
	}
	errs, checked, err := validateStorage(dir)
	if err != nil {
		return err
	}

	if len(errs) == 0 {
		fmt.Println("  ✓ Storage is valid")
		fmt.Printf("  ✓ %d images, all decodable grayscale\n", checked)
		return nil
	}

	fmt.Printf("  ✗ Storage has %d problem(s):\n", len(errs))
	for _, e := range errs {
		fmt.Printf("    • %s\n", e)
	}
	return fmt.Errorf("validation failed with %d errors", len(errs))
}

// validateStorage checks every entry of dir and returns the problems found
// and the number of images checked.
func validateStorage(dir string) ([]string, int, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, 0, fmt.Errorf("read storage dir: %w", err)
	}

	var errs []string
	checked := 0
	for _, e := range entries {
		name := e.Name()
		switch {
		case e.IsDir():
			errs = append(errs, fmt.Sprintf("%s: unexpected directory", name))
			continue
		case strings.HasPrefix(name, "."):
			errs = append(errs, fmt.Sprintf("%s: leftover temporary file", name))
			continue
		case !imagestore.ValidName(name):
			errs = append(errs, fmt.Sprintf("%s: name does not match the stored image pattern", name))
			continue
		case imagestore.ContentType(name) == "":
			errs = append(errs, fmt.Sprintf("%s: unknown extension", name))
			continue
		}

		checked++
		if problem := checkImage(filepath.Join(dir, name)); problem != "" {
			errs = append(errs, fmt.Sprintf("%s: %s", name, problem))
		}
	}
	return errs, checked, nil
}

// checkImage decodes a stored file and confirms its pixels are gray.
// Returns "" when the image is fine.
func checkImage(path string) string {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Sprintf("open: %v", err)
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return fmt.Sprintf("decode: %v", err)
	}
	b := img.Bounds()
	if b.Empty() {
		return "empty image"
	}
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			r, g, bl, _ := img.At(x, y).RGBA()
			if absDiff(r, g) > 0x0800 || absDiff(g, bl) > 0x0800 {
				return fmt.Sprintf("pixel (%d,%d) is not gray", x, y)
			}
		}
	}
	return ""
}

func absDiff(a, b uint32) uint32 {
	if a > b {
		return a - b
	}
	return b - a
}
