package cmd

import (
	"fmt"
	"path/filepath"
	"sort"

	"github.com/AnyUserName/gbcam/internal/imagestore"
	"github.com/spf13/cobra"
)

var statsCmd = &cobra.Command{
	Use:   "stats [storage_dir]",
	Short: "Display statistics for an image storage directory",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runStats,
}

func init() {
	rootCmd.AddCommand(statsCmd)
}

func runStats(_ *cobra.Command, args []string) error {
	dir, err := storageDir(args)
	if err != nil {
		return err
	}
	images, err := listStorage(dir)
	if err != nil {
		return err
	}
	printStats(dir, images)
	return nil
}

// storageDir returns the directory argument or the configured one.
func storageDir(args []string) (string, error) {
	if len(args) == 1 {
		return args[0], nil
	}
	cfg, err := loadConfig()
	if err != nil {
		return "", err
	}
	return cfg.StorageDir, nil
}

// listStorage lists a storage dir without creating it.
func listStorage(dir string) ([]imagestore.StoredImage, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("resolve %s: %w", dir, err)
	}
	store, err := imagestore.Open(abs)
	if err != nil {
		return nil, err
	}
	return store.List()
}

func printStats(dir string, images []imagestore.StoredImage) {
	type typeStat struct {
		count int
		bytes int64
	}
	byType := map[string]*typeStat{}
	var total int64
	for _, img := range images {
		st := byType[img.ContentType]
		if st == nil {
			st = &typeStat{}
			byType[img.ContentType] = st
		}
		st.count++
		st.bytes += img.Size
		total += img.Size
	}

	fmt.Println()
	fmt.Printf("  Storage:      %s\n", dir)
	fmt.Printf("  Images:       %d\n", len(images))
	fmt.Printf("  Total size:   %s\n", formatBytes(total))
	if len(images) > 0 {
		fmt.Printf("  Average size: %s\n", formatBytes(total/int64(len(images))))
	}
	fmt.Println()

	types := make([]string, 0, len(byType))
	for ct := range byType {
		types = append(types, ct)
	}
	sort.Strings(types)
	for _, ct := range types {
		st := byType[ct]
		fmt.Printf("    %-12s %5d files  %10s\n", ct, st.count, formatBytes(st.bytes))
	}
	if len(types) > 0 {
		fmt.Println()
	}
}
