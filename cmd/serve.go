package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/AnyUserName/gbcam/internal/imagestore"
	"github.com/AnyUserName/gbcam/internal/monitoring"
	"github.com/AnyUserName/gbcam/internal/pipeline"
	"github.com/AnyUserName/gbcam/internal/profile"
	"github.com/AnyUserName/gbcam/internal/server"
	"github.com/spf13/cobra"
)

var (
	serveListen    string
	serveDir       string
	serveProfile   string
	serveMaxUpload int64
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP image store",
	Long: `Serves the image store over HTTP:

  POST /images         upload a gif, jpeg or png; 201 with Location
  GET  /images         list stored images (msgpack, JSON via Accept)
  GET  /images/{name}  fetch a filtered image`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVarP(&serveListen, "listen", "l", "", "listen address (default from config)")
	serveCmd.Flags().StringVarP(&serveDir, "dir", "d", "", "storage directory (default from config)")
	serveCmd.Flags().StringVarP(&serveProfile, "profile", "p", "", "filter profile (default from config)")
	serveCmd.Flags().Int64Var(&serveMaxUpload, "max-upload", 0, "upload size limit in bytes (default from config)")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	flags := cmd.Flags()
	if flags.Changed("listen") {
		cfg.Listen = serveListen
	}
	if flags.Changed("dir") {
		cfg.StorageDir = serveDir
	}
	if flags.Changed("profile") {
		cfg.Profile = serveProfile
	}
	if flags.Changed("max-upload") {
		cfg.MaxUploadBytes = serveMaxUpload
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	prof, err := profile.Get(cfg.Profile)
	if err != nil {
		return err
	}
	filter, err := pipeline.NewFilter(prof, cfg.MaxPixels)
	if err != nil {
		return err
	}
	store, err := imagestore.New(cfg.StorageDir, filter)
	if err != nil {
		return err
	}

	// Request logs are always on for the server.
	monitoring.SetOutput(os.Stderr)
	monitoring.Logf("storage: %s, profile: %s", store.Dir(), prof.Name)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := server.New(store, cfg.MaxUploadBytes).ListenAndServe(ctx, cfg.Listen); err != nil {
		return fmt.Errorf("serve: %w", err)
	}
	return nil
}
