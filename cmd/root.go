package cmd

import (
	"fmt"
	"os"
	"runtime"

	"github.com/AnyUserName/gbcam/internal/config"
	"github.com/AnyUserName/gbcam/internal/monitoring"
	"github.com/spf13/cobra"
)

var (
	version    = "0.1.0"
	verbose    bool
	configPath string
)

var rootCmd = &cobra.Command{
	Use:   "gbcam",
	Short: "Game Boy camera filter and image store",
	Long: `gbcam turns uploaded images into 4-shade Game Boy camera shots.

Images are shrunk to a 128 pixel long side, quantized to the palette
{0, 86, 172, 255} with 2x2 ordered dithering, and grown back to their
original size. "gbcam serve" stores the results under generated names.`,
	Version:       version,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "YAML config file")
	rootCmd.SetVersionTemplate(fmt.Sprintf(
		"gbcam %s (%s/%s, %s)\n",
		version, runtime.GOOS, runtime.GOARCH, runtime.Version(),
	))
	cobra.OnInitialize(func() {
		if !verbose {
			monitoring.SetLogger(nil)
		}
	})
}

// loadConfig reads --config, if any.
func loadConfig() (config.Config, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return config.Config{}, err
	}
	logVerbose("config: %+v", cfg)
	return cfg, nil
}

// logVerbose prints a message only when --verbose is set.
func logVerbose(format string, args ...any) {
	if verbose {
		fmt.Fprintf(os.Stderr, monitoring.Prefix+format+"\n", args...)
	}
}
