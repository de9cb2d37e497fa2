// fontcat builds a font catalog from a directory of font families and
// packages it for web delivery.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joeblew999/plat-fonts/internal/config"
	"github.com/joeblew999/plat-fonts/internal/errorx"
	"github.com/joeblew999/plat-fonts/pkg/log"
	"github.com/spf13/cobra"
)

const defaultConfigFile = "etc/fontcat.yaml"

var (
	configFile string
	cfg        config.Config
)

var rootCmd = &cobra.Command{
	Use:   "fontcat",
	Short: "Font catalog generator",
	Long: `fontcat scans a font root (one folder per family), writes a JSON catalog
and an inline data script, splits the catalog into alphabetic chunks and
assembles deploy or portable builds.

Environment Variables:
  FONT_ROOT    Font root directory (default: ./fonts)
  DIST_PATH    Build output directory (default: ./dist)
  STATIC_PATH  Static assets copied into builds (default: ./static)`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		file := configFile
		if file == "" && config.Exists(defaultConfigFile) {
			file = defaultConfigFile
		}
		c, err := config.Load(file)
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		cfg = c
		return log.Setup(cfg.Log)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "f", "", "config file path (default "+defaultConfigFile+" when present)")
	rootCmd.AddCommand(generateCmd, splitCmd, buildCmd, watchCmd)
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(errorx.ExitCode(err))
	}
}
