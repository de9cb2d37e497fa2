package main

import (
	"fmt"

	"github.com/joeblew999/plat-fonts/internal/build"
	"github.com/joeblew999/plat-fonts/pkg/catalog"
	"github.com/spf13/cobra"
)

var embed bool

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Scan the font root and write the catalog artifacts",
	Long: `Scans every family folder under the font root and writes fonts.json and
inline-fonts-data.js. With --base64 every font file (and license text) is
embedded as a data URI so the output works without a server.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		res, err := build.New(cfg).Generate(cmd.Context(), embed)
		if err != nil {
			return err
		}
		fmt.Fprint(cmd.OutOrStdout(), catalog.Report(res))
		return nil
	},
}

func init() {
	generateCmd.Flags().BoolVar(&embed, "base64", false, "embed font files as base64 data URIs")
}
