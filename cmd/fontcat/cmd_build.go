package main

import (
	"fmt"
	"strings"

	"github.com/joeblew999/plat-fonts/internal/build"
	"github.com/spf13/cobra"
)

var splitCmd = &cobra.Command{
	Use:   "split",
	Short: "Split the inline catalog into alphabetic chunk files",
	Long: `Reads inline-fonts-data.js and writes one JSON file per shard
(a-f, g-m, n-z, 0-9, symbols) plus index.json into the chunk directory.
The written files are verified before the command succeeds. Inline data
generated with --base64 is rejected.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		res, err := build.New(cfg).Split(cmd.Context())
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Chunked %d families into %s (%d skipped)\n",
			res.Total(), cfg.Output.ChunkDir, len(res.Skipped))
		return nil
	},
}

var buildCmd = &cobra.Command{
	Use:       "build <" + strings.Join(build.Targets, "|") + ">",
	Short:     "Assemble a deploy or portable build",
	Args:      cobra.ExactArgs(1),
	ValidArgs: build.Targets,
	RunE: func(cmd *cobra.Command, args []string) error {
		dir, err := build.New(cfg).Run(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Build written to %s\n", dir)
		return nil
	},
}

var watchCmd = &cobra.Command{
	Use:       "watch [" + strings.Join(build.Targets, "|") + "]",
	Short:     "Rebuild a target whenever the font root changes",
	Args:      cobra.MaximumNArgs(1),
	ValidArgs: build.Targets,
	RunE: func(cmd *cobra.Command, args []string) error {
		target := build.TargetDeploy
		if len(args) == 1 {
			target = args[0]
		}
		return build.New(cfg).Watch(cmd.Context(), target)
	},
}
