package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/backmassage/linebatch/internal/check"
	"github.com/backmassage/linebatch/internal/display"
	"github.com/backmassage/linebatch/internal/pipeline"
)

func newListCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "list [input_dir]",
		Short: "List the videos that would be processed",
		Args:  cobra.MaximumNArgs(1),
		PreRunE: func(cmd *cobra.Command, args []string) error {
			return ctx.setup(args, false)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := pipeline.ResolveInputDir(ctx.cfg.InputDir)
			videos := pipeline.ListVideos(dir)
			ctx.log.Info("%s in %s", display.Plural(len(videos), "video"), dir)
			for _, v := range videos {
				fmt.Fprintln(cmd.OutOrStdout(), v)
			}
			return nil
		},
	}
}

func newConfigureCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "configure [input_dir]",
		Short: "Run only the line configuration phase and print the lines",
		Args:  cobra.MaximumNArgs(1),
		PreRunE: func(cmd *cobra.Command, args []string) error {
			return ctx.setup(args, false)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := check.CheckDeps(&ctx.cfg, false); err != nil {
				ctx.log.Error("%v", err)
				return errReported
			}

			sigCtx, cancel := ctx.signalContext(cmd.Context())
			defer cancel()

			cfgs, err := ctx.newPipeline().ConfigureAll(sigCtx, ctx.cfg.InputDir)
			if err != nil {
				return err
			}
			for _, video := range cfgs.Videos() {
				set, _ := cfgs.Lines(video)
				fmt.Fprintf(cmd.OutOrStdout(), "%s:\n", video)
				for _, l := range set {
					fmt.Fprintf(cmd.OutOrStdout(), "  %s\n", l)
				}
			}
			for _, e := range cfgs.Excluded() {
				ctx.log.Warn("Excluded %s (%s): %s", e.Video, e.Reason, e.Err)
			}
			return nil
		},
	}
}

func newCheckCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Check ffmpeg, ffprobe and the analyzer",
		Args:  cobra.NoArgs,
		PreRunE: func(cmd *cobra.Command, args []string) error {
			return ctx.setup(args, false)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			display.PrintBanner(cmd.OutOrStdout())
			if !check.RunCheck(&ctx.cfg, ctx.log) {
				return errReported
			}
			return nil
		},
	}
}
