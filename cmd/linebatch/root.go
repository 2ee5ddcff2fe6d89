package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/backmassage/linebatch/internal/check"
	"github.com/backmassage/linebatch/internal/config"
	"github.com/backmassage/linebatch/internal/display"
	"github.com/backmassage/linebatch/internal/pipeline"
	"github.com/backmassage/linebatch/internal/report"
)

func newRootCommand(ctx *commandContext) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "linebatch [input_dir]",
		Short:         "Configure counting lines for a folder of videos, then analyze them all",
		Version:       fmt.Sprintf("%s (%s)", version, commit),
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		PreRunE: func(cmd *cobra.Command, args []string) error {
			return ctx.setup(args, true)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAutomation(cmd, ctx)
		},
	}
	ctx.flags = config.Bind(rootCmd.PersistentFlags())

	rootCmd.AddCommand(newListCommand(ctx))
	rootCmd.AddCommand(newConfigureCommand(ctx))
	rootCmd.AddCommand(newCheckCommand(ctx))
	return rootCmd
}

func runAutomation(cmd *cobra.Command, c *commandContext) error {
	cfg, log := &c.cfg, c.log
	display.PrintBanner(cmd.OutOrStdout())

	if err := check.CheckDeps(cfg, true); err != nil {
		log.Error("%v", err)
		return errReported
	}

	log.Info("=== linebatch v%s ===", version)
	log.Info("In:  %s", displayInput(cfg.InputDir))
	if cfg.OutputDir != "" {
		log.Info("Out: %s", cfg.OutputDir)
	}
	log.Info("")

	sigCtx, cancel := c.signalContext(cmd.Context())
	defer cancel()

	summary, err := c.newPipeline().RunAutomation(sigCtx, cfg.InputDir, cfg.OutputDir)
	if err != nil {
		return err
	}
	log.Debug("run %s finished in %s", summary.RunID, display.FormatDuration(summary.Elapsed))

	fmt.Fprintln(cmd.OutOrStdout(), report.Table(summary))
	if cfg.ReportFile != "" {
		if err := report.WriteFile(cfg.ReportFile, cfg.ReportFormat, summary); err != nil {
			log.Error("%v", err)
			return errReported
		}
		log.Info("Report written to %s", cfg.ReportFile)
	}

	log.Info("Videos processed: %d", summary.Stats.Analyzed())
	if summary.Stats.Failed > 0 {
		log.Warn("%s failed analysis", display.Plural(summary.Stats.Failed, "video"))
		return errReported
	}
	if sigCtx.Err() != nil {
		return sigCtx.Err()
	}
	log.Success("All configured videos analyzed")
	return nil
}

func displayInput(dir string) string {
	if dir == "" {
		return "(default) " + pipeline.DefaultInputDir()
	}
	return dir
}
