package main

import (
	"context"
	"fmt"

	"github.com/containerd/log"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/praetorian-inc/distfix/pkg/config"
	"github.com/praetorian-inc/distfix/pkg/inject"
)

var (
	archivePath string
	filesPath   string
)

var rootCmd = &cobra.Command{
	Use:   "distfix",
	Short: "Inject subprojects/packagefiles into a 'meson dist' zip archive",
	Long: `distfix adds the files of a subproject override tree (usually
subprojects/packagefiles) to a zip archive produced by

    meson dist --include-subprojects --no-tests --formats zip

so that the dist test stage finds them as it would after a normal build.
Files land under "<archive-name>/subprojects/" and entries that already
exist in the archive are skipped.

Log output is controlled with DISTFIX_LOG_LEVEL and DISTFIX_LOG_FORMAT.`,
	Example: `  distfix --archive builddir/meson-dist/foo-1.0.zip --files subprojects/packagefiles`,
	Args:              cobra.NoArgs,
	SilenceUsage:      true,
	SilenceErrors:     true,
	PreRunE:           setupLogging,
	RunE:              runInject,
}

func init() {
	rootCmd.Flags().StringVar(&archivePath, "archive", "", "Path to 'meson dist' generated zip-file")
	rootCmd.Flags().StringVar(&filesPath, "files", "", "Path to meson 'subprojects/packagefiles'")
	rootCmd.MarkFlagRequired("archive")
	rootCmd.MarkFlagRequired("files")

	rootCmd.AddCommand(versionCmd)
}

// Execute runs the root command.
func Execute(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}

// setupLogging applies DISTFIX_* settings to the shared logger and sends it
// to stderr so stdout only carries skip lines.
func setupLogging(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if err := log.SetLevel(cfg.LogLevel); err != nil {
		return fmt.Errorf("setting log level: %w", err)
	}
	if err := log.SetFormat(log.OutputFormat(cfg.LogFormat)); err != nil {
		return fmt.Errorf("setting log format: %w", err)
	}
	logrus.SetOutput(cmd.ErrOrStderr())
	return nil
}

func runInject(cmd *cobra.Command, args []string) error {
	ctx := log.WithLogger(cmd.Context(), log.G(cmd.Context()).WithField("cmd", cmd.Name()))

	result, err := inject.New(cmd.OutOrStdout()).Inject(ctx, archivePath, filesPath)
	if err != nil {
		return err
	}

	log.G(ctx).WithFields(log.Fields{
		"added":   len(result.Added),
		"skipped": len(result.Skipped),
	}).Debug("done")
	return nil
}
