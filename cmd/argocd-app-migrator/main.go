package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/toyamagu-2021/argocd-app-migrator/internal/logging"
	"github.com/toyamagu-2021/argocd-app-migrator/internal/pipeline"
)

const version = "1.0.0"

func main() {
	if err := newRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	cfg := pipeline.Config{}

	cmd := &cobra.Command{
		Use:           "argocd-app-migrator",
		Short:         "Migrate ArgoCD Application YAML manifests to ApplicationSet JSON configs",
		Long:          "Scans a directory for ArgoCD Application manifests, extracts the fields an ApplicationSet Git Generator needs, and writes them as a single validated JSON array.",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, cfg)
		},
	}

	cmd.Flags().StringVarP(&cfg.InputDir, "input-dir", "i", "", "directory containing ArgoCD Application YAML files")
	cmd.Flags().StringVarP(&cfg.OutputDir, "output-dir", "o", ".", "output directory for the generated JSON config")
	cmd.Flags().BoolVarP(&cfg.Recursive, "recursive", "r", false, "scan directories recursively for YAML files")
	cmd.Flags().BoolVar(&cfg.DryRun, "dry-run", false, "print output to terminal without writing files")
	cmd.Flags().StringVar(&cfg.SchemaPath, "schema", "", "path to a JSON Schema overriding the embedded artifact")
	_ = cmd.MarkFlagRequired("input-dir")

	return cmd
}

func run(cmd *cobra.Command, cfg pipeline.Config) error {
	log := logging.GetLogger()

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	log.WithFields(logrus.Fields{
		"version":    version,
		"input_dir":  cfg.InputDir,
		"output_dir": cfg.OutputDir,
		"recursive":  cfg.Recursive,
		"dry_run":    cfg.DryRun,
	}).Info("Starting ArgoCD Application migration")

	result, err := pipeline.Run(ctx, cfg)
	if result != nil {
		report(log, result)
	}
	if err != nil {
		log.WithError(err).Error("Migration failed")
		return err
	}

	if cfg.DryRun {
		// Stats go to stderr via the logger; stdout carries only the document
		fmt.Fprint(cmd.OutOrStdout(), string(result.Rendered))
	}

	log.Info("Migration completed")
	return nil
}

func report(log *logrus.Logger, result *pipeline.Result) {
	stats := result.Stats

	for _, skip := range stats.Skips {
		log.WithFields(logrus.Fields{
			"file": skip.FilePath,
			"kind": skip.Kind,
		}).Warn(skip.Message)
	}
	for _, violation := range stats.Violations {
		log.WithField("pointer", violation.Pointer).Error(violation.Description)
	}

	entry := log.WithFields(logrus.Fields{
		"scanned":           stats.Scanned,
		"accepted":          stats.Accepted,
		"skipped":           stats.Skipped,
		"validation_passed": stats.ValidationPassed,
	})
	if stats.Written {
		entry = entry.WithField("output", stats.OutputPath)
	}
	entry.Info("Run statistics")

	if stats.Scanned == 0 {
		log.Warn("No YAML files found in input directory")
	} else if stats.Accepted == 0 {
		log.Warn("No valid ArgoCD Applications found")
	}
	if !stats.ValidationPassed {
		log.Error("Generated output does not conform to the schema")
	}
}
