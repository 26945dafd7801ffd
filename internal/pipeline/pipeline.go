// Package pipeline sequences the four migration stages: scan, parse,
// migrate, validate, and finally write (or render, in dry-run mode). A scan,
// parse, or migrate problem for one file never halts the run; only an
// invalid input path, a failed validation of the aggregate output, or a
// write failure does.
package pipeline

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"

	"github.com/sirupsen/logrus"

	"github.com/toyamagu-2021/argocd-app-migrator/internal/argocd"
	apperrors "github.com/toyamagu-2021/argocd-app-migrator/internal/errors"
	"github.com/toyamagu-2021/argocd-app-migrator/internal/logging"
	"github.com/toyamagu-2021/argocd-app-migrator/internal/migrator"
	"github.com/toyamagu-2021/argocd-app-migrator/internal/parser"
	"github.com/toyamagu-2021/argocd-app-migrator/internal/scanner"
	"github.com/toyamagu-2021/argocd-app-migrator/internal/validator"
)

// OutputFileName is the aggregate Git Generator config written per run
const OutputFileName = "applicationset-config.json"

// Config carries the run parameters resolved by the CLI layer
type Config struct {
	InputDir  string
	OutputDir string
	Recursive bool
	DryRun    bool
	// SchemaPath overrides the embedded schema artifact when set
	SchemaPath string
}

// SkipReason records why one scanned file produced no entry
type SkipReason struct {
	FilePath string              `json:"filePath"`
	Kind     apperrors.ErrorType `json:"kind"`
	Message  string              `json:"message"`
}

// Stats aggregates the run outcome for the CLI layer
type Stats struct {
	Scanned          int                   `json:"scanned"`
	Accepted         int                   `json:"accepted"`
	Skipped          int                   `json:"skipped"`
	Skips            []SkipReason          `json:"skips,omitempty"`
	ValidationPassed bool                  `json:"validationPassed"`
	Violations       []validator.Violation `json:"violations,omitempty"`
	OutputPath       string                `json:"outputPath,omitempty"`
	Written          bool                  `json:"written"`
}

// Result is the terminal state of one migration run
type Result struct {
	Entries []migrator.Entry
	// Rendered is the JSON document that was (or in dry-run, would have been) written
	Rendered []byte
	Stats    Stats
}

// Run executes the pipeline. File-level failures are collected into
// Stats.Skips; the returned error is non-nil only for an invalid input path,
// a validation failure in normal mode, a write failure, or cancellation.
// The Result is returned alongside a validation error so callers can still
// inspect the statistics and violations.
func Run(ctx context.Context, cfg Config) (*Result, error) {
	log := logging.GetLogger()

	files, err := scanner.Scan(cfg.InputDir, cfg.Recursive)
	if err != nil {
		if errors.Is(err, scanner.ErrNotFound) || errors.Is(err, scanner.ErrNotADirectory) {
			return nil, apperrors.NewPathError("invalid input directory", err,
				map[string]interface{}{"path": cfg.InputDir})
		}
		return nil, apperrors.NewInternalError("directory scan failed", err)
	}

	log.WithFields(logrus.Fields{
		"input_dir": cfg.InputDir,
		"recursive": cfg.Recursive,
		"files":     len(files),
	}).Info("Scan complete")

	result := &Result{
		Stats: Stats{Scanned: len(files), ValidationPassed: true},
	}

	apps := make([]*argocd.Application, 0, len(files))
	for _, file := range files {
		// Honor process interruption between file-level units of work
		if err := ctx.Err(); err != nil {
			return nil, apperrors.NewInternalError("run interrupted", err)
		}

		app, err := parser.Parse(file)
		if err != nil {
			reason := skipReason(file, err)
			result.Stats.Skips = append(result.Stats.Skips, reason)
			log.WithFields(logrus.Fields{
				"file":   file,
				"reason": reason.Kind,
			}).Warn(reason.Message)
			continue
		}
		apps = append(apps, app)
	}
	result.Stats.Skipped = len(result.Stats.Skips)
	result.Stats.Accepted = len(apps)

	// Entries keep the scanner's discovery order
	result.Entries = migrator.MigrateAll(apps)

	log.WithFields(logrus.Fields{
		"accepted": result.Stats.Accepted,
		"skipped":  result.Stats.Skipped,
	}).Info("Migration complete")

	rendered, err := renderEntries(result.Entries)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to encode entries", err)
	}
	result.Rendered = rendered

	if err := validate(cfg, result); err != nil {
		return nil, err
	}
	if !result.Stats.ValidationPassed && !cfg.DryRun {
		// Fail closed: invalid output never reaches the filesystem
		return result, apperrors.NewValidationError("output failed schema validation",
			map[string]interface{}{"violations": len(result.Stats.Violations)})
	}

	if cfg.DryRun {
		log.Info("Dry-run: output not written")
		return result, nil
	}
	if len(result.Entries) == 0 {
		log.Warn("No valid ArgoCD Applications found, nothing to write")
		return result, nil
	}

	outputPath := filepath.Join(cfg.OutputDir, OutputFileName)
	if err := writeAtomic(outputPath, rendered); err != nil {
		return result, err
	}
	result.Stats.OutputPath = outputPath
	result.Stats.Written = true

	log.WithField("output", outputPath).Info("Output written")
	return result, nil
}

func renderEntries(entries []migrator.Entry) ([]byte, error) {
	if entries == nil {
		entries = []migrator.Entry{}
	}
	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return nil, err
	}
	return append(data, '\n'), nil
}

func validate(cfg Config, result *Result) error {
	v, err := newValidator(cfg)
	if err != nil {
		return apperrors.NewInternalError("failed to load schema", err)
	}

	vres, err := v.ValidateJSON(result.Rendered)
	if err != nil {
		return apperrors.NewInternalError("schema validation failed to run", err)
	}

	result.Stats.ValidationPassed = vres.Valid
	result.Stats.Violations = vres.Violations
	return nil
}

func newValidator(cfg Config) (*validator.Validator, error) {
	if cfg.SchemaPath != "" {
		return validator.FromFile(cfg.SchemaPath)
	}
	return validator.Default()
}

func skipReason(file string, err error) SkipReason {
	kind := apperrors.ErrorTypeInternal
	var appErr *apperrors.AppError
	if errors.As(err, &appErr) {
		kind = appErr.Type
	}
	return SkipReason{
		FilePath: file,
		Kind:     kind,
		Message:  fmt.Sprintf("skipping %s: %v", filepath.Base(file), err),
	}
}
