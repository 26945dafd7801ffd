// Package parser loads ArgoCD Application manifests and reduces them to the
// record the migrator consumes. Rejections are classified, never fatal: a
// decode error means the file is not valid YAML, a schema mismatch means the
// document is well-formed but not a usable Application. The skip-vs-abort
// decision belongs to the pipeline driver.
package parser

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"

	"github.com/argoproj/argo-cd/v2/pkg/apis/application/v1alpha1"
	"k8s.io/apimachinery/pkg/util/validation"
	"sigs.k8s.io/yaml"

	"github.com/toyamagu-2021/argocd-app-migrator/internal/argocd"
	apperrors "github.com/toyamagu-2021/argocd-app-migrator/internal/errors"
)

// Parse reads one manifest file and returns the normalized Application
// record. On failure the returned error is an *apperrors.AppError of type
// decode or schema_mismatch with the file path in its details.
func Parse(path string) (*argocd.Application, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, apperrors.NewDecodeError("failed to read file", err, details(path, ""))
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, apperrors.NewDecodeError("empty YAML document", nil, details(path, ""))
	}

	jsonData, err := yaml.YAMLToJSON(data)
	if err != nil {
		return nil, apperrors.NewDecodeError("invalid YAML syntax", err, details(path, ""))
	}
	if bytes.Equal(bytes.TrimSpace(jsonData), []byte("null")) {
		return nil, apperrors.NewDecodeError("empty YAML document", nil, details(path, ""))
	}

	var app v1alpha1.Application
	if err := json.Unmarshal(jsonData, &app); err != nil {
		return nil, apperrors.NewSchemaMismatchError(
			fmt.Sprintf("document does not have Application structure: %v", err),
			details(path, ""),
		)
	}

	if err := validateApplication(path, &app); err != nil {
		return nil, err
	}

	return toRecord(&app), nil
}

// ParseAll parses every file and pairs each with its outcome. One malformed
// document never aborts the remaining files.
func ParseAll(paths []string) []Result {
	results := make([]Result, 0, len(paths))
	for _, path := range paths {
		app, err := Parse(path)
		results = append(results, Result{FilePath: path, App: app, Err: err})
	}
	return results
}

// Result pairs one scanned file with its parse outcome
type Result struct {
	FilePath string
	App      *argocd.Application
	Err      error
}

// Accepted reports whether the file produced a usable Application record
func (r Result) Accepted() bool {
	return r.Err == nil
}

func validateApplication(path string, app *v1alpha1.Application) error {
	gvk := v1alpha1.ApplicationSchemaGroupVersionKind

	if app.APIVersion == "" {
		return mismatch(path, "apiVersion", "missing required field: apiVersion")
	}
	if app.APIVersion != gvk.GroupVersion().String() {
		return mismatch(path, "apiVersion",
			fmt.Sprintf("invalid apiVersion: %s (expected %s)", app.APIVersion, gvk.GroupVersion()))
	}
	if app.Kind == "" {
		return mismatch(path, "kind", "missing required field: kind")
	}
	if app.Kind != gvk.Kind {
		return mismatch(path, "kind",
			fmt.Sprintf("invalid kind: %s (expected %s)", app.Kind, gvk.Kind))
	}
	if app.Name == "" {
		return mismatch(path, "metadata.name", "missing required field: metadata.name")
	}
	if errs := validation.IsDNS1123Subdomain(app.Name); len(errs) > 0 {
		return mismatch(path, "metadata.name",
			fmt.Sprintf("invalid metadata.name %q: %s", app.Name, errs[0]))
	}
	if app.Spec.Source == nil {
		return mismatch(path, "spec.source", "missing required field: spec.source")
	}
	if app.Spec.Source.RepoURL == "" {
		return mismatch(path, "spec.source.repoURL", "missing required field: spec.source.repoURL")
	}
	if app.Spec.Source.Path == "" {
		return mismatch(path, "spec.source.path", "missing required field: spec.source.path")
	}
	if app.Spec.Destination == (v1alpha1.ApplicationDestination{}) {
		return mismatch(path, "spec.destination", "missing required field: spec.destination")
	}
	return nil
}

func toRecord(app *v1alpha1.Application) *argocd.Application {
	record := &argocd.Application{
		Metadata: argocd.Metadata{
			Name:        app.Name,
			Annotations: copyMap(app.Annotations),
			Labels:      copyMap(app.Labels),
		},
		Project: app.Spec.Project,
		Source: argocd.Source{
			RepoURL:        app.Spec.Source.RepoURL,
			Path:           app.Spec.Source.Path,
			TargetRevision: app.Spec.Source.TargetRevision,
		},
		Destination: argocd.Destination{
			Server:    app.Spec.Destination.Server,
			Name:      app.Spec.Destination.Name,
			Namespace: app.Spec.Destination.Namespace,
		},
		SyncPolicyEnabled: app.Spec.SyncPolicy != nil && app.Spec.SyncPolicy.Automated != nil,
	}

	if app.Spec.Source.Directory != nil {
		record.Source.Directory = &argocd.Directory{Recurse: app.Spec.Source.Directory.Recurse}
	}

	return record
}

func copyMap(m map[string]string) map[string]string {
	out := make(map[string]string, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

func mismatch(path, field, message string) *apperrors.AppError {
	return apperrors.NewSchemaMismatchError(message, details(path, field))
}

func details(path, field string) map[string]interface{} {
	d := map[string]interface{}{"file": path}
	if field != "" {
		d["field"] = field
	}
	return d
}
