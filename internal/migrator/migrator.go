// Package migrator maps parsed Application records into the JSON object
// shape consumed by an ApplicationSet Git Generator. The transform is pure:
// the same record always yields the same entry, and each record yields
// exactly one entry.
package migrator

import (
	"github.com/toyamagu-2021/argocd-app-migrator/internal/argocd"
)

const (
	// DefaultProject is used when the manifest declares no spec.project
	DefaultProject = "default"
	// DefaultRevision is used when the manifest declares no targetRevision
	DefaultRevision = "HEAD"
	// DefaultNamespace is used when the manifest declares no destination namespace
	DefaultNamespace = "default"
)

// Migrate transforms one Application record into its Git Generator entry.
func Migrate(app *argocd.Application) Entry {
	entry := Entry{
		Metadata: EntryMetadata{
			Name: app.Metadata.Name,
		},
		Project: withDefault(app.Project, DefaultProject),
		Source: EntrySource{
			RepoURL:      app.Source.RepoURL,
			Revision:     withDefault(app.Source.TargetRevision, DefaultRevision),
			ManifestPath: app.Source.Path,
			Directory:    EntryDirectory{Recurse: true},
		},
		Destination: EntryDestination{
			ClusterName: clusterName(app.Destination),
			Namespace:   withDefault(app.Destination.Namespace, DefaultNamespace),
		},
		EnableSyncPolicy: app.SyncPolicyEnabled,
	}

	if wave, ok := app.Metadata.Annotations[argocd.SyncWaveAnnotation]; ok {
		entry.Metadata.Annotations = &EntryAnnotations{SyncWave: wave}
	}
	if len(app.Metadata.Labels) > 0 {
		entry.Metadata.Labels = copyMap(app.Metadata.Labels)
	}

	// An explicit directory flag in the manifest overrides the recurse default
	if app.Source.Directory != nil {
		entry.Source.Directory.Recurse = app.Source.Directory.Recurse
	}

	return entry
}

// MigrateAll transforms records in order, one entry per record.
func MigrateAll(apps []*argocd.Application) []Entry {
	entries := make([]Entry, 0, len(apps))
	for _, app := range apps {
		entries = append(entries, Migrate(app))
	}
	return entries
}

func clusterName(dest argocd.Destination) string {
	if dest.Server != "" {
		return dest.Server
	}
	return dest.Name
}

func withDefault(value, fallback string) string {
	if value == "" {
		return fallback
	}
	return value
}

func copyMap(m map[string]string) map[string]string {
	out := make(map[string]string, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}
