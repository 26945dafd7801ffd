package migrator

// Entry is one element of the ApplicationSet Git Generator array. Field
// declaration order fixes the JSON key order of the emitted document.
type Entry struct {
	Metadata         EntryMetadata    `json:"metadata"`
	Project          string           `json:"project"`
	Source           EntrySource      `json:"source"`
	Destination      EntryDestination `json:"destination"`
	EnableSyncPolicy bool             `json:"enableSyncPolicy"`
}

// EntryMetadata holds the migrated application metadata
type EntryMetadata struct {
	Name        string            `json:"name"`
	Annotations *EntryAnnotations `json:"annotations,omitempty"`
	Labels      map[string]string `json:"labels,omitempty"`
}

// EntryAnnotations carries the sync-wave ordering value when the source
// manifest declared one
type EntryAnnotations struct {
	SyncWave string `json:"syncWave"`
}

// EntrySource holds the Git generator source configuration
type EntrySource struct {
	RepoURL      string         `json:"repoURL"`
	Revision     string         `json:"revision"`
	ManifestPath string         `json:"manifestPath"`
	Directory    EntryDirectory `json:"directory"`
}

// EntryDirectory holds the manifest directory traversal configuration
type EntryDirectory struct {
	Recurse bool `json:"recurse"`
}

// EntryDestination holds the migrated deployment target
type EntryDestination struct {
	ClusterName string `json:"clusterName,omitempty"`
	Namespace   string `json:"namespace"`
}
