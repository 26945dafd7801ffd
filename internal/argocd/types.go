package argocd

// SyncWaveAnnotation is the ArgoCD annotation controlling deployment ordering
const SyncWaveAnnotation = "argocd.argoproj.io/sync-wave"

// Application is the subset of an ArgoCD Application manifest relevant to
// migration. It is produced by the parser with annotations and labels
// normalized to non-nil maps; optional scalar fields stay empty and are
// defaulted by the migrator.
type Application struct {
	Metadata    Metadata
	Project     string
	Source      Source
	Destination Destination
	// SyncPolicyEnabled is true iff the manifest declares an automated sync policy
	SyncPolicyEnabled bool
}

// Metadata holds application metadata
type Metadata struct {
	Name        string
	Annotations map[string]string
	Labels      map[string]string
}

// Source holds repository information where application manifests are located
type Source struct {
	RepoURL        string
	Path           string
	TargetRevision string
	// Directory is nil when the manifest carries no spec.source.directory block
	Directory *Directory
}

// Directory holds the source directory configuration
type Directory struct {
	Recurse bool
}

// Destination defines the cluster and namespace where the application is deployed
type Destination struct {
	Server    string
	Name      string
	Namespace string
}
