package validator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/toyamagu-2021/argocd-app-migrator/internal/migrator"
)

func validEntry() migrator.Entry {
	return migrator.Entry{
		Metadata: migrator.EntryMetadata{
			Name:        "example-app",
			Annotations: &migrator.EntryAnnotations{SyncWave: "40"},
		},
		Project: "default",
		Source: migrator.EntrySource{
			RepoURL:      "https://github.com/org/repo.git",
			Revision:     "main",
			ManifestPath: "./manifests",
			Directory:    migrator.EntryDirectory{Recurse: true},
		},
		Destination: migrator.EntryDestination{
			Namespace: "default",
		},
	}
}

func TestDefault_SchemaCompiles(t *testing.T) {
	v, err := Default()
	require.NoError(t, err)
	require.NotNil(t, v)
}

func TestValidate_ValidEntries(t *testing.T) {
	v, err := Default()
	require.NoError(t, err)

	result, err := v.Validate([]migrator.Entry{validEntry()})
	require.NoError(t, err)
	assert.True(t, result.Valid)
	assert.Empty(t, result.Violations)
}

func TestValidate_EmptyArray(t *testing.T) {
	v, err := Default()
	require.NoError(t, err)

	result, err := v.Validate(nil)
	require.NoError(t, err)
	assert.True(t, result.Valid)
}

func TestValidate_MissingRepoURL(t *testing.T) {
	v, err := Default()
	require.NoError(t, err)

	// repoURL omitted from the first entry's source object
	doc := []byte(`[{
		"metadata": {"name": "example-app"},
		"project": "default",
		"source": {
			"revision": "main",
			"manifestPath": "./manifests",
			"directory": {"recurse": true}
		},
		"destination": {"namespace": "default"},
		"enableSyncPolicy": false
	}]`)

	result, err := v.ValidateJSON(doc)
	require.NoError(t, err)
	require.False(t, result.Valid)
	require.NotEmpty(t, result.Violations)

	found := false
	for _, violation := range result.Violations {
		if violation.Pointer == "/0/source" {
			found = true
			assert.Contains(t, violation.Description, "repoURL")
		}
	}
	assert.True(t, found, "expected a violation pointing at /0/source, got %v", result.Violations)
}

func TestValidate_Violations(t *testing.T) {
	tests := []struct {
		name        string
		mutate      func(*migrator.Entry)
		wantPointer string
	}{
		{
			name:        "empty name",
			mutate:      func(e *migrator.Entry) { e.Metadata.Name = "" },
			wantPointer: "/0/metadata/name",
		},
		{
			name:        "empty project",
			mutate:      func(e *migrator.Entry) { e.Project = "" },
			wantPointer: "/0/project",
		},
		{
			name:        "empty revision",
			mutate:      func(e *migrator.Entry) { e.Source.Revision = "" },
			wantPointer: "/0/source/revision",
		},
		{
			name:        "empty namespace",
			mutate:      func(e *migrator.Entry) { e.Destination.Namespace = "" },
			wantPointer: "/0/destination/namespace",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v, err := Default()
			require.NoError(t, err)

			entry := validEntry()
			tt.mutate(&entry)

			result, err := v.Validate([]migrator.Entry{entry})
			require.NoError(t, err)
			require.False(t, result.Valid)

			pointers := make([]string, 0, len(result.Violations))
			for _, violation := range result.Violations {
				pointers = append(pointers, violation.Pointer)
			}
			assert.Contains(t, pointers, tt.wantPointer)
		})
	}
}

func TestValidate_SecondEntryLocation(t *testing.T) {
	v, err := Default()
	require.NoError(t, err)

	good := validEntry()
	bad := validEntry()
	bad.Source.ManifestPath = ""

	result, err := v.Validate([]migrator.Entry{good, bad})
	require.NoError(t, err)
	require.False(t, result.Valid)

	pointers := make([]string, 0, len(result.Violations))
	for _, violation := range result.Violations {
		pointers = append(pointers, violation.Pointer)
	}
	assert.Contains(t, pointers, "/1/source/manifestPath")
}

func TestNew_InvalidSchema(t *testing.T) {
	_, err := New([]byte(`{"type": ["not-a-type"]}`))
	assert.Error(t, err)
}

func TestFromFile_Missing(t *testing.T) {
	_, err := FromFile("/nonexistent/schema.json")
	assert.Error(t, err)
}

func TestViolation_String(t *testing.T) {
	v := Violation{Pointer: "/0/source", Field: "0.source", Description: "repoURL is required"}
	assert.Equal(t, "/0/source: repoURL is required", v.String())

	root := Violation{Pointer: "", Field: "(root)", Description: "Invalid type"}
	assert.Equal(t, "/: Invalid type", root.String())
}
