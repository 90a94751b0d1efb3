package seed_test

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/hashicorp/go-multierror"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tendant/simple-cmis/pkg/objectstore"
	"github.com/tendant/simple-cmis/pkg/objectstore/seed"
)

const sample = `
folders:
  - name: Docs
    createdBy: alice
    folders:
      - name: Drafts
    documents:
      - name: readme.txt
      - name: spec.odt
        versioned: true
        versions:
          - major: true
            user: alice
            comment: first draft
          - user: bob
        checkedOutBy: carol
  - name: Shared
documents:
  - name: top.txt
links:
  - path: /Docs/readme.txt
    folder: /Shared
`

func newStore(t *testing.T) *objectstore.ObjectStore {
	t.Helper()
	store, err := objectstore.New("seed-repo", objectstore.WithIDGenerator(objectstore.NewIDGenerator(objectstore.DefaultIDStart)))
	require.NoError(t, err)
	return store
}

func TestLoad(t *testing.T) {
	store := newStore(t)
	require.NoError(t, seed.Load(store, strings.NewReader(sample)))

	for _, path := range []string{"/Docs", "/Docs/Drafts", "/Docs/readme.txt", "/Docs/spec.odt", "/Shared", "/Shared/readme.txt", "/top.txt"} {
		_, ok := store.GetObjectByPath(path)
		assert.True(t, ok, path)
	}

	docs, ok := store.GetObjectByPath("/Docs")
	require.True(t, ok)
	assert.Equal(t, "alice", docs.Base().CreatedBy)

	obj, ok := store.GetObjectByPath("/Docs/spec.odt")
	require.True(t, ok)
	vd, ok := obj.(*objectstore.VersionedDocument)
	require.True(t, ok)
	assert.True(t, vd.IsCheckedOut())
	assert.Equal(t, "carol", vd.CheckedOutBy())

	versions := vd.Versions()
	require.Len(t, versions, 3)
	assert.Equal(t, "1.0", versions[0].VersionLabel)
	assert.Equal(t, "1.1", versions[1].VersionLabel)
	assert.True(t, versions[2].IsPWC())

	// root, 3 folders, 3 documents and 3 versions including the working copy
	assert.Equal(t, 10, store.GetObjectCount())
}

func TestExport_RoundTrip(t *testing.T) {
	store := newStore(t)
	want, err := seed.Parse(strings.NewReader(sample))
	require.NoError(t, err)
	require.NoError(t, seed.Apply(store, want))

	got := seed.Export(store)
	opts := cmpopts.IgnoreFields(seed.Folder{}, "CreatedBy")
	docOpts := cmpopts.IgnoreFields(seed.Document{}, "CreatedBy")
	if diff := cmp.Diff(want, got, opts, docOpts, cmpopts.EquateEmpty()); diff != "" {
		t.Errorf("export mismatch (-want +got):\n%s", diff)
	}

	// writing and loading the export into a fresh store gives the same tree
	var buf bytes.Buffer
	require.NoError(t, seed.Write(&buf, got))

	other := newStore(t)
	require.NoError(t, seed.Load(other, &buf))
	if diff := cmp.Diff(got, seed.Export(other), cmpopts.EquateEmpty()); diff != "" {
		t.Errorf("reload mismatch (-want +got):\n%s", diff)
	}
}

func TestLoad_CollectsErrors(t *testing.T) {
	store := newStore(t)
	input := `
folders:
  - name: A
    documents:
      - name: x
      - name: x
  - name: bad/name
    folders:
      - name: never
  - name: B
links:
  - path: /missing
    folder: /B
  - path: /A
    folder: /B
`
	err := seed.Load(store, strings.NewReader(input))
	require.Error(t, err)

	var merr *multierror.Error
	require.ErrorAs(t, err, &merr)
	assert.Len(t, merr.Errors, 4)
	assert.ErrorIs(t, err, objectstore.ErrNameConstraintViolation)
	assert.ErrorIs(t, err, objectstore.ErrObjectNotFound)
	assert.ErrorIs(t, err, objectstore.ErrInvalidArgument)

	// good entries were still created
	for _, path := range []string{"/A", "/A/x", "/B"} {
		_, ok := store.GetObjectByPath(path)
		assert.True(t, ok, path)
	}
	_, ok := store.GetObjectByPath("/bad/name/never")
	assert.False(t, ok)
}

func TestLoad_VersionedWithoutVersions(t *testing.T) {
	store := newStore(t)
	input := `
documents:
  - name: a
    versioned: true
  - name: b
    createdBy: alice
    checkedOutBy: bob
`
	require.NoError(t, seed.Load(store, strings.NewReader(input)))

	obj, ok := store.GetObjectByPath("/a")
	require.True(t, ok)
	a, ok := obj.(*objectstore.VersionedDocument)
	require.True(t, ok)
	require.Len(t, a.Versions(), 1)
	assert.Equal(t, "1.0", a.Versions()[0].VersionLabel)
	assert.False(t, a.IsCheckedOut())

	obj, ok = store.GetObjectByPath("/b")
	require.True(t, ok)
	b, ok := obj.(*objectstore.VersionedDocument)
	require.True(t, ok)
	require.Len(t, b.Versions(), 2)
	assert.Equal(t, "alice", b.Versions()[0].CreatedBy)
	assert.True(t, b.Versions()[1].IsPWC())
	assert.Equal(t, "bob", b.CheckedOutBy())
}

func TestLoad_RejectedVersionedDocumentLeavesNoVersions(t *testing.T) {
	store := newStore(t)
	input := `
documents:
  - name: spec.odt
    versions:
      - major: true
  - name: spec.odt
    versions:
      - major: true
      - user: bob
`
	err := seed.Load(store, strings.NewReader(input))
	require.ErrorIs(t, err, objectstore.ErrNameConstraintViolation)

	var merr *multierror.Error
	require.ErrorAs(t, err, &merr)
	assert.Len(t, merr.Errors, 1)

	// root, the first document and its version
	assert.Equal(t, 3, store.GetObjectCount())
}

func TestParse(t *testing.T) {
	f, err := seed.Parse(strings.NewReader(""))
	require.NoError(t, err)
	assert.Empty(t, f.Folders)

	_, err = seed.Parse(strings.NewReader("folders:\n  - name: A\n    colour: red\n"))
	assert.Error(t, err)
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "seed.yaml")
	require.NoError(t, os.WriteFile(path, []byte(sample), 0o600))

	store := newStore(t)
	require.NoError(t, seed.LoadFile(store, path))
	_, ok := store.GetObjectByPath("/Shared/readme.txt")
	assert.True(t, ok)

	err := seed.LoadFile(newStore(t), filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
