package objectstore_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tendant/simple-cmis/pkg/objectstore"
)

func newVersionedDocument(t *testing.T, store *objectstore.ObjectStore, name string) *objectstore.VersionedDocument {
	t.Helper()
	doc := store.CreateVersionedDocument(name)
	doc.AddVersion(true, "alice", "initial")
	require.NoError(t, store.RootFolder().AddChild(doc))
	return doc
}

func TestVersionedDocument_AddVersion(t *testing.T) {
	store := newTestStore(t)
	doc := store.CreateVersionedDocument("spec.odt")

	v1 := doc.AddVersion(true, "alice", "first")
	v2 := doc.AddVersion(false, "bob", "")
	v3 := doc.AddVersion(false, "bob", "")
	v4 := doc.AddVersion(true, "alice", "release")

	assert.Equal(t, []string{"1.0", "1.1", "1.2", "2.0"},
		[]string{v1.VersionLabel, v2.VersionLabel, v3.VersionLabel, v4.VersionLabel})
	assert.True(t, v1.IsMajor())
	assert.False(t, v2.IsMajor())
	assert.Equal(t, "release", v4.Comment)
	assert.Equal(t, "bob", v2.CreatedBy)

	// the document got an identifier for the back references but is not stored yet
	require.NotEmpty(t, doc.ID)
	assert.Equal(t, doc.ID, v1.ParentDocumentID)
	_, ok := store.GetObjectByID(doc.ID)
	assert.False(t, ok)

	_, ok = store.GetObjectByID(v3.ID)
	assert.True(t, ok)

	latest, ok := doc.LatestVersion(false)
	require.True(t, ok)
	assert.Same(t, v4, latest)
}

func TestVersionedDocument_MinorFirst(t *testing.T) {
	store := newTestStore(t)
	doc := store.CreateVersionedDocument("notes")

	v := doc.AddVersion(false, "alice", "")
	assert.Equal(t, "0.1", v.VersionLabel)

	_, ok := doc.LatestVersion(true)
	assert.False(t, ok)
}

func TestVersionedDocument_ParentDocument(t *testing.T) {
	store := newTestStore(t)
	doc := newVersionedDocument(t, store, "a")

	v := doc.Versions()[0]
	parent, ok := v.ParentDocument()
	require.True(t, ok)
	assert.Same(t, doc, parent)
}

func TestVersionedDocument_CheckOutCheckIn(t *testing.T) {
	store := newTestStore(t)
	doc := newVersionedDocument(t, store, "a")

	pwc, err := doc.CheckOut("carol")
	require.NoError(t, err)
	assert.True(t, pwc.IsPWC())
	assert.Equal(t, "pwc", pwc.VersionLabel)
	assert.True(t, doc.IsCheckedOut())
	assert.Equal(t, "carol", doc.CheckedOutBy())
	_, ok := store.GetObjectByID(pwc.ID)
	assert.True(t, ok)

	got, ok := doc.PWC()
	require.True(t, ok)
	assert.Same(t, pwc, got)

	_, err = doc.CheckOut("dave")
	assert.ErrorIs(t, err, objectstore.ErrConstraintViolation)

	checkedIn, err := doc.CheckIn(false, "carol", "typo fixes")
	require.NoError(t, err)
	assert.Same(t, pwc, checkedIn)
	assert.False(t, checkedIn.IsPWC())
	assert.Equal(t, "1.1", checkedIn.VersionLabel)
	assert.Equal(t, "typo fixes", checkedIn.Comment)
	assert.False(t, doc.IsCheckedOut())
	assert.Empty(t, doc.CheckedOutBy())
	assert.Len(t, doc.Versions(), 2)

	_, err = doc.CheckIn(true, "carol", "")
	assert.ErrorIs(t, err, objectstore.ErrNotCheckedOut)
}

func TestVersionedDocument_CheckOutWithoutVersion(t *testing.T) {
	store := newTestStore(t)
	doc := store.CreateVersionedDocument("empty")

	_, err := doc.CheckOut("carol")
	assert.ErrorIs(t, err, objectstore.ErrConstraintViolation)
}

func TestVersionedDocument_CancelCheckOut(t *testing.T) {
	store := newTestStore(t)
	doc := newVersionedDocument(t, store, "a")
	count := store.GetObjectCount()

	pwc, err := doc.CheckOut("carol")
	require.NoError(t, err)
	require.Equal(t, count+1, store.GetObjectCount())

	require.NoError(t, doc.CancelCheckOut())
	assert.False(t, doc.IsCheckedOut())
	assert.Len(t, doc.Versions(), 1)
	_, ok := store.GetObjectByID(pwc.ID)
	assert.False(t, ok)
	assert.Equal(t, count, store.GetObjectCount())

	assert.ErrorIs(t, doc.CancelCheckOut(), objectstore.ErrNotCheckedOut)
}

func TestDeleteObject_PWCEndsCheckOut(t *testing.T) {
	store := newTestStore(t)
	doc := newVersionedDocument(t, store, "a")

	pwc, err := doc.CheckOut("carol")
	require.NoError(t, err)

	require.NoError(t, store.DeleteObject(pwc.ID))
	assert.False(t, doc.IsCheckedOut())
	_, ok := store.GetObjectByID(doc.ID)
	assert.True(t, ok)
}

func TestGetCheckedOutDocuments(t *testing.T) {
	store := newTestStore(t)
	c := newVersionedDocument(t, store, "c")
	a := newVersionedDocument(t, store, "a")
	newVersionedDocument(t, store, "idle")
	b := newVersionedDocument(t, store, "b")
	addDocument(t, store, store.RootFolder(), "plain")

	for _, doc := range []*objectstore.VersionedDocument{c, a, b} {
		_, err := doc.CheckOut("carol")
		require.NoError(t, err)
	}

	tests := []struct {
		orderBy string
		want    []*objectstore.VersionedDocument
	}{
		{"", []*objectstore.VersionedDocument{c, a, b}},
		{"cmis:objectId", []*objectstore.VersionedDocument{c, a, b}},
		{"cmis:objectId DESC", []*objectstore.VersionedDocument{b, a, c}},
		{"cmis:name", []*objectstore.VersionedDocument{a, b, c}},
		{"cmis:name desc", []*objectstore.VersionedDocument{c, b, a}},
		{"cmis:name ASC", []*objectstore.VersionedDocument{a, b, c}},
	}
	for _, tt := range tests {
		t.Run(tt.orderBy, func(t *testing.T) {
			got, err := store.GetCheckedOutDocuments(tt.orderBy)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	for _, orderBy := range []string{"cmis:secondaryObjectTypeIds", "cmis:name sideways", "a b c"} {
		_, err := store.GetCheckedOutDocuments(orderBy)
		assert.ErrorIs(t, err, objectstore.ErrInvalidArgument, orderBy)
	}
}
