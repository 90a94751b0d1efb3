package objectstore_test

import (
	"sync"
	"testing"

	"github.com/hashicorp/go-multierror"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tendant/simple-cmis/pkg/objectstore"
)

func TestDeleteTree(t *testing.T) {
	store := newTestStore(t)
	root := store.RootFolder()
	keep := addFolder(t, store, root, "keep")
	tree := addFolder(t, store, root, "tree")
	sub := addFolder(t, store, tree, "sub")
	addDocument(t, store, sub, "leaf.txt")

	versioned := store.CreateVersionedDocument("spec.odt")
	v1 := versioned.AddVersion(true, "alice", "")
	require.NoError(t, tree.AddChild(versioned))

	shared := addDocument(t, store, tree, "shared.txt")
	require.NoError(t, keep.AddChild(shared))

	failed, err := store.DeleteTree(tree.ID, false)
	require.NoError(t, err)
	assert.Empty(t, failed)

	for _, id := range []string{tree.ID, sub.ID, versioned.ID, v1.ID} {
		_, ok := store.GetObjectByID(id)
		assert.False(t, ok, id)
	}

	// filed elsewhere, so only unfiled
	_, ok := store.GetObjectByID(shared.ID)
	assert.True(t, ok)
	assert.Equal(t, []string{keep.ID}, shared.ParentIDs())
	assert.Equal(t, []string{root.ID, keep.ID, shared.ID}, store.GetIDs())
}

func TestDeleteTree_Errors(t *testing.T) {
	store := newTestStore(t)

	_, err := store.DeleteTree("missing", true)
	assert.ErrorIs(t, err, objectstore.ErrObjectNotFound)

	_, err = store.DeleteTree(store.RootFolder().ID, true)
	assert.ErrorIs(t, err, objectstore.ErrConstraintViolation)

	doc := addDocument(t, store, store.RootFolder(), "doc")
	_, err = store.DeleteTree(doc.ID, true)
	assert.ErrorIs(t, err, objectstore.ErrInvalidArgument)
}

func TestDeleteTree_Concurrent(t *testing.T) {
	for round := 0; round < 20; round++ {
		store := newTestStore(t)
		tree := addFolder(t, store, store.RootFolder(), "tree")
		addDocument(t, store, addFolder(t, store, tree, "sub"), "leaf.txt")

		const callers = 2
		failed := make([][]string, callers)
		errs := make([]error, callers)
		var wg sync.WaitGroup
		start := make(chan struct{})
		for i := 0; i < callers; i++ {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				<-start
				failed[i], errs[i] = store.DeleteTree(tree.ID, true)
			}(i)
		}
		close(start)
		wg.Wait()

		var ok int
		for i, err := range errs {
			// the loser sees the folder gone before it starts walking
			assert.Empty(t, failed[i])
			if err == nil {
				ok++
				continue
			}
			assert.ErrorIs(t, err, objectstore.ErrObjectNotFound)
		}
		assert.Equal(t, 1, ok)
		assert.Equal(t, 1, store.GetObjectCount())
	}
}

// lateWriter files a new document in folder whenever trigger is deleted,
// bypassing the Lock Gate the way a misbehaving caller would.
type lateWriter struct {
	store   *objectstore.ObjectStore
	folder  *objectstore.Folder
	trigger string
}

func (w *lateWriter) ObjectStored(objectstore.StoredObject) {}

func (w *lateWriter) ObjectDeleted(obj objectstore.StoredObject) {
	if w.store == nil || obj.Base().ID != w.trigger {
		return
	}
	late := w.store.CreateDocument("late.txt")
	late.AddParent(w.folder)
	late.Persist()
}

func (w *lateWriter) RepositoryCleared(string) {}

func newFailingTree(t *testing.T) (*objectstore.ObjectStore, *objectstore.Folder, *objectstore.Folder, *objectstore.Folder) {
	t.Helper()
	sink := &lateWriter{}
	store := newTestStore(t, objectstore.WithEventSink(sink))
	root := store.RootFolder()
	tree := addFolder(t, store, root, "tree")
	a := addFolder(t, store, tree, "a")
	b := addFolder(t, store, tree, "b")
	trigger := addDocument(t, store, a, "trigger.txt")
	addDocument(t, store, b, "b.txt")

	sink.store, sink.folder, sink.trigger = store, a, trigger.ID
	return store, tree, a, b
}

func TestDeleteTree_StopsOnFirstFailure(t *testing.T) {
	store, tree, a, b := newFailingTree(t)

	failed, err := store.DeleteTree(tree.ID, false)
	require.Error(t, err)
	assert.ErrorIs(t, err, objectstore.ErrConstraintViolation)
	assert.Equal(t, []string{a.ID}, failed)

	var merr *multierror.Error
	require.ErrorAs(t, err, &merr)
	assert.Len(t, merr.Errors, 1)

	// the walk stopped before b and the tree folder itself
	for _, id := range []string{tree.ID, a.ID, b.ID} {
		_, ok := store.GetObjectByID(id)
		assert.True(t, ok, id)
	}
	assert.Equal(t, 1, b.ChildCount())
}

func TestDeleteTree_ContinueOnFailure(t *testing.T) {
	store, tree, a, b := newFailingTree(t)

	failed, err := store.DeleteTree(tree.ID, true)
	require.Error(t, err)
	assert.Equal(t, []string{a.ID, tree.ID}, failed)

	var merr *multierror.Error
	require.ErrorAs(t, err, &merr)
	assert.Len(t, merr.Errors, 2)

	_, ok := store.GetObjectByID(b.ID)
	assert.False(t, ok)
	_, ok = store.GetObjectByPath("/tree/a/late.txt")
	assert.True(t, ok)
}
