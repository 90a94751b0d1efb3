package objectstore

import (
	"fmt"

	"github.com/hashicorp/go-multierror"
)

// DeleteTree deletes a folder and everything below it, children first,
// while holding the Lock Gate. Documents that are also filed in a folder
// outside the tree are only unfiled. With continueOnFailure the walk goes on
// after a failed deletion; the identifiers that could not be deleted are
// returned along with the aggregated errors.
func (s *ObjectStore) DeleteTree(folderID string, continueOnFailure bool) ([]string, error) {
	s.gate.Lock()
	defer s.gate.Unlock()

	obj, ok := s.GetObjectByID(folderID)
	if !ok {
		return nil, objectError(folderID, "delete tree", ErrObjectNotFound)
	}
	folder, ok := obj.(*Folder)
	if !ok {
		return nil, objectError(folderID, "delete tree", ErrInvalidArgument)
	}
	if s.isRootFolder(folder) {
		return nil, objectError(folderID, "delete tree", ErrConstraintViolation)
	}

	w := &treeDeleter{store: s, continueOnFailure: continueOnFailure}
	w.deleteFolder(folder)

	if err := w.errs.ErrorOrNil(); err != nil {
		s.logger.Warn("Delete tree finished with failures",
			"folder_id", folderID, "failed", len(w.failed), "error", err)
		return w.failed, err
	}
	s.logger.Debug("Delete tree finished", "folder_id", folderID)
	return nil, nil
}

type treeDeleter struct {
	store             *ObjectStore
	continueOnFailure bool
	errs              *multierror.Error
	failed            []string
}

func (w *treeDeleter) fail(id string, err error) {
	w.failed = append(w.failed, id)
	w.errs = multierror.Append(w.errs, err)
}

func (w *treeDeleter) stopped() bool {
	return !w.continueOnFailure && w.errs != nil
}

func (w *treeDeleter) deleteFolder(f *Folder) {
	for _, child := range f.Children(-1, 0) {
		if w.stopped() {
			return
		}
		id := child.Base().ID

		switch c := child.(type) {
		case *Folder:
			w.deleteFolder(c)
		case MultiFiling:
			if len(c.ParentIDs()) > 1 {
				c.RemoveParent(f)
				w.store.Store(c)
				continue
			}
			if err := w.deleteDocument(c); err != nil {
				w.fail(id, err)
			}
		default:
			w.fail(id, fmt.Errorf("unexpected child %s of folder %s: %w", id, f.ID, ErrInvalidArgument))
		}
	}

	if w.stopped() {
		return
	}
	if err := w.store.deleteObject(f.ID); err != nil {
		w.fail(f.ID, err)
	}
}

func (w *treeDeleter) deleteDocument(doc MultiFiling) error {
	if _, ok := doc.(*VersionedDocument); ok {
		return w.store.DeleteAllVersions(doc.Base().ID)
	}
	return w.store.deleteObject(doc.Base().ID)
}
