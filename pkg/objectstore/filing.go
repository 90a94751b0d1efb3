package objectstore

import (
	"slices"
	"sync"
)

// multiFiling tracks the parent folders of a multi-filed entity.
type multiFiling struct {
	mu        sync.RWMutex
	parentIDs []string
}

// ParentIDs returns a copy of the parent folder identifiers
func (m *multiFiling) ParentIDs() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return slices.Clone(m.parentIDs)
}

// IsFiledIn reports whether the entity is filed in the given folder
func (m *multiFiling) IsFiledIn(folderID string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return slices.Contains(m.parentIDs, folderID)
}

func (m *multiFiling) addParentID(id string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !slices.Contains(m.parentIDs, id) {
		m.parentIDs = append(m.parentIDs, id)
	}
}

func (m *multiFiling) removeParentID(id string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.parentIDs = slices.DeleteFunc(m.parentIDs, func(p string) bool { return p == id })
}

// joinPath appends segment to a parent path. The root path already ends in
// the separator.
func joinPath(parentPath, segment string) string {
	if parentPath == PathSeparator {
		return parentPath + segment
	}
	return parentPath + PathSeparator + segment
}

// Paths returns every path under which obj is reachable: one for a filed
// folder, one per parent for multi-filed documents, none for versions and
// unfiled entities.
func (s *ObjectStore) Paths(obj StoredObject) []string {
	switch o := obj.(type) {
	case SingleFiling:
		if p := o.Path(); p != "" {
			return []string{p}
		}
	case MultiFiling:
		return s.multiFiledPaths(o)
	}
	return nil
}

func (s *ObjectStore) multiFiledPaths(o MultiFiling) []string {
	var paths []string
	for _, parentID := range o.ParentIDs() {
		parent, ok := s.getFolder(parentID)
		if !ok {
			continue
		}
		parentPath := parent.Path()
		if parentPath == "" {
			continue
		}
		paths = append(paths, joinPath(parentPath, o.PathSegment()))
	}
	return paths
}

// isFiledIn reports whether obj is a direct child of the folder.
func isFiledIn(obj StoredObject, folderID string) bool {
	switch o := obj.(type) {
	case *Folder:
		return o.ParentID() == folderID
	case MultiFiling:
		return o.IsFiledIn(folderID)
	}
	return false
}

// Move files obj in target instead of source under the Lock Gate. Folders
// may not be moved below themselves and the root folder cannot be moved.
func (s *ObjectStore) Move(obj Fileable, source, target *Folder) error {
	id := obj.Base().ID
	return s.WithLock(func() error {
		if _, ok := s.GetObjectByID(id); !ok {
			return objectError(id, "move", ErrObjectNotFound)
		}
		if _, ok := s.GetObjectByID(target.ID); !ok {
			return objectError(target.ID, "move", ErrObjectNotFound)
		}
		if !isFiledIn(obj, source.ID) {
			return objectError(id, "move", ErrInvalidArgument)
		}
		if s.hasChild(target.ID, obj.Base().Name) {
			return objectError(target.ID, "move", ErrNameConstraintViolation)
		}

		switch o := obj.(type) {
		case *Folder:
			if s.isRootFolder(o) {
				return objectError(id, "move", ErrConstraintViolation)
			}
			if o.ID == target.ID || s.isAncestor(o.ID, target) {
				return objectError(id, "move", ErrInvalidArgument)
			}
			o.setParentID(target.ID)
		case MultiFiling:
			o.RemoveParent(source)
			o.AddParent(target)
		default:
			return objectError(id, "move", ErrInvalidArgument)
		}
		s.Store(obj)
		return nil
	})
}

// isAncestor reports whether ancestorID lies on the parent chain of f.
func (s *ObjectStore) isAncestor(ancestorID string, f *Folder) bool {
	seen := make(map[string]bool)
	for cur := f; cur != nil && !seen[cur.ID]; {
		seen[cur.ID] = true
		parentID := cur.ParentID()
		if parentID == "" {
			return false
		}
		if parentID == ancestorID {
			return true
		}
		next, ok := s.getFolder(parentID)
		if !ok {
			return false
		}
		cur = next
	}
	return false
}
