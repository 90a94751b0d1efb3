package objectstore

import (
	"sort"
	"strings"
	"sync"
)

// Folder is a container entity. Every folder except the root has exactly one
// parent; children are found by scanning the registry for entities filed in
// the folder.
type Folder struct {
	Object

	mu       sync.RWMutex
	parentID string
}

// BaseTypeID returns cmis:folder
func (f *Folder) BaseTypeID() BaseTypeID {
	return BaseTypeFolder
}

// ParentID returns the identifier of the parent folder, empty for the root
// and for folders not filed yet.
func (f *Folder) ParentID() string {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.parentID
}

func (f *Folder) setParentID(id string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.parentID = id
}

// ParentIDs returns the parent identifier as a slice
func (f *Folder) ParentIDs() []string {
	if id := f.ParentID(); id != "" {
		return []string{id}
	}
	return nil
}

// IsRoot reports whether f is the root folder of its store
func (f *Folder) IsRoot() bool {
	return f.store != nil && f.store.isRootFolder(f)
}

// Persist stores the folder and returns its identifier
func (f *Folder) Persist() string {
	return f.store.Store(f)
}

// Path resolves the folder's path by walking the parent chain. The root's
// path is "/". A folder whose chain does not reach the root has no path and
// Path returns "".
func (f *Folder) Path() string {
	if f.IsRoot() {
		return PathSeparator
	}

	var segments []string
	seen := make(map[*Folder]bool)
	for cur := f; !cur.IsRoot(); {
		if seen[cur] {
			return ""
		}
		seen[cur] = true
		segments = append(segments, cur.Name)

		parentID := cur.ParentID()
		if parentID == "" {
			return ""
		}
		parent, ok := f.store.getFolder(parentID)
		if !ok {
			return ""
		}
		cur = parent
	}

	// segments were collected leaf first
	for i, j := 0, len(segments)-1; i < j; i, j = i+1, j-1 {
		segments[i], segments[j] = segments[j], segments[i]
	}
	return PathSeparator + strings.Join(segments, PathSeparator)
}

// Children returns the entities filed in the folder ordered by name. A
// negative maxItems returns all remaining children; skipCount children are
// left out first.
func (f *Folder) Children(maxItems, skipCount int) []StoredObject {
	children := f.store.children(f.ID)
	sort.Slice(children, func(i, j int) bool {
		return children[i].Base().Name < children[j].Base().Name
	})

	if skipCount > 0 {
		if skipCount >= len(children) {
			return []StoredObject{}
		}
		children = children[skipCount:]
	}
	if maxItems >= 0 && maxItems < len(children) {
		children = children[:maxItems]
	}
	return children
}

// FolderChildren returns only the direct child folders, ordered by name
func (f *Folder) FolderChildren() []*Folder {
	var folders []*Folder
	for _, child := range f.Children(-1, 0) {
		if sub, ok := child.(*Folder); ok {
			folders = append(folders, sub)
		}
	}
	return folders
}

// ChildCount returns the number of entities filed in the folder
func (f *Folder) ChildCount() int {
	return len(f.store.children(f.ID))
}

// HasChild reports whether a direct child is named name. Callers that act on
// the answer must hold the Lock Gate.
func (f *Folder) HasChild(name string) bool {
	return f.store.hasChild(f.ID, name)
}

// AddChild files child in the folder and persists it. The name check and
// the insert happen under the Lock Gate, so two callers adding the same name
// concurrently see exactly one success and one ErrNameConstraintViolation.
func (f *Folder) AddChild(child Fileable) error {
	name := child.Base().Name
	if name == "" || strings.Contains(name, PathSeparator) {
		return objectError(f.ID, "add child", ErrInvalidArgument)
	}

	return f.store.WithLock(func() error {
		if _, ok := f.store.GetObjectByID(f.ID); !ok {
			return objectError(f.ID, "add child", ErrObjectNotFound)
		}
		if f.store.hasChild(f.ID, name) {
			return objectError(f.ID, "add child", ErrNameConstraintViolation)
		}

		switch c := child.(type) {
		case *Folder:
			if f.store.isRootFolder(c) || c == f {
				return objectError(f.ID, "add child", ErrInvalidArgument)
			}
			if p := c.ParentID(); p != "" && p != f.ID {
				return objectError(c.ID, "add child", ErrInvalidArgument)
			}
			c.setParentID(f.ID)
		case MultiFiling:
			c.AddParent(f)
		default:
			return objectError(f.ID, "add child", ErrInvalidArgument)
		}

		f.store.Store(child)
		return nil
	})
}

// MoveTo files the folder under target, see ObjectStore.Move
func (f *Folder) MoveTo(target *Folder) error {
	parent, ok := f.store.getFolder(f.ParentID())
	if !ok {
		return objectError(f.ID, "move", ErrConstraintViolation)
	}
	return f.store.Move(f, parent, target)
}
