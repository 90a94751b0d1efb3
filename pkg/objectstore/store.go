package objectstore

import (
	"errors"
	"log/slog"
	"sort"
	"sync"
	"time"
)

// ObjectStore is the registry of every entity in one repository. It maps
// identifiers to entities, resolves paths and owns the repository's Lock
// Gate.
type ObjectStore struct {
	repositoryID string
	rootName     string
	adminUser    string

	// mu guards objects and root; it makes single-key operations safe
	mu      sync.RWMutex
	objects map[string]StoredObject
	root    *Folder

	// gate serializes compound operations, see Lock
	gate sync.Mutex

	ids    *IDGenerator
	events EventSink
	logger *slog.Logger
	clock  func() time.Time
}

// Option represents a functional option for configuring the store
type Option func(*ObjectStore)

// WithIDGenerator makes the store draw identifiers from g instead of the
// process-wide generator
func WithIDGenerator(g *IDGenerator) Option {
	return func(s *ObjectStore) {
		s.ids = g
	}
}

// WithEventSink sets the event sink for the store
func WithEventSink(sink EventSink) Option {
	return func(s *ObjectStore) {
		s.events = sink
	}
}

// WithLogger sets the logger for the store
func WithLogger(logger *slog.Logger) Option {
	return func(s *ObjectStore) {
		s.logger = logger
	}
}

// WithClock sets the time source used for timestamps
func WithClock(clock func() time.Time) Option {
	return func(s *ObjectStore) {
		s.clock = clock
	}
}

// WithRootFolderName sets the name of the root folder
func WithRootFolderName(name string) Option {
	return func(s *ObjectStore) {
		s.rootName = name
	}
}

// WithAdminUser sets the creator recorded on the root folder
func WithAdminUser(user string) Option {
	return func(s *ObjectStore) {
		s.adminUser = user
	}
}

// New creates a store for the given repository and persists its root folder
func New(repositoryID string, options ...Option) (*ObjectStore, error) {
	if repositoryID == "" {
		return nil, errors.New("repository id is required")
	}

	s := &ObjectStore{
		repositoryID: repositoryID,
		rootName:     DefaultRootFolderName,
		adminUser:    DefaultAdminUser,
		objects:      make(map[string]StoredObject),
	}
	for _, option := range options {
		option(s)
	}

	if s.ids == nil {
		s.ids = defaultIDs
	}
	if s.events == nil {
		s.events = NewNoopEventSink()
	}
	if s.logger == nil {
		s.logger = slog.Default()
	}
	if s.clock == nil {
		s.clock = time.Now
	}

	root := s.newRootFolder()
	s.root = root
	s.Store(root)

	s.logger.Debug("Object store created", "repository_id", repositoryID, "root_folder_id", root.ID)
	return s, nil
}

func (s *ObjectStore) now() time.Time {
	return s.clock().UTC()
}

// RepositoryID returns the identifier of the repository the store holds
func (s *ObjectStore) RepositoryID() string {
	return s.repositoryID
}

// RootFolder returns the root folder
func (s *ObjectStore) RootFolder() *Folder {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.root
}

func (s *ObjectStore) isRootFolder(f *Folder) bool {
	return s.RootFolder() == f
}

func (s *ObjectStore) newRootFolder() *Folder {
	root := &Folder{
		Object: Object{
			Name:         s.rootName,
			RepositoryID: s.repositoryID,
			TypeID:       string(BaseTypeFolder),
			store:        s,
		},
	}
	root.Touch(s.adminUser)
	return root
}

// Lock acquires the Lock Gate. Every Lock must be paired with an Unlock on
// all exit paths; prefer WithLock.
func (s *ObjectStore) Lock() {
	s.gate.Lock()
}

// Unlock releases the Lock Gate
func (s *ObjectStore) Unlock() {
	s.gate.Unlock()
}

// WithLock runs fn while holding the Lock Gate and releases it however fn
// returns.
func (s *ObjectStore) WithLock(fn func() error) error {
	s.gate.Lock()
	defer s.gate.Unlock()
	return fn()
}

// ensureID assigns the next identifier to obj if it has none and binds it
// to the store. The assignment happens under mu so an entity stored from two
// goroutines keeps one identifier.
func (s *ObjectStore) ensureID(obj StoredObject) string {
	s.mu.Lock()
	defer s.mu.Unlock()

	b := obj.Base()
	if b.store == nil {
		b.store = s
	}
	if b.ID == "" {
		b.ID = s.ids.NextID()
	}
	return b.ID
}

// Store inserts or updates obj and returns its identifier. An entity without
// an identifier is assigned the next one from the generator.
func (s *ObjectStore) Store(obj StoredObject) string {
	id := s.ensureID(obj)

	s.mu.Lock()
	s.objects[id] = obj
	s.mu.Unlock()

	s.events.ObjectStored(obj)
	return id
}

// GetObjectByID returns the entity stored under id
func (s *ObjectStore) GetObjectByID(id string) (StoredObject, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	obj, exists := s.objects[id]
	return obj, exists
}

func (s *ObjectStore) getFolder(id string) (*Folder, bool) {
	obj, ok := s.GetObjectByID(id)
	if !ok {
		return nil, false
	}
	f, ok := obj.(*Folder)
	return f, ok
}

// values returns a snapshot of the stored entities. Path resolution on the
// snapshot happens after the read lock is released.
func (s *ObjectStore) values() []StoredObject {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]StoredObject, 0, len(s.objects))
	for _, obj := range s.objects {
		result = append(result, obj)
	}
	return result
}

// GetObjectByPath scans the registry for the entity reachable under path.
// Multi-filed entities match under any of their parents. Paths are expected
// to be unique; if two entities resolve to the same path either may be
// returned.
func (s *ObjectStore) GetObjectByPath(path string) (StoredObject, bool) {
	if path == "" {
		return nil, false
	}
	for _, obj := range s.values() {
		switch o := obj.(type) {
		case SingleFiling:
			if o.Path() == path {
				return obj, true
			}
		case MultiFiling:
			for _, p := range s.multiFiledPaths(o) {
				if p == path {
					return obj, true
				}
			}
		}
	}
	return nil, false
}

// GetIDs returns a snapshot of all identifiers in ascending order
func (s *ObjectStore) GetIDs() []string {
	s.mu.RLock()
	ids := make([]string, 0, len(s.objects))
	for id := range s.objects {
		ids = append(ids, id)
	}
	s.mu.RUnlock()

	sort.Slice(ids, func(i, j int) bool {
		return compareIDs(ids[i], ids[j]) < 0
	})
	return ids
}

// GetObjectCount returns the number of stored entities
func (s *ObjectStore) GetObjectCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.objects)
}

// Clear removes every entity and inserts a new root folder. It acquires the
// Lock Gate and must not be called while holding it.
func (s *ObjectStore) Clear() {
	s.gate.Lock()
	defer s.gate.Unlock()

	root := s.newRootFolder()
	s.ensureID(root)

	s.mu.Lock()
	s.objects = map[string]StoredObject{root.ID: root}
	s.root = root
	s.mu.Unlock()

	s.events.RepositoryCleared(s.repositoryID)
	s.logger.Info("Repository cleared", "repository_id", s.repositoryID, "root_folder_id", root.ID)
}

// children returns the entities filed directly in the folder.
func (s *ObjectStore) children(folderID string) []StoredObject {
	var result []StoredObject
	// an unpersisted folder has no children; every parentless entity would
	// otherwise match
	if folderID == "" {
		return result
	}
	for _, obj := range s.values() {
		if isFiledIn(obj, folderID) {
			result = append(result, obj)
		}
	}
	return result
}

func (s *ObjectStore) hasChild(folderID, name string) bool {
	for _, child := range s.children(folderID) {
		if child.Base().Name == name {
			return true
		}
	}
	return false
}

// Factory operations. The returned entities carry no identifier until they
// are persisted.

// CreateDocument constructs an unpersisted document
func (s *ObjectStore) CreateDocument(name string) *Document {
	return &Document{
		Object: s.newObject(name, BaseTypeDocument),
	}
}

// CreateVersionedDocument constructs an unpersisted versioned document
func (s *ObjectStore) CreateVersionedDocument(name string) *VersionedDocument {
	return &VersionedDocument{
		Object: s.newObject(name, BaseTypeDocument),
	}
}

// CreateFolder constructs an unpersisted folder. parent may be nil; the
// folder is then filed by Folder.AddChild.
func (s *ObjectStore) CreateFolder(name string, parent *Folder) *Folder {
	f := &Folder{
		Object: s.newObject(name, BaseTypeFolder),
	}
	if parent != nil {
		f.parentID = parent.ID
	}
	return f
}

func (s *ObjectStore) newObject(name string, baseType BaseTypeID) Object {
	return Object{
		Name:         name,
		RepositoryID: s.repositoryID,
		TypeID:       string(baseType),
		store:        s,
	}
}

// Deletion

// removeObject drops id from the registry and reports what was removed.
func (s *ObjectStore) removeObject(id string) (StoredObject, bool) {
	s.mu.Lock()
	obj, exists := s.objects[id]
	if exists {
		delete(s.objects, id)
	}
	s.mu.Unlock()

	if exists {
		s.events.ObjectDeleted(obj)
	}
	return obj, exists
}

// DeleteObject removes the entity stored under id.
//
// Folders must be empty and the root folder cannot be deleted; the emptiness
// check and the removal of a folder happen under the Lock Gate, so
// DeleteObject must not be called while holding it. Deleting a version
// detaches it from its document; when the last version goes, the document
// goes with it. Any other entity is removed as is.
func (s *ObjectStore) DeleteObject(id string) error {
	obj, ok := s.GetObjectByID(id)
	if !ok {
		return objectError(id, "delete", ErrObjectNotFound)
	}
	if _, ok := obj.(*Folder); ok {
		return s.WithLock(func() error {
			return s.deleteObject(id)
		})
	}
	return s.deleteObject(id)
}

// deleteObject is DeleteObject for callers that already hold the Lock Gate.
func (s *ObjectStore) deleteObject(id string) error {
	obj, ok := s.GetObjectByID(id)
	if !ok {
		return objectError(id, "delete", ErrObjectNotFound)
	}

	switch o := obj.(type) {
	case *Folder:
		return s.deleteFolder(o)
	case *DocumentVersion:
		return s.deleteVersion(o)
	default:
		s.removeObject(id)
		return nil
	}
}

func (s *ObjectStore) deleteFolder(f *Folder) error {
	if s.isRootFolder(f) {
		return objectError(f.ID, "delete", ErrConstraintViolation)
	}
	if f.ChildCount() > 0 {
		return objectError(f.ID, "delete", ErrConstraintViolation)
	}
	s.removeObject(f.ID)
	return nil
}

func (s *ObjectStore) deleteVersion(v *DocumentVersion) error {
	doc, ok := v.ParentDocument()
	if !ok {
		// the owning document is already gone
		s.removeObject(v.ID)
		return nil
	}

	othersExist, err := doc.DeleteVersion(v)
	if err != nil {
		return err
	}
	s.removeObject(v.ID)
	if !othersExist {
		s.removeObject(doc.ID)
	}
	return nil
}

// DeleteAllVersions removes a versioned document together with every
// version in its chain.
func (s *ObjectStore) DeleteAllVersions(id string) error {
	obj, ok := s.GetObjectByID(id)
	if !ok {
		return objectError(id, "delete all versions", ErrObjectNotFound)
	}
	doc, ok := obj.(*VersionedDocument)
	if !ok {
		return objectError(id, "delete all versions", ErrInvalidArgument)
	}

	for _, v := range doc.Versions() {
		if _, err := doc.DeleteVersion(v); err != nil {
			return err
		}
		s.removeObject(v.ID)
	}
	s.removeObject(doc.ID)
	return nil
}

// RemoveVersion drops a version's registry entry without touching its
// document's chain.
func (s *ObjectStore) RemoveVersion(v *DocumentVersion) error {
	if _, ok := s.removeObject(v.ID); !ok {
		return objectError(v.ID, "remove version", ErrInvalidArgument)
	}
	return nil
}

// GetCheckedOutDocuments returns the checked-out versioned documents sorted
// by orderBy, see ParseOrderBy.
func (s *ObjectStore) GetCheckedOutDocuments(orderBy string) ([]*VersionedDocument, error) {
	less, err := ParseOrderBy(orderBy)
	if err != nil {
		return nil, err
	}

	var result []*VersionedDocument
	for _, obj := range s.values() {
		if doc, ok := obj.(*VersionedDocument); ok && doc.IsCheckedOut() {
			result = append(result, doc)
		}
	}

	sort.SliceStable(result, func(i, j int) bool {
		return less(result[i], result[j])
	})
	return result, nil
}
