package objectstore

import (
	"time"
)

// BaseTypeID is the CMIS base type of a stored object.
type BaseTypeID string

// Base type constants (typed).
const (
	BaseTypeFolder   BaseTypeID = "cmis:folder"
	BaseTypeDocument BaseTypeID = "cmis:document"
)

// PathSeparator separates path segments. The root folder's path is the
// separator alone.
const PathSeparator = "/"

// Default attributes of the root folder.
const (
	DefaultRootFolderName = "RootFolder"
	DefaultAdminUser      = "Admin"
)

// Object holds the attributes every stored entity has in common. It is
// embedded by Folder, Document, VersionedDocument and DocumentVersion.
//
// ID stays empty until the entity is persisted for the first time.
type Object struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	RepositoryID string    `json:"repository_id"`
	TypeID       string    `json:"type_id"`
	CreatedBy    string    `json:"created_by,omitempty"`
	ModifiedBy   string    `json:"modified_by,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	ModifiedAt   time.Time `json:"modified_at"`

	store *ObjectStore
}

// Base returns the common attributes of the entity.
func (o *Object) Base() *Object {
	return o
}

// Touch records user as the last modifier at the store's current time. The
// creator and creation time are filled in when still unset.
func (o *Object) Touch(user string) {
	now := time.Now().UTC()
	if o.store != nil {
		now = o.store.now()
	}
	if o.CreatedBy == "" {
		o.CreatedBy = user
	}
	if o.CreatedAt.IsZero() {
		o.CreatedAt = now
	}
	o.ModifiedBy = user
	o.ModifiedAt = now
}

// IsPersisted reports whether the entity has been assigned an identifier.
func (o *Object) IsPersisted() bool {
	return o.ID != ""
}

// StoredObject is any entity that can live in the registry.
type StoredObject interface {
	Base() *Object
	BaseTypeID() BaseTypeID
}

// Fileable is an entity that can be filed in folders.
type Fileable interface {
	StoredObject
	// ParentIDs returns the identifiers of the folders the entity is filed in.
	ParentIDs() []string
}

// SingleFiling is a fileable entity with exactly one resolvable path.
type SingleFiling interface {
	Fileable
	Path() string
}

// MultiFiling is a fileable entity that may be filed in several folders.
// Its paths are computed per parent as parent path + separator + segment.
type MultiFiling interface {
	Fileable
	PathSegment() string
	AddParent(parent *Folder)
	RemoveParent(parent *Folder)
	IsFiledIn(folderID string) bool
}
