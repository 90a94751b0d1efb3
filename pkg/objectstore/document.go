package objectstore

import (
	"fmt"
	"slices"
	"sync"
)

// Document is a single-version, content-bearing leaf entity. It may be filed
// in several folders.
type Document struct {
	Object
	multiFiling
}

// BaseTypeID returns cmis:document
func (d *Document) BaseTypeID() BaseTypeID {
	return BaseTypeDocument
}

// PathSegment returns the name used as the last path segment
func (d *Document) PathSegment() string {
	return d.Name
}

// AddParent files the document in parent
func (d *Document) AddParent(parent *Folder) {
	d.addParentID(parent.ID)
}

// RemoveParent unfiles the document from parent
func (d *Document) RemoveParent(parent *Folder) {
	d.removeParentID(parent.ID)
}

// Persist stores the document and returns its identifier
func (d *Document) Persist() string {
	return d.store.Store(d)
}

// pwcLabel is the version label of a private working copy.
const pwcLabel = "pwc"

// DocumentVersion is one revision in a VersionedDocument's chain. The owning
// document is referenced by identifier.
type DocumentVersion struct {
	Object

	VersionLabel     string `json:"version_label"`
	Comment          string `json:"comment,omitempty"`
	ParentDocumentID string `json:"parent_document_id"`

	major int
	minor int
	pwc   bool
}

// BaseTypeID returns cmis:document
func (v *DocumentVersion) BaseTypeID() BaseTypeID {
	return BaseTypeDocument
}

// IsMajor reports whether the version is a major version
func (v *DocumentVersion) IsMajor() bool {
	return !v.pwc && v.minor == 0
}

// IsPWC reports whether the version is a private working copy
func (v *DocumentVersion) IsPWC() bool {
	return v.pwc
}

// ParentDocument resolves the owning document through the registry
func (v *DocumentVersion) ParentDocument() (*VersionedDocument, bool) {
	obj, ok := v.store.GetObjectByID(v.ParentDocumentID)
	if !ok {
		return nil, false
	}
	doc, ok := obj.(*VersionedDocument)
	return doc, ok
}

// Persist stores the version and returns its identifier
func (v *DocumentVersion) Persist() string {
	return v.store.Store(v)
}

func (v *DocumentVersion) setNumber(major, minor int) {
	v.major = major
	v.minor = minor
	v.VersionLabel = fmt.Sprintf("%d.%d", major, minor)
}

// VersionedDocument owns an ordered chain of DocumentVersions and tracks
// whether it is checked out. It may be filed in several folders.
type VersionedDocument struct {
	Object
	multiFiling

	versionMu    sync.RWMutex
	versions     []*DocumentVersion
	checkedOut   bool
	checkedOutBy string
}

// BaseTypeID returns cmis:document
func (d *VersionedDocument) BaseTypeID() BaseTypeID {
	return BaseTypeDocument
}

// PathSegment returns the name used as the last path segment
func (d *VersionedDocument) PathSegment() string {
	return d.Name
}

// AddParent files the document in parent
func (d *VersionedDocument) AddParent(parent *Folder) {
	d.addParentID(parent.ID)
}

// RemoveParent unfiles the document from parent
func (d *VersionedDocument) RemoveParent(parent *Folder) {
	d.removeParentID(parent.ID)
}

// Persist stores the document and returns its identifier
func (d *VersionedDocument) Persist() string {
	return d.store.Store(d)
}

// IsCheckedOut reports whether a private working copy exists
func (d *VersionedDocument) IsCheckedOut() bool {
	d.versionMu.RLock()
	defer d.versionMu.RUnlock()
	return d.checkedOut
}

// CheckedOutBy returns the user holding the checkout, empty if not checked out
func (d *VersionedDocument) CheckedOutBy() string {
	d.versionMu.RLock()
	defer d.versionMu.RUnlock()
	return d.checkedOutBy
}

// Versions returns the chain oldest first, including a private working copy
func (d *VersionedDocument) Versions() []*DocumentVersion {
	d.versionMu.RLock()
	defer d.versionMu.RUnlock()
	return slices.Clone(d.versions)
}

// PWC returns the private working copy if the document is checked out
func (d *VersionedDocument) PWC() (*DocumentVersion, bool) {
	d.versionMu.RLock()
	defer d.versionMu.RUnlock()
	pwc := d.pwcLocked()
	return pwc, pwc != nil
}

// LatestVersion returns the newest checked-in version, or the newest major
// version when major is set.
func (d *VersionedDocument) LatestVersion(major bool) (*DocumentVersion, bool) {
	d.versionMu.RLock()
	defer d.versionMu.RUnlock()
	latest := d.latestLocked(major)
	return latest, latest != nil
}

func (d *VersionedDocument) latestLocked(major bool) *DocumentVersion {
	for i := len(d.versions) - 1; i >= 0; i-- {
		v := d.versions[i]
		if v.pwc {
			continue
		}
		if !major || v.IsMajor() {
			return v
		}
	}
	return nil
}

func (d *VersionedDocument) pwcLocked() *DocumentVersion {
	for _, v := range d.versions {
		if v.pwc {
			return v
		}
	}
	return nil
}

func (d *VersionedDocument) newVersion(user, comment string) *DocumentVersion {
	v := &DocumentVersion{
		Object: Object{
			Name:         d.Name,
			RepositoryID: d.RepositoryID,
			TypeID:       d.TypeID,
			store:        d.store,
		},
		Comment:          comment,
		ParentDocumentID: d.store.ensureID(d),
	}
	v.Touch(user)
	return v
}

// nextNumber computes the number following the latest checked-in version.
func (d *VersionedDocument) nextNumber(major bool) (int, int) {
	majorNum, minorNum := 0, 0
	if latest := d.latestLocked(false); latest != nil {
		majorNum, minorNum = latest.major, latest.minor
	}
	if major {
		return majorNum + 1, 0
	}
	return majorNum, minorNum + 1
}

// AddVersion appends a new checked-in version and persists it. Labels
// follow major.minor numbering starting at 1.0 (or 0.1 for a minor first
// version).
func (d *VersionedDocument) AddVersion(major bool, user, comment string) *DocumentVersion {
	d.versionMu.Lock()
	v := d.newVersion(user, comment)
	v.setNumber(d.nextNumber(major))
	d.versions = append(d.versions, v)
	d.versionMu.Unlock()

	v.Persist()
	return v
}

// CheckOut creates and persists a private working copy. It fails with
// ErrConstraintViolation when the document is already checked out or has no
// version to work from.
func (d *VersionedDocument) CheckOut(user string) (*DocumentVersion, error) {
	d.versionMu.Lock()
	if d.checkedOut {
		d.versionMu.Unlock()
		return nil, objectError(d.ID, "check out", ErrConstraintViolation)
	}
	if d.latestLocked(false) == nil {
		d.versionMu.Unlock()
		return nil, objectError(d.ID, "check out", ErrConstraintViolation)
	}

	pwc := d.newVersion(user, "")
	pwc.pwc = true
	pwc.VersionLabel = pwcLabel
	d.versions = append(d.versions, pwc)
	d.checkedOut = true
	d.checkedOutBy = user
	d.versionMu.Unlock()

	pwc.Persist()
	d.Persist()
	return pwc, nil
}

// CheckIn turns the private working copy into the latest version.
func (d *VersionedDocument) CheckIn(major bool, user, comment string) (*DocumentVersion, error) {
	d.versionMu.Lock()
	pwc := d.pwcLocked()
	if !d.checkedOut || pwc == nil {
		d.versionMu.Unlock()
		return nil, objectError(d.ID, "check in", ErrNotCheckedOut)
	}

	majorNum, minorNum := d.nextNumber(major)
	pwc.pwc = false
	pwc.setNumber(majorNum, minorNum)
	pwc.Comment = comment
	pwc.Touch(user)
	// the checked-in version moves to the end of the chain
	d.versions = slices.DeleteFunc(d.versions, func(v *DocumentVersion) bool { return v == pwc })
	d.versions = append(d.versions, pwc)
	d.checkedOut = false
	d.checkedOutBy = ""
	d.versionMu.Unlock()

	pwc.Persist()
	d.Persist()
	return pwc, nil
}

// CancelCheckOut discards the private working copy and removes it from the
// registry.
func (d *VersionedDocument) CancelCheckOut() error {
	d.versionMu.Lock()
	pwc := d.pwcLocked()
	if !d.checkedOut || pwc == nil {
		d.versionMu.Unlock()
		return objectError(d.ID, "cancel check out", ErrNotCheckedOut)
	}
	d.detachLocked(pwc)
	d.versionMu.Unlock()

	return d.store.RemoveVersion(pwc)
}

// DeleteVersion detaches v from the chain and reports whether other versions
// remain. Detaching the private working copy ends the checkout. It fails
// with ErrInvalidArgument when v is not part of the chain.
func (d *VersionedDocument) DeleteVersion(v *DocumentVersion) (bool, error) {
	d.versionMu.Lock()
	defer d.versionMu.Unlock()

	if !slices.Contains(d.versions, v) {
		return false, objectError(v.ID, "delete version", ErrInvalidArgument)
	}
	d.detachLocked(v)
	return len(d.versions) > 0, nil
}

func (d *VersionedDocument) detachLocked(v *DocumentVersion) {
	d.versions = slices.DeleteFunc(d.versions, func(cur *DocumentVersion) bool { return cur == v })
	if v.pwc {
		d.checkedOut = false
		d.checkedOutBy = ""
	}
}
