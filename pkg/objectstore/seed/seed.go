// Package seed loads a repository tree from a YAML description and exports
// a store's tree back into the same format.
//
// A seed file looks like this:
//
//	folders:
//	  - name: Docs
//	    documents:
//	      - name: readme.txt
//	      - name: spec.odt
//	        versions:
//	          - major: true
//	            comment: first draft
//	        checkedOutBy: alice
//	links:
//	  - path: /Docs/readme.txt
//	    folder: /Shared
//
// A document with versions is loaded as a versioned document; one marked
// versioned or checked out without versions gets a single major version.
// Links file an existing document in one more folder.
package seed

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/hashicorp/go-multierror"
	"github.com/tendant/simple-cmis/pkg/objectstore"
	"gopkg.in/yaml.v3"
)

// File is the root of a seed description; its folders and documents are
// filed in the root folder.
type File struct {
	Folders   []Folder   `yaml:"folders,omitempty"`
	Documents []Document `yaml:"documents,omitempty"`
	Links     []Link     `yaml:"links,omitempty"`
}

type Folder struct {
	Name      string     `yaml:"name"`
	CreatedBy string     `yaml:"createdBy,omitempty"`
	Folders   []Folder   `yaml:"folders,omitempty"`
	Documents []Document `yaml:"documents,omitempty"`
}

type Document struct {
	Name         string    `yaml:"name"`
	CreatedBy    string    `yaml:"createdBy,omitempty"`
	Versioned    bool      `yaml:"versioned,omitempty"`
	Versions     []Version `yaml:"versions,omitempty"`
	CheckedOutBy string    `yaml:"checkedOutBy,omitempty"`
}

type Version struct {
	Major   bool   `yaml:"major,omitempty"`
	User    string `yaml:"user,omitempty"`
	Comment string `yaml:"comment,omitempty"`
}

// Link files the document at Path in the folder at Folder as well.
type Link struct {
	Path   string `yaml:"path"`
	Folder string `yaml:"folder"`
}

func (d Document) isVersioned() bool {
	return d.Versioned || len(d.Versions) > 0 || d.CheckedOutBy != ""
}

// Parse decodes a seed description. Unknown keys are rejected.
func Parse(r io.Reader) (*File, error) {
	var f File
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil {
		if errors.Is(err, io.EOF) {
			return &f, nil
		}
		return nil, fmt.Errorf("failed to parse seed: %w", err)
	}
	return &f, nil
}

// Load parses r and applies it to store.
func Load(store *objectstore.ObjectStore, r io.Reader) error {
	f, err := Parse(r)
	if err != nil {
		return err
	}
	return Apply(store, f)
}

// LoadFile loads the seed file at path into store.
func LoadFile(store *objectstore.ObjectStore, path string) error {
	fh, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open seed file: %w", err)
	}
	defer fh.Close()

	if err := Load(store, fh); err != nil {
		return fmt.Errorf("seed file %s: %w", path, err)
	}
	return nil
}

// Apply creates the described tree below the root folder of store. Entries
// that fail are skipped together with everything below them; the remaining
// entries are still created and all failures are returned together.
func Apply(store *objectstore.ObjectStore, f *File) error {
	l := &loader{store: store}
	root := store.RootFolder()

	for _, sub := range f.Folders {
		l.folder(root, sub)
	}
	for _, doc := range f.Documents {
		l.document(root, doc)
	}
	for _, link := range f.Links {
		l.link(link)
	}
	return l.errs.ErrorOrNil()
}

type loader struct {
	store *objectstore.ObjectStore
	errs  *multierror.Error
}

func (l *loader) fail(path string, err error) {
	l.errs = multierror.Append(l.errs, fmt.Errorf("%s: %w", path, err))
}

func userOr(user string) string {
	if user == "" {
		return objectstore.DefaultAdminUser
	}
	return user
}

func childPath(parent *objectstore.Folder, name string) string {
	p := parent.Path()
	if p == objectstore.PathSeparator {
		return p + name
	}
	return p + objectstore.PathSeparator + name
}

func (l *loader) folder(parent *objectstore.Folder, desc Folder) {
	f := l.store.CreateFolder(desc.Name, nil)
	f.Touch(userOr(desc.CreatedBy))
	if err := parent.AddChild(f); err != nil {
		l.fail(childPath(parent, desc.Name), err)
		return
	}

	for _, sub := range desc.Folders {
		l.folder(f, sub)
	}
	for _, doc := range desc.Documents {
		l.document(f, doc)
	}
}

func (l *loader) document(parent *objectstore.Folder, desc Document) {
	path := childPath(parent, desc.Name)
	if !desc.isVersioned() {
		doc := l.store.CreateDocument(desc.Name)
		doc.Touch(userOr(desc.CreatedBy))
		if err := parent.AddChild(doc); err != nil {
			l.fail(path, err)
		}
		return
	}

	doc := l.store.CreateVersionedDocument(desc.Name)
	doc.Touch(userOr(desc.CreatedBy))
	for _, v := range desc.Versions {
		doc.AddVersion(v.Major, userOr(v.User), v.Comment)
	}
	// a versioned document is never filed without a version
	if len(desc.Versions) == 0 {
		doc.AddVersion(true, userOr(desc.CreatedBy), "")
	}
	if err := parent.AddChild(doc); err != nil {
		l.fail(path, err)
		// drop the versions that were stored for the rejected document
		for _, v := range doc.Versions() {
			if err := l.store.RemoveVersion(v); err != nil {
				l.fail(path, err)
			}
		}
		return
	}

	if desc.CheckedOutBy != "" {
		if _, err := doc.CheckOut(desc.CheckedOutBy); err != nil {
			l.fail(path, err)
		}
	}
}

func (l *loader) link(link Link) {
	obj, ok := l.store.GetObjectByPath(link.Path)
	if !ok {
		l.fail(link.Path, objectstore.ErrObjectNotFound)
		return
	}
	doc, ok := obj.(objectstore.MultiFiling)
	if !ok {
		l.fail(link.Path, fmt.Errorf("only documents can be linked: %w", objectstore.ErrInvalidArgument))
		return
	}

	target, ok := l.store.GetObjectByPath(link.Folder)
	if !ok {
		l.fail(link.Folder, objectstore.ErrObjectNotFound)
		return
	}
	folder, ok := target.(*objectstore.Folder)
	if !ok {
		l.fail(link.Folder, fmt.Errorf("link target is not a folder: %w", objectstore.ErrInvalidArgument))
		return
	}

	if err := folder.AddChild(doc); err != nil {
		l.fail(link.Path, err)
	}
}
