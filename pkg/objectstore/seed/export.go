package seed

import (
	"io"

	"github.com/tendant/simple-cmis/pkg/objectstore"
	"gopkg.in/yaml.v3"
)

// Export describes the tree below the root folder of store. A document
// filed in several folders is written under the first folder reached and
// linked from the others. Private working copies are not exported; a
// checked-out document carries CheckedOutBy instead.
func Export(store *objectstore.ObjectStore) *File {
	e := &exporter{store: store, seen: make(map[string]string)}
	f := &File{}
	f.Folders, f.Documents = e.children(store.RootFolder())
	f.Links = e.links
	return f
}

// Write encodes f as YAML.
func Write(w io.Writer, f *File) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(f); err != nil {
		return err
	}
	return enc.Close()
}

type exporter struct {
	store *objectstore.ObjectStore
	// seen maps exported document ids to the path they were written under
	seen  map[string]string
	links []Link
}

func (e *exporter) children(parent *objectstore.Folder) ([]Folder, []Document) {
	var folders []Folder
	var docs []Document
	for _, child := range parent.Children(-1, 0) {
		switch c := child.(type) {
		case *objectstore.Folder:
			sub := Folder{Name: c.Name, CreatedBy: c.CreatedBy}
			sub.Folders, sub.Documents = e.children(c)
			folders = append(folders, sub)
		case objectstore.MultiFiling:
			id := c.Base().ID
			path := childPath(parent, c.Base().Name)
			if _, ok := e.seen[id]; ok {
				e.links = append(e.links, Link{Path: e.seen[id], Folder: parent.Path()})
				continue
			}
			e.seen[id] = path
			docs = append(docs, exportDocument(c))
		}
	}
	return folders, docs
}

func exportDocument(obj objectstore.MultiFiling) Document {
	b := obj.Base()
	doc := Document{Name: b.Name, CreatedBy: b.CreatedBy}

	vd, ok := obj.(*objectstore.VersionedDocument)
	if !ok {
		return doc
	}
	doc.Versioned = true
	for _, v := range vd.Versions() {
		if v.IsPWC() {
			continue
		}
		doc.Versions = append(doc.Versions, Version{Major: v.IsMajor(), User: v.CreatedBy, Comment: v.Comment})
	}
	doc.CheckedOutBy = vd.CheckedOutBy()
	return doc
}
