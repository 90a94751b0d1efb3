// Package objectstore provides an in-memory, hierarchical object repository
// for a content-management tree of folders, documents and document versions.
//
// A single ObjectStore holds every entity keyed by identifier. Entities are
// constructed by the store's factory methods, mutated by their callers and
// then persisted, which assigns an identifier from a monotonic generator and
// inserts them into the registry.
//
// # Locking
//
// Single-key operations (Store, GetObjectByID) are safe for concurrent use
// without further synchronization. DeleteObject takes the Lock Gate itself
// when it removes a folder, so it must not be called while holding it.
// Sequences that must observe
// a consistent repository, for example "no sibling named X exists" followed by
// "file X under the folder", are wrapped in the store's Lock Gate:
//
//	err := store.WithLock(func() error {
//		if folder.HasChild(name) {
//			return objectstore.ErrNameConstraintViolation
//		}
//		...
//	})
//
// The gate is coarse-grained: it serializes compound operations for the whole
// repository. It is not reentrant.
//
// Back references (a folder's parent, a version's document, a document's
// parents) are identifiers resolved through the registry, never owning
// pointers.
package objectstore
