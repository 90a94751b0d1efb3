package api

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"github.com/tendant/simple-cmis/pkg/objectstore"
)

// StatsResponse is the response body for repository statistics
type StatsResponse struct {
	RepositoryID    string `json:"repository_id"`
	RootFolderID    string `json:"root_folder_id"`
	ObjectCount     int    `json:"object_count"`
	CheckedOutCount int    `json:"checked_out_count"`
}

// Health reports that the server is up
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, map[string]string{"status": "ok"})
}

// Stats returns the repository statistics
func (h *Handler) Stats(w http.ResponseWriter, r *http.Request) {
	checkedOut, err := h.store.GetCheckedOutDocuments("")
	if err != nil {
		h.renderError(w, r, err, "Failed to list checked out documents")
		return
	}

	render.JSON(w, r, StatsResponse{
		RepositoryID:    h.store.RepositoryID(),
		RootFolderID:    h.store.RootFolder().ID,
		ObjectCount:     h.store.GetObjectCount(),
		CheckedOutCount: len(checkedOut),
	})
}

// GetObject retrieves an object by ID
func (h *Handler) GetObject(w http.ResponseWriter, r *http.Request) {
	obj, err := h.lookup(r)
	if err != nil {
		h.renderError(w, r, err, "Failed to get object", "object_id", chi.URLParam(r, "id"))
		return
	}
	render.JSON(w, r, h.toObjectResponse(obj))
}

// GetObjectByPath retrieves an object by its path
func (h *Handler) GetObjectByPath(w http.ResponseWriter, r *http.Request) {
	path := r.URL.Query().Get("path")
	if path == "" {
		h.badRequest(w, r, errors.New("missing required 'path' parameter"))
		return
	}

	obj, ok := h.store.GetObjectByPath(path)
	if !ok {
		h.renderError(w, r, &objectstore.ObjectError{ObjectID: path, Op: "get by path", Err: objectstore.ErrObjectNotFound},
			"Failed to resolve path", "path", path)
		return
	}
	render.JSON(w, r, h.toObjectResponse(obj))
}

// DeleteObject deletes an object by ID
func (h *Handler) DeleteObject(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := h.store.DeleteObject(id); err != nil {
		h.renderError(w, r, err, "Failed to delete object", "object_id", id)
		return
	}

	h.logger.Info("Object deleted", "object_id", id)
	w.WriteHeader(http.StatusNoContent)
}

// Clear resets the repository to an empty root folder
func (h *Handler) Clear(w http.ResponseWriter, r *http.Request) {
	h.store.Clear()
	render.JSON(w, r, h.toObjectResponse(h.store.RootFolder()))
}
