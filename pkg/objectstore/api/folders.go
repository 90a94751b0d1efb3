package api

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/render"
	"github.com/tendant/simple-cmis/pkg/objectstore"
)

// ListChildren lists the children of a folder ordered by name. The
// maxItems and skipCount query parameters page through the listing.
func (h *Handler) ListChildren(w http.ResponseWriter, r *http.Request) {
	folder, err := h.lookupFolder(r)
	if err != nil {
		h.renderError(w, r, err, "Failed to get folder")
		return
	}

	params, err := parsePageParams(r)
	if err != nil {
		h.badRequest(w, r, err)
		return
	}

	children := folder.Children(params.MaxItems, params.SkipCount)
	render.JSON(w, r, h.toObjectResponses(children))
}

func parsePageParams(r *http.Request) (pageParams, error) {
	p := pageParams{MaxItems: -1}
	q := r.URL.Query()
	if v := q.Get("maxItems"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return p, fmt.Errorf("invalid maxItems: %w", err)
		}
		p.MaxItems = n
	}
	if v := q.Get("skipCount"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return p, fmt.Errorf("invalid skipCount: %w", err)
		}
		p.SkipCount = n
	}
	return p, p.Validate()
}

// CreateChild creates a folder or document and files it in the folder
func (h *Handler) CreateChild(w http.ResponseWriter, r *http.Request) {
	folder, err := h.lookupFolder(r)
	if err != nil {
		h.renderError(w, r, err, "Failed to get folder")
		return
	}

	var req CreateChildRequest
	if err := render.Bind(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	var child objectstore.Fileable
	switch req.Type {
	case ChildTypeFolder:
		f := h.store.CreateFolder(req.Name, nil)
		f.Touch(req.User)
		child = f
	case ChildTypeDocument:
		d := h.store.CreateDocument(req.Name)
		d.Touch(req.User)
		child = d
	case ChildTypeVersioned:
		d := h.store.CreateVersionedDocument(req.Name)
		d.Touch(req.User)
		d.AddVersion(true, req.User, req.Comment)
		child = d
	}

	if err := folder.AddChild(child); err != nil {
		if d, ok := child.(*objectstore.VersionedDocument); ok {
			for _, v := range d.Versions() {
				if rmErr := h.store.RemoveVersion(v); rmErr != nil {
					h.logger.Warn("Failed to remove version of rejected document",
						"version_id", v.ID, "folder_id", folder.ID, "error", rmErr)
				}
			}
		}
		h.renderError(w, r, err, "Failed to create child", "folder_id", folder.ID, "name", req.Name)
		return
	}

	h.logger.Info("Object created", "object_id", child.Base().ID, "folder_id", folder.ID, "type", req.Type)
	render.Status(r, http.StatusCreated)
	render.JSON(w, r, h.toObjectResponse(child))
}

// MoveFolder files the folder under another folder
func (h *Handler) MoveFolder(w http.ResponseWriter, r *http.Request) {
	folder, err := h.lookupFolder(r)
	if err != nil {
		h.renderError(w, r, err, "Failed to get folder")
		return
	}

	var req MoveRequest
	if err := render.Bind(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	obj, ok := h.store.GetObjectByID(req.TargetID)
	if !ok {
		h.renderError(w, r, &objectstore.ObjectError{ObjectID: req.TargetID, Op: "move", Err: objectstore.ErrObjectNotFound},
			"Failed to get move target")
		return
	}
	target, ok := obj.(*objectstore.Folder)
	if !ok {
		h.renderError(w, r, &objectstore.ObjectError{ObjectID: req.TargetID, Op: "move", Err: objectstore.ErrInvalidArgument},
			"Move target is not a folder")
		return
	}

	if err := folder.MoveTo(target); err != nil {
		h.renderError(w, r, err, "Failed to move folder", "folder_id", folder.ID, "target_id", target.ID)
		return
	}

	h.logger.Info("Folder moved", "folder_id", folder.ID, "target_id", target.ID)
	render.JSON(w, r, h.toObjectResponse(folder))
}

// DeleteTree deletes a folder and everything below it. With
// continueOnFailure=true the deletion goes on after a failure.
func (h *Handler) DeleteTree(w http.ResponseWriter, r *http.Request) {
	folder, err := h.lookupFolder(r)
	if err != nil {
		h.renderError(w, r, err, "Failed to get folder")
		return
	}

	continueOnFailure := false
	if v := r.URL.Query().Get("continueOnFailure"); v != "" {
		continueOnFailure, err = strconv.ParseBool(v)
		if err != nil {
			h.badRequest(w, r, fmt.Errorf("invalid continueOnFailure: %w", err))
			return
		}
	}

	failed, err := h.store.DeleteTree(folder.ID, continueOnFailure)
	if err != nil {
		status := statusFor(err)
		h.logger.Warn("Delete tree failed", "folder_id", folder.ID, "failed", len(failed), "error", err)
		render.Status(r, status)
		render.JSON(w, r, ErrorResponse{Error: err.Error(), FailedIDs: failed})
		return
	}

	h.logger.Info("Tree deleted", "folder_id", folder.ID)
	w.WriteHeader(http.StatusNoContent)
}
