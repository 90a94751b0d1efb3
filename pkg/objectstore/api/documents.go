package api

import (
	"net/http"

	"github.com/go-chi/render"
)

// CheckOut checks out a versioned document and returns its private working copy
func (h *Handler) CheckOut(w http.ResponseWriter, r *http.Request) {
	doc, err := h.lookupVersionedDocument(r)
	if err != nil {
		h.renderError(w, r, err, "Failed to get document")
		return
	}

	var req CheckOutRequest
	if err := render.Bind(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	pwc, err := doc.CheckOut(req.User)
	if err != nil {
		h.renderError(w, r, err, "Failed to check out document", "document_id", doc.ID)
		return
	}

	h.logger.Info("Document checked out", "document_id", doc.ID, "user", req.User)
	render.Status(r, http.StatusCreated)
	render.JSON(w, r, h.toObjectResponse(pwc))
}

// CheckIn turns the private working copy into a new version
func (h *Handler) CheckIn(w http.ResponseWriter, r *http.Request) {
	doc, err := h.lookupVersionedDocument(r)
	if err != nil {
		h.renderError(w, r, err, "Failed to get document")
		return
	}

	var req CheckInRequest
	if err := render.Bind(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	v, err := doc.CheckIn(req.Major, req.User, req.Comment)
	if err != nil {
		h.renderError(w, r, err, "Failed to check in document", "document_id", doc.ID)
		return
	}

	h.logger.Info("Document checked in", "document_id", doc.ID, "version", v.VersionLabel)
	render.JSON(w, r, h.toObjectResponse(v))
}

// CancelCheckOut discards the private working copy
func (h *Handler) CancelCheckOut(w http.ResponseWriter, r *http.Request) {
	doc, err := h.lookupVersionedDocument(r)
	if err != nil {
		h.renderError(w, r, err, "Failed to get document")
		return
	}

	if err := doc.CancelCheckOut(); err != nil {
		h.renderError(w, r, err, "Failed to cancel check out", "document_id", doc.ID)
		return
	}

	h.logger.Info("Check out cancelled", "document_id", doc.ID)
	w.WriteHeader(http.StatusNoContent)
}

// ListVersions lists the version chain of a document, oldest first
func (h *Handler) ListVersions(w http.ResponseWriter, r *http.Request) {
	doc, err := h.lookupVersionedDocument(r)
	if err != nil {
		h.renderError(w, r, err, "Failed to get document")
		return
	}

	versions := doc.Versions()
	resp := make([]ObjectResponse, 0, len(versions))
	for _, v := range versions {
		resp = append(resp, h.toObjectResponse(v))
	}
	render.JSON(w, r, resp)
}

// ListCheckedOut lists the checked out documents. The orderBy query
// parameter takes "<property> [ASC|DESC]".
func (h *Handler) ListCheckedOut(w http.ResponseWriter, r *http.Request) {
	docs, err := h.store.GetCheckedOutDocuments(r.URL.Query().Get("orderBy"))
	if err != nil {
		h.renderError(w, r, err, "Failed to list checked out documents")
		return
	}

	resp := make([]ObjectResponse, 0, len(docs))
	for _, d := range docs {
		resp = append(resp, h.toObjectResponse(d))
	}
	render.JSON(w, r, resp)
}
