package api

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/tendant/simple-cmis/pkg/objectstore"
)

// Handler serves a JSON API over one ObjectStore
type Handler struct {
	store  *objectstore.ObjectStore
	logger *slog.Logger
}

// NewHandler creates a new handler for store
func NewHandler(store *objectstore.ObjectStore, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{
		store:  store,
		logger: logger,
	}
}

// Routes returns the routes of the repository API
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Get("/health", h.Health)
	r.Get("/stats", h.Stats)

	r.Get("/objects", h.GetObjectByPath)
	r.Get("/objects/{id}", h.GetObject)
	r.Delete("/objects/{id}", h.DeleteObject)

	r.Route("/folders/{id}", func(r chi.Router) {
		r.Get("/children", h.ListChildren)
		r.Post("/children", h.CreateChild)
		r.Post("/move", h.MoveFolder)
		r.Delete("/tree", h.DeleteTree)
	})

	r.Route("/documents/{id}", func(r chi.Router) {
		r.Post("/checkout", h.CheckOut)
		r.Post("/checkin", h.CheckIn)
		r.Post("/cancel-checkout", h.CancelCheckOut)
		r.Get("/versions", h.ListVersions)
	})

	r.Get("/checkedout", h.ListCheckedOut)

	r.Post("/admin/clear", h.Clear)

	return r
}

// ObjectResponse is the response body for a stored object
type ObjectResponse struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	BaseTypeID   string    `json:"base_type_id"`
	TypeID       string    `json:"type_id"`
	RepositoryID string    `json:"repository_id"`
	CreatedBy    string    `json:"created_by,omitempty"`
	ModifiedBy   string    `json:"modified_by,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	ModifiedAt   time.Time `json:"modified_at"`
	ParentIDs    []string  `json:"parent_ids,omitempty"`
	Paths        []string  `json:"paths,omitempty"`

	// Versioned documents
	IsCheckedOut bool   `json:"is_checked_out,omitempty"`
	CheckedOutBy string `json:"checked_out_by,omitempty"`

	// Document versions
	VersionLabel     string `json:"version_label,omitempty"`
	Comment          string `json:"comment,omitempty"`
	ParentDocumentID string `json:"parent_document_id,omitempty"`
	IsMajor          bool   `json:"is_major,omitempty"`
	IsPWC            bool   `json:"is_pwc,omitempty"`
}

// ErrorResponse is the response body for a failed request
type ErrorResponse struct {
	Error     string   `json:"error"`
	FailedIDs []string `json:"failed_ids,omitempty"`
}

func (h *Handler) toObjectResponse(obj objectstore.StoredObject) ObjectResponse {
	b := obj.Base()
	resp := ObjectResponse{
		ID:           b.ID,
		Name:         b.Name,
		BaseTypeID:   string(obj.BaseTypeID()),
		TypeID:       b.TypeID,
		RepositoryID: b.RepositoryID,
		CreatedBy:    b.CreatedBy,
		ModifiedBy:   b.ModifiedBy,
		CreatedAt:    b.CreatedAt,
		ModifiedAt:   b.ModifiedAt,
		Paths:        h.store.Paths(obj),
	}
	if f, ok := obj.(objectstore.Fileable); ok {
		resp.ParentIDs = f.ParentIDs()
	}

	switch o := obj.(type) {
	case *objectstore.VersionedDocument:
		resp.IsCheckedOut = o.IsCheckedOut()
		resp.CheckedOutBy = o.CheckedOutBy()
	case *objectstore.DocumentVersion:
		resp.VersionLabel = o.VersionLabel
		resp.Comment = o.Comment
		resp.ParentDocumentID = o.ParentDocumentID
		resp.IsMajor = o.IsMajor()
		resp.IsPWC = o.IsPWC()
	}
	return resp
}

func (h *Handler) toObjectResponses(objs []objectstore.StoredObject) []ObjectResponse {
	resp := make([]ObjectResponse, 0, len(objs))
	for _, obj := range objs {
		resp = append(resp, h.toObjectResponse(obj))
	}
	return resp
}

// statusFor maps store and validation errors to HTTP status codes
func statusFor(err error) int {
	var verrs validation.Errors
	switch {
	case errors.Is(err, objectstore.ErrObjectNotFound):
		return http.StatusNotFound
	case errors.Is(err, objectstore.ErrConstraintViolation):
		return http.StatusConflict
	case errors.Is(err, objectstore.ErrInvalidArgument), errors.As(err, &verrs):
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

func (h *Handler) renderError(w http.ResponseWriter, r *http.Request, err error, msg string, args ...any) {
	status := statusFor(err)
	args = append(args, "error", err, "status", status)
	if status >= http.StatusInternalServerError {
		h.logger.Error(msg, args...)
	} else {
		h.logger.Warn(msg, args...)
	}

	render.Status(r, status)
	render.JSON(w, r, ErrorResponse{Error: err.Error()})
}

func (h *Handler) badRequest(w http.ResponseWriter, r *http.Request, err error) {
	h.logger.Warn("Invalid request", "path", r.URL.Path, "error", err)
	render.Status(r, http.StatusBadRequest)
	render.JSON(w, r, ErrorResponse{Error: err.Error()})
}

// lookup resolves the {id} URL parameter
func (h *Handler) lookup(r *http.Request) (objectstore.StoredObject, error) {
	id := chi.URLParam(r, "id")
	obj, ok := h.store.GetObjectByID(id)
	if !ok {
		return nil, &objectstore.ObjectError{ObjectID: id, Op: "get", Err: objectstore.ErrObjectNotFound}
	}
	return obj, nil
}

func (h *Handler) lookupFolder(r *http.Request) (*objectstore.Folder, error) {
	obj, err := h.lookup(r)
	if err != nil {
		return nil, err
	}
	f, ok := obj.(*objectstore.Folder)
	if !ok {
		return nil, &objectstore.ObjectError{ObjectID: obj.Base().ID, Op: "get folder", Err: objectstore.ErrInvalidArgument}
	}
	return f, nil
}

func (h *Handler) lookupVersionedDocument(r *http.Request) (*objectstore.VersionedDocument, error) {
	obj, err := h.lookup(r)
	if err != nil {
		return nil, err
	}
	d, ok := obj.(*objectstore.VersionedDocument)
	if !ok {
		return nil, &objectstore.ObjectError{ObjectID: obj.Base().ID, Op: "get versioned document", Err: objectstore.ErrInvalidArgument}
	}
	return d, nil
}
