package api

import (
	"net/http"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/tendant/simple-cmis/pkg/objectstore"
)

// Child types accepted by CreateChildRequest
const (
	ChildTypeFolder    = "folder"
	ChildTypeDocument  = "document"
	ChildTypeVersioned = "versioned"
)

// CreateChildRequest is the request body for filing a new object in a folder.
// A versioned document is created with an initial major version.
type CreateChildRequest struct {
	Name    string `json:"name"`
	Type    string `json:"type"`
	User    string `json:"user"`
	Comment string `json:"comment,omitempty"`
}

func (req *CreateChildRequest) Bind(r *http.Request) error {
	return validation.ValidateStruct(req,
		validation.Field(&req.Name, validation.Required, validation.By(segmentName)),
		validation.Field(&req.Type, validation.Required, validation.In(ChildTypeFolder, ChildTypeDocument, ChildTypeVersioned)),
		validation.Field(&req.User, validation.Required),
	)
}

func segmentName(value interface{}) error {
	if s, _ := value.(string); strings.Contains(s, objectstore.PathSeparator) {
		return validation.NewError("validation_path_separator", "must not contain a path separator")
	}
	return nil
}

// MoveRequest is the request body for moving a folder
type MoveRequest struct {
	TargetID string `json:"target_id"`
}

func (req *MoveRequest) Bind(r *http.Request) error {
	return validation.ValidateStruct(req,
		validation.Field(&req.TargetID, validation.Required),
	)
}

// CheckOutRequest is the request body for checking out a document
type CheckOutRequest struct {
	User string `json:"user"`
}

func (req *CheckOutRequest) Bind(r *http.Request) error {
	return validation.ValidateStruct(req,
		validation.Field(&req.User, validation.Required),
	)
}

// CheckInRequest is the request body for checking in a document
type CheckInRequest struct {
	User    string `json:"user"`
	Major   bool   `json:"major"`
	Comment string `json:"comment,omitempty"`
}

func (req *CheckInRequest) Bind(r *http.Request) error {
	return validation.ValidateStruct(req,
		validation.Field(&req.User, validation.Required),
		validation.Field(&req.Comment, validation.Length(0, 1024)),
	)
}

// pageParams holds the paging query parameters of a children listing
type pageParams struct {
	MaxItems  int
	SkipCount int
}

func (p pageParams) Validate() error {
	return validation.ValidateStruct(&p,
		validation.Field(&p.MaxItems, validation.Min(-1)),
		validation.Field(&p.SkipCount, validation.Min(0)),
	)
}
