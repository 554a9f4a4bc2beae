package document

import (
	"net/url"
	"strings"
	"time"

	"github.com/ems-hr/ems-backend-go/internal/pkg/refid"
	"github.com/ems-hr/ems-backend-go/internal/pkg/validator"
)

type DocumentResponse struct {
	ID          int64     `json:"document_id"`
	EmployeeID  int64     `json:"employee_id"`
	Department  string    `json:"department"`
	Designation string    `json:"designation"`
	Category    Category  `json:"category"`
	FileName    string    `json:"file_name"`
	FileURL     string    `json:"file_url"`
	UploadedBy  string    `json:"uploaded_by"`
	UploadedAt  time.Time `json:"uploaded_at"`
}

type DocumentFilter struct {
	EmployeeID int64
	Category   string
}

// UploadDocumentRequest carries either an inline base64 data URL or a URL the
// file already lives at.
type UploadDocumentRequest struct {
	EmployeeID refid.ID `json:"employee_id"`
	Category   string   `json:"category"`
	FileName   string   `json:"file_name"`
	FileURL    string   `json:"file_url"`
	UploadedBy string   `json:"uploaded_by"`
}

func (r *UploadDocumentRequest) Validate() error {
	var errs validator.ValidationErrors

	r.FileName = strings.TrimSpace(r.FileName)
	r.FileURL = strings.TrimSpace(r.FileURL)

	if r.EmployeeID.IsZero() {
		errs.Add("employee_id", "employee_id is required")
	}
	if !validator.IsInSlice(r.Category, Categories) {
		errs.Add("category", "category must be one of: "+strings.Join(Categories, ", "))
	}
	if r.FileName == "" {
		errs.Add("file_name", "file_name is required")
	} else if len(r.FileName) > 255 {
		errs.Add("file_name", "file_name must not exceed 255 characters")
	}
	switch {
	case r.FileURL == "":
		errs.Add("file_url", "file_url is required")
	case strings.HasPrefix(r.FileURL, "data:"):
	default:
		u, err := url.Parse(r.FileURL)
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			errs.Add("file_url", "file_url must be a data URL or an http(s) URL")
		}
	}

	return errs.Err()
}
