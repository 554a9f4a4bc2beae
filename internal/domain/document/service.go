package document

import "context"

type DocumentService interface {
	// Upload stores inline file content in the blob store before saving the record.
	Upload(ctx context.Context, req UploadDocumentRequest) (DocumentResponse, error)
	Get(ctx context.Context, id int64) (DocumentResponse, error)
	ListAll(ctx context.Context, filter DocumentFilter) ([]DocumentResponse, error)
	ListByEmployee(ctx context.Context, employeeID int64) ([]DocumentResponse, error)
	Delete(ctx context.Context, id int64) error
}
