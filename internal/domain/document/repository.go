package document

import "context"

type DocumentRepository interface {
	Create(ctx context.Context, d Document) (Document, error)
	GetByID(ctx context.Context, id int64) (Document, error)
	List(ctx context.Context, filter DocumentFilter) ([]Document, error)
	Delete(ctx context.Context, id int64) error
}
