package department

import "context"

type DepartmentRepository interface {
	Create(ctx context.Context, d Department) (Department, error)
	GetByID(ctx context.Context, id int64) (Department, error)
	// LockForUpdate and LockForShare must run inside a transaction.
	LockForUpdate(ctx context.Context, id int64) (Department, error)
	LockForShare(ctx context.Context, id int64) (Department, error)
	List(ctx context.Context) ([]Department, error)
	ListNames(ctx context.Context) ([]string, error)
	GetNamesByIDs(ctx context.Context, ids []int64) (map[int64]string, error)
	Update(ctx context.Context, d Department) (Department, error)
	Delete(ctx context.Context, id int64) error
	Count(ctx context.Context) (int64, error)
}
