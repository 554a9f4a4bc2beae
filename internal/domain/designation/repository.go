package designation

import "context"

type DesignationRepository interface {
	Create(ctx context.Context, d Designation) (Designation, error)
	GetByID(ctx context.Context, id int64) (Designation, error)
	// LockForUpdate and LockForShare must run inside a transaction.
	LockForUpdate(ctx context.Context, id int64) (Designation, error)
	LockForShare(ctx context.Context, id int64) (Designation, error)
	List(ctx context.Context, filter DesignationFilter) ([]Designation, error)
	GetTitlesByIDs(ctx context.Context, ids []int64) (map[int64]string, error)
	TitleExists(ctx context.Context, departmentID int64, title string, excludeID int64) (bool, error)
	CountByDepartmentIDs(ctx context.Context, departmentIDs []int64) (map[int64]int64, error)
	Update(ctx context.Context, d Designation) (Designation, error)
	Delete(ctx context.Context, id int64) error
	Count(ctx context.Context) (int64, error)
}
