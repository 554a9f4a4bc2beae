package department

import "context"

type DepartmentService interface {
	Create(ctx context.Context, req CreateDepartmentRequest) (DepartmentResponse, error)
	Get(ctx context.Context, id int64) (DepartmentResponse, error)
	// List returns every department sorted by name with live dependent counts.
	List(ctx context.Context) ([]DepartmentSummary, error)
	Update(ctx context.Context, req UpdateDepartmentRequest) (DepartmentResponse, error)
	Delete(ctx context.Context, id int64) error
	Count(ctx context.Context) (int64, error)
}
