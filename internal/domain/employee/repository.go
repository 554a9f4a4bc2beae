package employee

import "context"

type EmployeeRepository interface {
	Create(ctx context.Context, e Employee) (Employee, error)
	GetByID(ctx context.Context, id int64) (Employee, error)
	GetByEmail(ctx context.Context, email string) (Employee, error)
	List(ctx context.Context, filter EmployeeFilter) ([]Employee, int64, error)
	Update(ctx context.Context, e Employee) (Employee, error)
	Delete(ctx context.Context, id int64) error
	Count(ctx context.Context) (int64, error)
	ListActiveIDs(ctx context.Context) ([]int64, error)
	GetBriefsByIDs(ctx context.Context, ids []int64) (map[int64]Brief, error)
	CountByDepartmentIDs(ctx context.Context, departmentIDs []int64) (map[int64]int64, error)
	CountByDesignationIDs(ctx context.Context, designationIDs []int64) (map[int64]int64, error)
}
