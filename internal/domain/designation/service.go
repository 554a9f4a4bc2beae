package designation

import "context"

type DesignationService interface {
	Create(ctx context.Context, req CreateDesignationRequest) (DesignationResponse, error)
	Get(ctx context.Context, id int64) (DesignationResponse, error)
	// List returns designations sorted by title, optionally for one department.
	List(ctx context.Context, filter DesignationFilter) ([]DesignationSummary, error)
	Update(ctx context.Context, req UpdateDesignationRequest) (DesignationResponse, error)
	Delete(ctx context.Context, id int64) error
	Count(ctx context.Context) (int64, error)
}
