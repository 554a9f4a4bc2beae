package designation

import "time"

type Designation struct {
	ID           int64
	Title        string
	DepartmentID int64
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
