package department

import "time"

type Department struct {
	ID        int64
	Name      string
	Location  *string
	CreatedAt time.Time
	UpdatedAt time.Time
}
