// Package identity assigns the numeric identifiers every record is known by
// and guards the natural keys that must stay unique.
package identity

import (
	"context"
	"fmt"
)

// Entity names a record type that owns its own identifier sequence.
type Entity string

const (
	Employee      Entity = "employee"
	Department    Entity = "department"
	Designation   Entity = "designation"
	Attendance    Entity = "attendance"
	Leave         Entity = "leave"
	Task          Entity = "task"
	Document      Entity = "document"
	Notification  Entity = "notification"
	Admin         Entity = "admin"
	Credential    Entity = "credential"
	PasswordReset Entity = "password_reset"
)

// Entities lists every entity with an identifier sequence.
var Entities = []Entity{
	Employee, Department, Designation, Attendance, Leave, Task,
	Document, Notification, Admin, Credential, PasswordReset,
}

func (e Entity) Valid() bool {
	for _, known := range Entities {
		if e == known {
			return true
		}
	}
	return false
}

// Allocator hands out identifiers that are unique, start at 1 and are never
// reused, even after the owning record is deleted. Values drawn inside a
// transaction that rolls back are discarded along with it.
type Allocator interface {
	NextID(ctx context.Context, entity Entity) (int64, error)
	// PeekNextID previews the value NextID would return without consuming it.
	PeekNextID(ctx context.Context, entity Entity) (int64, error)
}

// Guard rejects a natural-key value that already belongs to another record.
// excludeID skips the record being updated; pass 0 on create.
type Guard interface {
	AssertUnique(ctx context.Context, entity Entity, field string, value any, excludeID int64) error
}

// EmployeeCodePrefix is prepended to every derived employee code.
const EmployeeCodePrefix = "EMP"

// EmployeeCode derives the human-facing code from an employee id: the prefix
// followed by the id zero-padded to at least three digits. Ids above 999 keep
// all their digits so codes never collide.
func EmployeeCode(id int64) string {
	return fmt.Sprintf("%s%03d", EmployeeCodePrefix, id)
}
