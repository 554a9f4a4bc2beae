// Package servicetest holds in-memory stand-ins for the storage primitives
// services share, for use in unit tests.
package servicetest

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/ems-hr/ems-backend-go/internal/domain/access"
	"github.com/ems-hr/ems-backend-go/internal/domain/identity"
)

// Tx runs the callback directly. Nested calls behave the same way.
type Tx struct {
	mu    sync.Mutex
	Calls int
}

func (t *Tx) WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	t.mu.Lock()
	t.Calls++
	t.mu.Unlock()
	return fn(ctx)
}

// Allocator counts per entity starting at 1.
type Allocator struct {
	mu   sync.Mutex
	next map[identity.Entity]int64
}

func NewAllocator() *Allocator {
	return &Allocator{next: make(map[identity.Entity]int64)}
}

// Seed makes the next NextID for entity return last+1.
func (a *Allocator) Seed(entity identity.Entity, last int64) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.next[entity] = last
}

func (a *Allocator) NextID(_ context.Context, entity identity.Entity) (int64, error) {
	if !entity.Valid() {
		return 0, fmt.Errorf("%w: %q", identity.ErrUnknownEntity, entity)
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	a.next[entity]++
	return a.next[entity], nil
}

func (a *Allocator) PeekNextID(_ context.Context, entity identity.Entity) (int64, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.next[entity] + 1, nil
}

// Guard remembers taken values per entity and field, case-insensitively.
type Guard struct {
	mu    sync.Mutex
	taken map[string]int64
}

func NewGuard() *Guard {
	return &Guard{taken: make(map[string]int64)}
}

func guardKey(entity identity.Entity, field string, value any) string {
	return strings.ToLower(fmt.Sprintf("%s|%s|%v", entity, field, value))
}

// Take records value as owned by id.
func (g *Guard) Take(entity identity.Entity, field string, value any, id int64) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.taken[guardKey(entity, field, value)] = id
}

func (g *Guard) AssertUnique(_ context.Context, entity identity.Entity, field string, value any, excludeID int64) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if owner, ok := g.taken[guardKey(entity, field, value)]; ok && owner != excludeID {
		return identity.NewConflict(entity, field, value)
	}
	return nil
}

func AdminCtx() context.Context {
	return access.WithPrincipal(context.Background(), access.Principal{
		Role:   access.RoleAdmin,
		UserID: 1,
		Email:  "admin@ems.local",
	})
}

func EmployeeCtx(employeeID int64) context.Context {
	return access.WithPrincipal(context.Background(), access.Principal{
		Role:       access.RoleEmployee,
		UserID:     employeeID,
		EmployeeID: employeeID,
		Email:      fmt.Sprintf("emp%d@ems.local", employeeID),
	})
}
