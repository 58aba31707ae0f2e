package session

import (
	"context"

	domainerrors "vigil/pkg/domain-errors"
)

// ErrNotFound keeps store-specific 404s consistent across in-memory and
// external implementations.
var ErrNotFound = domainerrors.New(domainerrors.CodeNotFound, "session not found")

// Store is interface-driven to keep the domain logic testable and to allow
// swapping in-memory, PostgreSQL, or Redis persistence without rewiring
// business code.
type Store interface {
	Save(ctx context.Context, s Session) error
	FindByID(ctx context.Context, id string) (Session, error)
	List(ctx context.Context) ([]Session, error)
	Delete(ctx context.Context, id string) error
}
