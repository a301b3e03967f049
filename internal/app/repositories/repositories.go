package repositories

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// DB is the subset of pgxpool.Pool the repositories need. Narrowing to an
// interface lets tests substitute a pgxmock pool.
type DB interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Repositories holds all repository instances
type Repositories struct {
	PersonRepository   *PersonRepository
	EventRepository    *EventRepository
	OperatorRepository *OperatorRepository
	DoorRepository     *DoorRepository
}

// NewRepositories creates the repository container
func NewRepositories(db DB) *Repositories {
	return &Repositories{
		PersonRepository:   NewPersonRepository(db),
		EventRepository:    NewEventRepository(db),
		OperatorRepository: NewOperatorRepository(db),
		DoorRepository:     NewDoorRepository(db),
	}
}
