package pgsql

import (
	"github.com/jackc/pgx/v5/pgxpool"

	portsrepo "github.com/shiftwise/payroll_engine/internal/core/ports/repositories"
)

// NewRepositoryProvider wires the pgx-backed repositories.
func NewRepositoryProvider(dbPool *pgxpool.Pool) portsrepo.RepositoryProvider {
	return portsrepo.RepositoryProvider{
		RunRepo:  NewPgxRunRepository(dbPool),
		ItemRepo: NewPgxItemRepository(dbPool),
	}
}
