// Package repository implements the storage ports on PostgreSQL (pgx, no ORM)
// and in memory.
package repository

import (
	"errors"

	"github.com/Shivanand-hulikatti/ticketdesk/internal/service/ports"
	"github.com/jackc/pgx/v5/pgconn"
)

var (
	_ ports.EventRepo   = (*EventRepository)(nil)
	_ ports.Transactor  = (*EventRepository)(nil)
	_ ports.BookingRepo = (*BookingRepository)(nil)
	_ ports.UserRepo    = (*UserRepository)(nil)
)

const uniqueViolation = "23505"

// scanner is satisfied by pgx.Row and pgx.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func isUniqueViolation(err error, constraint string) bool {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) || pgErr.Code != uniqueViolation {
		return false
	}
	return constraint == "" || pgErr.ConstraintName == constraint
}
