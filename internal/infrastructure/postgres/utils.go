package postgres

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/jhoicas/panaderia-stock/internal/domain"
)

// Querier lo cumplen *pgxpool.Pool y pgx.Tx; los repositorios funcionan con cualquiera.
type Querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

const (
	codeUniqueViolation = "23505"
	codeCheckViolation  = "23514"
	codeForeignKey      = "23503"
)

func pgCode(err error) string {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code
	}
	return ""
}

// isUniqueViolation verifica si un error es una violación de constraint único (23505).
func isUniqueViolation(err error) bool {
	return pgCode(err) == codeUniqueViolation
}

func notFound(err error) bool {
	return errors.Is(err, pgx.ErrNoRows)
}

// validID evita mandar a la base un ID que no es UUID: el error de sintaxis abortaría la tx.
func validID(ids ...string) bool {
	for _, id := range ids {
		if _, err := uuid.Parse(id); err != nil {
			return false
		}
	}
	return true
}

// translate convierte violaciones de constraints en errores de dominio.
// CHECK (quantity >= 0) en stock_entries equivale a stock insuficiente.
func translate(err error) error {
	switch pgCode(err) {
	case codeUniqueViolation:
		return domain.ErrDuplicate
	case codeCheckViolation:
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.ConstraintName == "stock_entries_quantity_check" {
			return domain.ErrInsufficientStock
		}
		return domain.ErrInvalidInput
	case codeForeignKey:
		return domain.ErrNotFound
	}
	return err
}

// nullable guarda "" como NULL.
func nullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
