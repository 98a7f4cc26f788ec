package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// DBTX es el subconjunto de pgx que usan los repositorios.
// Lo implementan tanto *pgxpool.Pool como pgx.Tx.
type DBTX interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

var (
	ErrDuplicateUsername = errors.New("duplicate username")
	ErrDuplicateMobile   = errors.New("duplicate mobile")
	ErrDuplicateOTP      = errors.New("duplicate otp for user")
)

const uniqueViolation = "23505"

// mapUniqueViolation traduce la constraint violada a un error del repositorio.
func mapUniqueViolation(err error) error {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) || pgErr.Code != uniqueViolation {
		return err
	}
	switch pgErr.ConstraintName {
	case "users_username_key":
		return ErrDuplicateUsername
	case "users_mobile_key":
		return ErrDuplicateMobile
	case "otp_codes_user_id_key":
		return ErrDuplicateOTP
	default:
		return err
	}
}

// Transactor ejecuta varias escrituras de usuario y OTP de forma atomica.
type Transactor interface {
	WithinTx(ctx context.Context, fn func(users UserRepository, otps OTPRepository) error) error
}

// PgTransactor implementa Transactor con transacciones read-committed de pgx.
type PgTransactor struct {
	pool *pgxpool.Pool
}

func NewPgTransactor(pool *pgxpool.Pool) *PgTransactor {
	return &PgTransactor{pool: pool}
}

// WithinTx hace commit si fn termina sin error y rollback en caso contrario
// (tambien ante panic, que se vuelve a lanzar).
func (t *PgTransactor) WithinTx(ctx context.Context, fn func(users UserRepository, otps OTPRepository) error) (err error) {
	tx, err := t.pool.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.ReadCommitted})
	if err != nil {
		return err
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback(ctx)
			panic(p)
		}
		if err != nil {
			_ = tx.Rollback(ctx)
			return
		}
		err = tx.Commit(ctx)
	}()

	err = fn(NewPgUserRepository(tx), NewPgOTPRepository(tx))
	return err
}
