package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"lishe/internal/domain"
)

// OTPRepository guarda el codigo vivo de cada usuario (a lo sumo uno).
type OTPRepository interface {
	Create(ctx context.Context, otp *domain.OTPCode) error
	GetByUserID(ctx context.Context, userID int64) (domain.OTPCode, error)
	// Delete devuelve false si otra peticion ya consumio el codigo.
	Delete(ctx context.Context, id int64) (bool, error)
	// ReplaceForUser deja otp como unico codigo vivo del usuario, exista o no uno previo.
	ReplaceForUser(ctx context.Context, otp *domain.OTPCode) error
}

type PgOTPRepository struct {
	db DBTX
}

func NewPgOTPRepository(db DBTX) *PgOTPRepository {
	return &PgOTPRepository{db: db}
}

func (r *PgOTPRepository) Create(ctx context.Context, otp *domain.OTPCode) error {
	const query = `
		INSERT INTO otp_codes (user_id, code, created_at)
		VALUES ($1, $2, $3)
		RETURNING id
	`
	err := r.db.QueryRow(ctx, query, otp.UserID, otp.Code, otp.CreatedAt).Scan(&otp.ID)
	if err != nil {
		return mapUniqueViolation(err)
	}
	return nil
}

func (r *PgOTPRepository) GetByUserID(ctx context.Context, userID int64) (domain.OTPCode, error) {
	const query = `
		SELECT id, user_id, code, created_at
		FROM otp_codes
		WHERE user_id = $1
	`
	var otp domain.OTPCode
	err := r.db.QueryRow(ctx, query, userID).Scan(
		&otp.ID,
		&otp.UserID,
		&otp.Code,
		&otp.CreatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.OTPCode{}, err
	}
	return otp, err
}

func (r *PgOTPRepository) Delete(ctx context.Context, id int64) (bool, error) {
	tag, err := r.db.Exec(ctx, `DELETE FROM otp_codes WHERE id = $1`, id)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

// ReplaceForUser hace upsert sobre otp_codes_user_id_key. El id se regenera para
// que un Delete con el id del codigo anterior no consuma el nuevo.
func (r *PgOTPRepository) ReplaceForUser(ctx context.Context, otp *domain.OTPCode) error {
	const query = `
		INSERT INTO otp_codes (user_id, code, created_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (user_id) DO UPDATE
		SET id = DEFAULT, code = EXCLUDED.code, created_at = EXCLUDED.created_at
		RETURNING id
	`
	return r.db.QueryRow(ctx, query, otp.UserID, otp.Code, otp.CreatedAt).Scan(&otp.ID)
}
