package repository

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"

	"lishe/internal/domain"
)

// UserRepository define el contrato de persistencia para usuarios.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	GetByID(ctx context.Context, id int64) (domain.User, error)
	GetByUsername(ctx context.Context, username string) (domain.User, error)
	GetByMobile(ctx context.Context, mobile string) (domain.User, error)
	UpdateStatus(ctx context.Context, id int64, status domain.UserStatus) error
	UpdateCredentials(ctx context.Context, id int64, passwordHash string, role domain.Role, status domain.UserStatus) error
	UpdateProfile(ctx context.Context, id int64, profile domain.Profile, status domain.UserStatus) error
}

// PgUserRepository implementa UserRepository usando pgx.
type PgUserRepository struct {
	db DBTX
}

func NewPgUserRepository(db DBTX) *PgUserRepository {
	return &PgUserRepository{db: db}
}

const userColumns = `
	id, username, mobile, password_hash, role, status,
	height, weight, bmi_value, gender, diet_type, goal, activity_level, age_group,
	food_allergies, favorite_foods, health_conditions, created_at, updated_at
`

// Create inserta el usuario y completa ID y timestamps asignados por la base.
func (r *PgUserRepository) Create(ctx context.Context, user *domain.User) error {
	const query = `
		INSERT INTO users (username, mobile, password_hash, role, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $6)
		RETURNING id
	`
	now := user.CreatedAt
	if now.IsZero() {
		now = time.Now().UTC()
	}
	err := r.db.QueryRow(ctx, query,
		user.Username,
		user.Mobile,
		user.PasswordHash,
		string(user.Role),
		string(user.Status),
		now,
	).Scan(&user.ID)
	if err != nil {
		return mapUniqueViolation(err)
	}
	user.CreatedAt = now
	user.UpdatedAt = now
	return nil
}

func (r *PgUserRepository) GetByID(ctx context.Context, id int64) (domain.User, error) {
	return r.getOne(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id)
}

func (r *PgUserRepository) GetByUsername(ctx context.Context, username string) (domain.User, error) {
	return r.getOne(ctx, `SELECT `+userColumns+` FROM users WHERE username = $1`, username)
}

func (r *PgUserRepository) GetByMobile(ctx context.Context, mobile string) (domain.User, error) {
	return r.getOne(ctx, `SELECT `+userColumns+` FROM users WHERE mobile = $1`, mobile)
}

func (r *PgUserRepository) UpdateStatus(ctx context.Context, id int64, status domain.UserStatus) error {
	const query = `
		UPDATE users SET status = $2, updated_at = now()
		WHERE id = $1
	`
	tag, err := r.db.Exec(ctx, query, id, string(status))
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *PgUserRepository) UpdateCredentials(ctx context.Context, id int64, passwordHash string, role domain.Role, status domain.UserStatus) error {
	const query = `
		UPDATE users SET password_hash = $2, role = $3, status = $4, updated_at = now()
		WHERE id = $1
	`
	tag, err := r.db.Exec(ctx, query, id, passwordHash, string(role), string(status))
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *PgUserRepository) UpdateProfile(ctx context.Context, id int64, p domain.Profile, status domain.UserStatus) error {
	const query = `
		UPDATE users SET
			height = $2, weight = $3, bmi_value = $4, gender = $5, diet_type = $6,
			goal = $7, activity_level = $8, age_group = $9,
			food_allergies = $10, favorite_foods = $11, health_conditions = $12,
			status = $13, updated_at = now()
		WHERE id = $1
	`
	tag, err := r.db.Exec(ctx, query, id,
		p.Height,
		p.Weight,
		p.BMI,
		p.Gender,
		p.DietType,
		string(p.Goal),
		string(p.ActivityLevel),
		string(p.AgeGroup),
		nonNil(p.FoodAllergies),
		nonNil(p.FavoriteFoods),
		p.HealthConditions,
		string(status),
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *PgUserRepository) getOne(ctx context.Context, query string, arg any) (domain.User, error) {
	var (
		u                     domain.User
		role, status          string
		goal, activity, group string
	)
	err := r.db.QueryRow(ctx, query, arg).Scan(
		&u.ID,
		&u.Username,
		&u.Mobile,
		&u.PasswordHash,
		&role,
		&status,
		&u.Profile.Height,
		&u.Profile.Weight,
		&u.Profile.BMI,
		&u.Profile.Gender,
		&u.Profile.DietType,
		&goal,
		&activity,
		&group,
		&u.Profile.FoodAllergies,
		&u.Profile.FavoriteFoods,
		&u.Profile.HealthConditions,
		&u.CreatedAt,
		&u.UpdatedAt,
	)
	if err != nil {
		return domain.User{}, err
	}
	u.Role = domain.Role(role)
	u.Status = domain.UserStatus(status)
	u.Profile.Goal = domain.Goal(goal)
	u.Profile.ActivityLevel = domain.ActivityLevel(activity)
	u.Profile.AgeGroup = domain.AgeGroup(group)
	return u, nil
}

func nonNil(values []string) []string {
	if values == nil {
		return []string{}
	}
	return values
}
