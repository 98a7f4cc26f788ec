package domain

import "time"

// UserStatus describe el paso de registro en el que se encuentra un usuario.
type UserStatus string

const (
	StatusPendingVerification UserStatus = "PENDING_VERIFICATION"
	StatusVerified            UserStatus = "VERIFIED"
	StatusPasswordSet         UserStatus = "PASSWORD_SET"
	StatusOnboarded           UserStatus = "ONBOARDED"
)

// Role es el rol de autorizacion del usuario.
type Role string

const (
	RoleMember Role = "MEMBER"
	RoleAdmin  Role = "ADMIN"
)

type User struct {
	ID           int64      `json:"id"`
	Username     string     `json:"username"`
	Mobile       string     `json:"mobile"`
	PasswordHash string     `json:"-"`
	Role         Role       `json:"role"`
	Status       UserStatus `json:"status"`
	Profile      Profile    `json:"profile"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

// Profile agrupa los datos de salud capturados en el onboarding.
type Profile struct {
	Height           float64       `json:"height,omitempty"`
	Weight           float64       `json:"weight,omitempty"`
	BMI              float64       `json:"bmi_value,omitempty"`
	Gender           string        `json:"gender,omitempty"`
	DietType         string        `json:"diet_type,omitempty"`
	Goal             Goal          `json:"goal,omitempty"`
	ActivityLevel    ActivityLevel `json:"level,omitempty"`
	AgeGroup         AgeGroup      `json:"age,omitempty"`
	FoodAllergies    []string      `json:"food_allergies,omitempty"`
	FavoriteFoods    []string      `json:"favorite_foods,omitempty"`
	HealthConditions string        `json:"health_conditions,omitempty"`
}

// IsVerified indica si el usuario ya demostro posesion del telefono.
func (u User) IsVerified() bool {
	return u.Status != "" && u.Status != StatusPendingVerification
}

// CanOnboard indica si el usuario ya completo los pasos previos al perfil.
func (u User) CanOnboard() bool {
	return u.Status == StatusPasswordSet || u.Status == StatusOnboarded
}
