package domain

import "time"

const (
	// OTPDigits es el ancho fijo del codigo enviado por SMS.
	OTPDigits = 6
	// OTPExpiry es la ventana de validez de un codigo desde su creacion.
	OTPExpiry = 30 * time.Minute
)

// OTPCode es el codigo vivo de un usuario pendiente de verificacion.
type OTPCode struct {
	ID        int64     `json:"id"`
	UserID    int64     `json:"user_id"`
	Code      string    `json:"-"`
	CreatedAt time.Time `json:"created_at"`
}

// ExpiresAt devuelve el instante a partir del cual el codigo deja de ser valido.
func (o OTPCode) ExpiresAt() time.Time {
	return o.CreatedAt.Add(OTPExpiry)
}

// IsExpired usa la regla now - createdAt > OTPExpiry.
func (o OTPCode) IsExpired(now time.Time) bool {
	return now.Sub(o.CreatedAt) > OTPExpiry
}
