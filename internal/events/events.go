package events

import (
	"context"
	"time"
)

const (
	KeyUserVerified  = "user.verified"
	KeyUserOnboarded = "user.onboarded"
)

// UserEvent se publica cuando un usuario avanza en el registro.
type UserEvent struct {
	UserID     int64     `json:"user_id"`
	Username   string    `json:"username"`
	Mobile     string    `json:"mobile"`
	Status     string    `json:"status"`
	OccurredAt time.Time `json:"occurred_at"`
}

// Publisher entrega eventos de dominio a otros servicios.
type Publisher interface {
	PublishJSON(ctx context.Context, key string, v any) error
}

type nopPublisher struct{}

// NewNopPublisher descarta los eventos; se usa si no hay broker configurado.
func NewNopPublisher() Publisher {
	return nopPublisher{}
}

func (nopPublisher) PublishJSON(context.Context, string, any) error {
	return nil
}
