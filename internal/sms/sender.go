package sms

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
)

// Sender define la interfaz para el envio de codigos de verificacion por SMS.
type Sender interface {
	SendOTP(ctx context.Context, phone string, code string, expiresAt time.Time) error
}

type disabledSender struct {
	reason string
}

func NewDisabledSender(reason string) Sender {
	return &disabledSender{reason: reason}
}

func (s *disabledSender) SendOTP(_ context.Context, _ string, _ string, _ time.Time) error {
	if s.reason == "" {
		return errors.New("sms sender disabled")
	}
	return errors.New(s.reason)
}

// LogSender escribe el codigo en el log; util en desarrollo.
type LogSender struct {
	logger *zap.Logger
}

func NewLogSender(logger *zap.Logger) *LogSender {
	return &LogSender{logger: logger}
}

func (s *LogSender) SendOTP(_ context.Context, phone string, code string, expiresAt time.Time) error {
	if phone == "" {
		return fmt.Errorf("phone is required")
	}
	s.logger.Info("sms otp",
		zap.String("phone", phone),
		zap.String("code", code),
		zap.Time("expires_at", expiresAt),
	)
	return nil
}

// BuildOTPMessage arma el texto enviado al usuario.
func BuildOTPMessage(code string, expiresAt time.Time) string {
	return fmt.Sprintf(
		"Lishe App - Verify your identity\n\n"+
			"Use this code to complete your registration:\n\n"+
			"Verification Code: %s\n\n"+
			"This code expires at %s UTC.\n"+
			"If this wasn't you, please ignore this message.",
		code,
		expiresAt.UTC().Format("2006-01-02 15:04"),
	)
}
