package service

import (
	"context"
	"sync"
	"time"
)

// OTPRateLimiter limita cuantos SMS de verificacion se envian a un mismo numero.
// mobile llega ya normalizado por el servicio.
type OTPRateLimiter interface {
	Allow(ctx context.Context, mobile string) bool
}

type otpRateLimiter struct {
	mu     sync.Mutex
	window time.Duration
	max    int
	sends  map[string][]time.Time
	swept  time.Time
	now    func() time.Time
}

// NewOTPRateLimiter crea un limiter en memoria de ventana deslizante, valido para una sola replica.
func NewOTPRateLimiter(window time.Duration, max int) OTPRateLimiter {
	if max <= 0 {
		max = 1
	}
	if window <= 0 {
		window = time.Minute
	}
	return &otpRateLimiter{
		window: window,
		max:    max,
		sends:  make(map[string][]time.Time),
		now:    time.Now,
	}
}

func (l *otpRateLimiter) Allow(_ context.Context, mobile string) bool {
	if mobile == "" {
		return false
	}
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now().UTC()
	if now.Sub(l.swept) >= l.window {
		l.sweep(now)
	}
	recent := l.recentSends(mobile, now)
	if len(recent) >= l.max {
		l.sends[mobile] = recent
		return false
	}
	l.sends[mobile] = append(recent, now)
	return true
}

// recentSends descarta los envios fuera de la ventana y borra la entrada si no queda ninguno.
func (l *otpRateLimiter) recentSends(mobile string, now time.Time) []time.Time {
	cutoff := now.Add(-l.window)
	sent := l.sends[mobile]
	recent := sent[:0]
	for _, ts := range sent {
		if ts.After(cutoff) {
			recent = append(recent, ts)
		}
	}
	if len(recent) == 0 {
		delete(l.sends, mobile)
		return nil
	}
	return recent
}

// sweep borra los numeros sin envios dentro de la ventana. Se llama con mu tomado.
func (l *otpRateLimiter) sweep(now time.Time) {
	for mobile := range l.sends {
		l.recentSends(mobile, now)
	}
	l.swept = now
}
