package service

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const (
	otpSendKeyPrefix = "lishe:otp:sends:"
	otpSendTimeout   = 500 * time.Millisecond
)

// otpSendBudgetScript suma un envio al numero y abre la ventana en el primero.
// Devuelve {envios en la ventana, ms hasta que se reinicia}.
const otpSendBudgetScript = `
local sends = redis.call("INCR", KEYS[1])
if sends == 1 then
  redis.call("PEXPIRE", KEYS[1], ARGV[1])
end
return {sends, redis.call("PTTL", KEYS[1])}
`

type redisScripter interface {
	Eval(ctx context.Context, script string, keys []string, args ...interface{}) *redis.Cmd
}

// redisOTPRateLimiter comparte el presupuesto de envios entre replicas. La clave
// es el mismo numero con el que se guarda el usuario.
type redisOTPRateLimiter struct {
	logger *zap.Logger
	client redisScripter
	window time.Duration
	max    int64
}

func NewRedisOTPRateLimiter(client *redis.Client, window time.Duration, max int, logger *zap.Logger) OTPRateLimiter {
	if client == nil {
		return nil
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if window < time.Millisecond {
		window = time.Minute
	}
	if max <= 0 {
		max = 1
	}
	return &redisOTPRateLimiter{logger: logger, client: client, window: window, max: int64(max)}
}

func otpSendKey(mobile string) string {
	return otpSendKeyPrefix + mobile
}

// Allow falla abierto: si Redis no responde el SMS se envia igual.
func (l *redisOTPRateLimiter) Allow(ctx context.Context, mobile string) bool {
	if l == nil || l.client == nil {
		return true
	}
	if mobile == "" {
		return false
	}
	ctx, cancel := context.WithTimeout(ctx, otpSendTimeout)
	defer cancel()

	res, err := l.client.Eval(ctx, otpSendBudgetScript, []string{otpSendKey(mobile)}, l.window.Milliseconds()).Int64Slice()
	if err != nil || len(res) != 2 {
		l.logger.Warn("otp send budget unavailable, allowing", zap.Error(err), zap.String("mobile", mobile))
		return true
	}
	if res[0] > l.max {
		l.logger.Info("otp send budget exhausted",
			zap.String("mobile", mobile),
			zap.Int64("sends", res[0]),
			zap.Duration("retry_in", time.Duration(res[1])*time.Millisecond),
		)
		return false
	}
	return true
}
