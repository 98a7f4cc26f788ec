package http

import (
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"lishe/internal/service"
)

// NewRouter configura el router de Gin con middlewares y rutas.
func NewRouter(
	logger *zap.Logger,
	authH *AuthHandler,
	healthH *HealthHandler,
	jwtSvc *service.JWTService,
) *gin.Engine {
	r := gin.New()

	r.Use(zapLoggerMiddleware(logger), gin.Recovery(), jsonContentTypeMiddleware())

	r.GET("/healthz", healthH.Health)

	v1 := r.Group("/api/v1")

	auth := v1.Group("/auth")
	auth.POST("/create-account", authH.CreateAccount)
	auth.POST("/resend-otp", authH.ResendOTP)
	auth.POST("/verify-otp", authH.VerifyOTP)
	auth.POST("/create-password", authH.CreatePassword)
	auth.POST("/onboarding", authH.Onboarding)
	auth.POST("/login", authH.Login)
	auth.POST("/refresh", authH.RefreshToken)
	auth.POST("/logout", authH.Logout)

	users := v1.Group("/users", JWTAuthMiddleware(jwtSvc))
	users.GET("/me", authH.Me)

	return r
}

// zapLoggerMiddleware loguea cada request con zap.
func zapLoggerMiddleware(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		logger.Info("request",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)),
			zap.String("client_ip", c.ClientIP()),
		)
	}
}

// jsonContentTypeMiddleware fuerza Content-Type: application/json en responses.
func jsonContentTypeMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Content-Type", "application/json")
		c.Next()
	}
}
