package config

import (
	"time"

	"github.com/caarlos0/env/v10"
)

// Config centraliza la configuración del servicio.
type Config struct {
	AppEnv      string `env:"APP_ENV" envDefault:"production"`
	HTTPPort    string `env:"HTTP_PORT" envDefault:"8080"`
	DatabaseURL string `env:"DATABASE_URL,required,notEmpty"`
	DBMigrate   bool   `env:"DB_MIGRATE" envDefault:"true"`

	JWTSecret            string `env:"JWT_SECRET"`
	JWTAccessTTLMinutes  int    `env:"JWT_ACCESS_TTL_MINUTES" envDefault:"15"`
	JWTRefreshTTLMinutes int    `env:"JWT_REFRESH_TTL_MINUTES" envDefault:"43200"`

	RedisAddr     string `env:"REDIS_ADDR"`
	RedisPassword string `env:"REDIS_PASSWORD"`
	RedisDB       int    `env:"REDIS_DB" envDefault:"0"`

	OTPRateWindowMinutes int `env:"OTP_RATE_WINDOW_MINUTES" envDefault:"10"`
	OTPRateMax           int `env:"OTP_RATE_MAX" envDefault:"3"`

	SMSProvider       string `env:"SMS_PROVIDER" envDefault:"log"`
	SMSSenderID       string `env:"SMS_SENDER_ID" envDefault:"Lishe App"`
	ClickSendUsername string `env:"CLICKSEND_USERNAME"`
	ClickSendAPIKey   string `env:"CLICKSEND_API_KEY"`
	ClickSendBaseURL  string `env:"CLICKSEND_BASE_URL" envDefault:"https://rest.clicksend.com/v3"`
	TwilioAccountSID  string `env:"TWILIO_ACCOUNT_SID"`
	TwilioAuthToken   string `env:"TWILIO_AUTH_TOKEN"`
	TwilioFromNumber  string `env:"TWILIO_FROM_NUMBER"`
	TwilioBaseURL     string `env:"TWILIO_BASE_URL" envDefault:"https://api.twilio.com/2010-04-01"`

	AMQPURL      string `env:"AMQP_URL"`
	AMQPExchange string `env:"AMQP_EXCHANGE" envDefault:"lishe.events"`
}

// LoadConfig carga la configuración desde variables de entorno.
func LoadConfig() (*Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// IsDevelopment habilita el logger de desarrollo.
func (c *Config) IsDevelopment() bool {
	return c.AppEnv == "development" || c.AppEnv == "dev"
}

func (c *Config) OTPRateWindow() time.Duration {
	return time.Duration(c.OTPRateWindowMinutes) * time.Minute
}

func (c *Config) JWTAccessTTL() time.Duration {
	return time.Duration(c.JWTAccessTTLMinutes) * time.Minute
}

func (c *Config) JWTRefreshTTL() time.Duration {
	return time.Duration(c.JWTRefreshTTLMinutes) * time.Minute
}
