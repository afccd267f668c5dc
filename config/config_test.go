package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("JWT_TTL", "")
	t.Setenv("PAYSTACK_TIMEOUT", "not-a-duration")
	cfg := Load()
	assert.Equal(t, 7*24*time.Hour, cfg.TokenTTL)
	assert.Equal(t, 8*time.Hour, cfg.AdminTTL)
	assert.Equal(t, 10*time.Second, cfg.PaystackTimeout)
	assert.Equal(t, "local", cfg.ImageStorage)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("DB_USER", "u")
	t.Setenv("DB_PASSWORD", "p")
	t.Setenv("DB_HOST", "db")
	t.Setenv("DB_PORT", "5433")
	t.Setenv("DB_NAME", "shop")
	t.Setenv("CORS_ALLOWED_ORIGINS", " http://a.test, ,http://b.test ")
	t.Setenv("FRONTEND_URL", "https://shop.test/")
	t.Setenv("MAIL_SEND_ENABLED", "true")

	cfg := Load()
	assert.Equal(t, "postgres://u:p@db:5433/shop?sslmode=disable", cfg.PostgresDSN())
	assert.Equal(t, []string{"http://a.test", "http://b.test"}, cfg.CORSOrigins())
	assert.Equal(t, "https://shop.test/order-success", cfg.PaymentCallbackURL())
	assert.True(t, cfg.MailSendEnabled)
}
