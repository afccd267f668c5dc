package container

import (
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/marketplace-api/config"
	"github.com/oksasatya/marketplace-api/internal/application"
	"github.com/oksasatya/marketplace-api/internal/infrastructure/paystack"
	"github.com/oksasatya/marketplace-api/pkg/helpers"
)

// app-level container to share constructed components across packages.
// Router auto-wires modules from these singletons.

var (
	cfg         *config.Config
	logger      *logrus.Logger
	pgPool      *pgxpool.Pool
	redisClient *redis.Client
	images      application.ImageStore

	jwtManager *helpers.JWTManager
	paystackCl *paystack.Client
	rabbitPub  *helpers.RabbitPublisher
)

func SetConfig(c *config.Config)              { cfg = c }
func GetConfig() *config.Config               { return cfg }
func SetLogger(l *logrus.Logger)              { logger = l }
func GetLogger() *logrus.Logger               { return logger }
func SetPGPool(p *pgxpool.Pool)               { pgPool = p }
func GetPGPool() *pgxpool.Pool                { return pgPool }
func SetRedis(r *redis.Client)                { redisClient = r }
func GetRedis() *redis.Client                 { return redisClient }
func SetImages(s application.ImageStore)      { images = s }
func GetImages() application.ImageStore       { return images }
func SetPaystack(p *paystack.Client)          { paystackCl = p }
func GetPaystack() *paystack.Client           { return paystackCl }
func SetRabbitPub(p *helpers.RabbitPublisher) { rabbitPub = p }
func SetJWT(m *helpers.JWTManager)            { jwtManager = m }
func GetJWT() *helpers.JWTManager {
	if jwtManager != nil {
		return jwtManager
	}
	return helpers.DefaultJWT()
}

// GetJobs returns the email job publisher, or nil when sending is off.
// A nil *RabbitPublisher must not leak into the interface as non-nil.
func GetJobs() application.JobPublisher {
	if rabbitPub == nil {
		return nil
	}
	return rabbitPub
}
