package container

import (
	"cloud.google.com/go/storage"
	"github.com/elastic/go-elasticsearch/v8"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/robyajo/api-conatct/config"
	"github.com/robyajo/api-conatct/pkg/helpers"
	"github.com/robyajo/api-conatct/pkg/mailer"
)

// app-level container to share constructed components across packages
// Router can auto-wire modules from these singletons.

var (
	cfg         *config.Config
	logger      *logrus.Logger
	pgPool      *pgxpool.Pool
	redisClient *redis.Client
	gcsClient   *storage.Client
	jwtManager  *helpers.JWTManager
	eventPub    *helpers.RabbitPublisher
	esClient    *elasticsearch.Client
	mailClient  *mailer.Mailgun
)

func SetConfig(c *config.Config)             { cfg = c }
func GetConfig() *config.Config              { return cfg }
func SetLogger(l *logrus.Logger)             { logger = l }
func GetLogger() *logrus.Logger              { return logger }
func SetPGPool(p *pgxpool.Pool)              { pgPool = p }
func GetPGPool() *pgxpool.Pool               { return pgPool }
func SetRedis(r *redis.Client)               { redisClient = r }
func GetRedis() *redis.Client                { return redisClient }
func SetGCS(s *storage.Client)               { gcsClient = s }
func GetGCS() *storage.Client                { return gcsClient }
func SetJWT(m *helpers.JWTManager)           { jwtManager = m }
func GetJWT() *helpers.JWTManager            { return jwtManager }
func SetEventPub(p *helpers.RabbitPublisher) { eventPub = p }
func GetEventPub() *helpers.RabbitPublisher  { return eventPub }
func SetES(c *elasticsearch.Client)          { esClient = c }
func GetES() *elasticsearch.Client           { return esClient }
func SetMailgun(m *mailer.Mailgun)           { mailClient = m }
func GetMailgun() *mailer.Mailgun            { return mailClient }
