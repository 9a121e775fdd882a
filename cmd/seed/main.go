package main

import (
	"context"
	"database/sql"
	"log"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/joho/godotenv"

	"github.com/robyajo/api-conatct/config"
	"github.com/robyajo/api-conatct/internal/seed"
	"github.com/robyajo/api-conatct/pkg/helpers"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load()
	logger := helpers.NewLogger(cfg.AppName, cfg.Env)

	db, err := sql.Open("pgx", cfg.PostgresDSN())
	if err != nil {
		log.Fatalf("failed to open db: %v", err)
	}
	defer func() { _ = db.Close() }()

	seeder := seed.New(seed.NewPostgresStore(db), logger, cfg.SeedProfileCount)
	if err := seeder.Run(context.Background()); err != nil {
		logger.Fatalf("seeding failed: %v", err)
	}
}
