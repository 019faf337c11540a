package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/Hamzabaloch08/taskApp-backend/internal/db"
	"github.com/Hamzabaloch08/taskApp-backend/internal/logger"

	"github.com/joho/godotenv"
)

func main() {
	up := flag.Bool("up", false, "apply all pending migrations")
	down := flag.Int("down", 0, "roll back N migrations")
	flag.Parse()

	_ = godotenv.Load()
	logger.Init(os.Getenv("LOG_LEVEL"), os.Getenv("LOG_FORMAT"))

	if !*up && *down == 0 {
		names, err := db.Migrations()
		if err != nil {
			logger.Fatal("list migrations", "error", err)
		}
		for _, name := range names {
			fmt.Println(name)
		}
		return
	}

	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		logger.Fatal("DATABASE_URL not set")
	}

	switch {
	case *up:
		if err := db.Migrate(dsn); err != nil {
			logger.Fatal("migrate up", "error", err)
		}
		logger.Info("migrations applied")
	case *down > 0:
		if err := db.MigrateDown(dsn, *down); err != nil {
			logger.Fatal("migrate down", "error", err)
		}
		logger.Info("migrations rolled back", "steps", *down)
	default:
		logger.Fatal("-down must be positive", "down", *down)
	}
}
