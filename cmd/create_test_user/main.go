package main

import (
	"context"
	"errors"
	"flag"
	"fmt"

	"github.com/Hamzabaloch08/taskApp-backend/internal/config"
	"github.com/Hamzabaloch08/taskApp-backend/internal/db"
	"github.com/Hamzabaloch08/taskApp-backend/internal/logger"
	"github.com/Hamzabaloch08/taskApp-backend/internal/repository"
	"github.com/Hamzabaloch08/taskApp-backend/internal/service"
)

func main() {
	email := flag.String("email", "tester@example.com", "user email")
	password := flag.String("password", "password123", "user password")
	first := flag.String("first", "Test", "first name")
	last := flag.String("last", "User", "last name")
	flag.Parse()

	cfg := config.Load()
	logger.Init(cfg.LogLevel, cfg.LogFormat)
	if cfg.StoreDriver != config.StorePostgres {
		logger.Fatal("create_test_user needs STORE=postgres")
	}

	pool := db.Connect(cfg.DatabaseURL, cfg.DBMaxConns)
	defer pool.Close()

	auth := service.NewAuthService(
		repository.NewUserRepository(pool),
		service.NewPasswordHasher(cfg.BcryptCost),
		service.NewTokenManager(cfg.JWTSecret, cfg.JWTTTL),
	)
	ctx := context.Background()

	u, err := auth.Signup(ctx, service.SignupInput{
		FirstName: *first,
		LastName:  *last,
		Email:     *email,
		Password:  *password,
	})
	switch {
	case err == nil:
		logger.Info("user created", "id", u.ID, "email", u.Email)
	case errors.Is(err, service.ErrEmailTaken):
		logger.Info("user already exists", "email", service.NormalizeEmail(*email))
	default:
		logger.Fatal("create user failed", "error", err)
	}

	res, err := auth.Login(ctx, service.LoginInput{Email: *email, Password: *password})
	if err != nil {
		logger.Fatal("login failed, existing user may have a different password", "error", err)
	}

	fmt.Printf("email=%s\nexpires=%s\ntoken=%s\n", res.Identity.Email, res.ExpiresAt.Format("2006-01-02T15:04:05Z07:00"), res.Token)
}
