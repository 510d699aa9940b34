// Command seed-user creates a directory user with a profile in PostgreSQL.
//
//	seed-user -email owner@example.com -password 's3cret-pass' -role owner
package main

import (
	"context"
	"flag"
	"log/slog"
	"os"

	"github.com/dmitrymomot/rentdesk/internal/db/migrations"
	"github.com/dmitrymomot/rentdesk/internal/repository"
	"github.com/dmitrymomot/rentdesk/internal/seed"
	"github.com/dmitrymomot/rentdesk/pkg/auth"
	"github.com/dmitrymomot/rentdesk/pkg/config"
	"github.com/dmitrymomot/rentdesk/pkg/jwt"
	"github.com/dmitrymomot/rentdesk/pkg/logger"
	"github.com/dmitrymomot/rentdesk/pkg/pg"
	"github.com/dmitrymomot/rentdesk/svc/twofactor"
)

func main() {
	email := flag.String("email", "", "user email")
	password := flag.String("password", "", "user password, at least 8 characters")
	role := flag.String("role", twofactor.RoleOwner, "profile role: owner, manager or tenant")
	flag.Parse()

	log := logger.New(logger.WithFormat(logger.FormatText))
	if *email == "" || *password == "" {
		flag.Usage()
		os.Exit(2)
	}

	if err := run(context.Background(), log, *email, *password, *role); err != nil {
		log.Error("seed failed", logger.Error(err))
		os.Exit(1)
	}
}

func run(ctx context.Context, log *slog.Logger, email, password, role string) error {
	var (
		pgCfg   pg.Config
		sessCfg auth.SessionConfig
	)
	if err := config.Load(&pgCfg); err != nil {
		return err
	}
	if err := config.Load(&sessCfg); err != nil {
		return err
	}

	pool, err := pg.Connect(ctx, pgCfg)
	if err != nil {
		return err
	}
	defer pool.Close()

	if pgCfg.AutoMigrate {
		if err := pg.Migrate(ctx, pool, pgCfg, migrations.FS, migrations.Dir, log); err != nil {
			return err
		}
	}

	sessions, err := jwt.New([]byte(sessCfg.SigningKey), jwt.WithIssuer(sessCfg.Issuer))
	if err != nil {
		return err
	}

	users := repository.NewUsers(pool)
	directory := auth.NewDirectory(users, sessions, auth.WithBcryptCost(sessCfg.BcryptCost), auth.WithLogger(log))
	profiles := twofactor.NewService(repository.NewProfiles(pool), twofactor.WithLogger(log))

	user, err := seed.User(ctx, directory, users, profiles, email, password, role)
	if err != nil {
		return err
	}
	log.Info("user ready", logger.UserID(user.ID), slog.String("email", user.Email), slog.String("role", role))
	return nil
}
