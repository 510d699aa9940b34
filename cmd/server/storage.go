package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/dmitrymomot/rentdesk/internal/db/migrations"
	"github.com/dmitrymomot/rentdesk/internal/repository"
	"github.com/dmitrymomot/rentdesk/pkg/auth"
	"github.com/dmitrymomot/rentdesk/pkg/config"
	"github.com/dmitrymomot/rentdesk/pkg/httpserver"
	"github.com/dmitrymomot/rentdesk/pkg/pg"
	"github.com/dmitrymomot/rentdesk/svc/twofactor"
)

type storage struct {
	users    auth.UserStore
	profiles twofactor.ProfileStore
	// reader serves pre-session lookups under the service credential.
	reader  twofactor.LoginProfileReader
	checks  []httpserver.Check
	closers []func()
}

func (s *storage) close() {
	for i := len(s.closers) - 1; i >= 0; i-- {
		s.closers[i]()
	}
}

func openStorage(ctx context.Context, kind string, log *slog.Logger) (*storage, error) {
	switch kind {
	case "memory":
		profiles := twofactor.NewMemoryStore()
		log.WarnContext(ctx, "using in-memory storage, data is lost on restart")
		return &storage{
			users:    auth.NewMemoryUserStore(),
			profiles: profiles,
			reader:   profiles,
		}, nil

	case "postgres":
		var cfg pg.Config
		if err := config.Load(&cfg); err != nil {
			return nil, err
		}

		pool, err := pg.Connect(ctx, cfg)
		if err != nil {
			return nil, err
		}
		st := &storage{closers: []func(){pool.Close}}

		if cfg.AutoMigrate {
			if err := pg.Migrate(ctx, pool, cfg, migrations.FS, migrations.Dir, log); err != nil {
				st.close()
				return nil, err
			}
		}

		servicePool, owned, err := pg.ConnectService(ctx, cfg, pool)
		if err != nil {
			st.close()
			return nil, err
		}
		if owned {
			st.closers = append(st.closers, servicePool.Close)
		}

		st.users = repository.NewUsers(pool)
		st.profiles = repository.NewProfiles(pool)
		st.reader = repository.NewProfiles(servicePool)
		st.checks = append(st.checks, httpserver.Check{Name: "postgres", Fn: pg.Healthcheck(pool)})
		return st, nil
	}

	return nil, fmt.Errorf("unknown STORAGE %q, want memory or postgres", kind)
}
