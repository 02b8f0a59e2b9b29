package main

import (
	"context"
	"log/slog"
	"os"

	"taskhub/config"
	"taskhub/internal/delivery"
	"taskhub/internal/delivery/http"
	"taskhub/internal/delivery/http/middleware"
	"taskhub/internal/delivery/http/router/handler"
	"taskhub/internal/domain/repository"
	"taskhub/internal/infra/auth"
	logs "taskhub/internal/infra/log"
	"taskhub/internal/infra/persistence/memory"
	"taskhub/internal/infra/persistence/sqlite"
	"taskhub/internal/infra/session"
	"taskhub/internal/usecase/impl"

	"go.uber.org/fx"
)

type startServerParams struct {
	fx.In
	fx.Lifecycle

	Deliveries []delivery.Delivery `group:"deliveries"`
}

func main() {
	fx.New(
		injectInfra(),
		injectRepo(),
		injectService(),
		injectUsecase(),
		injectDelivery(),
		injectMiddleware(),
		injectHandler(),
		fx.Invoke(
			startServer,
		),
	).Run()
}

func injectInfra() fx.Option {
	return fx.Provide(
		config.New,
		logs.New,
		context.Background,
	)
}

// repoSet bundles the persistence bindings so the backend can be chosen from
// config at startup.
type repoSet struct {
	fx.Out

	UserRepo  repository.UserRepository
	TaskRepo  repository.TaskRepository
	TxManager repository.TransactionManager
}

func injectRepo() fx.Option {
	return fx.Options(
		fx.Provide(
			newRepositories,
		),
	)
}

// newRepositories wires the configured persistence backend: SQLite through
// GORM, or the in-memory store.
func newRepositories(cfg *config.Config, logger *slog.Logger) (repoSet, error) {
	if cfg.Database != nil && cfg.Database.Driver == config.DriverSQLite {
		db, err := sqlite.New(sqlite.Params{Config: cfg, Logger: logger})
		if err != nil {
			return repoSet{}, err
		}

		return repoSet{
			UserRepo:  sqlite.NewUserRepository(db),
			TaskRepo:  sqlite.NewTaskRepository(db),
			TxManager: sqlite.NewTransactionManager(db),
		}, nil
	}

	store := memory.NewStore()

	return repoSet{
		UserRepo:  memory.NewUserRepository(store),
		TaskRepo:  memory.NewTaskRepository(store),
		TxManager: memory.NewTransactionManager(store),
	}, nil
}

func injectService() fx.Option {
	return fx.Options(
		fx.Provide(
			auth.NewBcryptHasher,
			auth.NewJWTService,
			session.NewRegistry,
		),
	)
}

func injectUsecase() fx.Option {
	return fx.Options(
		fx.Provide(
			impl.NewUserService,
			impl.NewTaskService,
			impl.NewIdentityService,
		),
	)
}

func injectMiddleware() fx.Option {
	return fx.Options(
		fx.Provide(
			middleware.NewAuthMiddleware,
			middleware.NewErrorMiddleware,
			middleware.NewRequestIDMiddleware,
		),
	)
}

func injectHandler() fx.Option {
	return fx.Options(
		fx.Provide(
			handler.NewUserHandler,
			handler.NewTaskHandler,
		),
	)
}

func injectDelivery() fx.Option {
	return fx.Options(
		fx.Provide(
			fx.Annotate(
				http.NewServer,
				fx.ResultTags(`group:"deliveries"`),
			),
		),
	)
}

func startServer(ctx context.Context, params startServerParams) {
	for _, delivery := range params.Deliveries {
		go func() {
			if err := delivery.Serve(ctx); err != nil {
				slog.Error("Failed to start server", slog.Any("error", err))
				os.Exit(1)
			}
		}()
	}
}
