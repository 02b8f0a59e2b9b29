// Package sqlite contains the concrete implementation of the persistence layer using GORM and SQLite.
package sqlite

import (
	"log/slog"

	"github.com/glebarez/sqlite"
	"go.uber.org/fx"
	"gorm.io/gorm"

	"taskhub/config"
	"taskhub/internal/errors"
	"taskhub/internal/infra/persistence/model"
)

const defaultDSN = "taskhub.db"

// Params defines the required parameters
type Params struct {
	fx.In

	Config *config.Config
	Logger *slog.Logger
}

// New opens the SQLite database and migrates the schema.
func New(params Params) (*gorm.DB, error) {
	dsn := defaultDSN
	if params.Config.Database != nil && params.Config.Database.DSN != "" {
		dsn = params.Config.Database.DSN
	}

	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		// Disable GORM's per-statement implicit transaction.
		// We keep explicit transactions via txManager.Execute for multi-step atomic operations.
		SkipDefaultTransaction: true,
		Logger:                 newGormSlogLogger(params.Logger, params.Config),
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to open sqlite database")
	}

	if err := db.AutoMigrate(&model.UserModel{}, &model.TaskModel{}); err != nil {
		return nil, errors.Wrap(err, "failed to migrate sqlite schema")
	}

	return db, nil
}
