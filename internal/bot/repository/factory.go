package repository

import (
	"log/slog"

	"github.com/central-university-dev/go-wanbit/internal/bot/repository/orm"
	sqlrepo "github.com/central-university-dev/go-wanbit/internal/bot/repository/sql"
	"github.com/central-university-dev/go-wanbit/internal/config"
	"github.com/central-university-dev/go-wanbit/internal/database"
	"github.com/central-university-dev/go-wanbit/internal/domain/errors"
	"github.com/central-university-dev/go-wanbit/pkg/txs"
)

type Factory struct {
	db        *database.PostgresDB
	txManager *txs.TxManager
	config    *config.Config
	logger    *slog.Logger
}

func NewFactory(db *database.PostgresDB, txManager *txs.TxManager, config *config.Config, logger *slog.Logger) *Factory {
	return &Factory{
		db:        db,
		txManager: txManager,
		config:    config,
		logger:    logger,
	}
}

func (f *Factory) CreateStore() (Store, error) {
	switch f.config.DatabaseAccessType {
	case config.SquirrelAccess:
		f.logger.Info("Создание ORM (Squirrel) хранилища")
		return orm.NewStore(f.db, f.txManager), nil
	case config.SQLAccess:
		f.logger.Info("Создание SQL хранилища")
		return sqlrepo.NewStore(f.db, f.txManager), nil
	default:
		return nil, &errors.ErrUnknownDBAccessType{AccessType: string(f.config.DatabaseAccessType)}
	}
}
