package app

import (
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/xelth-com/eckwms-mondialrelay/internal/config"
	"github.com/xelth-com/eckwms-mondialrelay/internal/database"
	"github.com/xelth-com/eckwms-mondialrelay/internal/delivery"
	"github.com/xelth-com/eckwms-mondialrelay/internal/delivery/mondialrelay"
	"github.com/xelth-com/eckwms-mondialrelay/internal/services/odoo"
	"github.com/xelth-com/eckwms-mondialrelay/internal/services/shipping"
)

// App holds the wired services shared by the API server and the CLI
type App struct {
	Config       *config.Config
	Logger       *zap.Logger
	DB           *database.DB
	Odoo         *odoo.SyncService
	Registry     *delivery.Registry
	Shipping     *shipping.Service
	MondialRelay *shipping.MondialRelaySender // nil when the helper script is missing
}

// Build connects the database, migrates the schema and registers carrier senders
func Build(cfg *config.Config, logger *zap.Logger) (*App, error) {
	db, err := database.Connect(cfg.Database, logger.Named("db"))
	if err != nil {
		return nil, err
	}

	logger.Info("Synchronizing database schema")
	if err := db.Migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migration failed: %w", err)
	}

	a := &App{
		Config:   cfg,
		Logger:   logger,
		DB:       db,
		Odoo:     odoo.NewSyncService(db, cfg.Odoo, logger.Named("odoo")),
		Registry: delivery.NewRegistry(),
	}

	var publisher shipping.TrackingPublisher
	if a.Odoo.Enabled() {
		publisher = a.Odoo
	}
	store := shipping.NewStore(db, publisher, logger.Named("store"))

	client, err := mondialrelay.NewScriptClient(mondialrelay.ScriptConfig{
		ScriptPath: cfg.MondialRelay.ScriptPath,
		NodePath:   cfg.MondialRelay.NodePath,
		URL:        cfg.MondialRelay.URL,
	})
	if err != nil {
		logger.Warn("MondialRelay sender not available", zap.Error(err))
	} else {
		if cfg.Labels.Dir != "" {
			if err := os.MkdirAll(cfg.Labels.Dir, 0o755); err != nil {
				db.Close()
				return nil, fmt.Errorf("failed to create labels directory: %w", err)
			}
		}
		sink := &mondialrelay.TempFileSink{Dir: cfg.Labels.Dir, Scope: cfg.Labels.Scope}
		a.MondialRelay = shipping.NewMondialRelaySender(store, client, sink, logger.Named("mondialrelay"))
		if err := a.Registry.Register(a.MondialRelay); err != nil {
			db.Close()
			return nil, err
		}
		logger.Info("Delivery: MondialRelay sender registered")
	}

	a.Shipping = shipping.NewService(db, a.Registry, logger.Named("shipping"))
	return a, nil
}

// Close releases the database (and stops embedded PostgreSQL)
func (a *App) Close() error {
	a.Odoo.Stop()
	return a.DB.Close()
}
