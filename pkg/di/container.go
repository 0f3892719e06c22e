// Package di wires the application graph: config feeds the logger, the
// connection manager and the tiered cache, which feed the repositories,
// which feed the HTTP router.
package di

import (
	"fmt"
	"net/http"

	"go.uber.org/zap"

	"github.com/rentfolio/rentfolio/cache"
	"github.com/rentfolio/rentfolio/internal/api"
	"github.com/rentfolio/rentfolio/internal/cacheinfra"
	"github.com/rentfolio/rentfolio/internal/config"
	"github.com/rentfolio/rentfolio/internal/database"
	"github.com/rentfolio/rentfolio/internal/logger"
	"github.com/rentfolio/rentfolio/internal/repository"
)

type Container struct {
	Config  config.Config
	Log     *zap.Logger
	Manager *database.Manager
	Cache   cache.Service

	Owners     *repository.Owners
	Properties *repository.Properties
	Tenants    *repository.Tenants
	Brokers    *repository.Brokers
	Contracts  *repository.Contracts
	Financial  *repository.Financial
	Users      *repository.Users

	Router http.Handler
}

// New builds the full container. The database connection itself stays lazy;
// nothing touches sqlite until the first repository call.
func New(cfg config.Config) (*Container, error) {
	log, err := logger.New(cfg.Env)
	if err != nil {
		return nil, fmt.Errorf("build logger: %w", err)
	}

	manager := database.NewManager(cfg.Database.Path, log)

	var cacheSvc cache.Service
	if cfg.Cache.Enabled {
		cacheSvc, err = cacheinfra.NewTieredService(cfg.ToCacheConfig())
		if err != nil {
			return nil, fmt.Errorf("build cache: %w", err)
		}
	}

	c := &Container{
		Config:     cfg,
		Log:        log,
		Manager:    manager,
		Cache:      cacheSvc,
		Owners:     repository.NewOwners(manager, cacheSvc),
		Properties: repository.NewProperties(manager, cacheSvc),
		Tenants:    repository.NewTenants(manager, cacheSvc),
		Brokers:    repository.NewBrokers(manager, cacheSvc),
		Contracts:  repository.NewContracts(manager, cacheSvc),
		Financial:  repository.NewFinancial(manager, cacheSvc),
		Users:      repository.NewUsers(manager, cacheSvc),
	}

	c.Router = api.NewRouter(api.Deps{
		Log:        log,
		Cache:      cacheSvc,
		Owners:     c.Owners,
		Properties: c.Properties,
		Tenants:    c.Tenants,
		Brokers:    c.Brokers,
		Contracts:  c.Contracts,
		Financial:  c.Financial,
		Users:      c.Users,
	})
	return c, nil
}

// Close releases the container's resources in reverse dependency order.
func (c *Container) Close() error {
	err := c.Manager.Close()
	_ = c.Log.Sync()
	return err
}
