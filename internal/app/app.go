// Package app wires configuration, stores and services into the HTTP server.
package app

import (
	"context"
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/guttosm/rdcredit-service/config"
	"github.com/guttosm/rdcredit-service/internal/http"
	"github.com/guttosm/rdcredit-service/internal/middleware"
	"github.com/guttosm/rdcredit-service/internal/service"
)

// App is the wired application.
type App struct {
	Router  *gin.Engine
	closers []func(ctx context.Context) error
}

// InitializeApp creates and wires all application dependencies.
func InitializeApp(cfg config.Config) *App {
	InitializeLogger(cfg.Log)

	a := &App{}

	manager := InitializeCache(cfg.Cache, cfg.Redis)
	a.onClose(func(context.Context) error { return manager.Close() })

	upstream := InitializeUpstream(cfg.Airtable)
	var store service.RecordStore
	if upstream != nil {
		store = upstream
	}

	services := InitializeServices(cfg.Auth, manager, store)

	dbComponents := InitializeDatabase(cfg.Database)
	if dbComponents != nil {
		middleware.InitAsyncLogger(dbComponents.LoggingService, middleware.DefaultAsyncLoggerConfig())
		a.onClose(func(context.Context) error {
			middleware.StopAsyncLogger()
			return nil
		})
		a.onClose(dbComponents.DB.Close)
	}

	routerComponents := InitializeRouter(cfg, services, manager, upstream, dbComponents)
	if limiter := routerComponents.Config.Limiter; limiter != nil {
		a.onClose(func(context.Context) error {
			limiter.Stop()
			return nil
		})
	}

	a.Router = http.NewRouter(routerComponents.HealthHandler, routerComponents.Config)
	return a
}

func (a *App) onClose(fn func(ctx context.Context) error) {
	a.closers = append(a.closers, fn)
}

// Close releases resources in the order they were acquired: the rate limiter
// and async log workers stop before the stores they write to close.
func (a *App) Close(ctx context.Context) error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](ctx); err != nil {
			errs = append(errs, err)
		}
	}
	if err := errors.Join(errs...); err != nil {
		log.Warn().Err(err).Msg("Errors while releasing resources")
		return err
	}
	return nil
}
