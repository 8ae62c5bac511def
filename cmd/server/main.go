package main

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/fx"

	"github.com/firmledger/firmledger/internal/api"
	v1 "github.com/firmledger/firmledger/internal/api/v1"
	"github.com/firmledger/firmledger/internal/cache"
	"github.com/firmledger/firmledger/internal/config"
	"github.com/firmledger/firmledger/internal/domain/dunning"
	"github.com/firmledger/firmledger/internal/logger"
	"github.com/firmledger/firmledger/internal/repository"
	"github.com/firmledger/firmledger/internal/service"
)

func main() {
	app := fx.New(
		fx.Provide(
			config.NewConfig,
			logger.NewLogger,
			cache.Initialize,
			newEscalationPolicyRepository,
			newServiceParams,
			service.NewEscalationPolicyService,
			v1.NewDunningHandler,
			newHandlers,
			api.NewRouter,
		),
		fx.Invoke(startServer),
	)

	app.Run()
}

func newEscalationPolicyRepository(log *logger.Logger) dunning.Repository {
	return repository.NewEscalationPolicyRepository(log)
}

func newServiceParams(
	log *logger.Logger,
	cfg *config.Configuration,
	c cache.Cache,
	policyRepo dunning.Repository,
) service.ServiceParams {
	return service.ServiceParams{
		Logger:               log,
		Config:               cfg,
		Cache:                c,
		EscalationPolicyRepo: policyRepo,
	}
}

func newHandlers(dunningHandler *v1.DunningHandler) api.Handlers {
	return api.Handlers{Dunning: dunningHandler}
}

func startServer(
	lc fx.Lifecycle,
	cfg *config.Configuration,
	router *gin.Engine,
	log *logger.Logger,
) {
	server := &http.Server{
		Addr:              cfg.Server.Address,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			log.Infow("starting server", "address", cfg.Server.Address)
			go func() {
				if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					log.Fatalf("failed to start server: %v", err)
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			log.Infow("shutting down server")
			return server.Shutdown(ctx)
		},
	})
}
