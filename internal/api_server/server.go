package apiserver

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	"github.com/sorajobs/admin-dashboard/internal/auth"
	"github.com/sorajobs/admin-dashboard/internal/config"
	"github.com/sorajobs/admin-dashboard/internal/export"
	handlers "github.com/sorajobs/admin-dashboard/internal/handlers/v1alpha1"
	"github.com/sorajobs/admin-dashboard/internal/poller"
	"github.com/sorajobs/admin-dashboard/internal/service"
	"github.com/sorajobs/admin-dashboard/internal/store"
	"github.com/sorajobs/admin-dashboard/pkg/metrics"
	"github.com/sorajobs/admin-dashboard/pkg/middleware"
)

const (
	gracefulShutdownTimeout = 5 * time.Second
)

type Server struct {
	cfg      *config.Config
	store    store.Store
	listener net.Listener
}

// New returns a new instance of the dashboard API server.
func New(cfg *config.Config, store store.Store, listener net.Listener) *Server {
	return &Server{
		cfg:      cfg,
		store:    store,
		listener: listener,
	}
}

func (s *Server) Run(ctx context.Context) error {
	zap.S().Named("api_server").Info("Initializing API server")

	authenticator, err := auth.NewAuthenticator(s.cfg.Service.AdminToken)
	if err != nil {
		return err
	}

	router := chi.NewRouter()

	metricMiddleware := metrics.NewMiddleware("api_server")
	metricMiddleware.MustRegisterDefault()

	router.Use(
		metricMiddleware.Handler,
		cors.Handler(cors.Options{
			AllowedOrigins: []string{"*"},
			AllowedMethods: []string{"GET", "POST", "HEAD", "OPTIONS"},
			AllowedHeaders: []string{"*"},
			MaxAge:         300,
		}),
		authenticator.Authenticator,
		middleware.RequestID,
		middleware.Logger(),
		chiMiddleware.Recoverer,
	)

	jobSrv := service.NewJobService(
		s.store,
		s.cfg.Service.DefaultJobsLimit,
		s.cfg.Service.MaxJobsLimit,
		time.Duration(s.cfg.Service.StuckThresholdMinutes)*time.Minute,
	)
	pollerClient := poller.NewClient(
		s.cfg.Poller.BaseURL,
		s.cfg.Poller.Token,
		time.Duration(s.cfg.Poller.TimeoutSec)*time.Second,
	)
	pollerSrv := service.NewPollerService(pollerClient, s.cfg.Poller.MaxBatchSize, s.cfg.Poller.DefaultBatch)
	exportSrv := export.NewExportService(jobSrv)

	handlers.NewServiceHandler(jobSrv, pollerSrv, exportSrv).RegisterRoutes(router)

	srv := http.Server{Addr: s.cfg.Service.Address, Handler: router}

	go func() {
		<-ctx.Done()
		zap.S().Named("api_server").Infof("Shutdown signal received: %s", ctx.Err())
		ctxTimeout, cancel := context.WithTimeout(context.Background(), gracefulShutdownTimeout)
		defer cancel()

		srv.SetKeepAlivesEnabled(false)
		_ = srv.Shutdown(ctxTimeout)
		zap.S().Named("api_server").Info("api server terminated")
	}()

	zap.S().Named("api_server").Infof("Listening on %s...", s.listener.Addr().String())
	if err := srv.Serve(s.listener); err != nil && !errors.Is(err, net.ErrClosed) {
		return err
	}

	return nil
}
