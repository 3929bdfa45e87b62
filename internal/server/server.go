// Package server is the reference HTTP API that authenticated garden
// clients sync against.
package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/cors"
	"golang.org/x/crypto/bcrypt"

	"github.com/julianstephens/habitgarden/internal/clock"
	"github.com/julianstephens/habitgarden/internal/config"
	"github.com/julianstephens/habitgarden/internal/logger"
	"github.com/julianstephens/habitgarden/internal/store"
)

const shutdownTimeout = 10 * time.Second

type Server struct {
	cfg      config.Config
	store    *store.Store
	clock    clock.Clock
	accounts *accounts
	tokens   tokenIssuer
	limiter  *rateLimiter
	registry *prometheus.Registry
	metrics  *metrics
}

// New builds a server over st. Per-user data is namespaced by account email.
func New(cfg config.Config, st *store.Store, clk clock.Clock) *Server {
	if clk == nil {
		clk = clock.System(time.UTC)
	}
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	return &Server{
		cfg:      cfg,
		store:    st,
		clock:    clk,
		accounts: &accounts{backend: st.Backend(), cost: bcrypt.DefaultCost},
		tokens:   tokenIssuer{secret: []byte(cfg.JWT.Secret), ttl: cfg.JWT.TTL},
		limiter:  newRateLimiter(cfg.RateLimit.MaxRequests, cfg.RateLimit.Window, clk.Now),
		registry: reg,
		metrics:  newMetrics(reg),
	}
}

// Router returns the gin engine with every route registered.
func (s *Server) Router() *gin.Engine {
	gin.SetMode(s.cfg.Server.Mode)
	r := gin.New()
	r.Use(gin.Recovery(), s.metrics.middleware(), requestLogger())

	r.GET("/healthz", s.healthz)
	r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(s.registry, promhttp.HandlerOpts{})))

	api := r.Group("/api")

	auth := api.Group("/auth")
	auth.POST("/register", s.limiter.middleware(), s.register)
	auth.POST("/login", s.limiter.middleware(), s.login)
	auth.GET("/me", s.authRequired(), s.me)

	protected := api.Group("", s.authRequired())
	protected.GET("/habits", s.listHabits)
	protected.POST("/habits", s.createHabit)
	protected.PUT("/habits/:id", s.updateHabit)
	protected.DELETE("/habits/:id", s.deleteHabit)
	protected.GET("/habits/:id/completions", s.listCompletions)
	protected.POST("/completions", s.recordCompletion)
	protected.DELETE("/completions/:id", s.deleteCompletion)

	return r
}

// Handler wraps the router with CORS handling.
func (s *Server) Handler() http.Handler {
	c := cors.New(cors.Options{
		AllowedOrigins:   s.cfg.CORS.AllowedOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowedHeaders:   []string{"Authorization", "Content-Type", "Accept"},
		AllowCredentials: false,
		MaxAge:           300,
		Debug:            s.cfg.Debug,
	})
	return c.Handler(s.Router())
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:         s.cfg.Server.Addr,
		Handler:      s.Handler(),
		ReadTimeout:  s.cfg.Server.ReadTimeout,
		WriteTimeout: s.cfg.Server.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("gardend listening", "addr", s.cfg.Server.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("Shutting down gardend")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	return <-errCh
}
