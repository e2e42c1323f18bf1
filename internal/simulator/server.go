package simulator

import (
	"context"
	"net"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/hydroguard/hydroguard/internal/errors"
	"github.com/hydroguard/hydroguard/internal/logger"
	"github.com/hydroguard/hydroguard/internal/session"
)

// DefaultAddr is the listen address used by `hydroguard simulate`.
const DefaultAddr = "127.0.0.1:8080"

const shutdownTimeout = 5 * time.Second

// Config configures a simulator Server.
type Config struct {
	Addr           string
	FailPercent    int
	DropRedPercent int
	Rand           session.Rand
	Logger         logger.Logger
}

// Server is a fake device: /sensors, /healthz and /metrics.
type Server struct {
	addr    string
	log     logger.Logger
	router  *gin.Engine
	metrics *Metrics
	sensors *SensorAPI
}

// NewServer builds the router. Nothing listens until Serve is called.
func NewServer(cfg Config) *Server {
	if cfg.Addr == "" {
		cfg.Addr = DefaultAddr
	}
	if cfg.Logger == nil {
		cfg.Logger = logger.Noop()
	}

	gin.SetMode(gin.ReleaseMode)
	router := gin.New()

	metrics := NewMetrics()
	sensors := NewSensorAPI(cfg.Rand, metrics, cfg.Logger)
	sensors.FailPercent = cfg.FailPercent
	sensors.DropRedPercent = cfg.DropRedPercent

	s := &Server{
		addr:    cfg.Addr,
		log:     cfg.Logger,
		router:  router,
		metrics: metrics,
		sensors: sensors,
	}

	router.Use(gin.Recovery(), s.accessLog(), metrics.Middleware())
	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	RegisterGroup(router, sensors)
	RegisterGroup(router, &MetricsAPI{Metrics: metrics})

	return s
}

// Handler returns the HTTP handler, for tests and embedding.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Metrics returns the server's collectors.
func (s *Server) Metrics() *Metrics {
	return s.metrics
}

// Serve listens on the configured address until ctx is cancelled, then
// shuts down gracefully. ready, if non-nil, receives the bound address.
func (s *Server) Serve(ctx context.Context, ready func(addr string)) error {
	ln, err := net.Listen("tcp", s.addr)
	if err != nil {
		return errors.WrapWithCode(err, errors.ErrServe,
			"Cannot listen on "+s.addr,
			"Pick another address with --addr, e.g. 127.0.0.1:0 for a free port")
	}

	srv := &http.Server{Handler: s.router, ReadHeaderTimeout: 5 * time.Second}
	s.log.Info("simulator listening on %s", ln.Addr())
	if ready != nil {
		ready(ln.Addr().String())
	}

	errCh := make(chan error, 1)
	go func() { errCh <- srv.Serve(ln) }()

	select {
	case err := <-errCh:
		return errors.WrapWithCode(err, errors.ErrServe, "Simulator stopped unexpectedly", "")
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return errors.WrapWithCode(err, errors.ErrServe, "Simulator did not shut down cleanly", "")
	}
	s.log.Info("simulator stopped")
	return nil
}

func (s *Server) accessLog() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		s.log.Debug("%s %s -> %d in %s", c.Request.Method, c.Request.URL.Path,
			c.Writer.Status(), time.Since(start).Round(time.Microsecond))
	}
}
