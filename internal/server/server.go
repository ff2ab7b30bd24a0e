// Package server exposes lint operations over HTTP.
package server

import (
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"botlint/internal/config"
	"botlint/internal/errors"
	"botlint/internal/lint"
	"botlint/internal/metrics"
	"botlint/internal/slogutil"
	"botlint/internal/version"
)

// Server is the HTTP API.
type Server struct {
	echo    *echo.Echo
	server  *http.Server
	cfg     config.ServerConfig
	svc     *lint.Service
	metrics *metrics.Recorder
	logger  *slog.Logger
	started time.Time
}

// New creates a server. When cfg.TokenHash is set every /api route needs a
// matching bearer token.
func New(cfg config.ServerConfig, svc *lint.Service, m *metrics.Recorder, logger *slog.Logger) *Server {
	s := &Server{
		echo:    echo.New(),
		cfg:     cfg,
		svc:     svc,
		metrics: m,
		logger:  slogutil.WithComponent(logger, "server"),
		started: time.Now(),
	}
	s.echo.HideBanner = true
	s.echo.HidePort = true
	s.echo.HTTPErrorHandler = s.errorHandler
	s.echo.Use(requestID(), s.logRequests(), s.recoverPanics())
	s.registerRoutes()

	s.server = &http.Server{
		Addr:         cfg.Addr,
		Handler:      s.echo,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 5 * time.Minute,
		IdleTimeout:  60 * time.Second,
	}
	return s
}

func (s *Server) registerRoutes() {
	s.echo.GET("/healthz", s.handleHealth)
	if s.metrics != nil {
		s.echo.GET("/metrics", echo.WrapHandler(s.metrics.Handler()))
	}

	api := s.echo.Group("/api", limitBody())
	if s.cfg.TokenHash != "" {
		api.Use(requireToken(s.cfg.TokenHash))
	}
	api.POST("/validate", s.handleValidate)
	api.POST("/usage", s.handleUsage)
	api.POST("/summary", s.handleSummary)
	api.POST("/typos", s.handleTypos)
	api.GET("/runs", s.handleListRuns)
	api.GET("/runs/:id", s.handleGetRun)
}

// ServeHTTP implements http.Handler for testing.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.echo.ServeHTTP(w, r)
}

// Start serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Start(ctx context.Context) error {
	s.logger.Info("Starting HTTP server", "addr", s.cfg.Addr, "auth", s.cfg.TokenHash != "")

	errCh := make(chan error, 1)
	go func() {
		if err := s.server.ListenAndServe(); err != nil && !stderrors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("failed to start server: %w", err)
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	s.logger.Info("Shutting down HTTP server")
	if err := s.server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("failed to shutdown server: %w", err)
	}
	return nil
}

// HealthResponse is the /healthz payload.
type HealthResponse struct {
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
	Version   string    `json:"version"`
	Uptime    string    `json:"uptime"`
	Oracle    bool      `json:"oracle"`
	History   bool      `json:"history"`
}

func (s *Server) handleHealth(c echo.Context) error {
	return c.JSON(http.StatusOK, HealthResponse{
		Status:    "ok",
		Timestamp: time.Now().UTC(),
		Version:   version.Info(),
		Uptime:    time.Since(s.started).Round(time.Second).String(),
		Oracle:    s.svc.Typos != nil,
		History:   s.svc.Store != nil,
	})
}

func (s *Server) handleValidate(c echo.Context) error {
	data, err := readBody(c)
	if err != nil {
		return err
	}

	q := c.QueryParams()
	opts := lint.ValidateOptions{
		Source:       q.Get("source"),
		CustomChecks: q["check"],
		UseOracle:    queryBool(q.Get("oracle")),
		WithUsage:    queryBool(q.Get("usage")),
		Save:         queryBool(q.Get("save")),
	}
	if opts.Source == "" {
		opts.Source = "api"
	}

	r, err := s.svc.Validate(c.Request().Context(), data, opts)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, r)
}

func (s *Server) handleUsage(c echo.Context) error {
	data, err := readBody(c)
	if err != nil {
		return err
	}
	res, err := s.svc.Usage(data)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, res)
}

func (s *Server) handleSummary(c echo.Context) error {
	data, err := readBody(c)
	if err != nil {
		return err
	}
	sum, err := s.svc.Summarize(c.Request().Context(), data)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, sum)
}

// TyposResponse is the /api/typos payload.
type TyposResponse struct {
	Texts []lint.TypoEntry `json:"texts"`
}

func (s *Server) handleTypos(c echo.Context) error {
	data, err := readBody(c)
	if err != nil {
		return err
	}
	entries, err := s.svc.CheckTypos(c.Request().Context(), data)
	if err != nil {
		return err
	}
	if entries == nil {
		entries = []lint.TypoEntry{}
	}
	return c.JSON(http.StatusOK, TyposResponse{Texts: entries})
}

func (s *Server) handleListRuns(c echo.Context) error {
	if s.svc.Store == nil {
		return errors.New(errors.HistoryUnavailable, "history is disabled", nil)
	}
	limit := 0
	if v := c.QueryParam("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			return errors.New(errors.InvalidRequest, "limit must be a non-negative integer", err)
		}
		limit = n
	}
	runs, err := s.svc.Store.List(limit)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string]any{"runs": runs})
}

func (s *Server) handleGetRun(c echo.Context) error {
	if s.svc.Store == nil {
		return errors.New(errors.HistoryUnavailable, "history is disabled", nil)
	}
	r, err := s.svc.Store.Get(c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, r)
}

func readBody(c echo.Context) ([]byte, error) {
	data, err := io.ReadAll(c.Request().Body)
	if err != nil {
		var he *echo.HTTPError
		if stderrors.As(err, &he) {
			return nil, he
		}
		return nil, errors.New(errors.InvalidRequest, "cannot read request body", err)
	}
	if len(data) == 0 {
		return nil, errors.New(errors.InvalidRequest, "request body is empty", nil)
	}
	return data, nil
}

func queryBool(v string) bool {
	b, _ := strconv.ParseBool(v)
	return b
}
