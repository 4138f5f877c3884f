// Package http provides the optional HTTP API for analogd.
package http

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/fyrsmithlabs/analogd/internal/analogy"
	"github.com/fyrsmithlabs/analogd/internal/patterns"
)

// Server provides HTTP endpoints for analogd.
type Server struct {
	echo    *echo.Echo
	engine  *analogy.Engine
	library *patterns.Library
	logger  *zap.Logger
	config  *Config
}

// Config holds HTTP server configuration.
type Config struct {
	Host string
	Port int
}

// NewServer creates a new HTTP server.
func NewServer(engine *analogy.Engine, library *patterns.Library, logger *zap.Logger, cfg *Config) (*Server, error) {
	if engine == nil {
		return nil, fmt.Errorf("analogy engine cannot be nil")
	}
	if library == nil {
		return nil, fmt.Errorf("pattern library cannot be nil")
	}
	if logger == nil {
		return nil, fmt.Errorf("logger is required for request tracking and debugging")
	}
	if cfg == nil {
		cfg = &Config{
			Host: "127.0.0.1",
			Port: 8711,
		}
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	// Middleware
	e.Use(middleware.Recover())
	e.Use(middleware.RequestID())
	e.Use(func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			err := next(c)
			duration := time.Since(start)

			logger.Info("http request",
				zap.String("method", c.Request().Method),
				zap.String("uri", c.Request().RequestURI),
				zap.Int("status", c.Response().Status),
				zap.Duration("duration", duration),
				zap.String("request_id", c.Response().Header().Get(echo.HeaderXRequestID)),
			)

			return err
		}
	})

	s := &Server{
		echo:    e,
		engine:  engine,
		library: library,
		logger:  logger,
		config:  cfg,
	}

	s.registerRoutes()

	return s, nil
}

// registerRoutes sets up the HTTP endpoints.
func (s *Server) registerRoutes() {
	s.echo.GET("/health", s.handleHealth)
	s.echo.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	v1 := s.echo.Group("/api/v1")
	v1.POST("/analogy", s.handleAnalogy)
	v1.GET("/patterns/stats", s.handlePatternStats)
}

// AnalogyRequest is the request body for POST /api/v1/analogy.
type AnalogyRequest struct {
	ProblemDescription string   `json:"problem_description"`
	SourceDomains      []string `json:"source_domains,omitempty"`
	AbstractionLevel   string   `json:"abstraction_level,omitempty"`
	MaxResults         int      `json:"max_results,omitempty"`
}

// HealthResponse is the response body for GET /health.
type HealthResponse struct {
	Status string `json:"status"`
}

// handleHealth returns a simple health check response.
func (s *Server) handleHealth(c echo.Context) error {
	return c.JSON(http.StatusOK, HealthResponse{Status: "ok"})
}

// handleAnalogy runs the analogy pipeline for the posted problem.
func (s *Server) handleAnalogy(c echo.Context) error {
	var req AnalogyRequest
	if err := c.Bind(&req); err != nil {
		s.logger.Warn("invalid analogy request", zap.Error(err))
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	if strings.TrimSpace(req.ProblemDescription) == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "problem_description field is required")
	}

	level := analogy.AbstractionLevel(req.AbstractionLevel)
	if req.AbstractionLevel != "" && !level.Valid() {
		return echo.NewHTTPError(http.StatusBadRequest,
			fmt.Sprintf("abstraction_level %q is not one of: shallow, deep", req.AbstractionLevel))
	}
	if req.MaxResults < 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "max_results must not be negative")
	}

	result, err := s.engine.Synthesize(c.Request().Context(), analogy.Request{
		ProblemDescription: req.ProblemDescription,
		SourceDomains:      req.SourceDomains,
		AbstractionLevel:   level,
		MaxResults:         req.MaxResults,
	})
	if err != nil {
		s.logger.Error("analogy synthesis failed", zap.Error(err))
		return echo.NewHTTPError(http.StatusInternalServerError, "analogy synthesis failed")
	}

	return c.JSON(http.StatusOK, result)
}

// handlePatternStats returns aggregate pattern library statistics.
func (s *Server) handlePatternStats(c echo.Context) error {
	return c.JSON(http.StatusOK, s.library.Stats())
}

// Start starts the HTTP server.
func (s *Server) Start() error {
	addr := fmt.Sprintf("%s:%d", s.config.Host, s.config.Port)
	s.logger.Info("starting http server", zap.String("addr", addr))
	return s.echo.Start(addr)
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("shutting down http server")
	return s.echo.Shutdown(ctx)
}
