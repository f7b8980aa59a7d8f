package server

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/atlasiq/atlasiq/config"
	"github.com/atlasiq/atlasiq/internal/agent/pipeline"
	"github.com/atlasiq/atlasiq/internal/agent/react"
	"github.com/atlasiq/atlasiq/internal/countries"
	"github.com/atlasiq/atlasiq/internal/llm"
	"github.com/atlasiq/atlasiq/internal/places"
)

// Version is reported by /health.
const Version = "0.1.0"

// Deps carries the shared services the handlers need. Everything is built
// once at startup and injected; handlers hold no mutable state.
type Deps struct {
	Provider  llm.Provider
	Agent     *react.Agent
	Pipeline  *pipeline.Pipeline
	Countries *countries.Service
	Places    places.Searcher
}

// Server is the HTTP front of the service.
type Server struct {
	echo    *echo.Echo
	cfg     config.ServerConfig
	logger  *log.Logger
	started time.Time
}

func New(cfg config.ServerConfig, deps Deps) *Server {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Use(middleware.Recover())

	logger := log.New(log.Writer(), "[HTTP] ", log.LstdFlags)
	e.HTTPErrorHandler = func(err error, c echo.Context) {
		code := http.StatusInternalServerError
		msg := err.Error()
		if he, ok := err.(*echo.HTTPError); ok {
			code = he.Code
			if he.Message != nil {
				msg = fmt.Sprint(he.Message)
			}
		}
		req := c.Request()
		logger.Printf("%d %s %s from %s: %v", code, req.Method, req.URL.Path, c.RealIP(), err)
		if !c.Response().Committed {
			_ = c.JSON(code, map[string]interface{}{"error": msg})
		}
	}

	origins := cfg.CORSOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: origins,
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowHeaders: []string{"Content-Type"},
	}))

	s := &Server{echo: e, cfg: cfg, logger: logger, started: time.Now()}

	e.GET("/", s.root)
	e.GET("/health", s.health)
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	(&CountriesHandler{Countries: deps.Countries}).Register(e)
	(&RecommendationsHandler{Pipeline: deps.Pipeline}).Register(e)
	(&PlacesHandler{Places: deps.Places}).Register(e)
	(&ChatHandler{Provider: deps.Provider, Logger: logger}).Register(e)
	(&AssistantHandler{Agent: deps.Agent}).Register(e)

	return s
}

func (s *Server) root(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]interface{}{
		"name":      "AtlasIQ API",
		"version":   Version,
		"endpoints": []string{"/health", "/countries", "/recommendations", "/assistant"},
	})
}

func (s *Server) health(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]interface{}{
		"status":         "ok",
		"uptime_seconds": int(time.Since(s.started).Seconds()),
		"version":        Version,
	})
}

// Start blocks serving HTTP until the listener fails or Shutdown is called.
func (s *Server) Start() error {
	s.logger.Printf("listening on %s", s.cfg.Address)
	return s.echo.Start(s.cfg.Address)
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.echo.Shutdown(ctx)
}
