package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/atlasiq/atlasiq/config"
	"github.com/atlasiq/atlasiq/internal/agent/pipeline"
	"github.com/atlasiq/atlasiq/internal/agent/react"
	"github.com/atlasiq/atlasiq/internal/agent/tools"
	"github.com/atlasiq/atlasiq/internal/cache"
	"github.com/atlasiq/atlasiq/internal/countries"
	"github.com/atlasiq/atlasiq/internal/llm"
	"github.com/atlasiq/atlasiq/internal/news"
	"github.com/atlasiq/atlasiq/internal/places"
	"github.com/atlasiq/atlasiq/internal/server"
	"github.com/atlasiq/atlasiq/internal/telemetry"
	"github.com/atlasiq/atlasiq/internal/weather"
	"github.com/atlasiq/atlasiq/internal/websearch"
)

func main() {
	root := &cobra.Command{Use: "atlasiq"}
	root.AddCommand(serveCMD())
	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

func serveCMD() *cobra.Command {
	var cfgPath string
	var addr string

	serve := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.LoadConfig(cfgPath)
			if addr != "" {
				cfg.Server.Address = addr
			}
			return run(cfg)
		},
	}
	serve.Flags().StringVar(&addr, "addr", "", "listen address (overrides config)")
	serve.PersistentFlags().StringVarP(&cfgPath, "config", "c", "", "config file path")
	return serve
}

func run(cfg *config.Config) error {
	logger := log.New(log.Writer(), "[ATLASIQ] ", log.LstdFlags)

	if err := cfg.LLM.Validate(); err != nil {
		return fmt.Errorf("llm config: %w", err)
	}

	ctx := context.Background()

	var store cache.Cache
	if cfg.Cache.Redis.Host != "" {
		redisCache, err := cache.NewRedis(ctx, cfg.Cache.Redis)
		if err != nil {
			return fmt.Errorf("connecting to redis: %w", err)
		}
		store = redisCache
		logger.Printf("cache backend: redis %s:%s", cfg.Cache.Redis.Host, cfg.Cache.Redis.Port)
	} else {
		store = cache.NewMemory()
		logger.Printf("cache backend: in-memory")
	}

	catalogue, err := countries.NewService(nil)
	if err != nil {
		return fmt.Errorf("loading country catalogue: %w", err)
	}

	provider := llm.NewClient(cfg.LLM, nil)
	placesClient := places.NewClient(cfg.Places, store, nil)
	weatherClient := weather.NewClient()

	var metrics *telemetry.Metrics
	if cfg.Telemetry.Enabled {
		metrics = telemetry.NewMetrics(prometheus.DefaultRegisterer)
	}

	toolSet := []tools.Tool{
		tools.SearchCountries{Countries: catalogue},
		tools.GetCountryDetails{Countries: catalogue},
		tools.CompareCountries{Countries: catalogue},
		tools.GetTravelTips{Countries: catalogue},
		tools.RankByPreference{Countries: catalogue},
		tools.GetWeather{Weather: weatherClient},
	}
	if cfg.Places.APIKey != "" {
		toolSet = append(toolSet, tools.SearchNearbyPlaces{Places: placesClient})
	}
	if searcher, err := websearch.NewSearcher(cfg.Search); err == nil {
		toolSet = append(toolSet, tools.WebSearch{Searcher: searcher})
	} else {
		logger.Printf("web search disabled: %v", err)
	}
	if cfg.News.APIKey != "" {
		toolSet = append(toolSet, tools.NewsSearch{News: news.NewClient(cfg.News.APIKey, cfg.News.Endpoint)})
	}
	registry := tools.NewRegistry(nil, toolSet...)

	agent := react.New(cfg.Agent, provider, registry, placesClient, metrics, nil)

	planner, err := pipeline.NewPlanner(provider, nil)
	if err != nil {
		return fmt.Errorf("building planner: %w", err)
	}
	pipe := pipeline.New(provider, planner, catalogue, store, nil)

	srv := server.New(cfg.Server, server.Deps{
		Provider:  provider,
		Agent:     agent,
		Pipeline:  pipe,
		Countries: catalogue,
		Places:    placesClient,
	})

	errCh := make(chan error, 1)
	go func() { errCh <- srv.Start() }()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return err
	case sig := <-sigCh:
		logger.Printf("received %s, shutting down", sig)
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}
