package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/leofalp/chatstream/core/session"
	"github.com/leofalp/chatstream/core/session/middleware"
	"github.com/leofalp/chatstream/providers/ai"
	"github.com/leofalp/chatstream/providers/ai/catalog"
	"github.com/leofalp/chatstream/providers/observability/promobs"
	"github.com/leofalp/chatstream/providers/observability/slogobs"
	"github.com/leofalp/chatstream/providers/secrets"
)

// app wires the ambient stack shared by the subcommands.
type app struct {
	opts     *rootOptions
	observer *slogobs.Observer
	registry *prometheus.Registry
	resolver secrets.Resolver
	client   *http.Client
}

func newApp(opts *rootOptions, logOutput io.Writer) (*app, error) {
	format := slogobs.GetFormatFromEnv()
	if opts.logFormat != "" {
		format = slogobs.ParseFormat(opts.logFormat)
	}
	level := slogobs.GetLogLevelFromEnv()
	if opts.logLevel != "" {
		level = slogobs.ParseLogLevel(opts.logLevel)
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector())

	metrics := promobs.New(registry)
	observer := slogobs.New(
		slogobs.WithFormat(format),
		slogobs.WithLevel(level),
		slogobs.WithOutput(logOutput),
		slogobs.WithMetrics(metrics),
	)
	metrics.SetLogger(observer.Logger())

	resolver, err := secrets.NewEnv(opts.envFiles, secrets.WithLogger(observer.Logger()))
	if err != nil {
		return nil, err
	}

	return &app{
		opts:     opts,
		observer: observer,
		registry: registry,
		resolver: resolver,
		client:   &http.Client{},
	}, nil
}

// provider builds the provider for id, falling back to the --model flag
// when model is empty.
func (a *app) provider(id ai.ProviderID, model string) (ai.Provider, error) {
	if model == "" {
		model = a.opts.model
	}
	return catalog.Resolve(id, model, a.resolver,
		catalog.WithHTTPClient(a.client),
		catalog.WithMaxTokens(a.opts.maxTokens),
	)
}

func (a *app) initialProvider() (ai.Provider, error) {
	id, err := ai.ParseProviderID(a.opts.provider)
	if err != nil {
		return nil, err
	}
	return a.provider(id, "")
}

func (a *app) newSession(provider ai.Provider) *session.Service {
	middlewares := []session.StreamMiddleware{
		middleware.NewLoggingMiddleware(a.observer.Logger(), middleware.LogLevelStandard),
	}
	if a.opts.timeout > 0 {
		middlewares = append(middlewares, middleware.NewTimeoutMiddleware(a.opts.timeout))
	}

	return session.New(provider,
		session.WithObserver(a.observer),
		session.WithSystemPrompt(a.opts.systemPrompt),
		session.WithMiddleware(middlewares...),
	)
}

// serveMetrics exposes the registry on --metrics-addr until ctx is done.
// It returns immediately when no address is configured.
func (a *app) serveMetrics(ctx context.Context) func() {
	if a.opts.metricsAddr == "" {
		return func() {}
	}

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(a.registry, promhttp.HandlerOpts{Registry: a.registry}))
	server := &http.Server{
		Addr:              a.opts.metricsAddr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		a.observer.Logger().Info("serving metrics", slog.String("addr", server.Addr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			a.observer.Logger().Error("metrics server failed", slog.String("error", err.Error()))
		}
	}()

	return func() {
		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 2*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			a.observer.Logger().Warn("metrics server shutdown", slog.String("error", err.Error()))
		}
	}
}

func readImage(path string) ([]byte, error) {
	if path == "" {
		return nil, nil
	}
	image, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading image: %w", err)
	}
	return image, nil
}
