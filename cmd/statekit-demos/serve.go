package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"github.com/statekit-dev/statekit/examples/fetchdemo"
	"github.com/statekit-dev/statekit/examples/pokedemo"
	"github.com/statekit-dev/statekit/examples/titledemo"
	"github.com/statekit-dev/statekit/internal/config"
	"github.com/statekit-dev/statekit/pkg/fetch"
	"github.com/statekit-dev/statekit/pkg/live"
)

func serveCmd() *cobra.Command {
	var configPath string
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the demo gallery",
		Long: `Serve the demo gallery over HTTP.

Configuration is read from statekit.json in the working directory
(override with --config), then from STATEKIT_* environment
variables. Connected browsers receive fragment updates over the
/live websocket whenever any demo's state changes.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}
			if addr != "" {
				cfg.Addr = addr
			}
			return runServe(cfg)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", config.ConfigFileName, "Path to config file")
	cmd.Flags().StringVarP(&addr, "addr", "a", "", "Listen address (overrides config)")

	return cmd
}

func runServe(cfg *config.Config) error {
	logger := newLogger(cfg.LogLevel)
	hub := live.NewHub(logger)

	// Shared instances, constructed once and passed by reference.
	title := titledemo.NewHolder(titledemo.DefaultTitle)
	fetchPage := fetchdemo.New(fetch.NewFetcher("https://test.com/", fetch.WithLogger(logger)))
	poke := pokedemo.NewStore(cfg.PokeAPI, fetch.WithLogger(logger))
	poke.Bind()

	// Every state change fans out to connected browsers as a fragment.
	title.Subscribe(func(string) { hub.Broadcast("title", title.Render()) })
	fetchPage.Subscribe(func(html string) { hub.Broadcast("fetch", html) })
	poke.Watch(func(html string) { hub.Broadcast("poke", html) })

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Get("/", func(w http.ResponseWriter, req *http.Request) {
		io.WriteString(w, indexPage)
	})

	r.Get("/title", fragment(title.Render))
	r.Post("/title", func(w http.ResponseWriter, req *http.Request) {
		title.SetTitle(req.FormValue("title"))
		io.WriteString(w, title.Render())
	})

	r.Get("/fetch", fragment(fetchPage.Render))
	r.Post("/fetch", func(w http.ResponseWriter, req *http.Request) {
		fetchPage.Load(req.FormValue("path"))
		io.WriteString(w, fetchPage.Render())
	})

	r.Get("/poke", fragment(poke.Render))
	r.Post("/poke", func(w http.ResponseWriter, req *http.Request) {
		poke.Lookup(req.FormValue("pokemon"))
		io.WriteString(w, poke.Render())
	})

	r.Get("/live", hub.Handler)
	r.Handle("/metrics", promhttp.Handler())

	srv := &http.Server{
		Addr:         cfg.Addr,
		Handler:      r,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		logger.Info("demo gallery listening", "addr", cfg.Addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("serve: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

func fragment(render func() string) http.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		io.WriteString(w, render())
	}
}

func newLogger(level string) *slog.Logger {
	var lvl slog.Level
	switch level {
	case "debug":
		lvl = slog.LevelDebug
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: lvl}))
}

const indexPage = `<!DOCTYPE html>
<html>
<head><title>statekit demos</title></head>
<body>
  <h1>statekit demos</h1>
  <ul>
    <li><a href="/title">Title holder</a></li>
    <li><a href="/fetch">Resource fetcher</a></li>
    <li><a href="/poke">Pokemon lookup</a></li>
  </ul>
  <p>Fragments stream over <code>/live</code>; metrics at <code>/metrics</code>.</p>
</body>
</html>
`
