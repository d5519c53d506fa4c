package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"airline_tycoon/internal/api"
	"airline_tycoon/internal/config"
	"airline_tycoon/internal/game"
	"airline_tycoon/internal/logging"
	"airline_tycoon/internal/persistence"
	"airline_tycoon/internal/rand"
)

func main() {
	configPath := flag.String("config", "", "path to YAML config (default $AIRLINE_CONFIG)")
	fresh := flag.Bool("new", false, "ignore the autosave and start a new game")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}

	lg, err := logging.New(cfg.LogDir, cfg.LogLevel, true)
	if err != nil {
		fmt.Fprintf(os.Stderr, "logging: %v\n", err)
		os.Exit(1)
	}
	defer lg.Close()

	if err := run(cfg, lg, *fresh); err != nil {
		lg.Error("server stopped", "error", err)
		lg.Close()
		os.Exit(1)
	}
}

func run(cfg config.Config, lg *logging.Logger, fresh bool) error {
	cat, err := cfg.Catalog()
	if err != nil {
		return err
	}
	lg.Info("catalog loaded", "aircraft", len(cat.Aircraft), "airports", len(cat.Airports), "events", len(cat.Events))

	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	engine := game.NewEngine(cat, cfg.Rules(), rand.New(seed), lg.Logger)

	if !fresh {
		if err := engine.LoadState(cfg.SavePath); err == nil {
			lg.Info("loaded savegame", "path", cfg.SavePath)
		} else if !errors.Is(err, os.ErrNotExist) {
			lg.Warn("savegame ignored", "path", cfg.SavePath, "error", err)
		}
	}
	engine.SetSavePath(cfg.SavePath)

	if err := os.MkdirAll(filepath.Dir(cfg.DatabasePath), 0o755); err != nil {
		return err
	}
	db, err := persistence.Open(cfg.DatabasePath, lg.Logger)
	if err != nil {
		return err
	}
	defer db.Close()

	srv := &http.Server{
		Addr:              ":" + getPort(cfg),
		Handler:           api.New(engine, db, lg.Logger),
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errc := make(chan error, 1)
	go func() {
		lg.Info("server listening", "port", getPort(cfg), "seed", seed)
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	lg.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	return engine.SaveState("")
}

func getPort(cfg config.Config) string {
	if cfg.Port != "" {
		return cfg.Port
	}
	return "4000"
}
