package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"mdpad/api/internal/ai"
	"mdpad/api/internal/app"
	"mdpad/api/internal/cache"
	"mdpad/api/internal/config"
	"mdpad/api/internal/store"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load()
	ctx := context.Background()

	localCache, err := cache.Open(cfg.CacheDBPath)
	if err != nil {
		log.Fatalf("local cache open failed: %v", err)
	}
	defer localCache.Close()

	remote, err := openRemoteStore(ctx, cfg)
	if err != nil {
		log.Fatalf("remote store connection failed: %v", err)
	}
	defer remote.Close()

	rewriter := ai.NewClient(cfg.AIURL, cfg.AITimeout)

	service := app.New(localCache, remote, rewriter, cfg.AutosaveInterval)
	defer service.CloseAll()

	httpServer := app.NewHTTPServer(service, cfg.CORSOrigin)
	server := &http.Server{
		Addr:              cfg.Addr,
		Handler:           httpServer.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		log.Printf("mdpad API listening on %s", cfg.Addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server failed: %v", err)
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("shutdown error: %v", err)
	}
}

// openRemoteStore picks the remote document backend: a KV worker URL
// wins when configured, then Postgres, then Redis.
func openRemoteStore(ctx context.Context, cfg config.Config) (store.DocumentStore, error) {
	if strings.TrimSpace(cfg.KVWorkerURL) != "" {
		log.Printf("Using KV worker at %s for document storage", cfg.KVWorkerURL)
		return store.NewKVClient(cfg.KVWorkerURL), nil
	}
	if strings.TrimSpace(cfg.DatabaseURL) != "" {
		log.Printf("Using PostgreSQL for document storage")
		db, err := store.Open(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, err
		}
		pg := store.NewPostgresStore(db)
		if err := pg.EnsureSchema(ctx); err != nil {
			db.Close()
			return nil, err
		}
		return pg, nil
	}
	log.Printf("Using Redis for document storage")
	return store.NewRedisStore(cfg.RedisURL)
}
