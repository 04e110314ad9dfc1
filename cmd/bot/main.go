package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/sync/errgroup"

	"vetflow/access"
	"vetflow/bot"
	"vetflow/db"
	"vetflow/metrics"
	"vetflow/session"
	"vetflow/vetting"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg := configFromEnv()

	stores, cleanup, err := buildStores(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("bootstrap record stores: %v", err)
	}
	defer cleanup()

	verifier, err := access.NewVerifier(cfg.Secrets)
	if err != nil {
		log.Fatalf("bootstrap verifier: %v", err)
	}

	sessions := session.NewStore(cfg.SessionTTL)
	m := metrics.New()

	console := newConsoleTransport(os.Stdin, os.Stdout)
	svc := bot.NewService(console, sessions, verifier, stores, m).
		WithStrictNames(cfg.StrictNames)

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Printf("metrics listening on %s", cfg.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})
	if cfg.SessionTTL > 0 {
		g.Go(func() error {
			err := sessions.Run(gctx, cfg.SessionTTL/2)
			if errors.Is(err, context.Canceled) {
				return nil
			}
			return err
		})
	}
	g.Go(func() error {
		return console.Run(gctx, svc)
	})

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		log.Fatalf("run: %v", err)
	}
}

// buildStores returns the two role-variant record stores: PostgreSQL when a
// DSN is configured, otherwise in-memory (data lost on restart).
func buildStores(ctx context.Context, dsn string) (map[vetting.Role]vetting.Store, func(), error) {
	if dsn == "" {
		log.Printf("DATABASE_URL empty; using in-memory record stores")
		return map[vetting.Role]vetting.Store{
			vetting.RoleRetail:   vetting.NewMemoryStore(),
			vetting.RoleSecurity: vetting.NewMemoryStore(),
		}, func() {}, nil
	}

	pool, err := db.NewPool(ctx, dsn)
	if err != nil {
		return nil, nil, err
	}
	return map[vetting.Role]vetting.Store{
		vetting.RoleRetail:   vetting.NewPGStore(pool, vetting.RetailSchema),
		vetting.RoleSecurity: vetting.NewPGStore(pool, vetting.SecuritySchema),
	}, pool.Close, nil
}
