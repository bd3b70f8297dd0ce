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

	"meditrain/internal/config"
	"meditrain/internal/httpapi"
	"meditrain/internal/llm"
	"meditrain/internal/memory"
	"meditrain/internal/notify"
	"meditrain/internal/observability"
	"meditrain/internal/store"
	"meditrain/internal/testusers"
	"meditrain/internal/trainer"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}

	metrics := observability.NewMetrics(cfg.MetricsNamespace)

	ctx := context.Background()
	st, err := store.NewStore(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("store init failed: %v", err)
	}
	defer st.Close()
	if cfg.DatabaseURL == "" {
		log.Printf("no DATABASE_URL set, using in-memory store")
	}

	model := llm.NewGroqClient(cfg.GroqAPIKey, cfg.GroqBaseURL, cfg.GroqModel)

	var mailer httpapi.ScoreMailer
	if cfg.MailEnabled() {
		mailer = notify.NewMailer(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPass)
		log.Printf("score mailer enabled via %s:%d", cfg.SMTPHost, cfg.SMTPPort)
	}

	sessions := memory.NewRegistry(cfg.HistoryWindow, cfg.SessionIdleTimeout)
	simulator := trainer.NewSimulator(model, st, metrics, cfg.ModelTimeout)
	evaluator := trainer.NewEvaluator(model, st, metrics, cfg.ModelTimeout)

	api := httpapi.New(cfg, sessions, simulator, evaluator, st, mailer, testusers.New(), metrics)
	httpServer := &http.Server{
		Addr:    cfg.BindAddr,
		Handler: api.Router(),
	}

	runCtx, runCancel := context.WithCancel(context.Background())
	defer runCancel()
	sessions.StartJanitor(runCtx, 30*time.Second)

	go func() {
		log.Printf("server listening on %s", cfg.BindAddr)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("listen error: %v", err)
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh
	log.Printf("shutdown signal received")

	runCancel()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Printf("graceful shutdown failed: %v", err)
		_ = httpServer.Close()
	}

	log.Printf("shutdown complete")
}
