package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/agenthands/rellink/internal/app"
	"github.com/agenthands/rellink/internal/config"
	"github.com/agenthands/rellink/internal/logger"
	"github.com/agenthands/rellink/internal/server"
)

func main() {
	envErr := godotenv.Load()

	cfg, err := config.LoadOrDefault("")
	if err != nil {
		panic(err)
	}
	log, err := logger.New(cfg.Log.Mode)
	if err != nil {
		panic(err)
	}
	defer log.Sync()
	if envErr != nil {
		log.Info("no .env file found, using environment")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := app.Build(ctx, cfg, log)
	if err != nil {
		log.Fatal("failed to build pipeline", "error", err)
	}
	defer func() {
		if err := a.Close(context.Background()); err != nil {
			log.Error("failed to close pipeline", "error", err)
		}
	}()

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	srv := server.NewServer(a.Linker, a.Validator, cfg.Validation.TopK, cfg.Validation.AcceptUnvalidatedAsk, log)
	httpSrv := &http.Server{Addr: ":" + port, Handler: srv.SetupRouter()}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = httpSrv.Shutdown(shutdownCtx)
	}()

	log.Info("starting server", "port", port)
	if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Error("server stopped", "error", err)
	}
}
