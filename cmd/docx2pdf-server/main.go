package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/automaxprocs/maxprocs"

	docx2pdf "github.com/avelar/go-docx2pdf"
	"github.com/avelar/go-docx2pdf/internal/server"
)

// Version is set at build time via ldflags.
var Version = "dev"

const shutdownGrace = 15 * time.Second

func main() {
	if err := realMain(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func realMain() error {
	configPath := os.Getenv("CONFIG_FILE")
	cfg, err := LoadConfig(configPath)
	if err != nil {
		return err
	}

	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: parseLogLevel(cfg.LogLevel),
	}))
	slog.SetDefault(logger)

	// Error ignored: maxprocs.Set only fails if GOMAXPROCS env is invalid,
	// in which case Go runtime defaults apply and the program continues safely.
	_, _ = maxprocs.Set(maxprocs.Logger(func(format string, args ...interface{}) {
		logger.Debug(fmt.Sprintf(format, args...))
	}))

	opts := []docx2pdf.Option{
		docx2pdf.WithLogger(logger),
		docx2pdf.WithTimeout(time.Duration(cfg.TimeoutSec) * time.Second),
	}
	if err := docx2pdf.ValidateHeaderMode(cfg.HeaderMode); err != nil {
		return err
	}
	opts = append(opts, docx2pdf.WithHeaderMode(cfg.HeaderMode))
	if err := docx2pdf.ValidateFontSize(cfg.FontSize); err != nil {
		return err
	}
	opts = append(opts, docx2pdf.WithFont(cfg.FontFamily, cfg.FontSize))
	if cfg.Hosted.Configured() {
		opts = append(opts, docx2pdf.WithHostedAPI(cfg.Hosted.Endpoint, cfg.Hosted.APIKey))
	}

	pool := docx2pdf.NewConverterPool(docx2pdf.ResolvePoolSize(cfg.Workers), opts...)
	defer pool.Close()

	srv := server.New(pool, server.Options{
		WorkRoot:       cfg.WorkDir,
		MaxUploadBytes: int64(cfg.MaxUploadMB) << 20,
		Logger:         logger,
	})

	httpSrv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           srv.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		logger.Info("listening", "addr", cfg.Addr, "workers", pool.Size(), "version", Version)
		errCh <- httpSrv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server: %w", err)
		}
	case <-ctx.Done():
		logger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
		defer cancel()
		if err := httpSrv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown: %w", err)
		}
	}
	return nil
}

func parseLogLevel(s string) slog.Level {
	switch s {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
