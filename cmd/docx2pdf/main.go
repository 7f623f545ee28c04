package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/automaxprocs/maxprocs"

	docx2pdf "github.com/avelar/go-docx2pdf"
	"github.com/avelar/go-docx2pdf/internal/render"
)

// Version is set at build time via ldflags.
var Version = "dev"

// Exit codes.
const (
	exitSuccess = 0
	exitError   = 1
)

func main() {
	flags, args, err := parseFlags(os.Args[1:])
	if err != nil {
		os.Exit(exitError)
	}

	if flags.version {
		fmt.Println("docx2pdf " + Version)
		os.Exit(exitSuccess)
	}

	// Configure GOMAXPROCS with conditional logging.
	// Error ignored: maxprocs.Set only fails if GOMAXPROCS env is invalid,
	// in which case Go runtime defaults apply and the program continues safely.
	if flags.verbose {
		_, _ = maxprocs.Set(maxprocs.Logger(func(format string, args ...interface{}) {
			fmt.Fprintf(os.Stderr, format+"\n", args...)
		}))
	} else {
		_, _ = maxprocs.Set(maxprocs.Logger(func(string, ...interface{}) {}))
	}

	logLevel := slog.LevelWarn
	if flags.verbose {
		logLevel = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: logLevel}))
	slog.SetDefault(logger)

	hosted := render.HostedConfig{Endpoint: flags.apiEndpoint, APIKey: flags.apiKey}
	if flags.doctor {
		os.Exit(runDoctor(hosted, os.Stdout))
	}

	opts, err := buildOptions(flags)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(exitError)
	}
	opts = append(opts, docx2pdf.WithLogger(logger))

	conv := docx2pdf.New(opts...)
	defer conv.Close()

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx, args, conv, os.Stdout); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(exitError)
	}
}
