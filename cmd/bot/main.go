package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/Jacobbrewer1/invoicer/pkg/logging"
	"github.com/joho/godotenv"
)

func main() {
	// A missing .env file is fine, the environment may be set directly.
	envErr := godotenv.Load()

	a, cleanup, err := InitializeApp()
	if err != nil {
		exitWithConfigError(err)
	}
	defer cleanup()

	if envErr != nil && !errors.Is(envErr, os.ErrNotExist) {
		a.Warn("Error reading .env file", slog.String(logging.KeyError, envErr.Error()))
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a.Info("Starting application")
	if err := a.Run(ctx); err != nil {
		stop()
		cleanup()
		exitWithConfigError(err)
	}
}

// exitWithConfigError logs every configuration problem of err and exits the process.
func exitWithConfigError(err error) {
	ce := new(ConfigError)
	if errors.As(err, &ce) {
		slog.Error("Invalid configuration", slog.Any("problems", ce.Problems))
		fmt.Fprintln(os.Stderr, ce.Error())
	} else {
		slog.Error("Error running application", slog.String(logging.KeyError, err.Error()))
	}
	os.Exit(1)
}
