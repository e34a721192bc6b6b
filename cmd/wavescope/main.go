package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/roman-kulish/wavescope/cmd/wavescope/app"
	"github.com/roman-kulish/wavescope/internal/logging"
)

func main() {
	var logLevel slog.LevelVar
	logger := logging.New(os.Stdout, &logLevel)

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := app.NewCommand(logger, &logLevel).ExecuteContext(ctx); err != nil {
		logger.Warn(fmt.Sprintf("execution failed with error: %s", err.Error()))

		cancel()
		os.Exit(1)
	}
}
