package main

import (
	"context"
	"os"

	"go.uber.org/fx"

	"github.com/inkframe/doccore/internal/app"
	"github.com/inkframe/doccore/internal/logger"
)

func main() {
	fxApp := fx.New(
		app.Module,
		fx.NopLogger,
	)

	// Start application with timeout
	startCtx, cancel := context.WithTimeout(context.Background(), fx.DefaultTimeout)
	defer cancel()

	if err := fxApp.Start(startCtx); err != nil {
		logger.Get().Error("application startup failed", "error", err)
		os.Exit(1)
	}

	// Wait for application termination
	<-fxApp.Done()

	// Stop application gracefully
	stopCtx, stopCancel := context.WithTimeout(context.Background(), fx.DefaultTimeout)
	defer stopCancel()

	if err := fxApp.Stop(stopCtx); err != nil {
		logger.Get().Error("application shutdown failed", "error", err)
	}
}
