package main

import (
	"context"
	"log/slog"
	"os"

	"mealorder/cmd"

	"go.uber.org/fx"
)

func main() {
	app := fx.New(cmd.Module)

	if err := app.Start(context.Background()); err != nil {
		slog.Error("application failed to start", "error", err)
		os.Exit(1)
	}

	<-app.Done()

	if err := app.Stop(context.Background()); err != nil {
		slog.Error("application failed to stop cleanly", "error", err)
		os.Exit(1)
	}
}
