package main

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/dannielcanaryquipia/capstone-project2-sub000/internal/app"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	container := app.MustBuildContainer(ctx)
	app.MustRun(container)
}
