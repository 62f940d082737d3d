// Command dashboard is the headless volunteer dashboard client.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
)

func main() {
	// A missing .env file is fine; the environment may already be set.
	_ = godotenv.Load()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := BuildRootCmd().ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}
