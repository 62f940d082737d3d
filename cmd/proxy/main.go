// Command proxy runs the privileged request proxy on a loopback address.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/volunteerhub/dashboard/internal/pkg/config"
	"github.com/volunteerhub/dashboard/internal/proxy"
	"github.com/volunteerhub/dashboard/pkg/logger"
)

func main() {
	_ = godotenv.Load()

	cfg := config.Load()
	log := logger.Init(logger.Options{
		Level:  cfg.LogLevel,
		Pretty: !cfg.IsProduction(),
		App:    "proxy",
	})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	e := proxy.NewServer(proxy.Options{
		UserAgent:    cfg.UserAgent,
		Timeout:      cfg.HTTPTimeout,
		Upstream:     cfg.BaseURL(),
		LoopbackOnly: true,
	}, log)

	if err := proxy.Run(ctx, e, cfg.Proxy.Listen, log); err != nil {
		log.Error().Err(err).Msg("proxy stopped")
		os.Exit(1)
	}
}
