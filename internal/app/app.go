// Package app assembles the dashboard client from configuration: storage,
// session, transport, services and the navigation guard.
package app

import (
	"context"
	"net/http"

	"github.com/rs/zerolog"

	"github.com/volunteerhub/dashboard/internal/core/ports"
	"github.com/volunteerhub/dashboard/internal/core/service"
	"github.com/volunteerhub/dashboard/internal/guard"
	"github.com/volunteerhub/dashboard/internal/infrastructure/storage"
	"github.com/volunteerhub/dashboard/internal/pkg/config"
	"github.com/volunteerhub/dashboard/internal/session"
	"github.com/volunteerhub/dashboard/internal/transport"
	"github.com/volunteerhub/dashboard/pkg/logger"
)

type App struct {
	Config  *config.Config
	Session *session.Store
	Router  *transport.Router
	Client  *service.Client

	Users       *service.UserService
	Activities  *service.ActivityService
	Hours       *service.HourRequestService
	Suggestions *service.SuggestionService
	Monitor     *service.MonitorService

	Routes    *guard.Table
	Guard     *guard.Guard
	Navigator *guard.Navigator

	kv  ports.KVStore
	log zerolog.Logger
}

// New wires every component. The transport path is fixed here, once, from
// cfg.Transport.
func New(ctx context.Context, cfg *config.Config, log zerolog.Logger) (*App, error) {
	kv, err := storage.Open(ctx, cfg.Storage)
	if err != nil {
		return nil, err
	}

	store := session.NewStore(kv, logger.Component(log, "session"))
	router := NewRouter(cfg, log)
	client := service.NewClient(router, cfg.BaseURL(), store, logger.Component(log, "api"))
	users := service.NewUserService(client)

	table := guard.NewTable(guard.DefaultRoutes())
	g := guard.New(store, users, guard.Options{Dedupe: cfg.VerifyDedupe}, logger.Component(log, "guard"))

	log.Debug().
		Str("base_url", cfg.BaseURL()).
		Str("transport", cfg.Transport).
		Str("storage", cfg.Storage.Backend).
		Msg("dashboard client ready")

	return &App{
		Config:      cfg,
		Session:     store,
		Router:      router,
		Client:      client,
		Users:       users,
		Activities:  service.NewActivityService(client),
		Hours:       service.NewHourRequestService(client),
		Suggestions: service.NewSuggestionService(client),
		Monitor:     service.NewMonitorService(client),
		Routes:      table,
		Guard:       g,
		Navigator:   guard.NewNavigator(table, g),
		kv:          kv,
		log:         log,
	}, nil
}

// NewRouter builds the transport router for cfg. In proxy mode every
// non-binary call goes through the privileged proxy at cfg.Proxy.Addr.
func NewRouter(cfg *config.Config, log zerolog.Logger) *transport.Router {
	tlog := logger.Component(log, "transport")
	direct := transport.NewDirectTransport(transport.DirectOptions{Timeout: cfg.HTTPTimeout}, tlog)
	if cfg.Transport != config.TransportProxy {
		return transport.NewRouter(direct, nil, tlog)
	}
	proxied := transport.NewProxiedTransport(cfg.Proxy.Addr, &http.Client{Timeout: cfg.HTTPTimeout}, tlog)
	return transport.NewRouter(direct, proxied, tlog)
}

// Start hydrates the session from storage.
func (a *App) Start(ctx context.Context) error {
	_, err := a.Users.Hydrate(ctx)
	return err
}

func (a *App) Close() error {
	return a.kv.Close()
}
