package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/sethvargo/go-envconfig"
	"github.com/spf13/cobra"

	"github.com/volunteerhub/dashboard/internal/app"
	"github.com/volunteerhub/dashboard/internal/core/domain"
	"github.com/volunteerhub/dashboard/internal/guard"
	"github.com/volunteerhub/dashboard/internal/pkg/config"
	"github.com/volunteerhub/dashboard/pkg/logger"
)

var errForbidden = errors.New("page not available")

type cli struct {
	app      *app.App
	lookuper envconfig.Lookuper
}

// BuildRootCmd builds the command tree. Every subcommand runs against an
// App assembled from the environment.
func BuildRootCmd() *cobra.Command {
	return buildRootCmd(envconfig.OsLookuper())
}

func buildRootCmd(l envconfig.Lookuper) *cobra.Command {
	c := &cli{lookuper: l}
	var logLevel string

	cmd := &cobra.Command{
		Use:          "dashboard",
		Short:        "Volunteer activity dashboard client",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.LoadWith(cmd.Context(), c.lookuper)
			if err != nil {
				return fmt.Errorf("config: %w", err)
			}
			if logLevel != "" {
				cfg.LogLevel = logLevel
			}
			log := logger.Init(logger.Options{
				Level:  cfg.LogLevel,
				Pretty: !cfg.IsProduction(),
				Output: cmd.ErrOrStderr(),
				App:    "dashboard",
			})
			a, err := app.New(cmd.Context(), cfg, log)
			if err != nil {
				return err
			}
			c.app = a
			return a.Start(cmd.Context())
		},
		PersistentPostRunE: func(*cobra.Command, []string) error {
			if c.app == nil {
				return nil
			}
			return c.app.Close()
		},
	}
	cmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "override LOG_LEVEL")

	cmd.AddCommand(
		c.loginCmd(),
		c.logoutCmd(),
		c.whoamiCmd(),
		c.navigateCmd(),
		c.routesCmd(),
		c.activitiesCmd(),
		c.hoursCmd(),
		c.suggestionsCmd(),
		c.monitorCmd(),
		c.usersCmd(),
		c.filesCmd(),
	)
	return cmd
}

// enter runs the navigation guard for the page a command belongs to and
// fails unless the guard lets the user stay there.
func (c *cli) enter(cmd *cobra.Command, path string) error {
	nav, err := c.app.Navigator.Navigate(cmd.Context(), path)
	if err != nil {
		return err
	}
	want := c.app.Routes.Resolve("", path).To
	if nav.To != want {
		if nav.To == guard.DefaultLoginPath {
			return fmt.Errorf("%w: %s: %w", errForbidden, want, domain.ErrNotAuthenticated)
		}
		return fmt.Errorf("%w: %s (redirected to %s)", errForbidden, want, nav.To)
	}
	return nil
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
