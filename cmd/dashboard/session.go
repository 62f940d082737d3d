package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/volunteerhub/dashboard/internal/core/domain"
	"github.com/volunteerhub/dashboard/internal/session"
)

func (c *cli) loginCmd() *cobra.Command {
	var studentNo, password string
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Log in and store the session",
		RunE: func(cmd *cobra.Command, _ []string) error {
			res, err := c.app.Users.Login(cmd.Context(), studentNo, password)
			if err != nil {
				return err
			}
			nav, err := c.app.Navigator.Navigate(cmd.Context(), "/login")
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "logged in as %s (%s), landing on %s\n", res.Username, res.Role, nav.To)
			return nil
		},
	}
	cmd.Flags().StringVarP(&studentNo, "student-no", "u", "", "student number")
	cmd.Flags().StringVarP(&password, "password", "p", "", "password")
	_ = cmd.MarkFlagRequired("student-no")
	_ = cmd.MarkFlagRequired("password")
	return cmd
}

func (c *cli) logoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Forget the stored session",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return c.app.Users.Logout(cmd.Context())
		},
	}
}

func (c *cli) whoamiCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the current user",
		RunE: func(cmd *cobra.Command, _ []string) error {
			u := c.app.Session.Current()
			if u == nil {
				return domain.ErrNotAuthenticated
			}
			out := map[string]any{
				"studentNo": c.app.Session.StudentNo(),
				"username":  c.app.Session.Username(),
				"role":      c.app.Session.Role(),
				"elevated":  u.IsElevated(),
			}
			if token, err := c.app.Session.Token(cmd.Context()); err == nil && token != "" {
				if claims, err := session.TokenClaims(token); err == nil {
					out["claims"] = claims
				}
			}
			return printJSON(cmd.OutOrStdout(), out)
		},
	}
}

func (c *cli) navigateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "navigate <path>",
		Short: "Run the navigation guard and print where it lands",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			nav, err := c.app.Navigator.Navigate(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), nav.To)
			return nil
		},
	}
}

func (c *cli) routesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "routes",
		Short: "List the known pages and their requirements",
		RunE: func(cmd *cobra.Command, _ []string) error {
			for _, p := range c.app.Routes.Paths() {
				nav := c.app.Routes.Resolve("", p)
				access := "public"
				switch {
				case nav.RequiresElevatedRole:
					access = "superAdmin"
				case nav.RequiresAuth:
					access = "auth"
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%-20s %s\n", p, access)
			}
			return nil
		},
	}
}
