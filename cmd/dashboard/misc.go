package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/volunteerhub/dashboard/internal/core/domain"
	"github.com/volunteerhub/dashboard/internal/core/ports"
)

func (c *cli) suggestionsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "suggestions",
		Aliases: []string{"sug"},
		Short:   "Feedback to the organisers",
	}

	create := &cobra.Command{
		Use:   "create <title> <content>",
		Short: "Send a suggestion",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := c.enter(cmd, "/activities"); err != nil {
				return err
			}
			return c.app.Suggestions.Create(cmd.Context(), args[0], args[1])
		},
	}

	var page, pageSize int
	var status string
	var all bool
	list := &cobra.Command{
		Use:   "list",
		Short: "List your suggestions, or all of them with --all",
		RunE: func(cmd *cobra.Command, _ []string) error {
			path := "/activities"
			if all {
				path = "/admin-review"
			}
			if err := c.enter(cmd, path); err != nil {
				return err
			}
			var res *domain.SuggestionList
			var err error
			if all {
				res, err = c.app.Suggestions.All(cmd.Context(), page, pageSize, domain.SuggestionStatus(status))
			} else {
				res, err = c.app.Suggestions.Mine(cmd.Context(), page, pageSize)
			}
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), res)
		},
	}
	list.Flags().IntVar(&page, "page", 1, "page number")
	list.Flags().IntVar(&pageSize, "page-size", 10, "page size")
	list.Flags().StringVar(&status, "status", "", "PENDING or REPLIED (with --all)")
	list.Flags().BoolVar(&all, "all", false, "list every user's suggestions")

	reply := &cobra.Command{
		Use:   "reply <id> <content>",
		Short: "Reply to a suggestion",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := c.enter(cmd, "/admin-review"); err != nil {
				return err
			}
			return c.app.Suggestions.Reply(cmd.Context(), args[0], args[1])
		},
	}

	cmd.AddCommand(create, list, reply)
	return cmd
}

func (c *cli) monitorCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "monitor",
		Short: "System monitoring statistics",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if root := cmd.Root(); root.PersistentPreRunE != nil {
				if err := root.PersistentPreRunE(cmd, args); err != nil {
					return err
				}
			}
			return c.enter(cmd, "/system-monitor")
		},
	}

	filters := &cobra.Command{
		Use:   "filters",
		Short: "List the known colleges, grades and classes",
		RunE: func(cmd *cobra.Command, _ []string) error {
			f, err := c.app.Monitor.Filters(cmd.Context())
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), f)
		},
	}

	var df ports.DashboardFilters
	var timeRange string
	dashboard := &cobra.Command{
		Use:   "dashboard",
		Short: "Show the aggregate dashboard",
		RunE: func(cmd *cobra.Command, _ []string) error {
			d, err := c.app.Monitor.Dashboard(cmd.Context(), timeRange, df)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), d)
		},
	}
	dashboard.Flags().StringVar(&timeRange, "range", "monthly", "time range")
	dashboard.Flags().StringVar(&df.College, "college", "", "college filter")
	dashboard.Flags().StringVar(&df.Grade, "grade", "", "grade filter")
	dashboard.Flags().StringVar(&df.Clazz, "clazz", "", "class filter")

	var sp ports.UserStatsParams
	stats := &cobra.Command{
		Use:   "stats",
		Short: "Per-user hour statistics",
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := c.app.Monitor.UserStats(cmd.Context(), sp)
			if err != nil {
				return err
			}
			w := cmd.OutOrStdout()
			for _, r := range s.Records {
				fmt.Fprintf(w, "%4d %-12s %-10s %-16s %7.1fh %3d\n", r.Rank, r.StudentNo, r.Name, r.College, r.TotalDuration, r.ActivityCount)
			}
			fmt.Fprintf(w, "total: %d\n", s.Total)
			return nil
		},
	}
	stats.Flags().IntVar(&sp.Page, "page", 1, "page number")
	stats.Flags().IntVar(&sp.PageSize, "page-size", 20, "page size")
	stats.Flags().StringVar(&sp.College, "college", "", "college filter")
	stats.Flags().StringVar(&sp.Grade, "grade", "", "grade filter")
	stats.Flags().StringVar(&sp.Clazz, "clazz", "", "class filter")
	stats.Flags().StringVar(&sp.SortField, "sort", "", "sort field")
	stats.Flags().StringVar(&sp.SortOrder, "order", "", "asc or desc")

	cmd.AddCommand(filters, dashboard, stats)
	return cmd
}

func (c *cli) usersCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "users",
		Short: "Look up users",
	}

	get := &cobra.Command{
		Use:   "get <studentNo>",
		Short: "Show a user by student number",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := c.enter(cmd, "/activities"); err != nil {
				return err
			}
			u, err := c.app.Users.GetUserByStudentNo(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), u)
		},
	}

	var page, pageSize int
	var role string
	list := &cobra.Command{
		Use:   "list",
		Short: "List users",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := c.enter(cmd, "/system-monitor"); err != nil {
				return err
			}
			res, err := c.app.Users.ListUsers(cmd.Context(), page, pageSize, domain.Role(role))
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), res)
		},
	}
	list.Flags().IntVar(&page, "page", 1, "page number")
	list.Flags().IntVar(&pageSize, "page-size", 20, "page size")
	list.Flags().StringVar(&role, "role", "", "role filter")

	cmd.AddCommand(get, list)
	return cmd
}

func (c *cli) filesCmd() *cobra.Command {
	var preview bool
	cmd := &cobra.Command{
		Use:   "file-url <path>",
		Short: "Print the download or preview URL of an attachment",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			u := c.app.Client.DownloadURL(args[0])
			if preview {
				u = c.app.Client.PreviewURL(args[0])
			}
			fmt.Fprintln(cmd.OutOrStdout(), u)
			return nil
		},
	}
	cmd.Flags().BoolVar(&preview, "preview", false, "inline preview URL")
	return cmd
}
