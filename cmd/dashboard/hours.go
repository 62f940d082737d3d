package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/volunteerhub/dashboard/internal/core/domain"
	"github.com/volunteerhub/dashboard/internal/core/ports"
)

func (c *cli) hoursCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "hours",
		Short: "Extra volunteer-hour requests",
	}
	cmd.AddCommand(c.hoursSubmitCmd(), c.hoursListCmd(false), c.hoursListCmd(true), c.hoursReviewCmd())
	return cmd
}

func (c *cli) hoursSubmitCmd() *cobra.Command {
	var in ports.HourRequestInput
	var typ string
	var files []string
	cmd := &cobra.Command{
		Use:   "submit",
		Short: "Request hours for work outside a listed activity",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := c.enter(cmd, "/request-hours"); err != nil {
				return err
			}
			in.Type = domain.ActivityType(typ)
			for _, f := range files {
				u, err := readUpload(f)
				if err != nil {
					return err
				}
				in.Files = append(in.Files, u)
			}
			hr, err := c.app.Hours.Submit(cmd.Context(), in)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), hr)
		},
	}
	cmd.Flags().StringVar(&in.ActivityName, "activity", "", "activity name")
	cmd.Flags().StringVar(&typ, "type", "", "activity type")
	cmd.Flags().Float64Var(&in.Duration, "duration", 0, "hours claimed")
	cmd.Flags().StringVar(&in.Reason, "reason", "", "description of the work")
	cmd.Flags().StringSliceVar(&files, "file", nil, "supporting file (repeatable)")
	return cmd
}

func (c *cli) hoursListCmd(pending bool) *cobra.Command {
	var page, pageSize int
	use, short, route := "mine", "List your hour requests", "/my-stats"
	if pending {
		use, short, route = "pending", "List hour requests awaiting review", "/admin-review"
	}
	cmd := &cobra.Command{
		Use:   use,
		Short: short,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := c.enter(cmd, route); err != nil {
				return err
			}
			var list *domain.HourRequestList
			var err error
			if pending {
				list, err = c.app.Hours.Pending(cmd.Context(), page, pageSize)
			} else {
				list, err = c.app.Hours.Mine(cmd.Context(), page, pageSize)
			}
			if err != nil {
				return err
			}
			w := cmd.OutOrStdout()
			for _, hr := range list.Items {
				fmt.Fprintf(w, "%-26s %-9s %6.1fh %s\n", hr.ID, hr.Status, hr.Duration, hr.ActivityName)
			}
			fmt.Fprintf(w, "total: %d\n", list.Total)
			return nil
		},
	}
	cmd.Flags().IntVar(&page, "page", 1, "page number")
	cmd.Flags().IntVar(&pageSize, "page-size", 10, "page size")
	return cmd
}

func (c *cli) hoursReviewCmd() *cobra.Command {
	var reject bool
	var reason string
	cmd := &cobra.Command{
		Use:   "review <id>",
		Short: "Approve or reject an hour request",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := c.enter(cmd, "/admin-review"); err != nil {
				return err
			}
			hr, err := c.app.Hours.Review(cmd.Context(), args[0], !reject, reason)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s: %s\n", hr.ID, hr.Status)
			return nil
		},
	}
	cmd.Flags().BoolVar(&reject, "reject", false, "reject instead of approve")
	cmd.Flags().StringVar(&reason, "reason", "", "review comment")
	return cmd
}
