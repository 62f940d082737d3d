package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/volunteerhub/dashboard/internal/core/domain"
	"github.com/volunteerhub/dashboard/internal/core/ports"
)

func (c *cli) activitiesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "activities",
		Aliases: []string{"act"},
		Short:   "Browse and manage volunteer activities",
	}
	cmd.AddCommand(
		c.activitiesListCmd(),
		c.activitiesGetCmd(),
		c.activitiesMineCmd(),
		c.activitiesCreateCmd(),
		c.activitiesDeleteCmd(),
		c.activitiesEnrollCmd(true),
		c.activitiesEnrollCmd(false),
		c.activitiesPendingCmd(),
		c.activitiesReviewCmd(),
		c.activitiesImportCmd(),
		c.typesCmd(),
	)
	return cmd
}

func (c *cli) activitiesListCmd() *cobra.Command {
	var p ports.ActivityListParams
	var typ, status string
	var full, notFull bool
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List activities",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := c.enter(cmd, "/activities"); err != nil {
				return err
			}
			p.Type = domain.ActivityType(typ)
			p.Status = domain.ActivityStatus(status)
			switch {
			case full:
				v := true
				p.IsFull = &v
			case notFull:
				v := false
				p.IsFull = &v
			}
			list, err := c.app.Activities.List(cmd.Context(), p)
			if err != nil {
				return err
			}
			return printActivities(cmd, list)
		},
	}
	cmd.Flags().IntVar(&p.Page, "page", 1, "page number")
	cmd.Flags().IntVar(&p.PageSize, "page-size", 10, "page size")
	cmd.Flags().StringVar(&typ, "type", "", "activity type")
	cmd.Flags().StringVar(&status, "status", "", "activity status")
	cmd.Flags().StringVar(&p.Functionary, "functionary", "", "organiser student number")
	cmd.Flags().StringVar(&p.Name, "name", "", "name filter")
	cmd.Flags().StringVar(&p.StartFrom, "start-from", "", "earliest start time")
	cmd.Flags().StringVar(&p.StartTo, "start-to", "", "latest start time")
	cmd.Flags().BoolVar(&full, "full", false, "only full activities")
	cmd.Flags().BoolVar(&notFull, "open", false, "only activities with free places")
	cmd.MarkFlagsMutuallyExclusive("full", "open")
	return cmd
}

func printActivities(cmd *cobra.Command, list *domain.ActivityList) error {
	w := cmd.OutOrStdout()
	for _, a := range list.Items {
		fmt.Fprintf(w, "%-26s %-10s %-12s %3d/%-3d %s\n",
			a.ID, a.Type.Label(), a.Status.Label(), len(a.Participants), a.MaxParticipants, a.Name)
	}
	fmt.Fprintf(w, "total: %d\n", list.Total)
	return nil
}

func (c *cli) activitiesGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get <id>",
		Short: "Show one activity",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := c.enter(cmd, "/activity/"+args[0]); err != nil {
				return err
			}
			a, err := c.app.Activities.GetByID(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			out := struct {
				*domain.Activity
				TypeLabel   string   `json:"typeLabel"`
				StatusLabel string   `json:"statusLabel"`
				FileURLs    []string `json:"fileUrls,omitempty"`
				Enrolled    bool     `json:"enrolled"`
			}{a, a.Type.Label(), a.Status.Label(), nil, a.HasParticipant(c.app.Session.StudentNo())}
			for _, f := range a.Files() {
				out.FileURLs = append(out.FileURLs, c.app.Client.DownloadURL(f))
			}
			return printJSON(cmd.OutOrStdout(), out)
		},
	}
}

func (c *cli) activitiesMineCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "mine",
		Short: "List the activities you are enrolled in",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := c.enter(cmd, "/my-projects"); err != nil {
				return err
			}
			list, err := c.app.Activities.MyActivities(cmd.Context())
			if err != nil {
				return err
			}
			return printActivities(cmd, list)
		},
	}
}

func (c *cli) activitiesCreateCmd() *cobra.Command {
	var in ports.ActivityInput
	var typ, cover string
	var maxParticipants int
	var duration float64
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create an activity",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := c.enter(cmd, "/add-activity"); err != nil {
				return err
			}
			in.Type = domain.ActivityType(typ)
			if in.Functionary == "" {
				in.Functionary = c.app.Session.StudentNo()
			}
			if cmd.Flags().Changed("max") {
				in.MaxParticipants = &maxParticipants
			}
			if cmd.Flags().Changed("duration") {
				in.Duration = &duration
			}
			if cover != "" {
				f, err := readUpload(cover)
				if err != nil {
					return err
				}
				in.CoverFile = &f
			}
			a, err := c.app.Activities.Create(cmd.Context(), in)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), a)
		},
	}
	cmd.Flags().StringVar(&in.Name, "name", "", "activity name")
	cmd.Flags().StringVar(&typ, "type", string(domain.TypeCommunityService), "activity type")
	cmd.Flags().StringVar(&in.Description, "description", "", "description")
	cmd.Flags().StringVar(&in.Functionary, "functionary", "", "organiser student number (default: you)")
	cmd.Flags().StringVar(&in.EnrollmentStartTime, "enroll-start", "", "enrollment start time")
	cmd.Flags().StringVar(&in.EnrollmentEndTime, "enroll-end", "", "enrollment end time")
	cmd.Flags().StringVar(&in.StartTime, "start", "", "start time")
	cmd.Flags().StringVar(&in.EndTime, "end", "", "end time")
	cmd.Flags().IntVar(&maxParticipants, "max", 0, "maximum participants")
	cmd.Flags().Float64Var(&duration, "duration", 0, "volunteer hours credited")
	cmd.Flags().StringSliceVar(&in.Attachments, "attachment", nil, "attachment path (repeatable)")
	cmd.Flags().StringVar(&cover, "cover", "", "cover image file")
	_ = cmd.MarkFlagRequired("name")
	return cmd
}

func (c *cli) activitiesDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete an activity",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := c.enter(cmd, "/activity/"+args[0]); err != nil {
				return err
			}
			return c.app.Activities.Delete(cmd.Context(), args[0])
		},
	}
}

func (c *cli) activitiesEnrollCmd(enroll bool) *cobra.Command {
	use, short := "enroll <id>", "Enroll in an activity"
	if !enroll {
		use, short = "unenroll <id>", "Withdraw from an activity"
	}
	return &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := c.enter(cmd, "/activity/"+args[0]); err != nil {
				return err
			}
			studentNo := c.app.Session.StudentNo()
			if enroll {
				return c.app.Activities.Enroll(cmd.Context(), args[0], studentNo)
			}
			return c.app.Activities.Unenroll(cmd.Context(), args[0], studentNo)
		},
	}
}

func (c *cli) activitiesPendingCmd() *cobra.Command {
	var page, pageSize int
	cmd := &cobra.Command{
		Use:   "pending",
		Short: "List activities awaiting review",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := c.enter(cmd, "/admin-review"); err != nil {
				return err
			}
			list, err := c.app.Activities.Pending(cmd.Context(), page, pageSize)
			if err != nil {
				return err
			}
			return printActivities(cmd, list)
		},
	}
	cmd.Flags().IntVar(&page, "page", 1, "page number")
	cmd.Flags().IntVar(&pageSize, "page-size", 10, "page size")
	return cmd
}

func (c *cli) activitiesReviewCmd() *cobra.Command {
	var reject bool
	var reason string
	cmd := &cobra.Command{
		Use:   "review <id>",
		Short: "Approve or reject a pending activity",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := c.enter(cmd, "/admin-review"); err != nil {
				return err
			}
			a, err := c.app.Activities.Review(cmd.Context(), args[0], !reject, reason)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s: %s\n", a.ID, a.Status.Label())
			return nil
		},
	}
	cmd.Flags().BoolVar(&reject, "reject", false, "reject instead of approve")
	cmd.Flags().StringVar(&reason, "reason", "", "review comment")
	return cmd
}

func (c *cli) activitiesImportCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "import <file.json>",
		Short: "Import activities from a JSON array",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := c.enter(cmd, "/import-activity"); err != nil {
				return err
			}
			raw, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}
			var activities []domain.Activity
			if err := json.Unmarshal(raw, &activities); err != nil {
				return fmt.Errorf("parse %s: %w", args[0], err)
			}
			n, err := c.app.Activities.Import(cmd.Context(), activities)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "imported %d activities\n", n)
			return nil
		},
	}
}

func (c *cli) typesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "types",
		Short: "List activity types",
		RunE: func(cmd *cobra.Command, _ []string) error {
			for _, t := range domain.ActivityTypes {
				fmt.Fprintf(cmd.OutOrStdout(), "%-30s %s\n", t, t.Label())
			}
			return nil
		},
	}
}

func readUpload(path string) (ports.FileUpload, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return ports.FileUpload{}, err
	}
	return ports.FileUpload{Name: filepath.Base(path), Content: b}, nil
}
