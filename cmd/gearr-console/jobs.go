package main

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/gearr/gearr-console/internal/cli"
	"github.com/gearr/gearr-console/internal/model"
	"github.com/gearr/gearr-console/internal/projection"
	"github.com/gearr/gearr-console/internal/store"
	jobsync "github.com/gearr/gearr-console/internal/sync"
)

func newJobsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "jobs",
		Short: "Inspect and manage transcoding jobs",
	}
	cmd.AddCommand(
		newJobsListCmd(),
		newJobsCreateCmd(),
		newJobsDeleteCmd(),
	)
	return cmd
}

func newJobsListCmd() *cobra.Command {
	var (
		statuses []string
		since    string
		name     string
		sortCol  string
		desc     bool
		pages    int
		details  bool
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List jobs, filtered and sorted",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			_, client, err := setup()
			if err != nil {
				return err
			}

			st := store.New()
			controller := jobsync.New(client, st)

			if err := controller.Load(ctx); err != nil {
				return sessionEndedHint(err)
			}
			for page := 2; page <= pages; page++ {
				if err := controller.LoadMore(ctx); err != nil {
					return sessionEndedHint(err)
				}
			}
			if details {
				controller.EnrichDetails(ctx)
			}

			opts := projection.Options{
				DateBucket:    since,
				Name:          name,
				SortColumn:    projection.Column(sortCol),
				SortDirection: projection.Ascending,
			}
			if desc {
				opts.SortDirection = projection.Descending
			}
			for _, status := range statuses {
				opts.Statuses = append(opts.Statuses, model.Status(status))
			}

			printJobTable(cmd.OutOrStdout(), projection.Project(st.Snapshot(), opts))
			return nil
		},
	}

	cmd.Flags().StringSliceVar(&statuses, "status", nil, "Keep only these statuses (repeatable)")
	cmd.Flags().StringVar(&since, "since", "", `Named date bucket, e.g. "Last 30 minutes"`)
	cmd.Flags().StringVar(&name, "name", "", "Case-insensitive substring match on source path")
	cmd.Flags().StringVar(&sortCol, "sort", "", "Sort column: source|destination|status|message|last_update")
	cmd.Flags().BoolVar(&desc, "desc", false, "Sort descending")
	cmd.Flags().IntVar(&pages, "pages", 1, "Number of pages to fetch")
	cmd.Flags().BoolVar(&details, "details", false, "Enrich each job with its detail record")
	return cmd
}

func newJobsCreateCmd() *cobra.Command {
	var path string

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Schedule a new transcoding job",
		RunE: func(cmd *cobra.Command, args []string) error {
			if path == "" {
				return fmt.Errorf("--path is required")
			}
			_, client, err := setup()
			if err != nil {
				return err
			}

			controller := jobsync.New(client, store.New())
			if err := controller.Create(cmd.Context(), path); err != nil {
				return sessionEndedHint(err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Job scheduled for %s. It will appear once the server picks it up.\n", path)
			return nil
		},
	}

	cmd.Flags().StringVar(&path, "path", "", "Source path to transcode")
	return cmd
}

func newJobsDeleteCmd() *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "delete <job-id>",
		Short: "Delete a job",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := uuid.Parse(args[0])
			if err != nil {
				return fmt.Errorf("invalid job id %q: %w", args[0], err)
			}

			_, client, err := setup()
			if err != nil {
				return err
			}

			switch cli.NewConfirmer().ConfirmDelete(id.String(), "", yes) {
			case cli.ConfirmNo:
				fmt.Fprintln(cmd.OutOrStdout(), "Aborted.")
				return nil
			case cli.ConfirmNonInteractive:
				return fmt.Errorf("refusing to delete without confirmation in non-interactive mode, re-run with --yes")
			}

			controller := jobsync.New(client, store.New())
			if err := controller.Delete(cmd.Context(), id); err != nil {
				return sessionEndedHint(err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Job %s deleted.\n", id)
			return nil
		},
	}

	cmd.Flags().BoolVar(&yes, "yes", false, "Skip the confirmation prompt")
	return cmd
}

// statusCell renders the status column. A progressing job with a
// parsable progress payload shows the percentage; a payload that looks
// structured but does not parse degrades to an error-style marker for
// that row only.
func statusCell(job model.Job) string {
	if job.Status != model.StatusProgressing {
		return string(job.Status)
	}
	if progress, ok := model.ParseProgress(job.StatusMessage); ok {
		return fmt.Sprintf("progressing %.0f%%", progress)
	}
	if strings.HasPrefix(strings.TrimSpace(job.StatusMessage), "{") {
		return "progressing ?"
	}
	return string(job.Status)
}

// messageCell hides structured progress payloads from the free-form
// message column; the status column already renders them.
func messageCell(job model.Job) string {
	if _, ok := model.ParseProgress(job.StatusMessage); ok {
		return ""
	}
	return job.StatusMessage
}

func shortID(id uuid.UUID) string {
	return id.String()[:8]
}

func printJobTable(out io.Writer, jobs []model.Job) {
	w := tabwriter.NewWriter(out, 2, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tSOURCE\tDESTINATION\tSTATUS\tMESSAGE\tUPDATED")
	for _, job := range jobs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n",
			shortID(job.ID),
			job.SourcePath,
			job.DestinationPath,
			statusCell(job),
			messageCell(job),
			model.FormatShort(job.LastUpdate),
		)
	}
	w.Flush()
	fmt.Fprintf(out, "%d job(s)\n", len(jobs))
}
