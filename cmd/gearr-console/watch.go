package main

import (
	"context"
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/gearr/gearr-console/internal/logger"
	"github.com/gearr/gearr-console/internal/model"
	"github.com/gearr/gearr-console/internal/projection"
	"github.com/gearr/gearr-console/internal/store"
	jobsync "github.com/gearr/gearr-console/internal/sync"
	"github.com/gearr/gearr-console/internal/window"
)

// clearScreen is the ANSI sequence that wipes the terminal between
// renders of the watch view.
const clearScreen = "\033[2J\033[H"

func newWatchCmd() *cobra.Command {
	var (
		statuses []string
		since    string
		name     string
		sortCol  string
		desc     bool
		follow   bool
	)

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Follow jobs live via the server's push channel",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := context.WithCancel(cmd.Context())
			defer cancel()

			cfg, client, err := setup()
			if err != nil {
				return err
			}

			st := store.New()
			controller := jobsync.New(client, st)

			sessionEnded := make(chan *jobsync.Error, 1)
			controller.OnSessionEnd = func(e *jobsync.Error) {
				select {
				case sessionEnded <- e:
				default:
				}
			}

			if err := controller.Load(ctx); err != nil {
				return sessionEndedHint(err)
			}

			stream, err := client.Updates(ctx)
			if err != nil {
				return sessionEndedHint(err)
			}
			// Closing the stream unblocks the receive loop on
			// shutdown.
			defer stream.Close()
			go func() {
				<-ctx.Done()
				stream.Close()
			}()

			streamErr := make(chan error, 1)
			go func() { streamErr <- controller.Run(ctx, stream) }()

			// Enrichment runs on its own loop so a slow detail
			// fetch never stalls rendering.
			go func() {
				ticker := time.NewTicker(time.Duration(cfg.RefreshMillis) * time.Millisecond)
				defer ticker.Stop()
				for {
					select {
					case <-ctx.Done():
						return
					case <-ticker.C:
						controller.EnrichDetails(ctx)
					}
				}
			}()

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

			renderer := window.NewRenderer(window.View{
				RowHeight:      cfg.RowHeight,
				ViewportHeight: cfg.ViewportHeight,
			})

			ticker := time.NewTicker(time.Duration(cfg.RefreshMillis) * time.Millisecond)
			defer ticker.Stop()

			out := cmd.OutOrStdout()
			for {
				select {
				case <-ctx.Done():
					return nil
				case e := <-sessionEnded:
					return sessionEndedHint(e)
				case err := <-streamErr:
					if ctx.Err() != nil {
						return nil
					}
					return fmt.Errorf("push channel lost: %w", err)
				case <-ticker.C:
					jobs := projection.Project(st.Snapshot(), opts)
					if follow {
						renderer.ScrollTo(renderer.View().MaxScroll(len(jobs)), len(jobs))
					}
					if renderer.NearBottom(len(jobs)) {
						// Off the render loop; a slow page fetch must
						// not stall redraws. The controller drops
						// overlapping triggers.
						go func() {
							if err := controller.LoadMore(ctx); err != nil {
								logger.Warnf("watch", "LoadMore", "page fetch failed: %v", err)
							}
						}()
					}
					renderWatch(out, renderer, jobs, st.Loading())
				}
			}
		},
	}

	cmd.Flags().StringSliceVar(&statuses, "status", nil, "Keep only these statuses (repeatable)")
	cmd.Flags().StringVar(&since, "since", "", `Named date bucket, e.g. "Last 30 minutes"`)
	cmd.Flags().StringVar(&name, "name", "", "Case-insensitive substring match on source path")
	cmd.Flags().StringVar(&sortCol, "sort", "", "Sort column: source|destination|status|message|last_update")
	cmd.Flags().BoolVar(&desc, "desc", false, "Sort descending")
	cmd.Flags().BoolVar(&follow, "follow", true, "Keep the view pinned to the newest rows")
	return cmd
}

func renderWatch(out io.Writer, renderer *window.Renderer, jobs []model.Job, loading bool) {
	fmt.Fprint(out, clearScreen)

	slots := renderer.Visible(jobs)
	w := tabwriter.NewWriter(out, 2, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tSOURCE\tDESTINATION\tSTATUS\tMESSAGE\tUPDATED")
	for _, slot := range slots {
		marker := " "
		if slot.Selected {
			marker = ">"
		}
		fmt.Fprintf(w, "%s%s\t%s\t%s\t%s\t%s\t%s\n",
			marker,
			shortID(slot.Job.ID),
			slot.Job.SourcePath,
			slot.Job.DestinationPath,
			statusCell(slot.Job),
			messageCell(slot.Job),
			model.FormatShort(slot.Job.LastUpdate),
		)
	}
	w.Flush()

	status := fmt.Sprintf("%d of %d row(s) materialized", len(slots), len(jobs))
	if loading {
		status += " · loading"
	}
	fmt.Fprintln(out, status)
}
