package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/gearr/gearr-console/internal/model"
)

func newWorkersCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "workers",
		Short: "Show the transcoding worker roster",
		RunE: func(cmd *cobra.Command, args []string) error {
			_, client, err := setup()
			if err != nil {
				return err
			}

			workers, err := client.ListWorkers(cmd.Context())
			if err != nil {
				return sessionEndedHint(err)
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 2, 4, 2, ' ', 0)
			fmt.Fprintln(w, "NAME\tIP\tQUEUE\tLAST SEEN")
			for _, worker := range workers {
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\n",
					worker.Name, worker.IP, worker.QueueName, model.FormatDetailed(worker.LastSeen))
			}
			w.Flush()
			fmt.Fprintf(cmd.OutOrStdout(), "%d worker(s)\n", len(workers))
			return nil
		},
	}
}
