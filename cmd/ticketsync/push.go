package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/clintrovert/ticketsync/internal/report"
	"github.com/clintrovert/ticketsync/internal/sync"
	"github.com/clintrovert/ticketsync/pkg/types"
)

func newPushCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "push [ticket-id...]",
		Short: "Create or update remote issues from tickets",
		Long: "Push projects the local ticket store onto the remote tracker,\n" +
			"creating issues for unsynced tickets and updating changed ones.\n" +
			"With ticket IDs given, only those tickets are pushed.",
		RunE: func(cmd *cobra.Command, args []string) error {
			logger, err := newLogger()
			if err != nil {
				return err
			}
			defer logger.Sync()

			cfg, store, err := loadStore(logger)
			if err != nil {
				return err
			}

			all, err := store.LoadAll()
			if err != nil {
				return err
			}
			if len(all) == 0 {
				fmt.Printf("No tickets found in %s\n", store.Dir())
				return nil
			}

			working := filterTickets(all, args)
			if len(working) == 0 {
				fmt.Printf("No tickets matched the provided IDs: %v\n", args)
				return nil
			}

			tr, err := buildTracker(cfg, logger)
			if err != nil {
				return err
			}

			fmt.Printf("Syncing %d ticket(s) to %s...\n\n", len(working), trackerName(cfg))

			engine := sync.NewEngine(tr, store, engineOptions(cfg), logger)
			results, err := engine.Run(cmd.Context(), working, all)
			if err != nil {
				return err
			}

			for i := range results {
				fmt.Println(report.RenderResult(&results[i]))
			}
			summary := sync.Summarize(results)
			fmt.Println()
			fmt.Println(report.RenderSummary(summary))

			if summary.Failed > 0 {
				return errSyncFailed
			}
			return nil
		},
	}
}

// filterTickets selects tickets whose ID matches one of the given IDs,
// exactly or by prefix. No IDs selects everything.
func filterTickets(all []*types.Ticket, ids []string) []*types.Ticket {
	if len(ids) == 0 {
		return all
	}
	var out []*types.Ticket
	for _, t := range all {
		for _, id := range ids {
			if t.ID == id || strings.HasPrefix(t.ID, id) {
				out = append(out, t)
				break
			}
		}
	}
	return out
}
