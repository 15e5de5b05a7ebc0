package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/clintrovert/ticketsync/internal/report"
	"github.com/clintrovert/ticketsync/internal/sync"
)

func newStatusCmd() *cobra.Command {
	var quick bool

	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show which tickets would be created, updated, or conflict",
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

			tickets, err := store.LoadAll()
			if err != nil {
				return err
			}
			if len(tickets) == 0 {
				fmt.Printf("No tickets found in %s\n", store.Dir())
				return nil
			}

			tr, err := buildTracker(cfg, logger)
			if err != nil {
				return err
			}

			engine := sync.NewEngine(tr, store, engineOptions(cfg), logger)
			rep, err := engine.Status(cmd.Context(), tickets, quick)
			if err != nil {
				return err
			}
			fmt.Print(report.RenderStatus(trackerName(cfg), rep))
			return nil
		},
	}
	cmd.Flags().BoolVarP(&quick, "quick", "q", false, "skip remote checks; only report synced/unsynced")
	return cmd
}
