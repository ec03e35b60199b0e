package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

func fetchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "fetch",
		Short: "Download the wish list and cache it",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, source, err := requireClient()
			if err != nil {
				return err
			}

			s, err := openSession()
			if err != nil {
				return err
			}
			defer s.Close()

			ctx := commandContext(cmd)
			// Queued updates go out before the fetch.
			sent, pending := s.drain(ctx)

			list, err := client.FetchWishList(ctx, source.Sheets)
			if err != nil {
				return err
			}
			s.ledger.SetBooths(list.WantToBuy)
			if err := s.save(); err != nil {
				return err
			}
			logger.Debug("fetched wish list", "booths", len(list.WantToBuy), "sheets", source.Sheets)

			summary := struct {
				Booths    int `json:"booths"`
				Unvisited int `json:"unvisited"`
				Sent      int `json:"sent"`
				Pending   int `json:"pending"`
			}{len(list.WantToBuy), len(s.ledger.Unvisited()), sent, pending}

			out := cmd.OutOrStdout()
			if outputJSON {
				return writeJSON(out, summary)
			}
			fmt.Fprintf(out, "Fetched %d booths (%d unvisited).\n", summary.Booths, summary.Unvisited)
			if pending > 0 {
				fmt.Fprintf(out, "%d updates still waiting to sync.\n", pending)
			}
			return nil
		},
	}

	return cmd
}
