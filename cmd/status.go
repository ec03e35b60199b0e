package cmd

import (
	"fmt"
	"io"

	"circle-route/booth"
	"circle-route/ledger"

	"github.com/spf13/cobra"
)

type ZoneStats struct {
	Zone      string `json:"zone"`
	Remaining int    `json:"remaining"`
	Held      int    `json:"held"`
	Purchased int    `json:"purchased"`
}

type StatusView struct {
	Total     int         `json:"total"`
	Remaining int         `json:"remaining"`
	Held      int         `json:"held"`
	Purchased int         `json:"purchased"`
	Zones     []ZoneStats `json:"zones"`
	Pending   int         `json:"pending"`
	Position  string      `json:"position,omitempty"`
}

const unknownZone = "?"

// statusView counts wish-list booths per configured zone. Booths outside
// the layout are counted under "?" which is listed last.
func statusView(layout booth.Layout, l *ledger.Ledger) StatusView {
	names := append(layout.ZoneNames(), unknownZone)
	byZone := make(map[string]*ZoneStats, len(names))
	zones := make([]ZoneStats, len(names))
	for i, name := range names {
		zones[i].Zone = name
		byZone[name] = &zones[i]
	}

	view := StatusView{}
	for _, b := range l.Booths() {
		coord := layout.Parse(b.Space)
		name := unknownZone
		if coord.Known() {
			name = coord.ZoneName()
		}
		stats := byZone[name]
		view.Total++
		switch l.State(b.Space) {
		case ledger.Purchased:
			stats.Purchased++
		case ledger.Held:
			stats.Held++
		default:
			stats.Remaining++
		}
	}

	view.Zones = []ZoneStats{}
	for _, stats := range zones {
		view.Remaining += stats.Remaining
		view.Held += stats.Held
		if stats.Remaining+stats.Held+stats.Purchased == 0 {
			continue
		}
		view.Zones = append(view.Zones, stats)
	}
	view.Purchased = len(l.Purchased())
	return view
}

func writeStatus(w io.Writer, view StatusView) error {
	if view.Total == 0 {
		fmt.Fprintln(w, "No data loaded. Run circle-route fetch.")
	} else {
		fmt.Fprintf(w, "%d booths: %d remaining, %d held, %d purchased\n", view.Total, view.Remaining, view.Held, view.Purchased)
	}
	if len(view.Zones) > 0 && !outputCompact {
		writer := newTable(w)
		fmt.Fprintln(writer, "ZONE\tREMAINING\tHELD\tPURCHASED")
		for _, zone := range view.Zones {
			fmt.Fprintf(writer, "%s\t%d\t%d\t%d\n", zone.Zone, zone.Remaining, zone.Held, zone.Purchased)
		}
		if err := writer.Flush(); err != nil {
			return err
		}
	}
	if view.Position != "" {
		fmt.Fprintf(w, "Position: %s\n", view.Position)
	}
	if view.Pending > 0 {
		fmt.Fprintf(w, "%d updates waiting to sync.\n", view.Pending)
	}
	return nil
}

func statusCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show progress per zone",
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openSession()
			if err != nil {
				return err
			}
			defer s.Close()

			view := statusView(s.layout, s.ledger)
			pending, err := s.queue.Pending()
			if err != nil {
				return err
			}
			view.Pending = len(pending)
			if view.Position, err = s.docs.LastPosition(); err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if outputJSON {
				return writeJSON(out, view)
			}
			return writeStatus(out, view)
		},
	}

	return cmd
}
