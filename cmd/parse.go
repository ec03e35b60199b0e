package cmd

import (
	"fmt"

	"circle-route/booth"
	"circle-route/storage"

	"github.com/spf13/cobra"
)

type CodeView struct {
	Code  string `json:"code"`
	Known bool   `json:"known"`
	Zone  string `json:"zone,omitempty"`
	Hall  string `json:"hall"`
	Row   string `json:"row"`
	Seat  int    `json:"seat"`
}

func codeView(layout booth.Layout, code string) CodeView {
	coord := layout.Parse(code)
	view := CodeView{Code: code, Known: coord.Known(), Zone: coord.ZoneName(), Seat: coord.Seat}
	if coord.Hall != 0 {
		view.Hall = string(coord.Hall)
	}
	if coord.Row != 0 {
		view.Row = string(coord.Row)
	}
	return view
}

func parseCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "parse <code>...",
		Short: "Show how booth codes map onto the venue layout",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			layout, _, err := storage.LoadLayout()
			if err != nil {
				return err
			}

			views := make([]CodeView, 0, len(args))
			for _, code := range args {
				views = append(views, codeView(layout, code))
			}

			out := cmd.OutOrStdout()
			if outputJSON {
				return writeJSON(out, views)
			}
			writer := newTable(out)
			if !outputCompact {
				fmt.Fprintln(writer, "CODE\tZONE\tHALL\tROW\tSEAT")
			}
			for _, view := range views {
				zone := view.Zone
				if !view.Known {
					zone = unknownZone
				}
				fmt.Fprintf(writer, "%s\t%s\t%s\t%s\t%d\n", view.Code, zone, dash(view.Hall), dash(view.Row), view.Seat)
			}
			return writer.Flush()
		},
	}

	return cmd
}
