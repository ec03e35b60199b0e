package cmd

import (
	"fmt"
	"io"

	"circle-route/route"

	"github.com/spf13/cobra"
)

func routeCmd() *cobra.Command {
	var from string
	var limit int

	cmd := &cobra.Command{
		Use:   "route",
		Short: "Plan the walking order through every unvisited booth",
		RunE: func(cmd *cobra.Command, args []string) error {
			if limit < 0 {
				return fmt.Errorf("--limit must not be negative")
			}

			s, err := openSession()
			if err != nil {
				return err
			}
			defer s.Close()

			if err := s.requireData(); err != nil {
				return err
			}
			start, err := s.origin(from)
			if err != nil {
				return err
			}

			view := routeView(s.plan(start), s.model)
			if limit > 0 && len(view.Stops) > limit {
				view.Stops = view.Stops[:limit]
			}

			out := cmd.OutOrStdout()
			if outputJSON {
				return writeJSON(out, view)
			}
			if view.Remaining == 0 {
				fmt.Fprintln(out, "All targets visited.")
				return nil
			}
			if !outputCompact {
				fmt.Fprintf(out, "From %s: %d booths, total cost %d\n", view.Start, view.Remaining, view.TotalCost)
			}
			return writeStops(out, view.Stops)
		},
	}

	cmd.Flags().StringVar(&from, "from", "", "Start position (booth code)")
	cmd.Flags().IntVar(&limit, "limit", 0, "Only show the first N stops")
	return cmd
}

type NextView struct {
	From      string     `json:"from"`
	Done      bool       `json:"done"`
	Next      *StopView  `json:"next,omitempty"`
	Lookahead []StopView `json:"lookahead"`
	Remaining int        `json:"remaining"`
}

func nextView(r route.Route, model route.CostModel, lookahead int) NextView {
	full := routeView(r, model)
	view := NextView{
		From:      full.Start,
		Done:      r.Done(),
		Lookahead: []StopView{},
		Remaining: full.Remaining,
	}
	if view.Done {
		return view
	}
	view.Next = &full.Stops[0]
	view.Lookahead = append(view.Lookahead, full.Stops[1:1+len(r.Lookahead(lookahead))]...)
	return view
}

func writeNext(w io.Writer, view NextView) error {
	if view.Done {
		fmt.Fprintln(w, "All targets visited.")
		return nil
	}
	next := view.Next
	line := fmt.Sprintf("Next: %s (%s)", next.Space, next.Zone)
	if next.Priority != "" {
		line += " priority " + next.Priority
	}
	fmt.Fprintln(w, banner(w, line))
	if !outputCompact {
		if next.Account != "" {
			fmt.Fprintf(w, "  account: %s\n", next.Account)
		}
		if next.Tweet != "" {
			fmt.Fprintf(w, "  tweet:   %s\n", next.Tweet)
		}
	}
	if len(view.Lookahead) > 0 {
		fmt.Fprint(w, "Then:")
		for _, stop := range view.Lookahead {
			fmt.Fprintf(w, " %s", stop.Space)
		}
		fmt.Fprintln(w)
	}
	if !outputCompact {
		fmt.Fprintf(w, "%d booths left.\n", view.Remaining)
	}
	return nil
}

func nextCmd() *cobra.Command {
	var from string

	cmd := &cobra.Command{
		Use:   "next",
		Short: "Show the next booth to visit",
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openSession()
			if err != nil {
				return err
			}
			defer s.Close()

			if err := s.requireData(); err != nil {
				return err
			}
			start, err := s.origin(from)
			if err != nil {
				return err
			}

			view := nextView(s.plan(start), s.model, cfg.Lookahead)
			out := cmd.OutOrStdout()
			if outputJSON {
				return writeJSON(out, view)
			}
			return writeNext(out, view)
		},
	}

	cmd.Flags().StringVar(&from, "from", "", "Start position (booth code)")
	return cmd
}
