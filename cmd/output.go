package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"circle-route/booth"
	"circle-route/route"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"
)

type StopView struct {
	Step     int    `json:"step"`
	Space    string `json:"space"`
	Zone     string `json:"zone"`
	Priority string `json:"priority,omitempty"`
	Account  string `json:"account,omitempty"`
	Tweet    string `json:"tweet,omitempty"`
	Cost     int    `json:"cost"`
}

type RouteView struct {
	Start     string     `json:"start"`
	Stops     []StopView `json:"stops"`
	TotalCost int        `json:"total_cost"`
	Remaining int        `json:"remaining"`
}

func writeJSON(w io.Writer, v any) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(v)
}

func newTable(w io.Writer) *tabwriter.Writer {
	return tabwriter.NewWriter(w, 2, 2, 2, ' ', 0)
}

func zoneLabel(layout booth.Layout, code string) string {
	coord := layout.Parse(code)
	if !coord.Known() {
		return "?"
	}
	return coord.ZoneName()
}

func routeView(r route.Route, model route.CostModel) RouteView {
	view := RouteView{Stops: []StopView{}}
	if start, ok := r.Start(); ok {
		view.Start = start.Space
	}
	legs := r.Legs(model)
	for i, target := range r.Targets() {
		view.Stops = append(view.Stops, StopView{
			Step:     i + 1,
			Space:    target.Space,
			Zone:     zoneLabel(model.Layout, target.Space),
			Priority: string(target.Priority),
			Account:  target.Account,
			Tweet:    target.Tweet,
			Cost:     legs[i],
		})
		view.TotalCost += legs[i]
	}
	view.Remaining = len(view.Stops)
	return view
}

func writeStops(w io.Writer, stops []StopView) error {
	writer := newTable(w)
	if !outputCompact {
		fmt.Fprintln(writer, "#\tSPACE\tZONE\tPRIORITY\tCOST\tACCOUNT")
	}
	for _, stop := range stops {
		fmt.Fprintf(writer, "%d\t%s\t%s\t%s\t%d\t%s\n", stop.Step, stop.Space, stop.Zone, dash(stop.Priority), stop.Cost, dash(stop.Account))
	}
	return writer.Flush()
}

func dash(value string) string {
	if value == "" {
		return "-"
	}
	return value
}

var bannerStyle = lipgloss.NewStyle().
	Bold(true).
	Foreground(lipgloss.Color("212")).
	Border(lipgloss.RoundedBorder()).
	BorderForeground(lipgloss.Color("63")).
	Padding(0, 2)

// banner frames the next target when stdout is a terminal and leaves it
// plain otherwise.
func banner(w io.Writer, text string) string {
	if isTerminal(w) {
		return bannerStyle.Render(text)
	}
	return text
}

func isTerminal(w io.Writer) bool {
	switch v := w.(type) {
	case *os.File:
		return term.IsTerminal(int(v.Fd()))
	case crlfWriter:
		return isTerminal(v.w)
	}
	return false
}
