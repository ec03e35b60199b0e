package cmd

import (
	"fmt"
	"io"
	"strings"

	"circle-route/api"
	"circle-route/ledger"

	"github.com/spf13/cobra"
)

type ActionResult struct {
	Action  string   `json:"action"`
	Spaces  []string `json:"spaces"`
	Changed bool     `json:"changed"`
	State   string   `json:"state,omitempty"`
	Sent    int      `json:"sent"`
	Pending int      `json:"pending"`
}

// mutate runs fn against the session ledger, saves it and tries to sync.
func mutate(cmd *cobra.Command, fn func(s *session) (ActionResult, error)) error {
	s, err := openSession()
	if err != nil {
		return err
	}
	defer s.Close()

	result, err := fn(s)
	if err != nil {
		return err
	}
	if err := s.save(); err != nil {
		return err
	}
	result.Sent, result.Pending = s.drain(commandContext(cmd))

	out := cmd.OutOrStdout()
	if outputJSON {
		return writeJSON(out, result)
	}
	writeResult(out, result)
	return nil
}

func writeResult(w io.Writer, result ActionResult) {
	spaces := strings.Join(result.Spaces, ", ")
	switch {
	case result.Action == "undo" && !result.Changed:
		fmt.Fprintln(w, "Nothing to undo.")
	case result.Action == "undo":
		fmt.Fprintf(w, "Undid %s.\n", spaces)
	case strings.HasPrefix(result.Action, "reset"):
		if len(result.Spaces) == 0 {
			fmt.Fprintln(w, "Nothing to reset.")
		} else {
			fmt.Fprintf(w, "Cleared %d: %s\n", len(result.Spaces), spaces)
		}
	case !result.Changed:
		fmt.Fprintf(w, "No change: %s is already %s.\n", spaces, result.State)
	default:
		fmt.Fprintf(w, "Marked %s as %s.\n", spaces, pastTense(result.Action))
	}
	if result.Pending > 0 && !outputCompact {
		fmt.Fprintf(w, "%d updates waiting to sync.\n", result.Pending)
	}
}

func pastTense(action string) string {
	switch action {
	case "buy":
		return "purchased"
	case "hold":
		return "held"
	}
	return action
}

func markCmd(use, short, action string, mark func(l *ledger.Ledger, space string) bool) *cobra.Command {
	cmd := &cobra.Command{
		Use:   use + " <code>",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			space := strings.TrimSpace(args[0])
			if space == "" {
				return fmt.Errorf("booth code is required")
			}
			return mutate(cmd, func(s *session) (ActionResult, error) {
				if !s.known(space) {
					logger.Warn("booth is not in the wish list", "space", space)
				}
				changed := mark(s.ledger, space)
				if err := s.docs.SetLastPosition(space); err != nil {
					return ActionResult{}, err
				}
				return ActionResult{
					Action:  action,
					Spaces:  []string{space},
					Changed: changed,
					State:   s.ledger.State(space).String(),
				}, nil
			})
		},
	}
	return cmd
}

func buyCmd() *cobra.Command {
	return markCmd("buy", "Mark a booth as purchased", "buy", (*ledger.Ledger).MarkPurchased)
}

func holdCmd() *cobra.Command {
	return markCmd("hold", "Put a booth on hold to come back later", "hold", (*ledger.Ledger).MarkHeld)
}

func undoCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "undo",
		Short: "Revert the last buy or hold",
		RunE: func(cmd *cobra.Command, args []string) error {
			return mutate(cmd, func(s *session) (ActionResult, error) {
				action, ok := s.ledger.Undo()
				result := ActionResult{Action: "undo", Spaces: []string{}, Changed: ok}
				if ok {
					result.Spaces = []string{action.Space}
				}
				return result, nil
			})
		},
	}

	return cmd
}

func resetCmd() *cobra.Command {
	var held bool

	cmd := &cobra.Command{
		Use:   "reset",
		Short: "Clear every purchase (or every hold with --held)",
		RunE: func(cmd *cobra.Command, args []string) error {
			return mutate(cmd, func(s *session) (ActionResult, error) {
				if held {
					cleared := s.ledger.ResetHeld()
					return ActionResult{Action: "reset-held", Spaces: cleared, Changed: len(cleared) > 0}, nil
				}
				cleared := s.ledger.ResetAll()
				return ActionResult{Action: "reset", Spaces: cleared, Changed: len(cleared) > 0}, nil
			})
		},
	}

	cmd.Flags().BoolVar(&held, "held", false, "Clear holds instead of purchases")
	return cmd
}

func syncCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sync",
		Short: "Send queued updates to the backend",
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openSession()
			if err != nil {
				return err
			}
			defer s.Close()

			if s.client == nil {
				return fmt.Errorf("%w: run circle-route source set <url>", api.ErrNoBaseURL)
			}

			sent, err := s.queue.Drain(commandContext(cmd))
			items, pendingErr := s.queue.Pending()
			if pendingErr != nil {
				return pendingErr
			}

			out := cmd.OutOrStdout()
			if outputJSON {
				if werr := writeJSON(out, map[string]int{"sent": sent, "pending": len(items)}); werr != nil {
					return werr
				}
				return err
			}
			fmt.Fprintf(out, "Sent %d updates, %d pending.\n", sent, len(items))
			return err
		},
	}

	return cmd
}

func (s *session) known(space string) bool {
	for _, b := range s.ledger.Booths() {
		if b.Space == space {
			return true
		}
	}
	return false
}
