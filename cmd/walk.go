package cmd

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"
)

const walkHelp = "[b]uy  [h]old  [u]ndo  [s]ync  [q]uit"

func walkCmd() *cobra.Command {
	var from string

	cmd := &cobra.Command{
		Use:   "walk",
		Short: "Step through the route one booth at a time",
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

			in := cmd.InOrStdin()
			out := cmd.OutOrStdout()
			raw := false
			if file, ok := in.(*os.File); ok && term.IsTerminal(int(file.Fd())) {
				fd := int(file.Fd())
				oldState, err := term.MakeRaw(fd)
				if err != nil {
					return fmt.Errorf("set terminal raw mode: %w", err)
				}
				defer term.Restore(fd, oldState)
				raw = true
				out = crlfWriter{out}
			}

			return runWalk(commandContext(cmd), s, newKeyReader(in, raw), out, start)
		},
	}

	cmd.Flags().StringVar(&from, "from", "", "Start position (booth code)")
	return cmd
}

// runWalk shows the next target, applies one key and replans from the new
// position until the route is done or the user quits.
func runWalk(ctx context.Context, s *session, keys *keyReader, out io.Writer, position string) error {
	for {
		view := nextView(s.plan(position), s.model, cfg.Lookahead)
		if err := writeNext(out, view); err != nil {
			return err
		}
		if view.Done {
			return nil
		}
		fmt.Fprintln(out, walkHelp)

		key, err := keys.next()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err
		}

		target := view.Next.Space
		switch key {
		case 'b':
			s.ledger.MarkPurchased(target)
			position = target
			fmt.Fprintf(out, "Purchased %s.\n", target)
		case 'h':
			s.ledger.MarkHeld(target)
			position = target
			fmt.Fprintf(out, "Held %s.\n", target)
		case 'u':
			action, ok := s.ledger.Undo()
			if !ok {
				fmt.Fprintln(out, "Nothing to undo.")
				continue
			}
			fmt.Fprintf(out, "Undid %s %s.\n", action.Kind, action.Space)
		case 's':
			sent, pending := s.drain(ctx)
			fmt.Fprintf(out, "Sent %d updates, %d pending.\n", sent, pending)
			continue
		case 'q', 3:
			return nil
		default:
			continue
		}

		if err := s.save(); err != nil {
			return err
		}
		if err := s.docs.SetLastPosition(position); err != nil {
			return err
		}
		if _, pending := s.drain(ctx); pending > 0 {
			logger.Debug("updates waiting to sync", "pending", pending)
		}
	}
}

// keyReader yields one key per keypress in raw mode and the first byte of
// each line otherwise.
type keyReader struct {
	reader *bufio.Reader
	raw    bool
}

func newKeyReader(in io.Reader, raw bool) *keyReader {
	return &keyReader{reader: bufio.NewReader(in), raw: raw}
}

func (k *keyReader) next() (byte, error) {
	if k.raw {
		return k.reader.ReadByte()
	}
	for {
		line, err := k.reader.ReadBytes('\n')
		line = bytes.TrimSpace(line)
		if len(line) > 0 {
			return line[0], nil
		}
		if err != nil {
			return 0, err
		}
	}
}

type crlfWriter struct {
	w io.Writer
}

func (c crlfWriter) Write(p []byte) (int, error) {
	if _, err := c.w.Write(bytes.ReplaceAll(p, []byte("\n"), []byte("\r\n"))); err != nil {
		return 0, err
	}
	return len(p), nil
}
