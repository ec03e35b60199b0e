// Package ledger tracks which wish-list booths have been bought or put on
// hold, with a linear undo history.
//
// Every booth is in one of three states: unvisited, held or purchased. A
// purchase of a held booth moves it out of the held set; undoing that
// purchase puts it back on hold. Purchases and their undos are queued for the
// backend through an Outbox; holds stay local.
package ledger

import (
	"log/slog"
	"slices"

	"circle-route/api"
	"circle-route/booth"
)

type Kind string

const (
	KindPurchase Kind = "purchase"
	KindHold     Kind = "hold"
)

type Action struct {
	Kind  Kind   `json:"type"`
	Space string `json:"space"`
	// WasHeld records that the purchase took the booth off hold.
	WasHeld bool `json:"wasHeld,omitempty"`
}

type State int

const (
	Unvisited State = iota
	Held
	Purchased
)

func (s State) String() string {
	switch s {
	case Held:
		return "held"
	case Purchased:
		return "purchased"
	default:
		return "unvisited"
	}
}

// Outbox accepts backend updates. Enqueue must not block on the network.
type Outbox interface {
	Enqueue(update api.Update) error
}

type Ledger struct {
	booths    []booth.Booth
	purchased []string
	held      []string
	history   []Action
	outbox    Outbox
	logger    *slog.Logger
}

func New(outbox Outbox, logger *slog.Logger) *Ledger {
	if logger == nil {
		logger = slog.Default()
	}
	return &Ledger{
		booths:    []booth.Booth{},
		purchased: []string{},
		held:      []string{},
		history:   []Action{},
		outbox:    outbox,
		logger:    logger,
	}
}

func (l *Ledger) SetBooths(booths []booth.Booth) {
	l.booths = slices.Clone(booths)
	if l.booths == nil {
		l.booths = []booth.Booth{}
	}
}

func (l *Ledger) Booths() []booth.Booth {
	return slices.Clone(l.booths)
}

func (l *Ledger) Purchased() []string { return slices.Clone(l.purchased) }
func (l *Ledger) Held() []string      { return slices.Clone(l.held) }
func (l *Ledger) History() []Action   { return slices.Clone(l.history) }

func (l *Ledger) State(space string) State {
	switch {
	case slices.Contains(l.purchased, space):
		return Purchased
	case slices.Contains(l.held, space):
		return Held
	default:
		return Unvisited
	}
}

// Unvisited returns the known booths that are neither purchased nor held,
// in wish-list order.
func (l *Ledger) Unvisited() []booth.Booth {
	out := make([]booth.Booth, 0, len(l.booths))
	for _, b := range l.booths {
		if l.State(b.Space) == Unvisited {
			out = append(out, b)
		}
	}
	return out
}

// MarkPurchased records a purchase and queues it for the backend. It returns
// false when space is empty or already purchased.
func (l *Ledger) MarkPurchased(space string) bool {
	if space == "" || slices.Contains(l.purchased, space) {
		return false
	}

	var wasHeld bool
	l.held, wasHeld = remove(l.held, space)
	l.purchased = append(l.purchased, space)
	l.history = append(l.history, Action{Kind: KindPurchase, Space: space, WasHeld: wasHeld})
	l.logger.Debug("marked purchased", "space", space, "was_held", wasHeld)

	l.enqueue(api.Update{Space: space})
	return true
}

// MarkHeld puts an unvisited booth on hold. It returns false when space is
// empty, already held or already purchased.
func (l *Ledger) MarkHeld(space string) bool {
	if space == "" || l.State(space) != Unvisited {
		return false
	}
	l.held = append(l.held, space)
	l.history = append(l.history, Action{Kind: KindHold, Space: space})
	l.logger.Debug("marked held", "space", space)
	return true
}

// Undo reverts the most recent action. ok is false when there is nothing to
// undo.
func (l *Ledger) Undo() (Action, bool) {
	if len(l.history) == 0 {
		return Action{}, false
	}
	last := l.history[len(l.history)-1]
	l.history = l.history[:len(l.history)-1]

	switch last.Kind {
	case KindPurchase:
		l.purchased, _ = remove(l.purchased, last.Space)
		if last.WasHeld && !slices.Contains(l.held, last.Space) {
			l.held = append(l.held, last.Space)
		}
		l.enqueue(api.Update{Space: last.Space, Undo: true})
	case KindHold:
		l.held, _ = remove(l.held, last.Space)
	}
	l.logger.Debug("undid action", "type", last.Kind, "space", last.Space)
	return last, true
}

// ResetAll clears every purchase and its history, queues one batched undo
// and returns the cleared spaces. Current holds are kept; hold entries for
// booths a purchase took off hold are dropped with it.
func (l *Ledger) ResetAll() []string {
	cleared := l.purchased
	l.purchased = []string{}
	history := make([]Action, 0, len(l.history))
	for _, action := range l.history {
		if action.Kind == KindHold && slices.Contains(l.held, action.Space) {
			history = append(history, action)
		}
	}
	l.history = history
	if len(cleared) > 0 {
		l.enqueue(api.Update{Spaces: slices.Clone(cleared), Undo: true})
	}
	l.logger.Debug("reset purchases", "count", len(cleared))
	return cleared
}

// ResetHeld clears every hold and its history. Nothing is sent to the
// backend since holds never were.
func (l *Ledger) ResetHeld() []string {
	cleared := l.held
	l.held = []string{}
	l.history = filterHistory(l.history, KindPurchase)
	for i := range l.history {
		l.history[i].WasHeld = false
	}
	l.logger.Debug("reset holds", "count", len(cleared))
	return cleared
}

func (l *Ledger) enqueue(update api.Update) {
	if l.outbox == nil {
		return
	}
	if err := l.outbox.Enqueue(update); err != nil {
		l.logger.Warn("could not queue update", "update", update.Describe(), "error", err)
	}
}

func remove(list []string, space string) ([]string, bool) {
	idx := slices.Index(list, space)
	if idx < 0 {
		return list, false
	}
	return slices.Delete(list, idx, idx+1), true
}

func filterHistory(history []Action, keep Kind) []Action {
	out := make([]Action, 0, len(history))
	for _, action := range history {
		if action.Kind == keep {
			out = append(out, action)
		}
	}
	return out
}
