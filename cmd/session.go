package cmd

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"circle-route/api"
	"circle-route/booth"
	"circle-route/ledger"
	"circle-route/outbox"
	"circle-route/route"
	"circle-route/storage"

	"github.com/spf13/cobra"
)

var errNoStart = errors.New("no start position: pass --from, act on a booth, or set default_start in config")

// session is the state one command works on: the state DB, the ledger
// loaded from it and the sync queue.
type session struct {
	db     *sql.DB
	docs   storage.DocumentStore
	layout booth.Layout
	model  route.CostModel
	queue  *outbox.Queue
	ledger *ledger.Ledger
	client *api.Client
}

func openSession() (*session, error) {
	layout, _, err := storage.LoadLayout()
	if err != nil {
		return nil, err
	}
	model, err := cfg.CostModel(layout)
	if err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}

	client, _, err := loadClient()
	if err != nil {
		return nil, err
	}

	db, err := storage.OpenStateDB()
	if err != nil {
		return nil, err
	}

	s := &session{
		db:     db,
		docs:   storage.DocumentStore{DB: db},
		layout: layout,
		model:  model,
		client: client,
	}
	var sender outbox.Sender
	if client != nil {
		sender = client
	}
	s.queue = outbox.New(storage.QueueStore{DB: db}, sender, logger)

	s.ledger, err = ledger.Load(s.docs, s.queue, logger)
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	return s, nil
}

func (s *session) Close() error {
	return s.db.Close()
}

func (s *session) save() error {
	return s.ledger.Save(s.docs)
}

func (s *session) solver() *route.Solver {
	return route.NewSolver(s.model, cfg.SolverOptions())
}

// plan routes every unvisited booth from the given position.
func (s *session) plan(from string) route.Route {
	return s.solver().Solve(from, s.ledger.Unvisited())
}

// origin picks the start position: the flag, then the last booth acted on,
// then default_start from config.
func (s *session) origin(flag string) (string, error) {
	if code := strings.TrimSpace(flag); code != "" {
		return code, nil
	}
	last, err := s.docs.LastPosition()
	if err != nil {
		return "", err
	}
	if last != "" {
		return last, nil
	}
	if cfg.DefaultStart != "" {
		return cfg.DefaultStart, nil
	}
	return "", errNoStart
}

// drain pushes queued updates to the backend. Failures are logged and left
// in the queue for the next attempt.
func (s *session) drain(ctx context.Context) (sent int, pending int) {
	sent, err := s.queue.Drain(ctx)
	if err != nil {
		logger.Warn("sync stopped", "sent", sent, "error", err)
	}
	items, err := s.queue.Pending()
	if err != nil {
		logger.Warn("read sync queue", "error", err)
		return sent, 0
	}
	return sent, len(items)
}

func (s *session) requireData() error {
	if len(s.ledger.Booths()) == 0 {
		return fmt.Errorf("no data loaded: run circle-route fetch first")
	}
	return nil
}

// loadClient builds the backend client from the saved source. It returns a
// nil client when no backend URL is configured.
func loadClient() (*api.Client, *storage.Source, error) {
	source, err := storage.LoadSource()
	if err != nil {
		return nil, nil, err
	}
	if source == nil {
		source = &storage.Source{}
	}
	if override := strings.TrimSpace(os.Getenv(baseURLEnv)); override != "" {
		source.BaseURL = override
	}
	if source.BaseURL == "" {
		return nil, source, nil
	}

	client := api.NewClient(source.BaseURL)
	client.HTTP.Timeout = time.Duration(cfg.TimeoutSeconds) * time.Second
	return client, source, nil
}

func requireClient() (*api.Client, *storage.Source, error) {
	client, source, err := loadClient()
	if err != nil {
		return nil, nil, err
	}
	if client == nil {
		return nil, nil, fmt.Errorf("%w: run circle-route source set <url>", api.ErrNoBaseURL)
	}
	return client, source, nil
}

func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
