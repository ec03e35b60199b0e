package ledger

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"slices"

	"circle-route/api"
	"circle-route/booth"
)

// Keys of the persisted documents.
const (
	KeyPurchased = "purchasedList"
	KeyHeld      = "holdList"
	KeyHistory   = "actionHistory"
	KeySnapshot  = "comiketData"
)

// DocumentKeys lists the persisted documents in save order.
var DocumentKeys = []string{KeyPurchased, KeyHeld, KeyHistory, KeySnapshot}

// Store is a key/value document store.
type Store interface {
	LoadDocument(key string) ([]byte, bool, error)
	SaveDocument(key string, data []byte) error
}

// Documents is the persisted form of a Ledger.
type Documents struct {
	Purchased []string
	Held      []string
	History   []Action
	Snapshot  api.WishList
}

func (d Documents) normalized() Documents {
	if d.Purchased == nil {
		d.Purchased = []string{}
	}
	if d.Held == nil {
		d.Held = []string{}
	}
	if d.History == nil {
		d.History = []Action{}
	}
	if d.Snapshot.WantToBuy == nil {
		d.Snapshot.WantToBuy = []booth.Booth{}
	}
	return d
}

// Encode renders every document as JSON, keyed by its document key.
func (d Documents) Encode() (map[string][]byte, error) {
	d = d.normalized()
	values := map[string]any{
		KeyPurchased: d.Purchased,
		KeyHeld:      d.Held,
		KeyHistory:   d.History,
		KeySnapshot:  d.Snapshot,
	}
	out := make(map[string][]byte, len(values))
	for key, value := range values {
		data, err := json.Marshal(value)
		if err != nil {
			return nil, fmt.Errorf("encode %s: %w", key, err)
		}
		out[key] = data
	}
	return out, nil
}

// DecodeDocuments parses the documents present in docs. Missing keys decode
// to empty values.
func DecodeDocuments(docs map[string][]byte) (Documents, error) {
	var d Documents
	targets := map[string]any{
		KeyPurchased: &d.Purchased,
		KeyHeld:      &d.Held,
		KeyHistory:   &d.History,
		KeySnapshot:  &d.Snapshot,
	}
	for key, target := range targets {
		data, ok := docs[key]
		if !ok || len(data) == 0 {
			continue
		}
		if err := json.Unmarshal(data, target); err != nil {
			return Documents{}, fmt.Errorf("decode %s: %w", key, err)
		}
	}
	return d.normalized(), nil
}

// Documents captures the ledger's current state.
func (l *Ledger) Documents() Documents {
	return Documents{
		Purchased: slices.Clone(l.purchased),
		Held:      slices.Clone(l.held),
		History:   slices.Clone(l.history),
		Snapshot:  api.WishList{WantToBuy: l.Booths()},
	}.normalized()
}

// FromDocuments builds a ledger from persisted documents.
func FromDocuments(d Documents, outbox Outbox, logger *slog.Logger) *Ledger {
	d = d.normalized()
	l := New(outbox, logger)
	l.purchased = slices.Clone(d.Purchased)
	l.held = slices.Clone(d.Held)
	l.history = slices.Clone(d.History)
	l.SetBooths(d.Snapshot.WantToBuy)
	return l
}

// Load reads the ledger documents from store.
func Load(store Store, outbox Outbox, logger *slog.Logger) (*Ledger, error) {
	docs := make(map[string][]byte, len(DocumentKeys))
	for _, key := range DocumentKeys {
		data, ok, err := store.LoadDocument(key)
		if err != nil {
			return nil, fmt.Errorf("load %s: %w", key, err)
		}
		if ok {
			docs[key] = data
		}
	}
	d, err := DecodeDocuments(docs)
	if err != nil {
		return nil, err
	}
	return FromDocuments(d, outbox, logger), nil
}

// Save writes every ledger document to store.
func (l *Ledger) Save(store Store) error {
	docs, err := l.Documents().Encode()
	if err != nil {
		return err
	}
	for _, key := range DocumentKeys {
		if err := store.SaveDocument(key, docs[key]); err != nil {
			return fmt.Errorf("save %s: %w", key, err)
		}
	}
	return nil
}
