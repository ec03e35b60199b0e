package ledger_test

import (
	"encoding/json"
	"testing"

	"circle-route/api"
	"circle-route/ledger"

	"github.com/stretchr/testify/require"
)

type memoryStore map[string][]byte

func (m memoryStore) LoadDocument(key string) ([]byte, bool, error) {
	data, ok := m[key]
	return data, ok, nil
}

func (m memoryStore) SaveDocument(key string, data []byte) error {
	m[key] = data
	return nil
}

const snapshotJSON = `{"wantToBuy":[
	{"space":"東A01a","account":"https://x.com/a","tweet":"https://x.com/a/status/1","priority":"S","name":"circle a"},
	{"space":"西あ10b","priority":5},
	{"space":"南c02a"}
]}`

func TestDocumentsRoundTrip(t *testing.T) {
	var snapshot api.WishList
	require.NoError(t, json.Unmarshal([]byte(snapshotJSON), &snapshot))

	l, _ := newLedger(t)
	l.SetBooths(snapshot.WantToBuy)
	l.MarkHeld("西あ10b")
	l.MarkPurchased("西あ10b")
	l.MarkPurchased("東A01a")
	l.MarkHeld("南c02a")

	store := memoryStore{}
	require.NoError(t, l.Save(store))
	for _, key := range ledger.DocumentKeys {
		require.Contains(t, store, key)
	}

	loaded, err := ledger.Load(store, nil, discardLogger())
	require.NoError(t, err)
	require.Equal(t, l.Documents(), loaded.Documents())

	again := memoryStore{}
	require.NoError(t, loaded.Save(again))
	require.Equal(t, store, again)
}

func TestDocumentsWireShape(t *testing.T) {
	l, _ := newLedger(t, "a", "b")
	l.MarkHeld("a")
	l.MarkPurchased("a")

	docs, err := l.Documents().Encode()
	require.NoError(t, err)
	require.JSONEq(t, `["a"]`, string(docs[ledger.KeyPurchased]))
	require.JSONEq(t, `[]`, string(docs[ledger.KeyHeld]))
	require.JSONEq(t, `[{"type":"hold","space":"a"},{"type":"purchase","space":"a","wasHeld":true}]`, string(docs[ledger.KeyHistory]))
	require.JSONEq(t, `{"wantToBuy":[{"space":"a"},{"space":"b"}]}`, string(docs[ledger.KeySnapshot]))
}

func TestLoadEmptyStore(t *testing.T) {
	l, err := ledger.Load(memoryStore{}, nil, discardLogger())
	require.NoError(t, err)
	require.Empty(t, l.Purchased())
	require.Empty(t, l.Held())
	require.Empty(t, l.History())
	require.Empty(t, l.Booths())

	docs, err := l.Documents().Encode()
	require.NoError(t, err)
	require.Equal(t, `[]`, string(docs[ledger.KeyPurchased]))
	require.Equal(t, `{"wantToBuy":[]}`, string(docs[ledger.KeySnapshot]))
}

func TestDecodeDocumentsRejectsGarbage(t *testing.T) {
	_, err := ledger.DecodeDocuments(map[string][]byte{ledger.KeyHistory: []byte(`{`)})
	require.Error(t, err)
	require.Contains(t, err.Error(), ledger.KeyHistory)
}
