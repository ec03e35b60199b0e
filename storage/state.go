package storage

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"circle-route/outbox"

	_ "github.com/mattn/go-sqlite3"
)

// KeyLastPosition holds the code of the booth most recently acted on.
const KeyLastPosition = "lastPosition"

func OpenStateDB() (*sql.DB, error) {
	if _, err := ensureConfigDir(); err != nil {
		return nil, err
	}
	path, err := StatePath()
	if err != nil {
		return nil, err
	}
	return OpenStateDBAt(path)
}

func OpenStateDBAt(path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}

	if err := ensureStateSchema(db); err != nil {
		_ = db.Close()
		return nil, err
	}

	return db, nil
}

func ensureStateSchema(db *sql.DB) error {
	createDocuments := `
CREATE TABLE IF NOT EXISTS documents (
  key TEXT PRIMARY KEY,
  value TEXT NOT NULL
);`
	if _, err := db.Exec(createDocuments); err != nil {
		return fmt.Errorf("create documents table: %w", err)
	}

	createQueue := `
CREATE TABLE IF NOT EXISTS sync_queue (
  seq INTEGER PRIMARY KEY AUTOINCREMENT,
  id TEXT NOT NULL UNIQUE,
  created_at TEXT NOT NULL,
  payload TEXT NOT NULL
);`
	if _, err := db.Exec(createQueue); err != nil {
		return fmt.Errorf("create sync_queue table: %w", err)
	}

	if err := ensureColumns(db, "documents", []string{"updated_at"}); err != nil {
		return err
	}
	return nil
}

func ensureColumns(db *sql.DB, table string, columns []string) error {
	rows, err := db.Query(fmt.Sprintf("PRAGMA table_info(%s);", table))
	if err != nil {
		return fmt.Errorf("inspect %s table: %w", table, err)
	}
	defer rows.Close()

	existing := map[string]struct{}{}
	for rows.Next() {
		var cid int
		var name string
		var ctype string
		var notnull int
		var dflt sql.NullString
		var pk int
		if err := rows.Scan(&cid, &name, &ctype, &notnull, &dflt, &pk); err != nil {
			return fmt.Errorf("inspect %s columns: %w", table, err)
		}
		existing[name] = struct{}{}
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("inspect %s columns: %w", table, err)
	}

	for _, column := range columns {
		if _, ok := existing[column]; ok {
			continue
		}
		_, err := db.Exec(fmt.Sprintf("ALTER TABLE %s ADD COLUMN %s TEXT;", table, column))
		if err != nil {
			return fmt.Errorf("add %s column %s: %w", table, column, err)
		}
	}
	return nil
}

// DocumentStore keeps JSON documents by key in the documents table.
type DocumentStore struct {
	DB *sql.DB
}

func (s DocumentStore) LoadDocument(key string) ([]byte, bool, error) {
	var value string
	err := s.DB.QueryRow("SELECT value FROM documents WHERE key = ?", key).Scan(&value)
	if err == sql.ErrNoRows {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return []byte(value), true, nil
}

func (s DocumentStore) SaveDocument(key string, data []byte) error {
	query := `
INSERT INTO documents (key, value, updated_at) VALUES (?, ?, ?)
ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at;`
	_, err := s.DB.Exec(query, key, string(data), time.Now().UTC().Format(time.RFC3339))
	return err
}

// LastPosition returns the saved current position, or "" when none is set.
func (s DocumentStore) LastPosition() (string, error) {
	data, ok, err := s.LoadDocument(KeyLastPosition)
	if err != nil || !ok {
		return "", err
	}
	var code string
	if err := json.Unmarshal(data, &code); err != nil {
		return "", fmt.Errorf("decode %s: %w", KeyLastPosition, err)
	}
	return code, nil
}

func (s DocumentStore) SetLastPosition(code string) error {
	data, err := json.Marshal(code)
	if err != nil {
		return err
	}
	return s.SaveDocument(KeyLastPosition, data)
}

// QueueStore persists outbox items in insertion order.
type QueueStore struct {
	DB *sql.DB
}

func (s QueueStore) Append(item outbox.Item) error {
	payload, err := json.Marshal(item.Payload)
	if err != nil {
		return err
	}
	_, err = s.DB.Exec(
		"INSERT INTO sync_queue (id, created_at, payload) VALUES (?, ?, ?)",
		item.ID,
		item.CreatedAt.UTC().Format(time.RFC3339Nano),
		string(payload),
	)
	return err
}

func (s QueueStore) Pending() ([]outbox.Item, error) {
	rows, err := s.DB.Query("SELECT id, created_at, payload FROM sync_queue ORDER BY seq")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := []outbox.Item{}
	for rows.Next() {
		var item outbox.Item
		var createdAt string
		var payload string
		if err := rows.Scan(&item.ID, &createdAt, &payload); err != nil {
			return nil, err
		}
		item.CreatedAt, err = time.Parse(time.RFC3339Nano, createdAt)
		if err != nil {
			return nil, fmt.Errorf("queue item %s: %w", item.ID, err)
		}
		if err := json.Unmarshal([]byte(payload), &item.Payload); err != nil {
			return nil, fmt.Errorf("queue item %s: %w", item.ID, err)
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

func (s QueueStore) Remove(id string) error {
	_, err := s.DB.Exec("DELETE FROM sync_queue WHERE id = ?", id)
	return err
}
