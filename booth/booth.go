package booth

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
)

// Booth is one wish-list entry as served by the backend sheet. Columns the
// client does not interpret are kept in Extra so snapshots round-trip.
type Booth struct {
	Space    string
	Account  string
	Tweet    string
	Priority Priority
	Extra    map[string]json.RawMessage

	start bool
}

// Start returns the pseudo-booth standing for the current position.
func Start(code string) Booth {
	return Booth{Space: code, start: true}
}

func (b Booth) IsStart() bool {
	return b.start
}

var knownFields = map[string]struct{}{
	"space":    {},
	"account":  {},
	"tweet":    {},
	"priority": {},
}

func (b *Booth) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	*b = Booth{}
	var err error
	if b.Space, err = looseString(raw["space"]); err != nil {
		return fmt.Errorf("booth space: %w", err)
	}
	if b.Account, err = looseString(raw["account"]); err != nil {
		return fmt.Errorf("booth account: %w", err)
	}
	if b.Tweet, err = looseString(raw["tweet"]); err != nil {
		return fmt.Errorf("booth tweet: %w", err)
	}
	if value, ok := raw["priority"]; ok {
		if err := b.Priority.UnmarshalJSON(value); err != nil {
			return fmt.Errorf("booth priority: %w", err)
		}
	}

	for key, value := range raw {
		if _, ok := knownFields[key]; ok {
			continue
		}
		if b.Extra == nil {
			b.Extra = map[string]json.RawMessage{}
		}
		b.Extra[key] = value
	}
	return nil
}

func (b Booth) MarshalJSON() ([]byte, error) {
	keys := make([]string, 0, len(b.Extra))
	for key := range b.Extra {
		if _, ok := knownFields[key]; ok {
			continue
		}
		keys = append(keys, key)
	}
	sort.Strings(keys)

	var buf bytes.Buffer
	buf.WriteByte('{')
	writeField := func(key string, value []byte) {
		if buf.Len() > 1 {
			buf.WriteByte(',')
		}
		name, _ := json.Marshal(key)
		buf.Write(name)
		buf.WriteByte(':')
		buf.Write(value)
	}

	space, err := json.Marshal(b.Space)
	if err != nil {
		return nil, err
	}
	writeField("space", space)
	if b.Account != "" {
		value, err := json.Marshal(b.Account)
		if err != nil {
			return nil, err
		}
		writeField("account", value)
	}
	if b.Tweet != "" {
		value, err := json.Marshal(b.Tweet)
		if err != nil {
			return nil, err
		}
		writeField("tweet", value)
	}
	if b.Priority != "" {
		value, err := b.Priority.MarshalJSON()
		if err != nil {
			return nil, err
		}
		writeField("priority", value)
	}
	for _, key := range keys {
		value := b.Extra[key]
		if len(value) == 0 {
			value = json.RawMessage("null")
		}
		writeField(key, value)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// Priority is the sheet's priority column. Sheets hold either text ("S",
// "高") or numbers (5); both decode to the same textual form.
type Priority string

func (p *Priority) UnmarshalJSON(data []byte) error {
	value, err := looseString(data)
	if err != nil {
		return err
	}
	*p = Priority(value)
	return nil
}

func (p Priority) MarshalJSON() ([]byte, error) {
	return json.Marshal(string(p))
}

// looseString accepts a JSON string, number, bool or null.
func looseString(data json.RawMessage) (string, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return "", nil
	}
	switch trimmed[0] {
	case '"':
		var s string
		if err := json.Unmarshal(trimmed, &s); err != nil {
			return "", err
		}
		return s, nil
	case 't', 'f':
		var v bool
		if err := json.Unmarshal(trimmed, &v); err != nil {
			return "", err
		}
		if v {
			return "true", nil
		}
		return "", nil
	default:
		var n json.Number
		if err := json.Unmarshal(trimmed, &n); err != nil {
			return "", fmt.Errorf("unsupported value %s", strings.TrimSpace(string(trimmed)))
		}
		return n.String(), nil
	}
}
