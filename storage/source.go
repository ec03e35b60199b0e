package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"
)

// Source is the backend endpoint the wish list is fetched from.
type Source struct {
	BaseURL string   `json:"base_url"`
	Sheets  []string `json:"sheets,omitempty"`
	SavedAt string   `json:"saved_at,omitempty"`
}

// LoadSource returns nil when no source has been saved.
func LoadSource() (*Source, error) {
	path, err := SourcePath()
	if err != nil {
		return nil, err
	}
	data, ok, err := readOptional(path, "source")
	if err != nil || !ok {
		return nil, err
	}

	var source Source
	if err := json.Unmarshal(data, &source); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return &source, nil
}

func SaveSource(source *Source) error {
	if _, err := ensureConfigDir(); err != nil {
		return err
	}
	path, err := SourcePath()
	if err != nil {
		return err
	}

	if source.SavedAt == "" {
		source.SavedAt = time.Now().UTC().Format(time.RFC3339)
	}

	file, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o600)
	if err != nil {
		return err
	}
	defer file.Close()

	encoder := json.NewEncoder(file)
	encoder.SetIndent("", "  ")
	return encoder.Encode(source)
}

func ClearSource() error {
	path, err := SourcePath()
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	return nil
}

// ParseSheets splits a comma separated sheet list, dropping blanks.
func ParseSheets(value string) []string {
	var sheets []string
	for _, part := range strings.Split(value, ",") {
		part = strings.TrimSpace(part)
		if part != "" {
			sheets = append(sheets, part)
		}
	}
	return sheets
}
