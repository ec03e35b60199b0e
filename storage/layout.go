package storage

import (
	"errors"
	"fmt"
	"os"

	"circle-route/booth"
)

var ErrLayoutExists = errors.New("layout file already exists")

// LoadLayout reads layout.yaml. custom is false when the file is missing and
// the built-in layout is returned.
func LoadLayout() (layout booth.Layout, custom bool, err error) {
	path, err := LayoutPath()
	if err != nil {
		return booth.Layout{}, false, err
	}
	data, ok, err := readOptional(path, "layout")
	if err != nil {
		return booth.Layout{}, false, err
	}
	if !ok {
		return booth.DefaultLayout(), false, nil
	}
	layout, err = booth.ParseLayout(data)
	if err != nil {
		return booth.Layout{}, false, fmt.Errorf("%s: %w", path, err)
	}
	return layout, true, nil
}

// SaveLayout writes layout.yaml. Without force an existing file is kept and
// ErrLayoutExists returned.
func SaveLayout(layout booth.Layout, force bool) (string, error) {
	if err := layout.Validate(); err != nil {
		return "", err
	}
	if _, err := ensureConfigDir(); err != nil {
		return "", err
	}
	path, err := LayoutPath()
	if err != nil {
		return "", err
	}
	if !force {
		if _, err := os.Stat(path); err == nil {
			return path, ErrLayoutExists
		}
	}

	data, err := layout.Encode()
	if err != nil {
		return "", err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", err
	}
	return path, nil
}
