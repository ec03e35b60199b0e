package api

import (
	"fmt"
	"strings"

	"circle-route/booth"
)

const (
	StatusSuccess = "success"
	StatusError   = "error"
)

// WishList is the fetch response and also the cached snapshot document.
type WishList struct {
	WantToBuy []booth.Booth `json:"wantToBuy"`
}

type SheetList struct {
	Sheets []string `json:"sheets"`
}

// Update is the POST body. A single purchase is {"space": "..."}, its undo
// adds "undo": true, and a batch reset is {"spaces": [...], "undo": true}.
type Update struct {
	Space  string   `json:"space,omitempty"`
	Spaces []string `json:"spaces,omitempty"`
	Undo   bool     `json:"undo,omitempty"`
}

func (u Update) IsBatch() bool {
	return len(u.Spaces) > 0
}

func (u Update) Describe() string {
	switch {
	case u.IsBatch():
		return fmt.Sprintf("reset %d spaces (%s)", len(u.Spaces), strings.Join(u.Spaces, ","))
	case u.Undo:
		return "undo " + u.Space
	default:
		return "purchase " + u.Space
	}
}

type UpdateResponse struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
}
