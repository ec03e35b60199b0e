package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"circle-route/booth"
)

const (
	defaultTimeout   = 15 * time.Second
	defaultUserAgent = "circle-route/1.0"
	updateMediaType  = "text/plain;charset=utf-8"
)

var (
	ErrNoBaseURL = errors.New("backend URL is not configured")
	// ErrBackend marks an update the backend answered with a non-success status.
	ErrBackend = errors.New("backend rejected update")
)

// Client talks to the spreadsheet-backed web app. BaseURL is the deployed
// script URL; it may already carry a query string.
type Client struct {
	HTTP      *http.Client
	BaseURL   string
	UserAgent string
}

func NewClient(baseURL string) *Client {
	return &Client{
		HTTP:      &http.Client{Timeout: defaultTimeout},
		BaseURL:   strings.TrimSpace(baseURL),
		UserAgent: defaultUserAgent,
	}
}

// FetchWishList loads the unpurchased rows of the given sheets. An empty
// sheet list lets the backend pick its default sheets.
func (c *Client) FetchWishList(ctx context.Context, sheets []string) (WishList, error) {
	var q url.Values
	if len(sheets) > 0 {
		q = url.Values{}
		q.Set("sheets", strings.Join(sheets, ","))
	}

	req, err := c.newRequest(ctx, http.MethodGet, q, nil)
	if err != nil {
		return WishList{}, err
	}

	var list WishList
	if err := c.doJSON(req, &list); err != nil {
		return WishList{}, fmt.Errorf("fetch wish list: %w", err)
	}
	if list.WantToBuy == nil {
		list.WantToBuy = []booth.Booth{}
	}
	return list, nil
}

func (c *Client) FetchSheets(ctx context.Context) ([]string, error) {
	q := url.Values{}
	q.Set("action", "getSheets")

	req, err := c.newRequest(ctx, http.MethodGet, q, nil)
	if err != nil {
		return nil, err
	}

	var list SheetList
	if err := c.doJSON(req, &list); err != nil {
		return nil, fmt.Errorf("fetch sheets: %w", err)
	}
	return list.Sheets, nil
}

// PostUpdate sends one purchase, undo or batch reset. The body goes out as
// text/plain so the script endpoint accepts it without a preflight.
func (c *Client) PostUpdate(ctx context.Context, update Update) error {
	body, err := json.Marshal(update)
	if err != nil {
		return err
	}

	req, err := c.newRequest(ctx, http.MethodPost, nil, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", updateMediaType)

	var resp UpdateResponse
	if err := c.doJSON(req, &resp); err != nil {
		return fmt.Errorf("post update %s: %w", update.Describe(), err)
	}
	if resp.Status != StatusSuccess {
		return fmt.Errorf("%w: %s: %s", ErrBackend, update.Describe(), resp.Message)
	}
	return nil
}

func (c *Client) newRequest(ctx context.Context, method string, query url.Values, body io.Reader) (*http.Request, error) {
	if c.BaseURL == "" {
		return nil, ErrNoBaseURL
	}
	base, err := url.Parse(c.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("parse backend URL: %w", err)
	}
	if query != nil {
		merged := base.Query()
		for key, values := range query {
			merged[key] = values
		}
		base.RawQuery = merged.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, method, base.String(), body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", c.UserAgent)
	req.Header.Set("Accept", "application/json")
	return req, nil
}

func (c *Client) doJSON(req *http.Request, dest any) error {
	resp, err := c.HTTP.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("request failed: %s: %s", resp.Status, strings.TrimSpace(string(body)))
	}

	if dest == nil {
		return nil
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}
	// A script that failed to deploy answers 200 with an HTML login page.
	if trimmed := bytes.TrimSpace(body); len(trimmed) > 0 && trimmed[0] == '<' {
		return fmt.Errorf("expected JSON, got HTML (is the web app deployed for anyone?)")
	}
	if err := json.Unmarshal(body, dest); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
