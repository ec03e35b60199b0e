package api_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"circle-route/api"

	"github.com/stretchr/testify/require"
)

func TestFetchWishList(t *testing.T) {
	var gotQuery string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodGet, r.Method)
		gotQuery = r.URL.RawQuery
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{"wantToBuy":[{"space":"東A01a","priority":5},{"space":"南b10","account":"https://example.com/a"}]}`)
	}))
	defer server.Close()

	client := api.NewClient(server.URL + "/exec?key=abc")
	list, err := client.FetchWishList(context.Background(), []string{"day1", "day2"})
	require.NoError(t, err)
	require.Len(t, list.WantToBuy, 2)
	require.Equal(t, "東A01a", list.WantToBuy[0].Space)
	require.Equal(t, "5", string(list.WantToBuy[0].Priority))
	require.Equal(t, "key=abc&sheets=day1%2Cday2", gotQuery)
}

func TestFetchWishList_EmptyBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{}`)
	}))
	defer server.Close()

	list, err := api.NewClient(server.URL).FetchWishList(context.Background(), nil)
	require.NoError(t, err)
	require.NotNil(t, list.WantToBuy)
	require.Empty(t, list.WantToBuy)
}

func TestFetchWishList_HTMLIsAnError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, "<!DOCTYPE html><html></html>")
	}))
	defer server.Close()

	_, err := api.NewClient(server.URL).FetchWishList(context.Background(), nil)
	require.ErrorContains(t, err, "HTML")
}

func TestFetchSheets(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "getSheets", r.URL.Query().Get("action"))
		_, _ = io.WriteString(w, `{"sheets":["day1_1","day2_1"]}`)
	}))
	defer server.Close()

	sheets, err := api.NewClient(server.URL).FetchSheets(context.Background())
	require.NoError(t, err)
	require.Equal(t, []string{"day1_1", "day2_1"}, sheets)
}

func TestPostUpdate(t *testing.T) {
	var bodies []map[string]any
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "text/plain;charset=utf-8", r.Header.Get("Content-Type"))
		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		bodies = append(bodies, body)
		_, _ = io.WriteString(w, `{"status":"success","message":"ok"}`)
	}))
	defer server.Close()

	client := api.NewClient(server.URL)
	ctx := context.Background()
	require.NoError(t, client.PostUpdate(ctx, api.Update{Space: "東A01"}))
	require.NoError(t, client.PostUpdate(ctx, api.Update{Space: "東A01", Undo: true}))
	require.NoError(t, client.PostUpdate(ctx, api.Update{Spaces: []string{"東A01", "南b02"}, Undo: true}))

	require.Equal(t, []map[string]any{
		{"space": "東A01"},
		{"space": "東A01", "undo": true},
		{"spaces": []any{"東A01", "南b02"}, "undo": true},
	}, bodies)
}

func TestPostUpdate_BackendError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{"status":"error","message":"Space not found"}`)
	}))
	defer server.Close()

	err := api.NewClient(server.URL).PostUpdate(context.Background(), api.Update{Space: "東A99"})
	require.ErrorIs(t, err, api.ErrBackend)
	require.ErrorContains(t, err, "Space not found")
}

func TestPostUpdate_HTTPError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer server.Close()

	err := api.NewClient(server.URL).PostUpdate(context.Background(), api.Update{Space: "東A01"})
	require.ErrorContains(t, err, "500")
	require.NotErrorIs(t, err, api.ErrBackend)
}

func TestNoBaseURL(t *testing.T) {
	_, err := api.NewClient("  ").FetchWishList(context.Background(), nil)
	require.ErrorIs(t, err, api.ErrNoBaseURL)
}

func TestUpdate_Describe(t *testing.T) {
	require.Equal(t, "purchase 東A01", api.Update{Space: "東A01"}.Describe())
	require.Equal(t, "undo 東A01", api.Update{Space: "東A01", Undo: true}.Describe())
	require.Equal(t, "reset 2 spaces (a,b)", api.Update{Spaces: []string{"a", "b"}, Undo: true}.Describe())
}
