package storage_test

import (
	"os"
	"path/filepath"
	"testing"

	"circle-route/booth"
	"circle-route/route"
	"circle-route/storage"

	"github.com/stretchr/testify/require"
)

func useTempHome(t *testing.T) string {
	t.Helper()
	dir := filepath.Join(t.TempDir(), "circle-route")
	t.Setenv(storage.HomeEnv, dir)
	return dir
}

func TestConfigDirOverride(t *testing.T) {
	dir := useTempHome(t)

	got, err := storage.ConfigDir()
	require.NoError(t, err)
	require.Equal(t, dir, got)

	path, err := storage.StatePath()
	require.NoError(t, err)
	require.Equal(t, filepath.Join(dir, "state.db"), path)
}

func TestSourceLifecycle(t *testing.T) {
	useTempHome(t)

	source, err := storage.LoadSource()
	require.NoError(t, err)
	require.Nil(t, source)

	require.NoError(t, storage.SaveSource(&storage.Source{
		BaseURL: "https://script.example.com/exec",
		Sheets:  []string{"day1", "day2"},
	}))

	source, err = storage.LoadSource()
	require.NoError(t, err)
	require.NotNil(t, source)
	require.Equal(t, "https://script.example.com/exec", source.BaseURL)
	require.Equal(t, []string{"day1", "day2"}, source.Sheets)
	require.NotEmpty(t, source.SavedAt)

	require.NoError(t, storage.ClearSource())
	require.NoError(t, storage.ClearSource())
	source, err = storage.LoadSource()
	require.NoError(t, err)
	require.Nil(t, source)
}

func TestParseSheets(t *testing.T) {
	require.Equal(t, []string{"day1", "day 2"}, storage.ParseSheets(" day1, ,day 2,"))
	require.Nil(t, storage.ParseSheets(""))
}

func TestLayoutFile(t *testing.T) {
	useTempHome(t)

	layout, custom, err := storage.LoadLayout()
	require.NoError(t, err)
	require.False(t, custom)
	require.Equal(t, booth.DefaultLayout(), layout)

	path, err := storage.SaveLayout(booth.DefaultLayout(), false)
	require.NoError(t, err)
	require.FileExists(t, path)

	_, err = storage.SaveLayout(booth.DefaultLayout(), false)
	require.ErrorIs(t, err, storage.ErrLayoutExists)

	custom1 := booth.Layout{Zones: []booth.Zone{{ID: "hall", Name: "東1", Rows: "ABC"}}}
	_, err = storage.SaveLayout(custom1, true)
	require.NoError(t, err)

	layout, custom, err = storage.LoadLayout()
	require.NoError(t, err)
	require.True(t, custom)
	require.Equal(t, custom1, layout)
}

func TestLayoutFileInvalid(t *testing.T) {
	dir := useTempHome(t)
	require.NoError(t, os.MkdirAll(dir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "layout.yaml"), []byte("zones: []\n"), 0o644))

	_, _, err := storage.LoadLayout()
	require.Error(t, err)
}

func TestConfigDefaults(t *testing.T) {
	useTempHome(t)

	cfg, err := storage.LoadConfig()
	require.NoError(t, err)
	require.Equal(t, storage.DefaultConfig(), cfg)
	require.Equal(t, route.DefaultRowWeight, cfg.RowWeight)
	require.True(t, cfg.TwoOpt)
	require.Equal(t, 2, cfg.Lookahead)
}

func TestParseConfigJSONC(t *testing.T) {
	cfg, err := storage.ParseConfig([]byte(`{
	// aisle change vs seats
	"row_weight": 7,
	"default_start": " 東A01a ",
	"two_opt": false,
	"high_priority": ["S", "最優先"],
	/* keep the rest */
}`))
	require.NoError(t, err)
	require.Equal(t, 7, cfg.RowWeight)
	require.Equal(t, "東A01a", cfg.DefaultStart)
	require.False(t, cfg.TwoOpt)
	require.Equal(t, []string{"S", "最優先"}, cfg.HighPriority)
	require.Equal(t, route.DefaultFoldThreshold, cfg.FoldThreshold)
	require.Equal(t, 15, cfg.TimeoutSeconds)

	model, err := cfg.CostModel(booth.DefaultLayout())
	require.NoError(t, err)
	require.Equal(t, 7, model.RowWeight)

	opts := cfg.SolverOptions()
	require.False(t, opts.TwoOpt)
	require.Equal(t, route.DefaultTwoOptLimit, opts.TwoOptLimit)
}

func TestParseConfigRejects(t *testing.T) {
	_, err := storage.ParseConfig([]byte(`{"timeout_seconds": 0}`))
	require.Error(t, err)

	_, err = storage.ParseConfig([]byte(`{"lookahead": -1}`))
	require.Error(t, err)

	_, err = storage.ParseConfig([]byte(`{"row_weight": "ten"}`))
	require.Error(t, err)

	cfg, err := storage.ParseConfig([]byte(`{"fold_length": 10}`))
	require.NoError(t, err)
	_, err = cfg.CostModel(booth.DefaultLayout())
	require.Error(t, err)
}
