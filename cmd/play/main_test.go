package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/cory-johannsen/delve/internal/config"
)

func testConfig(t *testing.T) config.Config {
	t.Helper()
	wd, err := os.Getwd()
	require.NoError(t, err)
	root := filepath.Join(wd, "..", "..")
	cfg, err := loadConfig("")
	require.NoError(t, err)
	cfg.Content.Dir = filepath.Join(root, "content")
	cfg.Content.ScriptDir = filepath.Join(root, "content", "scripts")
	cfg.Engine.Seed = 3
	cfg.Storage = config.StorageConfig{Driver: config.DriverSQLite, SQLitePath: filepath.Join(t.TempDir(), "play.db")}
	return cfg
}

func TestRun_NewGameThenResume(t *testing.T) {
	cfg := testConfig(t)
	ctx := context.Background()
	sess := session{player: "p", name: "Brom", class: "fighter", seed: 1}

	var out bytes.Buffer
	require.NoError(t, run(ctx, cfg, zap.NewNop(), strings.NewReader("check my sheet\nquit\n"), &out, sess))
	assert.Contains(t, out.String(), "Brom")
	assert.Contains(t, out.String(), "> ")

	out.Reset()
	require.NoError(t, run(ctx, cfg, zap.NewNop(), strings.NewReader(""), &out, sess))
	assert.Contains(t, out.String(), "Welcome back, Brom.")
}

func TestRun_UnknownClass(t *testing.T) {
	cfg := testConfig(t)
	err := run(context.Background(), cfg, zap.NewNop(), strings.NewReader(""), &bytes.Buffer{}, session{player: "p", name: "X", class: "bard"})
	assert.Error(t, err)
}
