package main

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/plugsession/pkg/config"
	"github.com/dmitrymomot/plugsession/pkg/session"
)

const testSecret = "a-test-secret-that-is-long-enough-0123"

var testID = strings.Repeat("ab", 20)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	config.ResetCache()
	t.Cleanup(config.ResetCache)

	var out, errOut bytes.Buffer
	cmd := newRootCommand()
	cmd.SetArgs(args)
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	err := cmd.Execute()
	return out.String(), err
}

// fileStore points the commands at a temporary file backend.
func fileStore(t *testing.T) *session.FileBackend {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("SESSION_SECRET", testSecret)
	t.Setenv("SESSION_BACKEND", "file")
	t.Setenv("SESSION_FILE_PATH", dir)
	t.Setenv("LOG_LEVEL", "error")

	fb, err := session.NewFileBackend(dir)
	require.NoError(t, err)
	return fb
}

func storeRecord(t *testing.T, fb *session.FileBackend, id string, state map[string]any) {
	t.Helper()
	cfg := session.DefaultConfig()
	cfg.Secret = testSecret
	m, err := session.NewFromConfig(cfg, session.WithBackend(fb))
	require.NoError(t, err)

	data, err := m.EncodeRecord(session.Record{
		Renewed: time.Unix(1700000100, 0),
		Created: time.Unix(1700000000, 0),
		State:   state,
	})
	require.NoError(t, err)
	require.NoError(t, fb.Dump(context.Background(), id, data))
}

func TestBackendsCommand(t *testing.T) {
	out, err := run(t, "backends")
	require.NoError(t, err)
	assert.Equal(t, []string{"chain", "file", "lru", "memory", "mongo", "postgres", "redis", "s3"}, strings.Fields(out))
}

func TestInspectCommand(t *testing.T) {
	fb := fileStore(t)
	storeRecord(t, fb, testID, map[string]any{
		"user":  map[string]any{"name": "ada"},
		"count": 3,
	})

	t.Run("whole record", func(t *testing.T) {
		out, err := run(t, "inspect", testID)
		require.NoError(t, err)

		var got struct {
			ID      string         `json:"id"`
			Created time.Time      `json:"created"`
			Renewed time.Time      `json:"renewed"`
			State   map[string]any `json:"state"`
		}
		require.NoError(t, json.Unmarshal([]byte(out), &got))
		assert.Equal(t, testID, got.ID)
		assert.Equal(t, int64(1700000000), got.Created.Unix())
		assert.Equal(t, int64(1700000100), got.Renewed.Unix())
		assert.Equal(t, float64(3), got.State["count"])
	})

	t.Run("path", func(t *testing.T) {
		out, err := run(t, "inspect", testID, "--path", "state.user.name")
		require.NoError(t, err)
		assert.Equal(t, "ada\n", out)

		out, err = run(t, "inspect", testID, "--path", "state.user")
		require.NoError(t, err)
		assert.JSONEq(t, `{"name":"ada"}`, out)
	})

	t.Run("missing path", func(t *testing.T) {
		_, err := run(t, "inspect", testID, "--path", "state.nope")
		assert.ErrorIs(t, err, errPathNotFound)
	})

	t.Run("missing record", func(t *testing.T) {
		_, err := run(t, "inspect", strings.Repeat("cd", 20))
		assert.ErrorIs(t, err, errRecordNotFound)
	})

	t.Run("unsafe id", func(t *testing.T) {
		_, err := run(t, "inspect", "../etc")
		assert.ErrorIs(t, err, session.ErrInvalidKey)
	})

	t.Run("wrong secret", func(t *testing.T) {
		t.Setenv("SESSION_SECRET", "another-secret-that-is-long-enough-456")
		_, err := run(t, "inspect", testID)
		assert.ErrorIs(t, err, session.ErrDecode)
	})

	t.Run("empty secret", func(t *testing.T) {
		t.Setenv("SESSION_SECRET", "")
		_, err := run(t, "inspect", testID)
		assert.ErrorIs(t, err, session.ErrNoSecret)
	})
}

func TestPurgeCommand(t *testing.T) {
	ctx := context.Background()
	fb := fileStore(t)
	other := strings.Repeat("ef", 20)
	storeRecord(t, fb, testID, map[string]any{"k": "v"})
	storeRecord(t, fb, other, map[string]any{"k": "v"})

	out, err := run(t, "purge", testID, other)
	require.NoError(t, err)
	assert.Equal(t, "purged "+testID+"\npurged "+other+"\n", out)

	for _, id := range []string{testID, other} {
		data, err := fb.Load(ctx, id)
		require.NoError(t, err)
		assert.Nil(t, data)
	}

	_, err = run(t, "purge")
	assert.Error(t, err)
}

func TestUnknownBackend(t *testing.T) {
	fileStore(t)
	t.Setenv("SESSION_BACKEND", "etcd")

	_, err := run(t, "inspect", testID)
	assert.ErrorIs(t, err, session.ErrUnknownBackend)
}

func TestEnvFile(t *testing.T) {
	fb := fileStore(t)
	storeRecord(t, fb, testID, map[string]any{"k": "v"})

	_, err := run(t, "--env-file", "/nonexistent/.env", "backends")
	assert.ErrorIs(t, err, config.ErrLoadingEnvFile)

	// Values from the file override the environment.
	envFile := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(envFile, []byte("SESSION_BACKEND=memory\n"), 0o600))
	_, err = run(t, "--env-file", envFile, "inspect", testID)
	assert.ErrorIs(t, err, errRecordNotFound)
}
