package logger_test

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/plugsession/pkg/logger"
)

func decodeLine(t *testing.T, buf *bytes.Buffer) map[string]any {
	t.Helper()
	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	return entry
}

func TestNew(t *testing.T) {
	t.Run("json by default", func(t *testing.T) {
		buf := &bytes.Buffer{}
		log := logger.New(logger.WithOutput(buf))
		log.Info("hello")

		entry := decodeLine(t, buf)
		assert.Equal(t, "INFO", entry["level"])
		assert.Equal(t, "hello", entry["msg"])
	})

	t.Run("text formatter", func(t *testing.T) {
		buf := &bytes.Buffer{}
		log := logger.New(logger.WithOutput(buf), logger.WithTextFormatter())
		log.Info("hello")

		assert.Contains(t, buf.String(), "level=INFO")
		assert.Contains(t, buf.String(), "msg=hello")
	})

	t.Run("static attributes", func(t *testing.T) {
		buf := &bytes.Buffer{}
		log := logger.New(logger.WithOutput(buf), logger.WithAttr(slog.String("svc", "test")))
		log.Info("msg")

		assert.Equal(t, "test", decodeLine(t, buf)["svc"])
	})

	t.Run("context value", func(t *testing.T) {
		type key struct{}
		buf := &bytes.Buffer{}
		log := logger.New(logger.WithOutput(buf), logger.WithContextValue("trace", key{}))

		ctx := context.WithValue(context.Background(), key{}, "42")
		log.InfoContext(ctx, "context msg")

		assert.Equal(t, "42", decodeLine(t, buf)["trace"])
	})

	t.Run("level filter", func(t *testing.T) {
		buf := &bytes.Buffer{}
		log := logger.New(logger.WithOutput(buf), logger.WithLevel(slog.LevelWarn))
		log.Info("dropped")
		assert.Zero(t, buf.Len())
	})
}

func TestWithEnvironment(t *testing.T) {
	tests := []struct {
		env    string
		format string
		debug  bool
	}{
		{env: "production", format: "json"},
		{env: "prod", format: "json"},
		{env: "staging", format: "json"},
		{env: "development", format: "text", debug: true},
		{env: "anything", format: "text", debug: true},
	}

	for _, tt := range tests {
		t.Run(tt.env, func(t *testing.T) {
			buf := &bytes.Buffer{}
			log := logger.New(logger.WithOutput(buf), logger.WithEnvironment(tt.env, "svc"))
			log.Debug("dbg")
			log.Info("info")

			out := buf.String()
			assert.Equal(t, tt.debug, bytes.Contains([]byte(out), []byte("dbg")))
			if tt.format == "json" {
				assert.Contains(t, out, `"service":"svc"`)
			} else {
				assert.Contains(t, out, "service=svc")
			}
		})
	}
}

func TestNewFromConfig(t *testing.T) {
	buf := &bytes.Buffer{}
	log, err := logger.NewFromConfig(logger.Config{
		Service: "sessiond",
		Env:     "development",
		Level:   "warn",
		Format:  "json",
	}, logger.WithOutput(buf))
	require.NoError(t, err)

	log.Info("dropped")
	log.Warn("kept")

	entry := decodeLine(t, buf)
	assert.Equal(t, "kept", entry["msg"])
	assert.Equal(t, "sessiond", entry["service"])

	_, err = logger.NewFromConfig(logger.Config{Level: "loud"})
	assert.Error(t, err)

	_, err = logger.NewFromConfig(logger.Config{Format: "xml"})
	assert.Error(t, err)
}

func TestWithFormatPanics(t *testing.T) {
	assert.Panics(t, func() {
		logger.New(logger.WithFormat(logger.Format("xml")))
	})
}
