package logger_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/tenants/pkg/logger"
)

func decode(t *testing.T, buf *bytes.Buffer) map[string]any {
	t.Helper()
	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	return entry
}

func TestNew(t *testing.T) {
	t.Parallel()

	t.Run("json by default", func(t *testing.T) {
		t.Parallel()

		buf := &bytes.Buffer{}
		log := logger.New(logger.WithOutput(buf))
		log.Debug("hidden")
		log.Info("hello", logger.TenantSlug("acme"))

		entry := decode(t, buf)
		assert.Equal(t, "INFO", entry["level"])
		assert.Equal(t, "hello", entry["msg"])
		assert.Equal(t, "acme", entry["tenant_slug"])
	})

	t.Run("text format", func(t *testing.T) {
		t.Parallel()

		buf := &bytes.Buffer{}
		logger.New(logger.WithOutput(buf), logger.WithFormat(logger.FormatText)).Info("hello")
		assert.Contains(t, buf.String(), "level=INFO")
		assert.Contains(t, buf.String(), "msg=hello")
	})

	t.Run("static attributes", func(t *testing.T) {
		t.Parallel()

		buf := &bytes.Buffer{}
		logger.New(logger.WithOutput(buf), logger.WithAttr(logger.Component("resolver"))).Info("msg")
		assert.Equal(t, "resolver", decode(t, buf)["component"])
	})

	t.Run("context extractors", func(t *testing.T) {
		t.Parallel()

		type key struct{}
		buf := &bytes.Buffer{}
		log := logger.New(
			logger.WithOutput(buf),
			logger.WithContextExtractors(nil, func(ctx context.Context) (slog.Attr, bool) {
				if v, ok := ctx.Value(key{}).(string); ok {
					return logger.Subdomain(v), true
				}
				return slog.Attr{}, false
			}),
		)

		log.InfoContext(context.WithValue(context.Background(), key{}, "acme"), "with")
		assert.Equal(t, "acme", decode(t, buf)["subdomain"])

		buf.Reset()
		log.With("k", "v").InfoContext(context.Background(), "without")
		entry := decode(t, buf)
		assert.NotContains(t, entry, "subdomain")
		assert.Equal(t, "v", entry["k"])
	})

	t.Run("invalid format panics", func(t *testing.T) {
		t.Parallel()

		assert.Panics(t, func() { logger.WithFormat("xml") })
	})
}

func TestWithEnvironment(t *testing.T) {
	t.Parallel()

	tests := []struct {
		env       string
		wantEnv   string
		wantDebug bool
		wantJSON  bool
	}{
		{env: "production", wantEnv: "production", wantJSON: true},
		{env: "prod", wantEnv: "production", wantJSON: true},
		{env: "staging", wantEnv: "staging", wantJSON: true},
		{env: "development", wantEnv: "development", wantDebug: true},
		{env: "", wantEnv: "development", wantDebug: true},
	}

	for _, tt := range tests {
		t.Run(tt.wantEnv+"/"+tt.env, func(t *testing.T) {
			t.Parallel()

			buf := &bytes.Buffer{}
			log := logger.New(logger.WithEnvironment(tt.env, "tenants"), logger.WithOutput(buf))
			log.Debug("probe")

			if !tt.wantDebug {
				assert.Empty(t, buf.String())
				log.Info("probe")
			}
			if tt.wantJSON {
				entry := decode(t, buf)
				assert.Equal(t, "tenants", entry["service"])
				assert.Equal(t, tt.wantEnv, entry["env"])
				return
			}
			assert.Contains(t, buf.String(), "service=tenants")
			assert.Contains(t, buf.String(), "env="+tt.wantEnv)
		})
	}
}

func TestNewFromConfig(t *testing.T) {
	t.Parallel()

	t.Run("explicit level and format win", func(t *testing.T) {
		t.Parallel()

		buf := &bytes.Buffer{}
		log, err := logger.NewFromConfig(logger.Config{Level: "warn", Format: "JSON", Env: "development"}, logger.WithOutput(buf))
		require.NoError(t, err)

		log.Info("hidden")
		assert.Empty(t, buf.String())
		log.Warn("shown")
		assert.Equal(t, "shown", decode(t, buf)["msg"])
	})

	t.Run("invalid level", func(t *testing.T) {
		t.Parallel()

		_, err := logger.NewFromConfig(logger.Config{Level: "loud"})
		assert.Error(t, err)
	})

	t.Run("invalid format", func(t *testing.T) {
		t.Parallel()

		_, err := logger.NewFromConfig(logger.Config{Format: "xml"})
		assert.Error(t, err)
	})
}

func TestAttrs(t *testing.T) {
	t.Parallel()

	assert.True(t, logger.Error(nil).Equal(slog.Attr{}))
	assert.Equal(t, "error", logger.Error(errors.New("boom")).Key)
	assert.True(t, logger.RequestID("").Equal(slog.Attr{}))
	assert.True(t, logger.Role("").Equal(slog.Attr{}))
	assert.Equal(t, int64(7), logger.TenantID(7).Value.Int64())
	assert.Equal(t, "redirect", logger.Decision("redirect").Value.String())

	g := logger.Group("tenant", logger.TenantID(1), logger.TenantSlug("acme"))
	assert.Equal(t, "tenant", g.Key)
	assert.Len(t, g.Value.Group(), 2)
}
