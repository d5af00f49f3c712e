package audit_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/tenants/pkg/audit"
)

type ctxKey string

func fromCtx(key ctxKey) audit.Extractor {
	return func(ctx context.Context) (string, bool) {
		v, ok := ctx.Value(key).(string)
		return v, ok
	}
}

func TestLogger(t *testing.T) {
	t.Parallel()

	var got []audit.Event
	store := audit.StorageFunc(func(_ context.Context, e audit.Event) error {
		got = append(got, e)
		return nil
	})

	l := audit.NewLogger(store,
		audit.WithActorExtractor(fromCtx("actor")),
		audit.WithTenantIDExtractor(fromCtx("tenant")),
		audit.WithRequestIDExtractor(fromCtx("rid")),
		audit.WithIPExtractor(fromCtx("ip")),
	)

	ctx := context.WithValue(context.Background(), ctxKey("actor"), "admin")
	ctx = context.WithValue(ctx, ctxKey("rid"), "req-1")
	ctx = context.WithValue(ctx, ctxKey("ip"), "192.0.2.1")

	require.NoError(t, l.Log(ctx, "tenant.create",
		audit.WithResource("tenant", "7"),
		audit.WithMetadata("slug", "acme"),
	))
	require.NoError(t, l.LogError(ctx, "tenant.delete", errors.New("boom"), audit.WithResource("tenant", "8")))

	require.Len(t, got, 2)

	e := got[0]
	assert.NotEmpty(t, e.ID)
	assert.Equal(t, "tenant.create", e.Action)
	assert.Equal(t, audit.ResultSuccess, e.Result)
	assert.Equal(t, "tenant", e.Resource)
	assert.Equal(t, "7", e.ResourceID)
	assert.Equal(t, "admin", e.Actor)
	assert.Empty(t, e.TenantID)
	assert.Equal(t, "req-1", e.RequestID)
	assert.Equal(t, "192.0.2.1", e.IP)
	assert.Equal(t, map[string]any{"slug": "acme"}, e.Metadata)
	assert.False(t, e.CreatedAt.IsZero())

	assert.Equal(t, audit.ResultFailure, got[1].Result)
	assert.Equal(t, "boom", got[1].Error)
	assert.NotEqual(t, got[0].ID, got[1].ID)
}

func TestLogger_Errors(t *testing.T) {
	t.Parallel()

	assert.Panics(t, func() { audit.NewLogger(nil) })

	l := audit.NewLogger(audit.StorageFunc(func(context.Context, audit.Event) error {
		return errors.New("db down")
	}))

	assert.ErrorIs(t, l.Log(context.Background(), ""), audit.ErrActionRequired)
	assert.ErrorIs(t, l.Log(context.Background(), "tenant.create"), audit.ErrStoreFailed)
}
