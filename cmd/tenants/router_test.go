package main

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/tenants/modules/tenants"
	"github.com/dmitrymomot/tenants/pkg/audit"
	"github.com/dmitrymomot/tenants/pkg/clientip"
	"github.com/dmitrymomot/tenants/pkg/flash"
	"github.com/dmitrymomot/tenants/pkg/httpserver"
	"github.com/dmitrymomot/tenants/pkg/i18n"
	"github.com/dmitrymomot/tenants/pkg/ratelimiter"
	"github.com/dmitrymomot/tenants/pkg/rbac"
	"github.com/dmitrymomot/tenants/pkg/requestid"
	"github.com/dmitrymomot/tenants/pkg/tenant"
)

const (
	testSecret = "this-is-a-very-long-secret-key-32-chars-long"
	testToken  = "s3cret-admin-token"
)

// stubDirectory serves a fixed set of tenants; writes are not needed here.
type stubDirectory struct {
	mu     sync.Mutex
	rows   map[string]*tenant.Tenant
	broken bool
	tenants.Directory
}

func (d *stubDirectory) GetBySlug(_ context.Context, slug string) (*tenant.Tenant, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.broken {
		return nil, errors.New("connection refused")
	}
	if t, ok := d.rows[strings.ToLower(slug)]; ok {
		return t, nil
	}
	return nil, tenant.ErrTenantNotFound
}

func (d *stubDirectory) List(_ context.Context, _ tenants.ListParams) ([]*tenant.Tenant, int, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	out := make([]*tenant.Tenant, 0, len(d.rows))
	for _, t := range d.rows {
		out = append(out, t)
	}
	return out, len(out), nil
}

func newTestRouter(t *testing.T, mods ...func(*routerDeps)) (http.Handler, *stubDirectory, *flash.Manager) {
	t.Helper()
	ctx := context.Background()

	dir := &stubDirectory{rows: map[string]*tenant.Tenant{
		"acme":    {ID: 1, Slug: "acme", Name: "Acme", Active: true},
		"globex":  {ID: 2, Slug: "globex", Name: "Globex", Active: true},
		"dormant": {ID: 3, Slug: "dormant", Name: "Dormant", Active: false},
	}}

	auth, err := rbac.NewAuthorizer(ctx, rbac.NewInMemRoleSource(rbac.DefaultRoles()))
	require.NoError(t, err)
	tr, err := i18n.NewTranslator(ctx, i18n.DefaultSource())
	require.NoError(t, err)
	fm, err := flash.New([]string{testSecret})
	require.NoError(t, err)

	cfg := tenant.Config{BaseDomain: "example.com", ScopeEnabled: true}
	d := routerDeps{
		Log:        slogDiscard(),
		Tenant:     cfg,
		Resolver:   tenant.NewResolver(dir, tenant.WithBaseDomain(cfg.BaseDomain)),
		Directory:  dir,
		Authorizer: auth,
		Translator: tr,
		Flash:      fm,
		AdminToken: testToken,
		AdminRole:  "admin",
		Checks:     map[string]httpserver.Check{"postgres": func(context.Context) error { return nil }},
	}
	for _, m := range mods {
		m(&d)
	}
	return newRouter(d), dir, fm
}

func get(h http.Handler, url string, mod ...func(*http.Request)) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, url, nil)
	for _, m := range mod {
		m(req)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestRouter_Guard(t *testing.T) {
	t.Parallel()

	t.Run("tenant subdomain is served", func(t *testing.T) {
		t.Parallel()

		h, _, _ := newTestRouter(t)
		rec := get(h, "http://acme.example.com/")
		require.Equal(t, http.StatusOK, rec.Code)

		var page homePage
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &page))
		require.NotNil(t, page.Tenant)
		assert.Equal(t, "acme", page.Tenant.Slug)
		assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))
	})

	t.Run("root domain passes without tenant", func(t *testing.T) {
		t.Parallel()

		h, _, _ := newTestRouter(t)
		rec := get(h, "http://example.com/")
		require.Equal(t, http.StatusOK, rec.Code)

		var page homePage
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &page))
		assert.Nil(t, page.Tenant)
		assert.Equal(t, "Welcome", page.Title)
	})

	t.Run("www redirects home silently", func(t *testing.T) {
		t.Parallel()

		h, _, _ := newTestRouter(t)
		rec := get(h, "http://www.example.com/")
		require.Equal(t, http.StatusSeeOther, rec.Code)
		assert.Equal(t, "//example.com/", rec.Header().Get("Location"))
		assert.Empty(t, rec.Result().Cookies())
	})

	t.Run("unknown subdomain redirects with flash warning", func(t *testing.T) {
		t.Parallel()

		h, _, _ := newTestRouter(t)
		rec := get(h, "http://initech.example.com/")
		require.Equal(t, http.StatusSeeOther, rec.Code)
		assert.Equal(t, "//example.com/", rec.Header().Get("Location"))

		cookies := rec.Result().Cookies()
		require.Len(t, cookies, 1)

		home := get(h, "http://example.com/", func(r *http.Request) { r.AddCookie(cookies[0]) })
		var page homePage
		require.NoError(t, json.Unmarshal(home.Body.Bytes(), &page))
		require.Len(t, page.Messages, 1)
		assert.Equal(t, "The requested tenant [initech] was not found.", page.Messages[0].Text)
	})

	t.Run("inactive tenant is treated as unknown", func(t *testing.T) {
		t.Parallel()

		h, _, _ := newTestRouter(t)
		rec := get(h, "http://dormant.example.com/")
		assert.Equal(t, http.StatusSeeOther, rec.Code)
	})

	t.Run("warning follows request locale", func(t *testing.T) {
		t.Parallel()

		h, _, fm := newTestRouter(t)
		rec := get(h, "http://initech.example.com/", func(r *http.Request) {
			r.Header.Set("Accept-Language", "de-DE,de;q=0.9")
		})
		require.Equal(t, http.StatusSeeOther, rec.Code)

		next := httptest.NewRequest(http.MethodGet, "/", nil)
		for _, c := range rec.Result().Cookies() {
			next.AddCookie(c)
		}
		msgs, err := fm.Pop(httptest.NewRecorder(), next)
		require.NoError(t, err)
		require.Len(t, msgs, 1)
		assert.Equal(t, "Der angeforderte Mandant [initech] wurde nicht gefunden.", msgs[0].Text)
	})

	t.Run("directory failure is a server error", func(t *testing.T) {
		t.Parallel()

		h, dir, _ := newTestRouter(t)
		dir.broken = true
		rec := get(h, "http://acme.example.com/")
		assert.Equal(t, http.StatusInternalServerError, rec.Code)
		assert.NotContains(t, rec.Body.String(), "connection refused")
	})

	t.Run("health probes bypass the guard", func(t *testing.T) {
		t.Parallel()

		h, _, _ := newTestRouter(t)
		assert.Equal(t, http.StatusOK, get(h, "http://initech.example.com/healthz").Code)
		assert.Equal(t, http.StatusOK, get(h, "http://initech.example.com/readyz").Code)
	})
}

func TestRouter_Admin(t *testing.T) {
	t.Parallel()

	bearer := func(token string) func(*http.Request) {
		return func(r *http.Request) { r.Header.Set("Authorization", "Bearer "+token) }
	}
	count := func(t *testing.T, rec *httptest.ResponseRecorder) int {
		t.Helper()
		var body struct {
			Data []tenant.Tenant `json:"data"`
		}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		return len(body.Data)
	}

	tests := []struct {
		name      string
		url       string
		token     string
		wantCode  int
		wantCount int
	}{
		{name: "no token", url: "http://example.com/admin/tenants", wantCode: http.StatusUnauthorized},
		{name: "wrong token", url: "http://example.com/admin/tenants", token: "guess", wantCode: http.StatusUnauthorized},
		{name: "admin on root domain", url: "http://example.com/admin/tenants", token: testToken, wantCode: http.StatusOK, wantCount: 3},
		{name: "admin scoped to tenant", url: "http://acme.example.com/admin/tenants", token: testToken, wantCode: http.StatusOK, wantCount: 1},
		{name: "other tenant out of scope", url: "http://acme.example.com/admin/tenants/globex", token: testToken, wantCode: http.StatusForbidden},
		{name: "own tenant in scope", url: "http://acme.example.com/admin/tenants/acme", token: testToken, wantCode: http.StatusOK},
		{name: "inactive tenant bound on root domain", url: "http://example.com/admin/tenants/dormant", token: testToken, wantCode: http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			h, _, _ := newTestRouter(t)
			var mods []func(*http.Request)
			if tt.token != "" {
				mods = append(mods, bearer(tt.token))
			}
			rec := get(h, tt.url, mods...)
			require.Equal(t, tt.wantCode, rec.Code, rec.Body.String())
			if tt.wantCount > 0 {
				assert.Equal(t, tt.wantCount, count(t, rec))
			}
		})
	}
}

func TestRouter_AdminRateLimit(t *testing.T) {
	t.Parallel()

	store := ratelimiter.NewMemoryStore(ratelimiter.WithCleanupInterval(0))
	t.Cleanup(func() { _ = store.Close() })
	limit, err := ratelimiter.NewBucket(store, ratelimiter.Config{Capacity: 2, RefillRate: 1, RefillInterval: time.Hour})
	require.NoError(t, err)

	h, _, _ := newTestRouter(t, func(d *routerDeps) { d.AdminLimit = limit })
	from := func(ip string) func(*http.Request) {
		return func(r *http.Request) { r.RemoteAddr = ip + ":5000" }
	}

	assert.Equal(t, http.StatusUnauthorized, get(h, "http://example.com/admin/tenants", from("198.51.100.9")).Code)
	assert.Equal(t, http.StatusUnauthorized, get(h, "http://example.com/admin/tenants", from("198.51.100.9")).Code)

	rec := get(h, "http://example.com/admin/tenants", from("198.51.100.9"))
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.NotEmpty(t, rec.Header().Get("Retry-After"))

	assert.Equal(t, http.StatusUnauthorized, get(h, "http://example.com/admin/tenants", from("198.51.100.10")).Code)
	assert.Equal(t, http.StatusOK, get(h, "http://example.com/", from("198.51.100.9")).Code)
}

func TestNewAuditLogger(t *testing.T) {
	t.Parallel()

	var got audit.Event
	l := newAuditLogger(audit.StorageFunc(func(_ context.Context, e audit.Event) error {
		got = e
		return nil
	}))

	ctx := rbac.SetRoleToContext(context.Background(), "admin")
	ctx = tenant.WithTenant(ctx, &tenant.Tenant{ID: 9, Slug: "acme"})
	ctx = requestid.WithContext(ctx, "req-42")
	ctx = clientip.WithContext(ctx, "192.0.2.7")

	require.NoError(t, l.Log(ctx, tenants.ActionUpdate))
	assert.Equal(t, "admin", got.Actor)
	assert.Equal(t, "9", got.TenantID)
	assert.Equal(t, "req-42", got.RequestID)
	assert.Equal(t, "192.0.2.7", got.IP)

	require.NoError(t, l.Log(context.Background(), tenants.ActionUpdate))
	assert.Empty(t, got.TenantID)
	assert.Empty(t, got.Actor)
}

func TestNewCache(t *testing.T) {
	t.Parallel()

	c, err := newCache(tenant.Config{CacheDriver: "memory", CacheSize: 10}, nil)
	require.NoError(t, err)
	assert.NotNil(t, c)

	c, err = newCache(tenant.Config{CacheDriver: "none"}, nil)
	require.NoError(t, err)
	assert.Equal(t, tenant.NoopCache{}, c)

	_, err = newCache(tenant.Config{CacheDriver: "redis"}, nil)
	assert.Error(t, err)

	_, err = newCache(tenant.Config{CacheDriver: "memcached"}, nil)
	assert.Error(t, err)
}
