package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"

	goredis "github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"

	"github.com/dmitrymomot/tenants/modules/tenants"
	"github.com/dmitrymomot/tenants/pkg/audit"
	"github.com/dmitrymomot/tenants/pkg/clientip"
	"github.com/dmitrymomot/tenants/pkg/config"
	"github.com/dmitrymomot/tenants/pkg/flash"
	"github.com/dmitrymomot/tenants/pkg/httpserver"
	"github.com/dmitrymomot/tenants/pkg/i18n"
	"github.com/dmitrymomot/tenants/pkg/pg"
	"github.com/dmitrymomot/tenants/pkg/ratelimiter"
	"github.com/dmitrymomot/tenants/pkg/rbac"
	"github.com/dmitrymomot/tenants/pkg/redis"
	"github.com/dmitrymomot/tenants/pkg/requestid"
	"github.com/dmitrymomot/tenants/pkg/tenant"
)

// serveConfig holds settings owned by the serve command itself.
type serveConfig struct {
	AdminToken    string `env:"ADMIN_TOKEN"`
	AdminRole     string `env:"ADMIN_ROLE" envDefault:"admin"`
	MigrateOnBoot bool   `env:"MIGRATE_ON_BOOT" envDefault:"false"`
}

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			log, err := newLogger()
			if err != nil {
				return err
			}
			return serve(cmd.Context(), log)
		},
	}
}

func serve(ctx context.Context, log *slog.Logger) error {
	var (
		sc serveConfig
		tc tenant.Config
		fc flash.Config
		hc httpserver.Config
		rc redis.Config
		lc ratelimiter.Config
	)
	if err := errors.Join(
		config.Load(&sc),
		config.Load(&tc),
		config.Load(&fc),
		config.Load(&hc),
		config.Load(&rc),
		config.Load(&lc),
	); err != nil {
		return err
	}

	if sc.MigrateOnBoot {
		if err := migrate(ctx, log); err != nil {
			return err
		}
	}

	pool, _, store, err := openStore(ctx)
	if err != nil {
		return err
	}
	defer pool.Close()

	checks := map[string]httpserver.Check{"postgres": pg.Healthcheck(pool)}

	var client *goredis.Client
	if rc.ConnectionURL != "" {
		if client, err = redis.Connect(ctx, rc); err != nil {
			return err
		}
		defer client.Close()
		checks["redis"] = redis.Healthcheck(client)
	}

	cache, err := newCache(tc, client)
	if err != nil {
		return err
	}
	defer cache.Close()

	resolver := tenant.NewResolver(store,
		tenant.WithBaseDomain(tc.BaseDomain),
		tenant.WithCache(cache),
		tenant.WithResolverLogger(log),
	)

	auth, err := rbac.NewAuthorizer(ctx, rbac.NewInMemRoleSource(rbac.DefaultRoles()))
	if err != nil {
		return err
	}

	tr, err := i18n.NewTranslator(ctx, i18n.DefaultSource(), i18n.WithLogger(log))
	if err != nil {
		return err
	}

	fm, err := flash.NewFromConfig(fc, flash.WithDomain(tc.BaseDomain))
	if err != nil {
		return err
	}

	var limitStore ratelimiter.Store
	if client != nil {
		limitStore = ratelimiter.NewRedisStore(client, "tenants:ratelimit:")
	} else {
		mem := ratelimiter.NewMemoryStore()
		defer mem.Close()
		limitStore = mem
	}
	limiter, err := ratelimiter.NewBucket(limitStore, lc)
	if err != nil {
		return err
	}

	auditStore := tenants.NewAuditStore(pool)

	if sc.AdminToken == "" {
		log.WarnContext(ctx, "ADMIN_TOKEN is not set, the admin API rejects every request")
	}

	handler := newRouter(routerDeps{
		Log:        log,
		Tenant:     tc,
		Resolver:   resolver,
		Directory:  store,
		Authorizer: auth,
		Translator: tr,
		Flash:      fm,
		AdminToken: sc.AdminToken,
		AdminRole:  sc.AdminRole,
		AdminLimit: limiter,
		Audit:      newAuditLogger(auditStore),
		History:    auditStore,
		Checks:     checks,
	})

	return httpserver.New(hc, log).Run(ctx, handler)
}

// newAuditLogger fills audit events from the admin request context.
func newAuditLogger(store audit.Storage) *audit.Logger {
	return audit.NewLogger(store,
		audit.WithActorExtractor(rbac.GetRoleFromContext),
		audit.WithTenantIDExtractor(func(ctx context.Context) (string, bool) {
			id, ok := tenant.IDFromContext(ctx)
			return strconv.FormatInt(id, 10), ok
		}),
		audit.WithRequestIDExtractor(func(ctx context.Context) (string, bool) {
			id := requestid.FromContext(ctx)
			return id, id != ""
		}),
		audit.WithIPExtractor(func(ctx context.Context) (string, bool) {
			ip := clientip.FromContext(ctx)
			return ip, ip != ""
		}),
	)
}

// newCache picks the resolver cache named by TENANT_CACHE_DRIVER.
func newCache(tc tenant.Config, client *goredis.Client) (tenant.Cache, error) {
	switch tc.CacheDriver {
	case "", "memory":
		return tenant.NewMemoryCache(tc.CacheSize, tc.CacheTTL), nil
	case "redis":
		if client == nil {
			return nil, errors.New("TENANT_CACHE_DRIVER=redis requires REDIS_URL")
		}
		return tenant.NewRedisCache(client, tc.CachePrefix, tc.CacheTTL), nil
	case "none":
		return tenant.NoopCache{}, nil
	default:
		return nil, fmt.Errorf("unknown TENANT_CACHE_DRIVER %q", tc.CacheDriver)
	}
}

var _ tenants.Directory = (*tenants.Store)(nil)
