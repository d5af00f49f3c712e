package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/dmitrymomot/tenants/modules/tenants"
	"github.com/dmitrymomot/tenants/pkg/config"
	"github.com/dmitrymomot/tenants/pkg/logger"
	"github.com/dmitrymomot/tenants/pkg/redis"
	"github.com/dmitrymomot/tenants/pkg/tenant"
)

// seedFile is the YAML layout accepted by the seed command:
//
//	tenants:
//	  - name: Acme Corp
//	    slug: acme
//	  - name: Globex
//	    active: false
type seedFile struct {
	Tenants []tenants.Input `yaml:"tenants"`
}

var defaultSeed = []tenants.Input{
	{Name: "Acme Corp", Slug: "acme"},
	{Name: "Globex", Slug: "globex"},
}

func newSeedCmd() *cobra.Command {
	var file string

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Create tenants from a YAML file, or demo tenants when no file is given",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			log, err := newLogger()
			if err != nil {
				return err
			}

			inputs := defaultSeed
			if file != "" {
				f, err := os.Open(file)
				if err != nil {
					return err
				}
				defer f.Close()
				if inputs, err = readSeed(f); err != nil {
					return fmt.Errorf("%s: %w", file, err)
				}
			}

			pool, _, store, err := openStore(ctx)
			if err != nil {
				return err
			}
			defer pool.Close()

			created, err := seed(ctx, store, inputs, log)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%d tenant(s) created\n", created)
			return nil
		},
	}
	cmd.Flags().StringVarP(&file, "file", "f", "", "YAML file with tenants to create")
	return cmd
}

func newSetActiveCmd(use, short string, active bool) *cobra.Command {
	return &cobra.Command{
		Use:   use + " <slug>",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			log, err := newLogger()
			if err != nil {
				return err
			}

			var (
				tc tenant.Config
				rc redis.Config
			)
			if err := errors.Join(config.Load(&tc), config.Load(&rc)); err != nil {
				return err
			}

			pool, _, store, err := openStore(ctx)
			if err != nil {
				return err
			}
			defer pool.Close()

			var cache tenant.Cache
			switch {
			case tc.CacheDriver == "redis" && rc.ConnectionURL != "":
				client, err := redis.Connect(ctx, rc)
				if err != nil {
					return err
				}
				defer client.Close()
				cache = tenant.NewRedisCache(client, tc.CachePrefix, tc.CacheTTL)
			case tc.CacheDriver == "" || tc.CacheDriver == "memory":
				log.WarnContext(ctx, "running servers keep their in-memory tenant cache; the change applies once cached entries expire",
					slog.Duration("ttl", tc.CacheTTL),
				)
			}

			_, err = setActive(ctx, store, cache, args[0], active, log)
			return err
		},
	}
}

type activator interface {
	SetActive(ctx context.Context, slug string, active bool) (*tenant.Tenant, error)
}

// setActive flips the tenant's availability and evicts it from cache so resolvers
// sharing that cache see the change on the next request. A nil cache is skipped.
func setActive(ctx context.Context, dir activator, cache tenant.Cache, slug string, active bool, log *slog.Logger) (*tenant.Tenant, error) {
	t, err := dir.SetActive(ctx, slug, active)
	if err != nil {
		return nil, err
	}

	if cache != nil {
		if err := cache.Delete(ctx, t.Slug); err != nil {
			log.WarnContext(ctx, "failed to evict tenant from cache",
				logger.TenantSlug(t.Slug),
				logger.Error(err),
			)
		}
	}

	log.InfoContext(ctx, "tenant availability changed",
		logger.TenantID(t.ID),
		logger.TenantSlug(t.Slug),
		slog.Bool("active", t.Active),
	)
	return t, nil
}

func readSeed(r io.Reader) ([]tenants.Input, error) {
	var sf seedFile
	if err := yaml.NewDecoder(r).Decode(&sf); err != nil {
		return nil, err
	}
	return sf.Tenants, nil
}

type creator interface {
	Create(ctx context.Context, in tenants.Input) (*tenant.Tenant, error)
}

// seed creates every valid input. Existing slugs are skipped so the command
// can be rerun; invalid entries abort before anything is written.
func seed(ctx context.Context, dir creator, inputs []tenants.Input, log *slog.Logger) (int, error) {
	normalized := make([]tenants.Input, 0, len(inputs))
	for i, in := range inputs {
		n, err := in.Normalize()
		if err != nil {
			return 0, fmt.Errorf("tenant #%d: %w", i+1, err)
		}
		normalized = append(normalized, n)
	}

	created := 0
	for _, in := range normalized {
		t, err := dir.Create(ctx, in)
		switch {
		case errors.Is(err, tenants.ErrSlugTaken):
			log.InfoContext(ctx, "tenant already exists", logger.TenantSlug(in.Slug))
		case err != nil:
			return created, err
		default:
			created++
			log.InfoContext(ctx, "tenant created", logger.TenantID(t.ID), logger.TenantSlug(t.Slug))
		}
	}
	return created, nil
}
