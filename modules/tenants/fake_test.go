package tenants_test

import (
	"context"
	"errors"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/dmitrymomot/tenants/modules/tenants"
	"github.com/dmitrymomot/tenants/pkg/audit"
	"github.com/dmitrymomot/tenants/pkg/tenant"
)

var errBroken = errors.New("connection reset")

// memDirectory is an in-memory tenants.Directory.
type memDirectory struct {
	mu     sync.Mutex
	nextID int64
	rows   []*tenant.Tenant
	broken bool
}

func newMemDirectory(seed ...*tenant.Tenant) *memDirectory {
	d := &memDirectory{}
	for _, t := range seed {
		d.rows = append(d.rows, t)
		d.nextID = max(d.nextID, t.ID)
	}
	return d
}

func (d *memDirectory) GetBySlug(_ context.Context, slug string) (*tenant.Tenant, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.broken {
		return nil, errBroken
	}
	for _, t := range d.rows {
		if strings.EqualFold(t.Slug, slug) {
			return t, nil
		}
	}
	return nil, tenant.ErrTenantNotFound
}

func (d *memDirectory) List(_ context.Context, p tenants.ListParams) ([]*tenant.Tenant, int, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.broken {
		return nil, 0, errBroken
	}
	var out []*tenant.Tenant
	for _, t := range d.rows {
		if p.Active == nil || t.Active == *p.Active {
			out = append(out, t)
		}
	}
	total := len(out)
	lo := min(p.Offset, total)
	hi := min(lo+p.Limit, total)
	return out[lo:hi], total, nil
}

func (d *memDirectory) Create(_ context.Context, in tenants.Input) (*tenant.Tenant, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.broken {
		return nil, errBroken
	}
	if d.taken(in.Slug, 0) {
		return nil, tenants.ErrSlugTaken
	}
	d.nextID++
	now := time.Now()
	t := &tenant.Tenant{ID: d.nextID, Slug: in.Slug, Name: in.Name, Active: in.Active == nil || *in.Active, CreatedAt: now, UpdatedAt: now}
	d.rows = append(d.rows, t)
	return t, nil
}

func (d *memDirectory) Update(_ context.Context, id int64, in tenants.Input) (*tenant.Tenant, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.taken(in.Slug, id) {
		return nil, tenants.ErrSlugTaken
	}
	for i, t := range d.rows {
		if t.ID == id {
			u := *t
			u.Slug, u.Name, u.UpdatedAt = in.Slug, in.Name, time.Now()
			if in.Active != nil {
				u.Active = *in.Active
			}
			d.rows[i] = &u
			return &u, nil
		}
	}
	return nil, tenant.ErrTenantNotFound
}

func (d *memDirectory) Delete(_ context.Context, id int64) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	n := len(d.rows)
	d.rows = slices.DeleteFunc(d.rows, func(t *tenant.Tenant) bool { return t.ID == id })
	if len(d.rows) == n {
		return tenant.ErrTenantNotFound
	}
	return nil
}

func (d *memDirectory) SetActive(_ context.Context, slug string, active bool) (*tenant.Tenant, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	for i, t := range d.rows {
		if strings.EqualFold(t.Slug, slug) {
			u := *t
			u.Active = active
			d.rows[i] = &u
			return &u, nil
		}
	}
	return nil, tenant.ErrTenantNotFound
}

func (d *memDirectory) taken(slug string, except int64) bool {
	for _, t := range d.rows {
		if t.ID != except && strings.EqualFold(t.Slug, slug) {
			return true
		}
	}
	return false
}

// recordingInvalidator remembers every forgotten slug.
type recordingInvalidator struct {
	mu   sync.Mutex
	keys []string
}

func (r *recordingInvalidator) Forget(_ context.Context, slug string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.keys = append(r.keys, slug)
	return nil
}

func (r *recordingInvalidator) forgotten() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return slices.Clone(r.keys)
}

// memTrail is an in-memory audit.Storage and tenants.History.
type memTrail struct {
	mu     sync.Mutex
	events []audit.Event
}

func (m *memTrail) Store(_ context.Context, e audit.Event) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = append(m.events, e)
	return nil
}

func (m *memTrail) History(_ context.Context, resource, id string, limit int) ([]audit.Event, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []audit.Event
	for _, e := range slices.Backward(m.events) {
		if e.Resource == resource && e.ResourceID == id && len(out) < limit {
			out = append(out, e)
		}
	}
	return out, nil
}

func (m *memTrail) actions() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, 0, len(m.events))
	for _, e := range m.events {
		out = append(out, e.Action+":"+string(e.Result))
	}
	return out
}

func seedTenant(id int64, slug string, active bool) *tenant.Tenant {
	return &tenant.Tenant{ID: id, Slug: slug, Name: strings.ToUpper(slug), Active: active}
}
