package tenants

import (
	"fmt"
	"net/url"
	"slices"
	"strings"

	"github.com/dmitrymomot/tenants/pkg/slug"
	"github.com/dmitrymomot/tenants/pkg/tenant"
)

const maxNameLength = 255

// Input is the writable part of a tenant. An empty Slug is derived from Name.
// A nil Active keeps the current state on update and means active on create.
type Input struct {
	Name   string `json:"name"`
	Slug   string `json:"slug"`
	Active *bool  `json:"active,omitempty"`
}

// ValidationError maps field names to messages.
type ValidationError url.Values

func (e ValidationError) Error() string {
	if len(e) == 0 {
		return "validation failed"
	}
	fields := make([]string, 0, len(e))
	for f := range e {
		fields = append(fields, f)
	}
	slices.Sort(fields)

	parts := make([]string, 0, len(fields))
	for _, f := range fields {
		parts = append(parts, fmt.Sprintf("%s: %s", f, e[f][0]))
	}
	return "validation error: " + strings.Join(parts, ", ")
}

func (e ValidationError) add(field, msg string) {
	url.Values(e).Add(field, msg)
}

// Normalize trims the input, derives a missing slug and checks the result.
// It returns a ValidationError listing every offending field.
func (in Input) Normalize() (Input, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Slug = strings.ToLower(strings.TrimSpace(in.Slug))
	if in.Slug == "" {
		in.Slug = slug.Make(in.Name, slug.MaxLength(tenant.MaxSlugLength))
	}

	errs := ValidationError{}
	switch {
	case in.Name == "":
		errs.add("name", "is required")
	case len(in.Name) > maxNameLength:
		errs.add("name", fmt.Sprintf("must be at most %d characters", maxNameLength))
	}
	switch {
	case in.Slug == "":
		errs.add("slug", "is required")
	case in.Slug == tenant.ReservedSubdomain:
		errs.add("slug", "is reserved")
	case !tenant.ValidSlug(in.Slug):
		errs.add("slug", fmt.Sprintf("must be 1-%d letters, digits, dashes or underscores", tenant.MaxSlugLength))
	}

	if len(errs) > 0 {
		return in, errs
	}
	return in, nil
}
