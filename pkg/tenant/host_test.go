package tenant_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/dmitrymomot/tenants/pkg/tenant"
)

func TestSubdomainFromHost(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		host string
		base string
		want string
	}{
		{name: "tenant subdomain", host: "acme.example.com", base: "example.com", want: "acme"},
		{name: "www is kept", host: "www.example.com", base: "example.com", want: "www"},
		{name: "bare base domain", host: "example.com", base: "example.com", want: ""},
		{name: "port is ignored", host: "acme.example.com:8080", base: "example.com", want: "acme"},
		{name: "uppercase host", host: "ACME.Example.COM", base: "example.com", want: "acme"},
		{name: "trailing dot", host: "acme.example.com.", base: "example.com", want: "acme"},
		{name: "nested labels use leftmost", host: "eu.acme.example.com", base: "example.com", want: "eu"},
		{name: "foreign domain", host: "acme.other.com", base: "example.com", want: ""},
		{name: "suffix without dot boundary", host: "acmeexample.com", base: "example.com", want: ""},
		{name: "base with leading dot", host: "acme.example.com", base: ".example.com", want: "acme"},
		{name: "localhost base", host: "acme.localhost:3000", base: "localhost", want: "acme"},
		{name: "ipv4", host: "127.0.0.1:8080", base: "", want: ""},
		{name: "ipv6", host: "[::1]:8080", base: "", want: ""},
		{name: "empty host", host: "", base: "example.com", want: ""},
		{name: "no base three labels", host: "acme.example.com", base: "", want: "acme"},
		{name: "no base two labels", host: "example.com", base: "", want: ""},
		{name: "no base www", host: "www.example.com", base: "", want: "www"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, tenant.SubdomainFromHost(tt.host, tt.base))
		})
	}
}

func TestValidSlug(t *testing.T) {
	t.Parallel()

	valid := []string{"acme", "Acme-Corp", "acme_corp", "a", "123", strings.Repeat("a", tenant.MaxSlugLength)}
	for _, s := range valid {
		assert.True(t, tenant.ValidSlug(s), s)
	}

	invalid := []string{"", "acme.corp", "acme corp", "acme/corp", "ácme", strings.Repeat("a", tenant.MaxSlugLength+1)}
	for _, s := range invalid {
		assert.False(t, tenant.ValidSlug(s), s)
	}
}
