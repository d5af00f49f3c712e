package logger

import (
	"log/slog"
	"time"
)

// Group creates a slog group attribute from the provided attributes.
func Group(name string, attrs ...slog.Attr) slog.Attr {
	return slog.Attr{Key: name, Value: slog.GroupValue(attrs...)}
}

// Error records err under "error". A nil error yields an empty Attr,
// which slog drops.
func Error(err error) slog.Attr {
	if err == nil {
		return slog.Attr{}
	}
	return slog.Any("error", err)
}

func Component(name string) slog.Attr {
	return slog.String("component", name)
}

func RequestID(id string) slog.Attr {
	if id == "" {
		return slog.Attr{}
	}
	return slog.String("request_id", id)
}

func ClientIP(ip string) slog.Attr {
	if ip == "" {
		return slog.Attr{}
	}
	return slog.String("client_ip", ip)
}

func TenantID(id int64) slog.Attr {
	return slog.Int64("tenant_id", id)
}

func TenantSlug(slug string) slog.Attr {
	return slog.String("tenant_slug", slug)
}

// Subdomain records the raw first host label of a request.
func Subdomain(sub string) slog.Attr {
	if sub == "" {
		return slog.Attr{}
	}
	return slog.String("subdomain", sub)
}

// Decision records the outcome of the tenant guard.
func Decision(d string) slog.Attr {
	return slog.String("decision", d)
}

func Role(role string) slog.Attr {
	if role == "" {
		return slog.Attr{}
	}
	return slog.String("role", role)
}

func Duration(d time.Duration) slog.Attr {
	return slog.Duration("duration", d)
}
