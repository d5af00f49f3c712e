package tenants

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"

	"github.com/dmitrymomot/tenants/pkg/rbac"
	"github.com/dmitrymomot/tenants/pkg/tenant"
)

const maxBodySize = 1 << 20

// Response is the JSON envelope of every admin API reply.
type Response struct {
	Data  any            `json:"data,omitempty"`
	Meta  map[string]any `json:"meta,omitempty"`
	Error *ErrorDetail   `json:"error,omitempty"`
}

type ErrorDetail struct {
	Code    string              `json:"code"`
	Message string              `json:"message"`
	Details map[string][]string `json:"details,omitempty"`
}

var (
	errUnsupportedMediaType = errors.New("expected application/json")
	errInvalidJSON          = errors.New("invalid JSON body")
)

func writeJSON(w http.ResponseWriter, status int, body Response) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

// errorResponse maps an error to a status and envelope. Unknown errors are
// reported as internal without exposing their text.
func errorResponse(err error) (int, Response) {
	detail := &ErrorDetail{}
	status := http.StatusInternalServerError

	var verr ValidationError
	switch {
	case errors.As(err, &verr):
		status = http.StatusUnprocessableEntity
		detail.Code, detail.Message, detail.Details = "validation_error", "Validation failed", verr
	case errors.Is(err, ErrSlugTaken):
		status = http.StatusConflict
		detail.Code, detail.Message = "slug_taken", "Tenant slug already taken"
		detail.Details = map[string][]string{"slug": {"is already taken"}}
	case errors.Is(err, tenant.ErrTenantNotFound), errors.Is(err, tenant.ErrInvalidSlug):
		status = http.StatusNotFound
		detail.Code, detail.Message = "not_found", "Tenant not found"
	case errors.Is(err, errUnsupportedMediaType):
		status = http.StatusUnsupportedMediaType
		detail.Code, detail.Message = "unsupported_media_type", err.Error()
	case errors.Is(err, errInvalidJSON):
		status = http.StatusBadRequest
		detail.Code, detail.Message = "bad_request", "Invalid JSON body"
	case rbac.StatusCode(err) == http.StatusUnauthorized:
		status = http.StatusUnauthorized
		detail.Code, detail.Message = "unauthorized", "Authentication required"
	case rbac.StatusCode(err) == http.StatusForbidden:
		status = http.StatusForbidden
		detail.Code, detail.Message = "forbidden", "Permission denied"
	default:
		detail.Code, detail.Message = "internal_error", "Internal server error"
	}

	return status, Response{Error: detail}
}

// decodeJSON reads exactly one JSON object into v, rejecting unknown fields.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	mt, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if err != nil || mt != "application/json" {
		return errUnsupportedMediaType
	}

	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodySize))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("%w: %w", errInvalidJSON, err)
	}
	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		return fmt.Errorf("%w: unexpected data after object", errInvalidJSON)
	}
	return nil
}
