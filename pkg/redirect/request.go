package redirect

import (
	"net/http"
	"strings"
)

const (
	// HeaderHXRequest marks requests issued by HTMX.
	HeaderHXRequest = "HX-Request"
	// HeaderHXRedirect makes HTMX perform a full client-side redirect.
	HeaderHXRedirect = "HX-Redirect"

	dataStarAccept      = "text/event-stream"
	dataStarQueryParam  = "datastar"
	dataStarContentType = "application/x-datastar"
)

// IsDataStar reports whether the request expects a DataStar SSE response.
func IsDataStar(r *http.Request) bool {
	return strings.Contains(r.Header.Get("Accept"), dataStarAccept) ||
		r.URL.Query().Has(dataStarQueryParam) ||
		strings.Contains(r.Header.Get("Content-Type"), dataStarContentType)
}

// IsHTMX reports whether the request was issued by HTMX.
func IsHTMX(r *http.Request) bool {
	return r.Header.Get(HeaderHXRequest) == "true"
}
