// Package redirect implements the redirect primitive used by the tenant guard.
//
// DataStar requests receive a Server-Sent Event that changes window.location,
// HTMX requests an HX-Redirect header, and everything else a 303 See Other.
// Warnings travel to the next page as flash messages.
package redirect
