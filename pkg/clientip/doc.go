// Package clientip determines the address of the client behind a request.
//
// Proxy headers are only as trustworthy as the proxy that sets them, so the
// list of headers to consult is configurable; the default fits a deployment
// behind Cloudflare or a conventional reverse proxy.
package clientip
