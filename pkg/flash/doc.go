// Package flash delivers one-shot messages across a redirect.
//
// Messages are JSON encoded, sealed with XChaCha20-Poly1305 and stored in a
// single HttpOnly cookie. Pop reads and deletes the cookie in one step, so a
// message is shown at most once. Keys are derived from the configured secrets
// with HKDF-SHA256; the first secret seals, every secret opens, which allows
// rotation without dropping in-flight messages.
//
//	m, err := flash.New([]string{secret}, flash.WithDomain("example.com"))
//	_ = m.Set(w, flash.Warning("The requested tenant [acme] was not found."))
//	// next request
//	msgs, err := m.Pop(w, r)
package flash
