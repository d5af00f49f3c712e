// Package slug builds URL and hostname safe identifiers from free text.
//
// Output contains only lowercase ASCII letters, digits and the separator,
// so with the default "-" separator every non-empty slug is a valid DNS
// label fragment and a valid tenant subdomain:
//
//	slug.Make("Café Zürich GmbH")                  // "cafe-zurich-gmbh"
//	slug.Make("Acme Corporation", slug.MaxLength(4)) // "acme"
//	slug.Make("Acme", slug.WithSuffix(4))            // "acme-x7g3"
package slug
