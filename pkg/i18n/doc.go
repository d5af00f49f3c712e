// Package i18n translates user-visible messages.
//
// Translations are YAML documents whose top-level keys are language codes:
//
//	en:
//	  tenants:
//	    resource_not_found: "The requested %{resource} [%{identifier}] was not found."
//
// Keys are addressed with dots and placeholders are filled from name/value
// pairs:
//
//	tr, err := i18n.NewTranslator(ctx, i18n.DefaultSource())
//	tr.T("en", "tenants.resource_not_found", "resource", "tenant", "identifier", "acme")
//
// Middleware negotiates the request language with golang.org/x/text/language
// and stores it on the context for Tc.
package i18n
