package i18n

import "net/http"

const (
	// QueryParam overrides the negotiated language for a single request.
	QueryParam = "lang"
	// CookieName remembers an explicit language choice.
	CookieName = "lang"
)

// Middleware negotiates the request locale and stores it with SetLocale.
// Preference order: ?lang, the lang cookie, then Accept-Language.
func Middleware(t *Translator) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			var cookie string
			if c, err := r.Cookie(CookieName); err == nil {
				cookie = c.Value
			}
			lang := t.Match(r.URL.Query().Get(QueryParam), cookie, r.Header.Get("Accept-Language"))
			next.ServeHTTP(w, r.WithContext(SetLocale(r.Context(), lang)))
		})
	}
}
