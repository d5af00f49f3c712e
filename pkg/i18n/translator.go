package i18n

import (
	"context"
	"fmt"
	"log/slog"
	"regexp"
	"slices"
	"strings"

	"golang.org/x/text/language"
)

// DefaultLanguage is used when a request states no usable preference.
const DefaultLanguage = "en"

// Translator looks up messages by dot-separated key. It is read-only after
// construction and safe for concurrent use.
type Translator struct {
	translations map[string]map[string]any
	defaultLang  string
	langs        []string
	matcher      language.Matcher
	logger       *slog.Logger
}

// Option configures a Translator.
type Option func(*Translator)

// WithDefaultLanguage sets the fallback language. It must be one of the loaded languages.
func WithDefaultLanguage(lang string) Option {
	return func(t *Translator) {
		if lang != "" {
			t.defaultLang = lang
		}
	}
}

// WithLogger sets the logger reporting missing keys.
func WithLogger(l *slog.Logger) Option {
	return func(t *Translator) {
		if l != nil {
			t.logger = l
		}
	}
}

// NewTranslator loads translations from src.
func NewTranslator(ctx context.Context, src Source, opts ...Option) (*Translator, error) {
	t := &Translator{
		defaultLang: DefaultLanguage,
		logger:      slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(t)
	}

	translations, err := src.Load(ctx)
	if err != nil {
		return nil, err
	}
	if len(translations) == 0 {
		return nil, ErrNoTranslations
	}
	if _, ok := translations[t.defaultLang]; !ok {
		return nil, fmt.Errorf("%w: default language %q has no translations", ErrInvalidLanguage, t.defaultLang)
	}

	// The default language goes first: the matcher falls back to index 0.
	t.langs = []string{t.defaultLang}
	for lang := range translations {
		if lang != t.defaultLang {
			t.langs = append(t.langs, lang)
		}
	}
	slices.Sort(t.langs[1:])

	tags := make([]language.Tag, len(t.langs))
	for i, lang := range t.langs {
		tag, err := language.Parse(lang)
		if err != nil {
			return nil, fmt.Errorf("%w: %q: %w", ErrInvalidLanguage, lang, err)
		}
		tags[i] = tag
	}

	t.translations = translations
	t.matcher = language.NewMatcher(tags)
	return t, nil
}

// SupportedLanguages returns the loaded languages, default first.
func (t *Translator) SupportedLanguages() []string {
	return slices.Clone(t.langs)
}

// Match picks the best supported language for the given preferences, each
// either a single tag or an Accept-Language header value. Earlier arguments win.
func (t *Translator) Match(prefs ...string) string {
	for _, pref := range prefs {
		if pref == "" {
			continue
		}
		tags, _, err := language.ParseAcceptLanguage(pref)
		if err != nil || len(tags) == 0 {
			continue
		}
		if _, idx, conf := t.matcher.Match(tags...); conf != language.No {
			return t.langs[idx]
		}
	}
	return t.defaultLang
}

// T translates key into lang, substituting %{name} placeholders from args
// given as name, value pairs. Missing keys fall back to the default
// language, then to the key itself.
func (t *Translator) T(lang, key string, args ...string) string {
	msg, ok := t.lookup(lang, key)
	if !ok && lang != t.defaultLang {
		msg, ok = t.lookup(t.defaultLang, key)
	}
	if !ok {
		t.logger.Warn("translation not found", slog.String("lang", lang), slog.String("key", key))
		msg = key
	}
	return substitute(msg, args)
}

// Tc translates key into the locale stored on ctx.
func (t *Translator) Tc(ctx context.Context, key string, args ...string) string {
	return t.T(GetLocale(ctx), key, args...)
}

// Has reports whether lang defines key.
func (t *Translator) Has(lang, key string) bool {
	_, ok := t.lookup(lang, key)
	return ok
}

func (t *Translator) lookup(lang, key string) (string, bool) {
	node, ok := t.translations[lang]
	if !ok {
		return "", false
	}

	parts := strings.Split(key, ".")
	for _, part := range parts[:len(parts)-1] {
		next, ok := node[part].(map[string]any)
		if !ok {
			return "", false
		}
		node = next
	}

	switch v := node[parts[len(parts)-1]].(type) {
	case string:
		return v, true
	case nil:
		return "", false
	default:
		if _, nested := v.(map[string]any); nested {
			return "", false
		}
		return fmt.Sprint(v), true
	}
}

var placeholder = regexp.MustCompile(`%\{([^}]+)\}`)

// substitute replaces %{name} with the matching value; unknown names are kept.
func substitute(tmpl string, args []string) string {
	if len(args) < 2 || !strings.Contains(tmpl, "%{") {
		return tmpl
	}
	params := make(map[string]string, len(args)/2)
	for i := 0; i+1 < len(args); i += 2 {
		params[args[i]] = args[i+1]
	}
	return placeholder.ReplaceAllStringFunc(tmpl, func(m string) string {
		if v, ok := params[m[2:len(m)-1]]; ok {
			return v
		}
		return m
	})
}
