package slug

import (
	"crypto/rand"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Option configures slug generation.
type Option func(*config)

type config struct {
	maxLength    int
	separator    string
	suffixLength int
}

// MaxLength truncates the slug to n runes. Zero means no limit.
func MaxLength(n int) Option {
	return func(c *config) {
		c.maxLength = max(n, 0)
	}
}

// Separator sets the word separator. Default is "-".
func Separator(s string) Option {
	return func(c *config) {
		if s != "" {
			c.separator = s
		}
	}
}

// WithSuffix appends a random lowercase alphanumeric suffix of the given length.
func WithSuffix(length int) Option {
	return func(c *config) {
		c.suffixLength = max(length, 0)
	}
}

// letters that survive NFD decomposition without an ASCII base.
var ligatures = strings.NewReplacer(
	"ß", "ss", "æ", "ae", "Æ", "ae", "œ", "oe", "Œ", "oe",
	"ø", "o", "Ø", "o", "ł", "l", "Ł", "l", "đ", "d", "Đ", "d", "þ", "th", "Þ", "th",
)

// Make turns s into a lowercase ASCII slug: accents are stripped, every run
// of other characters becomes a single separator, and the result never starts
// or ends with one.
func Make(s string, opts ...Option) string {
	cfg := &config{separator: "-"}
	for _, opt := range opts {
		opt(cfg)
	}

	s = fold(ligatures.Replace(s))

	var b strings.Builder
	b.Grow(len(s))
	pendingSep := false
	for _, r := range s {
		r = unicode.ToLower(r)
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			if pendingSep && b.Len() > 0 {
				b.WriteString(cfg.separator)
			}
			pendingSep = false
			b.WriteRune(r)
			continue
		}
		pendingSep = true
	}
	result := b.String()

	if cfg.suffixLength > 0 {
		suffix := randomSuffix(cfg.suffixLength)
		if cfg.maxLength > 0 {
			suffix = truncate(suffix, cfg.maxLength, cfg.separator)
			result = truncate(result, cfg.maxLength-len(suffix)-len(cfg.separator), cfg.separator)
		}
		if result == "" {
			return suffix
		}
		return result + cfg.separator + suffix
	}

	if cfg.maxLength > 0 {
		result = truncate(result, cfg.maxLength, cfg.separator)
	}
	return result
}

// fold decomposes s and drops combining marks (é -> e).
func fold(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		return s
	}
	return out
}

// truncate cuts an ASCII slug to n bytes without leaving a trailing separator.
func truncate(s string, n int, sep string) string {
	if n <= 0 {
		return ""
	}
	if len(s) > n {
		s = s[:n]
	}
	for strings.HasSuffix(s, sep) {
		s = strings.TrimSuffix(s, sep)
	}
	return s
}

func randomSuffix(n int) string {
	const charset = "abcdefghijklmnopqrstuvwxyz0123456789"
	b := make([]byte, n)
	_, _ = rand.Read(b)
	for i := range b {
		b[i] = charset[int(b[i])%len(charset)]
	}
	return string(b)
}
