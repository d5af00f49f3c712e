package logger

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
)

// Format is the log output encoding.
type Format string

const (
	FormatJSON Format = "json"
	FormatText Format = "text"
)

// Deployment environments recognised by WithEnvironment.
const (
	EnvDevelopment = "development"
	EnvStaging     = "staging"
	EnvProduction  = "production"
)

// Config is the environment-driven logger configuration.
type Config struct {
	Level   string `env:"LOG_LEVEL" envDefault:"info"`
	Format  string `env:"LOG_FORMAT"`
	Env     string `env:"APP_ENV" envDefault:"development"`
	Service string `env:"APP_NAME" envDefault:"tenants"`
}

// Option configures New.
type Option func(*options)

type options struct {
	level      slog.Level
	format     Format
	output     io.Writer
	attrs      []slog.Attr
	extractors []ContextExtractor
}

func WithLevel(l slog.Level) Option {
	return func(o *options) { o.level = l }
}

// WithFormat panics on anything but FormatJSON or FormatText.
func WithFormat(f Format) Option {
	switch f {
	case FormatJSON, FormatText:
	default:
		panic(fmt.Errorf("invalid log format %q: must be %q or %q", f, FormatJSON, FormatText))
	}
	return func(o *options) { o.format = f }
}

// WithOutput sets the destination writer. Nil is ignored.
func WithOutput(w io.Writer) Option {
	return func(o *options) {
		if w != nil {
			o.output = w
		}
	}
}

// WithAttr adds attributes to every record.
func WithAttr(attrs ...slog.Attr) Option {
	return func(o *options) { o.attrs = append(o.attrs, attrs...) }
}

// WithContextExtractors registers callbacks that add attributes pulled from
// the record's context. Nil extractors are skipped.
func WithContextExtractors(extractors ...ContextExtractor) Option {
	return func(o *options) {
		for _, ex := range extractors {
			if ex != nil {
				o.extractors = append(o.extractors, ex)
			}
		}
	}
}

// WithEnvironment applies the defaults for a deployment environment and tags
// every record with service and env. Development logs text at debug level;
// staging and production log JSON at info level. Unknown names are treated
// as development.
func WithEnvironment(env, service string) Option {
	return func(o *options) {
		switch strings.ToLower(env) {
		case EnvProduction, "prod":
			env = EnvProduction
			o.level, o.format = slog.LevelInfo, FormatJSON
		case EnvStaging, "stage":
			env = EnvStaging
			o.level, o.format = slog.LevelInfo, FormatJSON
		default:
			env = EnvDevelopment
			o.level, o.format = slog.LevelDebug, FormatText
		}
		if service != "" {
			o.attrs = append(o.attrs, slog.String("service", service))
		}
		o.attrs = append(o.attrs, slog.String("env", env))
	}
}

// New builds a logger. Without options it writes JSON at info level to stdout.
func New(opts ...Option) *slog.Logger {
	o := &options{
		level:  slog.LevelInfo,
		format: FormatJSON,
		output: os.Stdout,
	}
	for _, opt := range opts {
		opt(o)
	}

	ho := &slog.HandlerOptions{Level: o.level}

	var h slog.Handler
	if o.format == FormatText {
		h = slog.NewTextHandler(o.output, ho)
	} else {
		h = slog.NewJSONHandler(o.output, ho)
	}
	if len(o.attrs) > 0 {
		h = h.WithAttrs(o.attrs)
	}

	return slog.New(NewLogHandlerDecorator(h, o.extractors...))
}

// NewFromConfig builds a logger from cfg. The explicit level and format in cfg
// override the environment defaults; opts are applied last.
func NewFromConfig(cfg Config, opts ...Option) (*slog.Logger, error) {
	base := []Option{WithEnvironment(cfg.Env, cfg.Service)}

	if cfg.Level != "" {
		var lvl slog.Level
		if err := lvl.UnmarshalText([]byte(cfg.Level)); err != nil {
			return nil, fmt.Errorf("invalid LOG_LEVEL %q: %w", cfg.Level, err)
		}
		base = append(base, WithLevel(lvl))
	}

	if cfg.Format != "" {
		f := Format(strings.ToLower(cfg.Format))
		if f != FormatJSON && f != FormatText {
			return nil, fmt.Errorf("invalid LOG_FORMAT %q", cfg.Format)
		}
		base = append(base, WithFormat(f))
	}

	return New(append(base, opts...)...), nil
}

func SetAsDefault(l *slog.Logger) {
	slog.SetDefault(l)
}
