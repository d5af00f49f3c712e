package i18n

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"path"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed translations/*.yaml
var defaultTranslations embed.FS

// Source loads translations keyed by language code.
type Source interface {
	Load(ctx context.Context) (map[string]map[string]any, error)
}

// MapSource serves translations from memory.
type MapSource map[string]map[string]any

func (s MapSource) Load(context.Context) (map[string]map[string]any, error) {
	return s, nil
}

// FSSource reads every .yaml/.yml file in Dir of FS. Each file holds one or
// more top-level language keys; files for the same language are merged.
type FSSource struct {
	FS  fs.FS
	Dir string
}

// DefaultSource serves the translations bundled with the package.
func DefaultSource() FSSource {
	return FSSource{FS: defaultTranslations, Dir: "translations"}
}

func (s FSSource) Load(ctx context.Context) (map[string]map[string]any, error) {
	entries, err := fs.ReadDir(s.FS, s.Dir)
	if err != nil {
		return nil, errors.Join(ErrFailedToReadFile, err)
	}

	out := make(map[string]map[string]any)
	for _, e := range entries {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		ext := strings.ToLower(path.Ext(e.Name()))
		if e.IsDir() || (ext != ".yaml" && ext != ".yml") {
			continue
		}

		data, err := fs.ReadFile(s.FS, path.Join(s.Dir, e.Name()))
		if err != nil {
			return nil, errors.Join(ErrFailedToReadFile, err)
		}
		parsed, err := parseYAML(data)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", e.Name(), err)
		}
		for lang, tr := range parsed {
			if out[lang] == nil {
				out[lang] = make(map[string]any)
			}
			merge(out[lang], tr)
		}
	}
	return out, nil
}

func parseYAML(data []byte) (map[string]map[string]any, error) {
	var raw map[string]any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, errors.Join(ErrFailedToParseYAML, err)
	}

	out := make(map[string]map[string]any, len(raw))
	for lang, v := range raw {
		tr, ok := v.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("%w: language %q: expected map, got %T", ErrFailedToParseYAML, lang, v)
		}
		out[lang] = tr
	}
	return out, nil
}

// merge copies src into dst, descending into nested maps.
func merge(dst, src map[string]any) {
	for k, v := range src {
		sv, srcMap := v.(map[string]any)
		dv, dstMap := dst[k].(map[string]any)
		if srcMap && dstMap {
			merge(dv, sv)
			continue
		}
		dst[k] = v
	}
}
