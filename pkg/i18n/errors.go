package i18n

import "errors"

var (
	ErrNoTranslations    = errors.New("i18n.no_translations")
	ErrInvalidLanguage   = errors.New("i18n.invalid_language")
	ErrFailedToParseYAML = errors.New("i18n.failed_to_parse_yaml")
	ErrFailedToReadFile  = errors.New("i18n.failed_to_read_file")
)
