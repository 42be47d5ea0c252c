package chunker

import "errors"

var (
	// ErrInvalidConfig indicates an option carried an unusable value.
	ErrInvalidConfig = errors.New("invalid chunker configuration")

	// ErrEncodingUnavailable indicates the tokenizer encoding could not
	// be loaded.
	ErrEncodingUnavailable = errors.New("tokenizer encoding unavailable")
)
