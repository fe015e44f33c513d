package engine

import (
	"fmt"
	"strings"
)

// Encoding names the output escaping mode applied while rendering.
type Encoding string

const (
	// EncodingRaw writes variable values as-is.
	EncodingRaw Encoding = "raw"
	// EncodingHTML escapes variable values for HTML output.
	EncodingHTML Encoding = "html"
	// EncodingSanitize renders raw and then strips unsafe markup from the
	// complete output.
	EncodingSanitize Encoding = "sanitize"
)

// DefaultEncoding is used when no encoding is configured.
const DefaultEncoding = EncodingHTML

// Encodings lists the supported encodings in display order.
func Encodings() []Encoding {
	return []Encoding{EncodingHTML, EncodingRaw, EncodingSanitize}
}

// ParseEncoding converts user input into an Encoding. Matching is case
// insensitive and an empty value selects DefaultEncoding.
func ParseEncoding(raw string) (Encoding, error) {
	value := strings.ToLower(strings.TrimSpace(raw))
	if value == "" {
		return DefaultEncoding, nil
	}
	enc := Encoding(value)
	if !enc.Valid() {
		return "", fmt.Errorf("engine: unknown encoding %q", raw)
	}
	return enc, nil
}

// Valid reports whether e is a supported encoding. The zero value is valid and
// behaves as DefaultEncoding.
func (e Encoding) Valid() bool {
	switch e {
	case "", EncodingRaw, EncodingHTML, EncodingSanitize:
		return true
	default:
		return false
	}
}

// OrDefault returns e, or DefaultEncoding when e is empty.
func (e Encoding) OrDefault() Encoding {
	if e == "" {
		return DefaultEncoding
	}
	return e
}

func (e Encoding) String() string {
	return string(e.OrDefault())
}
