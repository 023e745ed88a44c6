// Package codec decodes SQL file bytes into text.
package codec

import (
	"bytes"
	"fmt"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding/htmlindex"

	"github.com/custodia-labs/sqlcommenter/internal/core/domain"
	"github.com/custodia-labs/sqlcommenter/internal/core/ports/driven"
)

// EncodingUTF8 names the primary encoding.
const EncodingUTF8 = "utf-8"

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// aliases maps Python-style code page names onto WHATWG labels.
var aliases = map[string]string{
	"cp1250": "windows-1250",
	"cp1251": "windows-1251",
	"cp1252": "windows-1252",
	"latin2": "iso-8859-2",
}

// Ensure Decoder implements the interface.
var _ driven.TextDecoder = (*Decoder)(nil)

// Decoder tries strict UTF-8 first and a named legacy code page second.
type Decoder struct{}

// NewDecoder creates a decoder.
func NewDecoder() *Decoder {
	return &Decoder{}
}

// Decode returns data as text. A leading UTF-8 byte order mark is dropped.
func (d *Decoder) Decode(data []byte, fallback string) (string, string, error) {
	if utf8.Valid(data) {
		return string(bytes.TrimPrefix(data, utf8BOM)), EncodingUTF8, nil
	}
	if fallback == "" {
		return "", "", fmt.Errorf("%w: not valid %s", domain.ErrDecode, EncodingUTF8)
	}

	label := strings.ToLower(fallback)
	if alias, ok := aliases[label]; ok {
		label = alias
	}
	enc, err := htmlindex.Get(label)
	if err != nil {
		return "", "", fmt.Errorf("%w: unknown fallback encoding %q", domain.ErrDecode, fallback)
	}

	text, err := enc.NewDecoder().Bytes(data)
	if err != nil {
		return "", "", fmt.Errorf("%w: %s: %w", domain.ErrDecode, label, err)
	}
	return string(text), label, nil
}
