// Package encoding decodes scene files exported from BIM hosts that still
// write legacy code pages into UTF-8.
package encoding

import (
	"bytes"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/htmlindex"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// ErrUnknownCharset is returned for charset labels that are not in the
// WHATWG encoding index.
var ErrUnknownCharset = errors.New("unknown charset")

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// Lookup resolves a charset label ("utf-8", "windows-1252", "shift_jis",
// "euc-kr", ...). An empty label means UTF-8.
func Lookup(label string) (encoding.Encoding, error) {
	label = strings.TrimSpace(label)
	if label == "" {
		return unicode.UTF8, nil
	}
	enc, err := htmlindex.Get(label)
	if err != nil {
		return nil, fmt.Errorf("%w: %q", ErrUnknownCharset, label)
	}
	return enc, nil
}

// ToUTF8 converts data in the named charset to UTF-8. A leading byte order
// mark overrides the label, so UTF-16 files saved by Windows tools decode
// regardless of configuration.
func ToUTF8(data []byte, label string) ([]byte, error) {
	enc, err := Lookup(label)
	if err != nil {
		return nil, err
	}

	decoder := unicode.BOMOverride(enc.NewDecoder())
	result, _, err := transform.Bytes(decoder, data)
	if err != nil {
		return nil, fmt.Errorf("decoding %s: %w", label, err)
	}
	// Strip any UTF-8 BOM the decoder passed through.
	return bytes.TrimPrefix(result, utf8BOM), nil
}

// FromUTF8 converts a UTF-8 string to the named charset.
// Returns the original bytes if conversion fails.
func FromUTF8(s string, label string) []byte {
	enc, err := Lookup(label)
	if err != nil {
		return []byte(s)
	}
	result, _, err := transform.Bytes(enc.NewEncoder(), []byte(s))
	if err != nil {
		return []byte(s)
	}
	return result
}
