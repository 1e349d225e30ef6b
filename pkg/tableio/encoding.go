package tableio

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/saintfish/chardet"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/htmlindex"
	"golang.org/x/text/encoding/unicode"
)

// EncodingAuto asks the loader to detect the primary encoding from the bytes.
const EncodingAuto = "auto"

// textEncoding is a resolved encoding label.
type textEncoding struct {
	name string
	enc  encoding.Encoding
	utf8 bool
}

// latin1Labels name true ISO-8859-1. The WHATWG index maps these labels to
// windows-1252, which leaves 0x80-0x9F as printable characters.
var latin1Labels = map[string]bool{
	"iso-8859-1": true,
	"iso8859-1":  true,
	"iso_8859-1": true,
	"latin1":     true,
	"latin-1":    true,
	"l1":         true,
}

// lookupEncoding resolves a WHATWG label to an encoding.
func lookupEncoding(label string) (textEncoding, error) {
	key := strings.ToLower(strings.TrimSpace(label))
	if latin1Labels[key] {
		return textEncoding{name: "iso-8859-1", enc: charmap.ISO8859_1}, nil
	}

	enc, err := htmlindex.Get(key)
	if err != nil {
		return textEncoding{}, fmt.Errorf("%w: %q", ErrUnknownEncoding, label)
	}
	name, err := htmlindex.Name(enc)
	if err != nil {
		name = key
	}
	return textEncoding{name: name, enc: enc, utf8: name == "utf-8"}, nil
}

// detectEncoding guesses the charset of data. Undetectable input is read as UTF-8.
func detectEncoding(data []byte) textEncoding {
	fallback := textEncoding{name: "utf-8", enc: unicode.UTF8, utf8: true}

	result, err := chardet.NewTextDetector().DetectBest(data)
	if err != nil || result == nil {
		return fallback
	}
	te, err := lookupEncoding(result.Charset)
	if err != nil {
		return fallback
	}
	return te
}

// decode converts data to UTF-8 text. UTF-8 decoding fails on invalid byte
// sequences instead of substituting replacement characters; a leading byte
// order mark is dropped.
func (te textEncoding) decode(data []byte) (string, error) {
	if te.utf8 {
		if !utf8.Valid(data) {
			return "", fmt.Errorf("invalid %s byte sequence", te.name)
		}
		out, err := unicode.UTF8BOM.NewDecoder().Bytes(data)
		if err != nil {
			return "", err
		}
		return string(out), nil
	}

	out, err := te.enc.NewDecoder().Bytes(data)
	if err != nil {
		return "", fmt.Errorf("%s: %w", te.name, err)
	}
	return string(out), nil
}

// ValidateEncoding reports whether label names a supported encoding.
// "auto" is accepted only when allowAuto is set.
func ValidateEncoding(label string, allowAuto bool) error {
	if allowAuto && strings.EqualFold(strings.TrimSpace(label), EncodingAuto) {
		return nil
	}
	_, err := lookupEncoding(label)
	return err
}
