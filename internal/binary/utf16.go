package binary

import (
	"golang.org/x/text/encoding/unicode"
)

// DecodeUTF16 decodes UTF-16 little-endian bytes to a UTF-8 string.
// A byte order mark, if present, is honored and stripped.
func DecodeUTF16(b []byte) (string, error) {
	dec := unicode.UTF16(unicode.LittleEndian, unicode.UseBOM).NewDecoder()
	out, err := dec.Bytes(b)
	if err != nil {
		return "", err
	}
	return string(out), nil
}

// EncodeUTF16 encodes a UTF-8 string as UTF-16 little-endian bytes without
// a byte order mark. Used by tests to synthesize containers.
func EncodeUTF16(s string) ([]byte, error) {
	enc := unicode.UTF16(unicode.LittleEndian, unicode.IgnoreBOM).NewEncoder()
	return enc.Bytes([]byte(s))
}
