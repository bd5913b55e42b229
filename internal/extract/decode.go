package extract

import (
	"fmt"

	"golang.org/x/text/encoding/charmap"
	xunicode "golang.org/x/text/encoding/unicode"

	"github.com/joseph-ayodele/qc-pdfreader/constants"
)

// DecodeDocument turns the document bytes into text. UTF-8 decoding replaces
// invalid sequences with U+FFFD, so binary PDF streams never fail to decode.
func DecodeDocument(b []byte, encoding string) (string, error) {
	switch encoding {
	case "", constants.EncodingUTF8:
		out, err := xunicode.UTF8.NewDecoder().Bytes(b)
		if err != nil {
			return "", fmt.Errorf("decode utf-8: %w", err)
		}
		return string(out), nil
	case constants.EncodingLatin1:
		out, err := charmap.ISO8859_1.NewDecoder().Bytes(b)
		if err != nil {
			return "", fmt.Errorf("decode latin1: %w", err)
		}
		return string(out), nil
	default:
		return "", fmt.Errorf("unsupported document encoding %q", encoding)
	}
}
