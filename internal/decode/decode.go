package decode

import (
	"encoding/base64"
	"strings"

	"golang.org/x/text/encoding/unicode"

	"github.com/nhle/mailback/internal/entity"
)

// DefaultMaxDepth bounds multipart recursion when a Decoder does not
// set its own limit.
const DefaultMaxDepth = 20

// Decoder decodes body text according to an encoding Label. The zero
// value is ready to use.
type Decoder struct {
	// MaxDepth is the deepest multipart nesting that is still decoded.
	// Parts below it are returned as plain text. Zero means
	// DefaultMaxDepth.
	MaxDepth int

	// KeepEntities disables named character reference substitution.
	// Callers that hand the result to a markup parser set it, since the
	// parser resolves references itself.
	KeepEntities bool
}

var defaultDecoder Decoder

// Decode decodes text with the default Decoder.
func Decode(text string, label Label) string {
	return defaultDecoder.Decode(text, label)
}

// DecodeAuto classifies text and decodes it with the default Decoder.
func DecodeAuto(text string) string {
	return defaultDecoder.Decode(text, Classify(text))
}

// Decode returns the decoded form of text. Unknown labels pass text
// through unchanged. After decoding, the recognised named references
// from package entity are substituted unless KeepEntities is set.
func (d Decoder) Decode(text string, label Label) string {
	switch label {
	case Plain, Base64, QuotedPrintable, Multipart:
	default:
		return text
	}

	out := d.decode(text, label, 0)
	if d.KeepEntities {
		return out
	}
	return entity.Replace(out)
}

func (d Decoder) maxDepth() int {
	if d.MaxDepth > 0 {
		return d.MaxDepth
	}
	return DefaultMaxDepth
}

func (d Decoder) decode(text string, label Label, depth int) string {
	switch label {
	case Plain:
		return toUTF8(text)
	case Base64:
		return decodeBase64(text)
	case QuotedPrintable:
		return decodeQuotedPrintable(text)
	case Multipart:
		if depth >= d.maxDepth() {
			return toUTF8(text)
		}
		return d.decodeMultipart(text, depth)
	default:
		return text
	}
}

// decodeMultipart splits text at every occurrence of its first
// boundary line and decodes each part on its own. Parts missing either
// the Content-Type or the Content-Transfer-Encoding header are dropped.
// Text without a boundary line is decoded as quoted-printable.
func (d Decoder) decodeMultipart(text string, depth int) string {
	boundary, ok := findBoundary(text)
	if !ok {
		return decodeQuotedPrintable(text)
	}

	var b strings.Builder
	for _, part := range strings.Split(text, boundary) {
		if !strings.Contains(part, headerContentType) ||
			!strings.Contains(part, headerTransferEncoding) {
			continue
		}

		label := ParseLabel(headerToken(part, headerTransferEncoding))
		part = cutLine(part, headerContentType)
		part = cutLine(part, headerTransferEncoding)
		b.WriteString(d.decode(part, label, depth+1))
	}
	return b.String()
}

const (
	headerContentType      = "Content-Type:"
	headerTransferEncoding = "Content-Transfer-Encoding:"
)

// decodeBase64 drops line breaks and decodes what it can. Decoding stops
// at the first byte outside the alphabet; the bytes decoded before it
// are kept. Padding is optional.
func decodeBase64(text string) string {
	text = strings.NewReplacer("\r", "", "\n", "").Replace(text)
	text = strings.TrimRight(text, "=")

	buf := make([]byte, base64.RawStdEncoding.DecodedLen(len(text)))
	n, _ := base64.RawStdEncoding.Decode(buf, []byte(text))
	return toUTF8(string(buf[:n]))
}

// decodeQuotedPrintable removes soft line breaks, then every remaining
// line terminator, then replaces each "=XX" escape with its byte.
func decodeQuotedPrintable(text string) string {
	text = strings.NewReplacer("=\r\n", "", "=\n", "").Replace(text)
	text = strings.NewReplacer("\r", "", "\n", "").Replace(text)

	buf := make([]byte, 0, len(text))
	for i := 0; i < len(text); i++ {
		c := text[i]
		if c == '=' && i+2 < len(text) && isHex(text[i+1]) && isHex(text[i+2]) {
			buf = append(buf, unhex(text[i+1])<<4|unhex(text[i+2]))
			i += 2
			continue
		}
		buf = append(buf, c)
	}
	return toUTF8(string(buf))
}

// toUTF8 reinterprets raw bytes as UTF-8, replacing each invalid
// sequence with U+FFFD. Valid UTF-8 is returned unchanged.
func toUTF8(raw string) string {
	s, err := unicode.UTF8.NewDecoder().String(raw)
	if err != nil {
		return strings.ToValidUTF8(raw, "�")
	}
	return s
}
