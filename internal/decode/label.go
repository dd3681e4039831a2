// Package decode classifies and decodes the transfer encoding of raw
// mail body text. Every function in this package is total: malformed
// input degrades to a best-effort string, never to an error or a panic.
package decode

import "strings"

// Label identifies the transfer encoding of a body or body part.
type Label string

const (
	Multipart       Label = "multipart"
	Base64          Label = "base64"
	QuotedPrintable Label = "quoted-printable"
	Plain           Label = "plain"
)

// String implements fmt.Stringer.
func (l Label) String() string {
	return string(l)
}

// ParseLabel maps a Content-Transfer-Encoding token to a Label. Tokens
// that name no transformation (7bit, 8bit, binary) and unknown tokens
// map to Plain.
func ParseLabel(token string) Label {
	switch strings.ToLower(strings.TrimSpace(token)) {
	case "base64":
		return Base64
	case "quoted-printable":
		return QuotedPrintable
	case "multipart", "mime":
		return Multipart
	default:
		return Plain
	}
}
