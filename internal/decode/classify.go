package decode

import "strings"

const (
	markerMIME            = "MIME"
	markerBase64          = "Encoding: base64"
	markerQuotedPrintable = "Encoding: quoted-printable"
)

// Classify returns the encoding label of text. Rules are tried in
// order and the first match wins; multipart comes first because the
// parts of a multipart body can themselves look like base64 or
// quoted-printable.
func Classify(text string) Label {
	if text == "" {
		return Plain
	}
	if isMultipart(text) {
		return Multipart
	}
	if isBase64(text) || strings.Contains(text, markerBase64) {
		return Base64
	}
	if hasHexEscape(text) || strings.Contains(text, markerQuotedPrintable) {
		return QuotedPrintable
	}
	return Plain
}

func isMultipart(text string) bool {
	if strings.Contains(text, markerMIME) {
		return true
	}
	_, ok := findBoundary(text)
	return ok
}

// isBase64 reports whether every non-empty line of text is made of
// base64 groups. Text with no non-empty line is not base64.
func isBase64(text string) bool {
	seen := false
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSuffix(line, "\r")
		if line == "" {
			continue
		}
		if !isBase64Line(line) {
			return false
		}
		seen = true
	}
	return seen
}
