// Package message turns raw mail bodies into display text, combining
// the transfer-encoding decoder with HTML flattening.
package message

import (
	"strings"

	"github.com/nhle/mailback/internal/contenttree"
	"github.com/nhle/mailback/internal/decode"
	"github.com/nhle/mailback/internal/entity"
)

// Renderer converts raw body text to display text. The zero value uses
// the decoder's default recursion limit.
type Renderer struct {
	MaxDepth int
}

// Text renders raw with the zero Renderer.
func Text(raw string) string {
	return Renderer{}.Text(raw)
}

// Text classifies and decodes raw. If the decoded text is HTML it is
// flattened with contenttree; otherwise named references are replaced
// and the text is returned as is.
func (r Renderer) Text(raw string) string {
	d := decode.Decoder{MaxDepth: r.MaxDepth, KeepEntities: true}
	decoded := d.Decode(raw, decode.Classify(raw))

	if LooksLikeMarkup(decoded) {
		return flatten(decoded)
	}
	return entity.Replace(decoded)
}

var markupHints = []string{
	"<html", "<body", "<div", "<p>", "<p ", "<br", "<table", "<span",
}

// LooksLikeMarkup reports whether s appears to be an HTML document or
// fragment.
func LooksLikeMarkup(s string) bool {
	lower := strings.ToLower(s)
	for _, hint := range markupHints {
		if strings.Contains(lower, hint) {
			return true
		}
	}
	return false
}

// flatten returns the content tree text of an HTML string. If the
// document cannot be parsed the string is returned with references
// replaced.
func flatten(s string) string {
	root, err := contenttree.ParseString(s)
	if err != nil {
		return entity.Replace(s)
	}
	return root.Content()
}
