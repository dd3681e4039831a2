// Package entity holds the fixed table of named character references
// recognised in decoded mail text.
package entity

import (
	"sort"
	"strings"
)

// table is populated once at package initialisation and never written
// afterwards, so concurrent readers need no locking.
var table = map[string]string{
	"nbsp":  " ",
	"quot":  `"`,
	"lt":    "<",
	"gt":    ">",
	"cent":  "¢",
	"pound": "£",
	"yen":   "¥",
	"euro":  "€",
	"copy":  "©",
	"reg":   "®",
	"amp":   "&",
	"apos":  "'",
}

// replacer substitutes every "&name;" reference from table in a single
// left-to-right pass, so "&amp;lt;" becomes "&lt;" and not "<".
var replacer = newReplacer()

func newReplacer() *strings.Replacer {
	pairs := make([]string, 0, len(table)*2)
	for _, name := range Names() {
		pairs = append(pairs, "&"+name+";", table[name])
	}
	return strings.NewReplacer(pairs...)
}

// Lookup returns the substitution for the entity name (without the
// leading '&' and trailing ';').
func Lookup(name string) (string, bool) {
	v, ok := table[name]
	return v, ok
}

// Names returns the recognised entity names in sorted order.
func Names() []string {
	names := make([]string, 0, len(table))
	for name := range table {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Replace substitutes every recognised named reference in s. Unknown
// names and numeric references are left verbatim.
func Replace(s string) string {
	if !strings.Contains(s, "&") {
		return s
	}
	return replacer.Replace(s)
}
