package decode

import "strings"

// Line-oriented scanning helpers shared by Classify and the multipart
// decoder. Lines end at '\n'; a trailing '\r' belongs to the terminator.

// findBoundary returns the first boundary line ("--" followed by a
// non-blank token) that is preceded by a line terminator or the start
// of text and followed by a line terminator. The returned string is the
// line content without its terminator.
func findBoundary(text string) (string, bool) {
	for start := 0; start < len(text); {
		end := strings.IndexByte(text[start:], '\n')
		if end < 0 {
			// The last line has no terminator.
			return "", false
		}
		line := strings.TrimSuffix(text[start:start+end], "\r")
		if isBoundaryLine(line) {
			return line, true
		}
		start += end + 1
	}
	return "", false
}

func isBoundaryLine(line string) bool {
	if !strings.HasPrefix(line, "--") {
		return false
	}
	return strings.TrimSpace(line[2:]) != ""
}

// hasHexEscape reports whether text contains "=XX" with two hex digits.
func hasHexEscape(text string) bool {
	for i := 0; i+2 < len(text); i++ {
		if text[i] == '=' && isHex(text[i+1]) && isHex(text[i+2]) {
			return true
		}
	}
	return false
}

func isHex(c byte) bool {
	switch {
	case c >= '0' && c <= '9':
		return true
	case c >= 'a' && c <= 'f':
		return true
	case c >= 'A' && c <= 'F':
		return true
	}
	return false
}

func unhex(c byte) byte {
	switch {
	case c >= '0' && c <= '9':
		return c - '0'
	case c >= 'a' && c <= 'f':
		return c - 'a' + 10
	default:
		return c - 'A' + 10
	}
}

func isBase64Char(c byte) bool {
	switch {
	case c >= 'A' && c <= 'Z':
		return true
	case c >= 'a' && c <= 'z':
		return true
	case c >= '0' && c <= '9':
		return true
	}
	return c == '+' || c == '/'
}

// isBase64Line reports whether line is a whole number of 4-character
// base64 groups, with at most two '=' padding characters at the end.
func isBase64Line(line string) bool {
	if len(line)%4 != 0 {
		return false
	}
	body := strings.TrimRight(line, "=")
	if len(line)-len(body) > 2 {
		return false
	}
	for i := 0; i < len(body); i++ {
		if !isBase64Char(body[i]) {
			return false
		}
	}
	return true
}

// cutLine removes the first line of text that contains marker, from
// the marker up to and including its line terminator.
func cutLine(text, marker string) string {
	i := strings.Index(text, marker)
	if i < 0 {
		return text
	}
	end := strings.IndexByte(text[i:], '\n')
	if end < 0 {
		return text[:i]
	}
	return text[:i] + text[i+end+1:]
}

// headerToken returns the token following marker, skipping whitespace.
// Tokens are made of letters, digits and '-'.
func headerToken(text, marker string) string {
	i := strings.Index(text, marker)
	if i < 0 {
		return ""
	}
	rest := strings.TrimLeft(text[i+len(marker):], " \t\r\n")
	n := 0
	for n < len(rest) && isTokenChar(rest[n]) {
		n++
	}
	return rest[:n]
}

func isTokenChar(c byte) bool {
	return c == '-' || (isBase64Char(c) && c != '+' && c != '/')
}
