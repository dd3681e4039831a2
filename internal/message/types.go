package message

import "time"

// Message holds the renderable content of one RFC 5322 message.
type Message struct {
	MessageID   string
	Subject     string
	From        string
	To          []string
	Date        time.Time
	TextBody    string
	HTMLBody    string
	Attachments []Attachment
}

// Attachment holds metadata about a message attachment.
type Attachment struct {
	Filename string
	Size     int64
	MIMEType string
}

// Text returns the text to show for m: the plain-text body when there
// is one, otherwise the flattened HTML body.
func (m *Message) Text() string {
	if m.TextBody != "" {
		return m.TextBody
	}
	if m.HTMLBody != "" {
		return flatten(m.HTMLBody)
	}
	return ""
}
