package mailbox

import (
	"time"

	"github.com/nhle/mailback/internal/message"
)

// Envelope holds the parsed envelope data from an IMAP message.
type Envelope struct {
	MessageID string
	Subject   string
	From      string
	To        []string
	Date      time.Time
	Flags     []string // \Seen, \Flagged, \Answered, \Deleted
	UID       uint32
}

// Fetched is one retrieved message with its rendered body.
type Fetched struct {
	Envelope Envelope
	Message  *message.Message
}

// Text returns the display text of the message body.
func (f Fetched) Text() string {
	if f.Message == nil {
		return ""
	}
	return f.Message.Text()
}

// FetchOptions controls which messages Fetch retrieves.
type FetchOptions struct {
	// Criteria is a search keyword from Keywords; empty means UNSEEN.
	Criteria string

	// Number caps how many matches are fetched; below 1 means all.
	Number int

	// Newest keeps the last Number matches instead of the first.
	Newest bool

	// Since restricts the search to messages on or after this date.
	Since time.Time

	// MarkSeen sets \Seen on every fetched message.
	MarkSeen bool
}
