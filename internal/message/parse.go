package message

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"strings"

	gomessage "github.com/emersion/go-message"
	_ "github.com/emersion/go-message/charset"
	"github.com/emersion/go-message/mail"
)

// Parse reads a full RFC 5322 message and extracts its headers, text
// and HTML bodies, and attachment metadata. Transfer encodings and
// charsets are handled by go-message.
//
// If raw is not a parseable message, Parse does not fail: the whole
// input is rendered with Text and returned as the text body. Parts in
// an unknown charset are kept with their bytes undecoded.
func Parse(raw []byte) (*Message, error) {
	return Renderer{}.Parse(raw)
}

// Parse is the package-level Parse using r for the fallback path.
func (r Renderer) Parse(raw []byte) (*Message, error) {
	mr, err := mail.CreateReader(bytes.NewReader(raw))
	if err != nil && !gomessage.IsUnknownCharset(err) {
		return &Message{TextBody: r.Text(string(raw))}, nil
	}
	defer mr.Close()

	msg := &Message{}
	readHeader(msg, mr.Header)

	for {
		part, err := mr.NextPart()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil && !gomessage.IsUnknownCharset(err) {
			if msg.TextBody == "" && msg.HTMLBody == "" {
				msg.TextBody = r.Text(string(raw))
			}
			break
		}

		switch h := part.Header.(type) {
		case *mail.InlineHeader:
			contentType, _, _ := h.ContentType()
			body, readErr := io.ReadAll(part.Body)
			if readErr != nil {
				continue
			}

			switch {
			case strings.HasPrefix(contentType, "text/html"):
				msg.HTMLBody += string(body)
			case strings.HasPrefix(contentType, "text/"), contentType == "":
				msg.TextBody += string(body)
			}

		case *mail.AttachmentHeader:
			filename, _ := h.Filename()
			contentType, _, _ := h.ContentType()

			n, readErr := io.Copy(io.Discard, part.Body)
			if readErr != nil {
				continue
			}

			msg.Attachments = append(msg.Attachments, Attachment{
				Filename: filename,
				Size:     n,
				MIMEType: contentType,
			})
		}
	}

	return msg, nil
}

func readHeader(msg *Message, h mail.Header) {
	msg.Subject, _ = h.Subject()
	msg.MessageID, _ = h.MessageID()
	msg.Date, _ = h.Date()

	if from, err := h.AddressList("From"); err == nil && len(from) > 0 {
		msg.From = formatAddress(from[0])
	}
	if to, err := h.AddressList("To"); err == nil {
		for _, a := range to {
			msg.To = append(msg.To, a.Address)
		}
	}
}

func formatAddress(a *mail.Address) string {
	if a.Name != "" {
		return fmt.Sprintf("%s <%s>", a.Name, a.Address)
	}
	return a.Address
}
