package message

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func crlf(s string) []byte {
	return []byte(strings.ReplaceAll(s, "\n", "\r\n"))
}

func TestParsePlainMessage(t *testing.T) {
	raw := crlf(`From: Alice Example <alice@example.com>
To: bob@example.com, carol@example.com
Subject: Lunch
Date: Mon, 02 Jan 2006 15:04:05 +0000
Message-ID: <abc@example.com>
Content-Type: text/plain; charset=iso-8859-1
Content-Transfer-Encoding: quoted-printable

Caf=E9 at noon?
`)

	msg, err := Parse(raw)
	require.NoError(t, err)

	assert.Equal(t, "Lunch", msg.Subject)
	assert.Equal(t, "Alice Example <alice@example.com>", msg.From)
	assert.Equal(t, []string{"bob@example.com", "carol@example.com"}, msg.To)
	assert.Equal(t, "abc@example.com", msg.MessageID)
	assert.True(t, msg.Date.Equal(time.Date(2006, 1, 2, 15, 4, 5, 0, time.UTC)))
	assert.Equal(t, "Café at noon?", strings.TrimSpace(msg.Text()))
}

func TestParseMultipartAlternativeWithAttachment(t *testing.T) {
	raw := crlf(`From: news@example.com
Subject: Weekly
MIME-Version: 1.0
Content-Type: multipart/mixed; boundary="outer"

--outer
Content-Type: multipart/alternative; boundary="alt"

--alt
Content-Type: text/html; charset=utf-8

<p>Hello <b>World</b></p>
--alt--
--outer
Content-Type: application/pdf
Content-Disposition: attachment; filename="report.pdf"
Content-Transfer-Encoding: base64

JVBERi0xLjQK
--outer--
`)

	msg, err := Parse(raw)
	require.NoError(t, err)

	assert.Equal(t, "Weekly", msg.Subject)
	assert.Empty(t, msg.TextBody)
	assert.Contains(t, msg.HTMLBody, "<b>World</b>")
	assert.Equal(t, "HelloWorld", msg.Text())

	require.Len(t, msg.Attachments, 1)
	assert.Equal(t, "report.pdf", msg.Attachments[0].Filename)
	assert.Equal(t, "application/pdf", msg.Attachments[0].MIMEType)
	assert.Equal(t, int64(9), msg.Attachments[0].Size)
}

func TestParseFallsBackToBodyDecoding(t *testing.T) {
	msg, err := Parse([]byte("SGVsbG8sIFdvcmxkIQ==\n"))
	require.NoError(t, err)

	assert.Equal(t, "Hello, World!", msg.Text())
}

func TestParseKeepsMessageWithUnknownCharset(t *testing.T) {
	raw := crlf(`From: a@example.com
Subject: Hello
Content-Type: text/plain; charset=x-made-up

body text
`)

	msg, err := Parse(raw)
	require.NoError(t, err)

	assert.Equal(t, "Hello", msg.Subject)
	assert.Equal(t, "a@example.com", msg.From)
	assert.Equal(t, "body text", strings.TrimSpace(msg.Text()))
	assert.NotContains(t, msg.Text(), "Subject:")
}

func TestParseKeepsPartWithUnknownCharset(t *testing.T) {
	raw := crlf(`From: a@example.com
Subject: Parts
MIME-Version: 1.0
Content-Type: multipart/mixed; boundary="b"

--b
Content-Type: text/plain; charset=x-made-up

first
--b
Content-Type: text/plain; charset=utf-8

second
--b--
`)

	msg, err := Parse(raw)
	require.NoError(t, err)

	assert.Equal(t, "Parts", msg.Subject)
	assert.Contains(t, msg.TextBody, "first")
	assert.Contains(t, msg.TextBody, "second")
}
