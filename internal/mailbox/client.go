// Package mailbox retrieves messages from an IMAP account and renders
// their bodies to display text.
package mailbox

import (
	"context"
	"crypto/tls"
	"fmt"

	"github.com/emersion/go-imap/v2"
	"github.com/emersion/go-imap/v2/imapclient"

	"github.com/nhle/mailback/internal/config"
	"github.com/nhle/mailback/internal/message"
)

const inbox = "INBOX"

// Client wraps go-imap v2 for one configured account.
type Client struct {
	name     string
	account  config.Account
	password string
	renderer message.Renderer
}

// NewClient creates a client for the named account. maxDepth bounds
// multipart recursion when bodies fall back to the raw decoder.
func NewClient(
	name string, account config.Account, password string, maxDepth int,
) *Client {
	return &Client{
		name:     name,
		account:  account,
		password: password,
		renderer: message.Renderer{MaxDepth: maxDepth},
	}
}

// Name returns the account name the client was created for.
func (c *Client) Name() string {
	return c.name
}

// Connect establishes a connection to the IMAP server, authenticates,
// and returns the connected client. The caller is responsible for
// calling Logout/Close on the returned client.
func (c *Client) Connect(ctx context.Context) (*imapclient.Client, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	addr := c.account.Addr()
	opts := &imapclient.Options{
		TLSConfig: &tls.Config{
			ServerName:         c.account.Host,
			InsecureSkipVerify: c.account.InsecureSkipVerify,
		},
	}

	var client *imapclient.Client
	var err error

	if c.account.TLS {
		client, err = imapclient.DialTLS(addr, opts)
	} else {
		client, err = imapclient.DialStartTLS(addr, opts)
	}
	if err != nil {
		return nil, fmt.Errorf("connecting to IMAP %s: %w", addr, err)
	}

	if err := client.Login(c.account.User, c.password).Wait(); err != nil {
		_ = client.Close()
		return nil, &AuthError{
			Account: c.name,
			Message: fmt.Sprintf(
				"authentication failed for %s: %v",
				c.account.User, err,
			),
		}
	}

	return client, nil
}

// Fetch connects, searches INBOX with opts, and returns the matching
// messages with rendered bodies. INBOX is opened read-only unless
// opts.MarkSeen is set.
func (c *Client) Fetch(ctx context.Context, opts FetchOptions) ([]Fetched, error) {
	criteria, err := BuildCriteria(opts.Criteria, opts.Since)
	if err != nil {
		return nil, err
	}

	client, err := c.Connect(ctx)
	if err != nil {
		return nil, err
	}
	defer func() { _ = client.Logout().Wait() }()

	selectOpts := &imap.SelectOptions{ReadOnly: !opts.MarkSeen}
	if _, err := client.Select(inbox, selectOpts).Wait(); err != nil {
		return nil, fmt.Errorf("selecting %s: %w", inbox, err)
	}

	searchData, err := client.UIDSearch(criteria, nil).Wait()
	if err != nil {
		return nil, fmt.Errorf("searching messages: %w", err)
	}

	uids := limitUIDs(searchData.AllUIDs(), opts.Number, opts.Newest)
	if len(uids) == 0 {
		return nil, nil
	}

	uidSet := imap.UIDSetNum(uids...)
	bodySection := &imap.FetchItemBodySection{Peek: true}
	fetchOpts := &imap.FetchOptions{
		Envelope:    true,
		Flags:       true,
		UID:         true,
		BodySection: []*imap.FetchItemBodySection{bodySection},
	}

	fetchCmd := client.Fetch(uidSet, fetchOpts)
	defer fetchCmd.Close()

	var fetched []Fetched
	for {
		msg := fetchCmd.Next()
		if msg == nil {
			break
		}

		buf, err := msg.Collect()
		if err != nil {
			continue
		}

		f := Fetched{Envelope: envelopeFromBuffer(buf)}
		if raw := buf.FindBodySection(bodySection); raw != nil {
			f.Message, _ = c.renderer.Parse(raw)
		}
		fetched = append(fetched, f)
	}

	if err := fetchCmd.Close(); err != nil {
		return fetched, fmt.Errorf("fetching messages: %w", err)
	}

	if opts.MarkSeen {
		storeCmd := client.Store(uidSet, &imap.StoreFlags{
			Op:     imap.StoreFlagsAdd,
			Silent: true,
			Flags:  []imap.Flag{imap.FlagSeen},
		}, nil)
		if err := storeCmd.Close(); err != nil {
			return fetched, fmt.Errorf("marking messages seen: %w", err)
		}
	}

	return fetched, nil
}

// envelopeFromBuffer extracts an Envelope from a FetchMessageBuffer.
func envelopeFromBuffer(buf *imapclient.FetchMessageBuffer) Envelope {
	env := Envelope{
		UID: uint32(buf.UID),
	}

	if buf.Envelope != nil {
		env.MessageID = buf.Envelope.MessageID
		env.Subject = buf.Envelope.Subject
		env.Date = buf.Envelope.Date

		if len(buf.Envelope.From) > 0 {
			from := buf.Envelope.From[0]
			if from.Name != "" {
				env.From = from.Name
			} else {
				env.From = from.Addr()
			}
		}

		for _, to := range buf.Envelope.To {
			env.To = append(env.To, to.Addr())
		}
	}

	for _, flag := range buf.Flags {
		env.Flags = append(env.Flags, string(flag))
	}

	return env
}
