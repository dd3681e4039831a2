// Package watch polls mail accounts on a timer and announces messages
// that have not been delivered before.
package watch

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/go-kit/log"
	"github.com/go-kit/log/level"

	"github.com/nhle/mailback/internal/mailbox"
	"github.com/nhle/mailback/internal/store"
)

// State represents the current state of an account poll.
type State int

const (
	Idle State = iota
	Running
	Error
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Running:
		return "running"
	case Error:
		return "error"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// Status holds the poll state for a single account.
type Status struct {
	Account  string
	State    State
	LastSync time.Time
	Error    error
}

// Notification is one newly seen message, ready for display.
type Notification struct {
	Account string
	UID     uint32
	Subject string
	From    string
	Date    time.Time
	Text    string
}

// Fetcher retrieves messages for one account. *mailbox.Client
// implements it.
type Fetcher interface {
	Fetch(ctx context.Context, opts mailbox.FetchOptions) ([]mailbox.Fetched, error)
}

// Notifier receives new messages. It is called from the polling
// goroutine of the account the message belongs to.
type Notifier func(Notification)

// fetchTimeout is the maximum time allowed for a single fetch round.
const fetchTimeout = 60 * time.Second

// accountEntry holds a registered account and its polling settings.
type accountEntry struct {
	name     string
	fetcher  Fetcher
	opts     mailbox.FetchOptions
	interval time.Duration
	trigger  chan struct{}
}

// Poller orchestrates background polling of registered accounts.
type Poller struct {
	store    store.Store
	notify   Notifier
	logger   log.Logger
	accounts []*accountEntry
	statuses map[string]*Status
	stopCh   chan struct{}
	wg       sync.WaitGroup
	mu       sync.Mutex
	running  bool
}

// New creates a Poller that records deliveries in s and hands new
// messages to notify.
func New(s store.Store, notify Notifier, logger log.Logger) *Poller {
	if logger == nil {
		logger = log.NewNopLogger()
	}
	return &Poller{
		store:    s,
		notify:   notify,
		logger:   logger,
		statuses: make(map[string]*Status),
	}
}

// Register adds an account to the poller. An interval of zero or less
// registers the account without a timer: it is polled once at Start
// and then only on Trigger.
func (p *Poller) Register(
	name string, f Fetcher, opts mailbox.FetchOptions, interval time.Duration,
) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.accounts = append(p.accounts, &accountEntry{
		name:     name,
		fetcher:  f,
		opts:     opts,
		interval: interval,
		trigger:  make(chan struct{}, 1),
	})
	p.statuses[name] = &Status{Account: name, State: Idle}
}

// Start launches one polling goroutine per registered account. Calling
// Start on a running poller does nothing; a stopped poller can be
// started again.
func (p *Poller) Start() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.running {
		return
	}
	p.running = true
	p.stopCh = make(chan struct{})

	for _, entry := range p.accounts {
		p.wg.Add(1)
		go p.pollAccount(entry, p.stopCh)
	}
}

// Stop halts all polling goroutines and waits for them to return.
func (p *Poller) Stop() {
	p.mu.Lock()
	if !p.running {
		p.mu.Unlock()
		return
	}
	close(p.stopCh)
	p.running = false
	p.mu.Unlock()

	p.wg.Wait()
}

// Trigger requests an immediate poll of the named account. It reports
// whether the account is registered.
func (p *Poller) Trigger(name string) bool {
	p.mu.Lock()
	defer p.mu.Unlock()

	for _, entry := range p.accounts {
		if entry.name != name {
			continue
		}
		select {
		case entry.trigger <- struct{}{}:
		default:
			// A poll is already pending.
		}
		return true
	}
	return false
}

// Statuses returns the current poll status of all registered accounts.
func (p *Poller) Statuses() []Status {
	p.mu.Lock()
	defer p.mu.Unlock()

	statuses := make([]Status, 0, len(p.accounts))
	for _, entry := range p.accounts {
		statuses = append(statuses, *p.statuses[entry.name])
	}
	return statuses
}

// pollAccount runs the polling loop for a single account.
func (p *Poller) pollAccount(entry *accountEntry, stop <-chan struct{}) {
	defer p.wg.Done()

	var tick <-chan time.Time
	if entry.interval > 0 {
		ticker := time.NewTicker(entry.interval)
		defer ticker.Stop()
		tick = ticker.C
	}

	// Do an initial fetch immediately
	p.poll(entry)

	for {
		select {
		case <-stop:
			return
		case <-tick:
			p.poll(entry)
		case <-entry.trigger:
			p.poll(entry)
		}
	}
}

// poll performs one fetch round for entry: messages already in the
// delivery log are skipped, the rest are recorded and announced.
func (p *Poller) poll(entry *accountEntry) {
	logger := log.With(p.logger, "account", entry.name)
	p.setStatus(entry.name, Running, nil)

	ctx, cancel := context.WithTimeout(context.Background(), fetchTimeout)
	defer cancel()

	fetched, err := entry.fetcher.Fetch(ctx, entry.opts)
	if err != nil {
		p.setStatus(entry.name, Error, err)
		if mailbox.IsAuthError(err) {
			level.Error(logger).Log("msg", "authentication failed", "err", err)
		} else {
			level.Warn(logger).Log("msg", "fetch failed", "err", err)
		}
		return
	}

	announced := 0
	for _, f := range fetched {
		uid := f.Envelope.UID
		seen, err := p.store.IsDelivered(ctx, entry.name, uid)
		if err != nil {
			level.Warn(logger).Log("msg", "checking delivery log", "uid", uid, "err", err)
			continue
		}
		if seen {
			continue
		}

		err = p.store.MarkDelivered(ctx, store.Delivery{
			Account:   entry.name,
			UID:       uid,
			MessageID: f.Envelope.MessageID,
			Subject:   f.Envelope.Subject,
		})
		if err != nil {
			level.Warn(logger).Log("msg", "recording delivery", "uid", uid, "err", err)
			continue
		}

		if p.notify != nil {
			p.notify(Notification{
				Account: entry.name,
				UID:     uid,
				Subject: f.Envelope.Subject,
				From:    f.Envelope.From,
				Date:    f.Envelope.Date,
				Text:    f.Text(),
			})
		}
		announced++
	}

	level.Debug(logger).Log("msg", "poll complete", "fetched", len(fetched), "new", announced)
	p.setStatus(entry.name, Idle, nil)
}

// setStatus updates the poll status for an account.
func (p *Poller) setStatus(name string, state State, err error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	status, ok := p.statuses[name]
	if !ok {
		return
	}

	status.State = state
	status.Error = err
	if state == Idle && err == nil {
		status.LastSync = time.Now()
	}
}
