package main

import (
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/go-kit/log/level"
	"github.com/spf13/cobra"

	"github.com/nhle/mailback/internal/config"
	"github.com/nhle/mailback/internal/credential"
	"github.com/nhle/mailback/internal/mailbox"
	"github.com/nhle/mailback/internal/store"
	"github.com/nhle/mailback/internal/theme"
	"github.com/nhle/mailback/internal/watch"
)

// fetchFlags holds the per-invocation overrides of config.FetchConfig.
type fetchFlags struct {
	mark     bool
	criteria string
	number   int
	since    string
}

func (f *fetchFlags) register(cmd *cobra.Command) {
	cmd.Flags().BoolVarP(&f.mark, "mark", "m", false, "mark fetched messages as seen")
	cmd.Flags().StringVarP(&f.criteria, "type", "t", "", "search keyword: "+strings.Join(mailbox.Keywords, ", "))
	cmd.Flags().IntVarP(&f.number, "number", "n", 0, "maximum number of messages to fetch")
	cmd.Flags().StringVarP(&f.since, "since", "s", "", "only messages since this date (YYYY-MM-DD)")
}

// options merges the flags over the configured defaults.
func (f *fetchFlags) options(cfg config.FetchConfig) (mailbox.FetchOptions, error) {
	if f.criteria != "" {
		cfg.Criteria = f.criteria
	}
	if f.number != 0 {
		cfg.Number = f.number
	}
	if f.since != "" {
		cfg.Since = f.since
	}
	since, err := cfg.SinceTime()
	if err != nil {
		return mailbox.FetchOptions{}, err
	}

	return mailbox.FetchOptions{
		Criteria: cfg.Criteria,
		Number:   cfg.Number,
		Since:    since,
		MarkSeen: cfg.MarkSeen || f.mark,
	}, nil
}

// watchOptions builds the options of a watch loop. Unlike a one-shot
// fetch it looks at every message since start, takes the newest matches
// when a number is given, and marks what it fetched as seen.
func (f *fetchFlags) watchOptions(start time.Time) (mailbox.FetchOptions, error) {
	opts := mailbox.FetchOptions{
		Criteria: "ALL",
		Number:   f.number,
		Since:    start,
		MarkSeen: true,
		Newest:   true,
	}
	if f.criteria != "" {
		opts.Criteria = f.criteria
	}
	if f.since != "" {
		since, err := config.FetchConfig{Since: f.since}.SinceTime()
		if err != nil {
			return mailbox.FetchOptions{}, err
		}
		opts.Since = since
	}
	return opts, nil
}

// client builds an IMAP client for the named account, loading the
// password from the system keyring.
func (a *app) client(name string) (*mailbox.Client, error) {
	name = strings.ToLower(name)
	acc, ok := a.cfg.Account(name)
	if !ok {
		return nil, fmt.Errorf("the platform %q does not exist", name)
	}

	password, err := credential.NewVault().Password(name)
	if err != nil {
		return nil, err
	}

	return mailbox.NewClient(name, acc, password, a.cfg.Decode.MaxDepth), nil
}

func newFetchCmd(a *app) *cobra.Command {
	flags := &fetchFlags{}

	cmd := &cobra.Command{
		Use:   "fetch <platform>",
		Short: "Fetch messages once and print them",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := flags.options(a.cfg.Fetch)
			if err != nil {
				return err
			}
			c, err := a.client(args[0])
			if err != nil {
				return err
			}

			level.Info(a.logger).Log("msg", "connecting to IMAP server", "account", c.Name())
			fetched, err := c.Fetch(cmd.Context(), opts)
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			if len(fetched) == 0 {
				fmt.Fprintf(w, "No %s emails\n", strings.ToLower(opts.Criteria))
				return nil
			}
			for _, f := range fetched {
				fmt.Fprint(w, theme.RenderMessage(
					f.Envelope.UID, f.Envelope.Subject, f.Envelope.From,
					formatDate(f.Envelope.Date), f.Text(),
				))
			}
			return nil
		},
	}
	flags.register(cmd)

	return cmd
}

func newWatchCmd(a *app) *cobra.Command {
	flags := &fetchFlags{}
	var interval int

	cmd := &cobra.Command{
		Use:   "watch <platform>",
		Short: "Poll an account and print new messages as they arrive",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Flags().Changed("interval") {
				a.cfg.Watch.IntervalMin = interval
			}
			if a.cfg.Watch.IntervalMin == config.WatchDisabled {
				fmt.Fprintln(cmd.OutOrStdout(), "Email notification stopped")
				return nil
			}

			opts, err := flags.watchOptions(time.Now())
			if err != nil {
				return err
			}
			c, err := a.client(args[0])
			if err != nil {
				return err
			}

			s, err := store.NewSQLiteStore(a.cfg.DBPath)
			if err != nil {
				return err
			}
			defer s.Close()

			w := cmd.OutOrStdout()
			p := watch.New(s, func(n watch.Notification) {
				fmt.Fprint(w, theme.RenderMessage(n.UID, n.Subject, n.From, formatDate(n.Date), n.Text))
			}, a.logger)
			p.Register(c.Name(), c, opts, a.cfg.Watch.Interval())

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			level.Info(a.logger).Log("msg", "watching", "account", c.Name(), "interval", a.cfg.Watch.Interval())
			p.Start()
			<-ctx.Done()
			p.Stop()
			return nil
		},
	}
	flags.register(cmd)
	cmd.Flags().IntVarP(&interval, "interval", "i", 0, "polling interval in minutes (-1 disables)")

	return cmd
}

func formatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format("Mon, 02 Jan 2006 15:04")
}

