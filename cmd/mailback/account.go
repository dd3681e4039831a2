package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/nhle/mailback/internal/config"
	"github.com/nhle/mailback/internal/credential"
)

func newAccountCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "account",
		Short: "Manage IMAP accounts",
	}
	cmd.AddCommand(newAccountAddCmd(a), newAccountDeleteCmd(a), newAccountShowCmd(a))
	return cmd
}

func newAccountAddCmd(a *app) *cobra.Command {
	var (
		host     string
		port     int
		noTLS    bool
		insecure bool
	)

	cmd := &cobra.Command{
		Use:   "add <platform> <user> <password>",
		Short: "Add an email account",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := strings.ToLower(args[0])

			a.cfg.AddAccount(name, config.Account{
				Host:               host,
				Port:               port,
				User:               args[1],
				TLS:                !noTLS,
				InsecureSkipVerify: insecure,
			})
			acc, _ := a.cfg.Account(name)
			if acc.Host == "" {
				return fmt.Errorf("no known host for %q, pass --host", name)
			}

			if err := credential.NewVault().SetPassword(name, args[2]); err != nil {
				return err
			}
			if err := config.Save(a.configPath, a.cfg); err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), "Email account added successfully")
			return nil
		},
	}

	cmd.Flags().StringVarP(&host, "host", "H", "", "IMAP host")
	cmd.Flags().IntVarP(&port, "port", "p", 0, "IMAP port")
	cmd.Flags().BoolVar(&noTLS, "no-tls", false, "use STARTTLS instead of implicit TLS")
	cmd.Flags().BoolVarP(&insecure, "insecure", "r", false, "skip TLS certificate verification")

	return cmd
}

func newAccountDeleteCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <platform>",
		Short: "Delete an email account",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := strings.ToLower(args[0])
			if !a.cfg.RemoveAccount(name) {
				return fmt.Errorf("the platform %q does not exist", name)
			}
			if err := credential.NewVault().Forget(name); err != nil {
				return err
			}

			if err := config.Save(a.configPath, a.cfg); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Email account deleted successfully")
			return nil
		},
	}
}

func newAccountShowCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "List configured accounts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			w := cmd.OutOrStdout()
			for _, name := range a.cfg.AccountNames() {
				acc, _ := a.cfg.Account(name)
				fmt.Fprintf(w, "%-10s %-24s user=%s tls=%t\n", name, acc.Addr(), acc.User, acc.TLS)
			}
			return nil
		},
	}
}
