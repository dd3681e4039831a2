// Package credential keeps IMAP account passwords in the system keyring.
// Passwords never touch the config file.
package credential

import (
	"errors"
	"fmt"

	"github.com/99designs/keyring"
)

const serviceName = "mailback"

// ErrNoPassword is returned when no password is stored for an account.
var ErrNoPassword = errors.New("no password stored")

// Vault reads and writes account passwords. The keyring is opened on
// every call so a locked backend only prompts when a password is needed.
type Vault struct {
	open func() (keyring.Keyring, error)
}

// NewVault returns a Vault backed by the first available system
// keyring, falling back to an encrypted file under the config dir.
func NewVault() *Vault {
	return &Vault{open: openSystemKeyring}
}

func openSystemKeyring() (keyring.Keyring, error) {
	return keyring.Open(keyring.Config{
		ServiceName: serviceName,
		AllowedBackends: []keyring.BackendType{
			keyring.KeychainBackend,
			keyring.SecretServiceBackend,
			keyring.WinCredBackend,
			keyring.PassBackend,
			keyring.FileBackend,
		},
		FileDir:                  "~/.config/mailback/credentials",
		FilePasswordFunc:         keyring.FixedStringPrompt("mailback-file-key"),
		KeychainTrustApplication: true,
	})
}

// itemKey is the keyring key of an account, e.g. "imap-google".
func itemKey(account string) string {
	return "imap-" + account
}

// Password returns the stored password of account. The error wraps
// ErrNoPassword when the account has none.
func (v *Vault) Password(account string) (string, error) {
	ring, err := v.open()
	if err != nil {
		return "", fmt.Errorf("opening keyring: %w", err)
	}

	item, err := ring.Get(itemKey(account))
	if errors.Is(err, keyring.ErrKeyNotFound) {
		return "", fmt.Errorf("account %q: %w", account, ErrNoPassword)
	}
	if err != nil {
		return "", fmt.Errorf("reading password of %q: %w", account, err)
	}
	return string(item.Data), nil
}

// SetPassword stores password for account, replacing any previous one.
func (v *Vault) SetPassword(account, password string) error {
	ring, err := v.open()
	if err != nil {
		return fmt.Errorf("opening keyring: %w", err)
	}

	err = ring.Set(keyring.Item{
		Key:         itemKey(account),
		Data:        []byte(password),
		Label:       "mailback IMAP password (" + account + ")",
		Description: "IMAP login for the " + account + " account",
	})
	if err != nil {
		return fmt.Errorf("storing password of %q: %w", account, err)
	}
	return nil
}

// Forget removes the password of account. Forgetting an account with
// no stored password is not an error.
func (v *Vault) Forget(account string) error {
	ring, err := v.open()
	if err != nil {
		return fmt.Errorf("opening keyring: %w", err)
	}

	err = ring.Remove(itemKey(account))
	if err != nil && !errors.Is(err, keyring.ErrKeyNotFound) {
		return fmt.Errorf("removing password of %q: %w", account, err)
	}
	return nil
}
