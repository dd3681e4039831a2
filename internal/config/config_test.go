package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)

	assert.Equal(t, "UNSEEN", cfg.Fetch.Criteria)
	assert.Equal(t, 3, cfg.Fetch.Number)
	assert.Equal(t, 20, cfg.Decode.MaxDepth)
	assert.Equal(t, 5*time.Minute, cfg.Watch.Interval())

	google, ok := cfg.Account("Google")
	require.True(t, ok)
	assert.Equal(t, "imap.gmail.com:993", google.Addr())
	assert.True(t, google.TLS)
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	data := `
accounts:
  work:
    host: mail.example.com
    user: me@example.com
    tls: false
  home:
    host: imap.example.org
    port: 1993
fetch:
  criteria: ALL
  number: 10
  mark_seen: true
  since: "2024-03-01"
watch:
  interval_min: -1
log:
  level: debug
`
	require.NoError(t, os.WriteFile(path, []byte(data), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, []string{"home", "work"}, cfg.AccountNames())

	work, _ := cfg.Account("work")
	assert.Equal(t, "mail.example.com:993", work.Addr())
	assert.Equal(t, "me@example.com", work.User)
	assert.False(t, work.TLS)

	home, _ := cfg.Account("home")
	assert.Equal(t, 1993, home.Port)
	assert.True(t, home.TLS, "tls defaults to on when unset")

	assert.Equal(t, "ALL", cfg.Fetch.Criteria)
	assert.Equal(t, 10, cfg.Fetch.Number)
	assert.True(t, cfg.Fetch.MarkSeen)
	since, err := cfg.Fetch.SinceTime()
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC), since)

	assert.Equal(t, WatchDisabled, cfg.Watch.IntervalMin)
	assert.Zero(t, cfg.Watch.Interval())
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, 20, cfg.Decode.MaxDepth)
}

func TestLoadMalformedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("accounts: [unclosed"), 0o600))

	_, err := Load(path)
	assert.Error(t, err)
}

func TestSaveAndReload(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")

	cfg := Default()
	cfg.AddAccount("Work", Account{Host: "mail.example.com", User: "me", TLS: true})
	cfg.Fetch.Since = "2024-01-15"
	require.NoError(t, Save(path, cfg))

	loaded, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, []string{"google", "qq", "work"}, loaded.AccountNames())
	work, ok := loaded.Account("work")
	require.True(t, ok)
	assert.Equal(t, Account{Host: "mail.example.com", Port: 993, User: "me", TLS: true}, work)
	assert.Equal(t, "2024-01-15", loaded.Fetch.Since)
}

func TestAddAndRemoveAccount(t *testing.T) {
	cfg := Default()

	cfg.AddAccount("QQ", Account{User: "12345@qq.com", TLS: true})
	qq, _ := cfg.Account("qq")
	assert.Equal(t, "imap.qq.com", qq.Host, "host filled from defaults")
	assert.Equal(t, 993, qq.Port)
	assert.Equal(t, "12345@qq.com", qq.User)

	assert.True(t, cfg.RemoveAccount("qq"))
	assert.False(t, cfg.RemoveAccount("qq"))
	_, ok := cfg.Account("qq")
	assert.False(t, ok)
}

func TestSinceTimeInvalid(t *testing.T) {
	_, err := FetchConfig{Since: "yesterday"}.SinceTime()
	assert.Error(t, err)

	since, err := FetchConfig{}.SinceTime()
	require.NoError(t, err)
	assert.True(t, since.IsZero())
}
