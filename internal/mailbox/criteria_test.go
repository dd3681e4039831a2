package mailbox

import (
	"fmt"
	"testing"
	"time"

	"github.com/emersion/go-imap/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildCriteria(t *testing.T) {
	tests := []struct {
		keyword string
		flag    []imap.Flag
		notFlag []imap.Flag
	}{
		{"", nil, []imap.Flag{imap.FlagSeen}},
		{"unseen", nil, []imap.Flag{imap.FlagSeen}},
		{"ALL", nil, nil},
		{"SEEN", []imap.Flag{imap.FlagSeen}, nil},
		{"FLAGGED", []imap.Flag{imap.FlagFlagged}, nil},
		{"NEW", []imap.Flag{flagRecent}, []imap.Flag{imap.FlagSeen}},
		{"OLD", nil, []imap.Flag{flagRecent}},
		{"UNDELETED", nil, []imap.Flag{imap.FlagDeleted}},
	}

	for _, tt := range tests {
		t.Run(tt.keyword, func(t *testing.T) {
			c, err := BuildCriteria(tt.keyword, time.Time{})
			require.NoError(t, err)
			assert.Equal(t, tt.flag, c.Flag)
			assert.Equal(t, tt.notFlag, c.NotFlag)
			assert.True(t, c.Since.IsZero())
		})
	}
}

func TestBuildCriteriaAcceptsEveryKeyword(t *testing.T) {
	for _, k := range Keywords {
		_, err := BuildCriteria(k, time.Time{})
		assert.NoError(t, err, k)
	}
}

func TestBuildCriteriaSince(t *testing.T) {
	since := time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)
	c, err := BuildCriteria("ALL", since)
	require.NoError(t, err)
	assert.Equal(t, since, c.Since)
}

func TestBuildCriteriaUnknownKeyword(t *testing.T) {
	_, err := BuildCriteria("BOGUS", time.Time{})
	require.Error(t, err)
	assert.True(t, IsCriteriaError(err))
	assert.True(t, IsCriteriaError(fmt.Errorf("wrapped: %w", err)))
	assert.False(t, IsAuthError(err))
}

func TestLimitUIDs(t *testing.T) {
	uids := []imap.UID{3, 5, 8, 13}

	assert.Equal(t, []imap.UID{3, 5}, limitUIDs(uids, 2, false))
	assert.Equal(t, []imap.UID{8, 13}, limitUIDs(uids, 2, true))
	assert.Equal(t, uids, limitUIDs(uids, 10, false))
	assert.Equal(t, uids, limitUIDs(uids, 10, true))
	assert.Equal(t, uids, limitUIDs(uids, 0, false))
	assert.Equal(t, uids, limitUIDs(uids, -1, true))
}

func TestLimitUIDsNewestFollowsArrivals(t *testing.T) {
	inbox := []imap.UID{1, 2, 3, 4, 5}
	assert.Equal(t, []imap.UID{3, 4, 5}, limitUIDs(inbox, 3, true))

	inbox = append(inbox, 6)
	assert.Contains(t, limitUIDs(inbox, 3, true), imap.UID(6))
}

func TestFetchedText(t *testing.T) {
	assert.Empty(t, Fetched{}.Text())
}

func TestAuthError(t *testing.T) {
	err := fmt.Errorf("polling: %w", &AuthError{Account: "google", Message: "bad password"})
	assert.True(t, IsAuthError(err))
	assert.Contains(t, err.Error(), "auth error (google): bad password")
}
