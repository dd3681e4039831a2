package mailbox

import (
	"strings"
	"time"

	"github.com/emersion/go-imap/v2"
)

// flagRecent is the IMAP4rev1 \Recent flag, which go-imap v2 does not
// name.
const flagRecent imap.Flag = `\Recent`

// Keywords lists the supported search keywords.
var Keywords = []string{
	"ALL", "ANSWERED", "DELETED", "DRAFT", "FLAGGED", "NEW", "SEEN",
	"RECENT", "OLD", "UNANSWERED", "UNDELETED", "UNDRAFT", "UNFLAGGED",
	"UNSEEN",
}

// BuildCriteria turns a search keyword and an optional start date into
// IMAP search criteria. An empty keyword means UNSEEN.
func BuildCriteria(keyword string, since time.Time) (*imap.SearchCriteria, error) {
	c := &imap.SearchCriteria{}

	switch strings.ToUpper(strings.TrimSpace(keyword)) {
	case "ALL":
	case "ANSWERED":
		c.Flag = []imap.Flag{imap.FlagAnswered}
	case "DELETED":
		c.Flag = []imap.Flag{imap.FlagDeleted}
	case "DRAFT":
		c.Flag = []imap.Flag{imap.FlagDraft}
	case "FLAGGED":
		c.Flag = []imap.Flag{imap.FlagFlagged}
	case "NEW":
		c.Flag = []imap.Flag{flagRecent}
		c.NotFlag = []imap.Flag{imap.FlagSeen}
	case "SEEN":
		c.Flag = []imap.Flag{imap.FlagSeen}
	case "RECENT":
		c.Flag = []imap.Flag{flagRecent}
	case "OLD":
		c.NotFlag = []imap.Flag{flagRecent}
	case "UNANSWERED":
		c.NotFlag = []imap.Flag{imap.FlagAnswered}
	case "UNDELETED":
		c.NotFlag = []imap.Flag{imap.FlagDeleted}
	case "UNDRAFT":
		c.NotFlag = []imap.Flag{imap.FlagDraft}
	case "UNFLAGGED":
		c.NotFlag = []imap.Flag{imap.FlagFlagged}
	case "UNSEEN", "":
		c.NotFlag = []imap.Flag{imap.FlagSeen}
	default:
		return nil, &CriteriaError{Keyword: keyword}
	}

	if !since.IsZero() {
		c.Since = since
	}
	return c, nil
}

// limitUIDs keeps the first n UIDs, or the last n when newest is set.
// All of them are kept when n < 1 or there are fewer than n.
func limitUIDs(uids []imap.UID, n int, newest bool) []imap.UID {
	if n < 1 || len(uids) <= n {
		return uids
	}
	if newest {
		return uids[len(uids)-n:]
	}
	return uids[:n]
}
