package mailbox

import (
	"errors"
	"fmt"
)

// AuthError indicates that the IMAP server rejected the credentials.
type AuthError struct {
	Account string
	Message string
}

func (e *AuthError) Error() string {
	return fmt.Sprintf("auth error (%s): %s", e.Account, e.Message)
}

// IsAuthError reports whether err (or any error in its chain) is an AuthError.
func IsAuthError(err error) bool {
	var authErr *AuthError
	return errors.As(err, &authErr)
}

// CriteriaError reports an unsupported search keyword.
type CriteriaError struct {
	Keyword string
}

func (e *CriteriaError) Error() string {
	return fmt.Sprintf("unsupported search criteria %q", e.Keyword)
}

// IsCriteriaError reports whether err (or any error in its chain) is a
// CriteriaError.
func IsCriteriaError(err error) bool {
	var critErr *CriteriaError
	return errors.As(err, &critErr)
}
