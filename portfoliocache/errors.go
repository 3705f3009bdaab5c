package portfoliocache

import "errors"

// ErrTransactionNotFound is the negative search result: every project was
// scanned and none held the identifier. It is a valid outcome, distinct from
// a network failure, and callers branch on it with errors.Is.
var ErrTransactionNotFound = errors.New("portfoliocache: transaction not found")

// ErrEmptyIdentifier rejects a blank search identifier before any network
// call is attempted.
var ErrEmptyIdentifier = errors.New("portfoliocache: empty search identifier")

// ErrEmptyProjectID rejects a blank project ID before any network call is
// attempted.
var ErrEmptyProjectID = errors.New("portfoliocache: empty project id")
