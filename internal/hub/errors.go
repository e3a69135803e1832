package hub

import (
	"errors"
	"fmt"
)

// ErrListingFailed matches every error returned by Client.ListFiles
var ErrListingFailed = errors.New("listing failed")

// Reason classifies a listing failure for the message shown to the user
type Reason string

const (
	ReasonInvalid      Reason = "invalid repository"
	ReasonNetwork      Reason = "network error"
	ReasonUnauthorized Reason = "unauthorized"
	ReasonNotFound     Reason = "not found"
	ReasonBadResponse  Reason = "bad response"
)

// ListingError describes why a repository could not be listed
type ListingError struct {
	Repo       string
	Reason     Reason
	StatusCode int
	Err        error
}

func (e *ListingError) Error() string {
	msg := fmt.Sprintf("listing %s failed: %s", e.Repo, e.Reason)
	if e.StatusCode != 0 {
		msg += fmt.Sprintf(" (HTTP %d)", e.StatusCode)
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *ListingError) Unwrap() error {
	return e.Err
}

// Is makes errors.Is(err, ErrListingFailed) true for every ListingError
func (e *ListingError) Is(target error) bool {
	return target == ErrListingFailed
}

func listingErr(repo string, reason Reason, status int, err error) *ListingError {
	return &ListingError{Repo: repo, Reason: reason, StatusCode: status, Err: err}
}
