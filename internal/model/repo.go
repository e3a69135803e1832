package model

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidRepoID is returned when a repository identifier cannot be used for a listing
var ErrInvalidRepoID = errors.New("invalid repository ID")

// RepoID names a remote repository, usually in "owner/name" form
type RepoID string

// ParseRepoID trims user input and validates it as a repository identifier.
// Accepted forms are "name" and "owner/name"; full Hub URLs are reduced to that form.
func ParseRepoID(input string) (RepoID, error) {
	s := strings.TrimSpace(input)
	for _, prefix := range []string{"https://huggingface.co/", "http://huggingface.co/", "huggingface.co/"} {
		s = strings.TrimPrefix(s, prefix)
	}
	s = strings.Trim(s, "/")

	if s == "" {
		return "", fmt.Errorf("%w: empty", ErrInvalidRepoID)
	}
	if strings.ContainsAny(s, " \t\r\n") {
		return "", fmt.Errorf("%w: %q contains whitespace", ErrInvalidRepoID, s)
	}

	parts := strings.Split(s, "/")
	if len(parts) > 2 {
		return "", fmt.Errorf("%w: %q (expected owner/name)", ErrInvalidRepoID, s)
	}
	for _, part := range parts {
		if part == "" || part == "." || part == ".." {
			return "", fmt.Errorf("%w: %q (expected owner/name)", ErrInvalidRepoID, s)
		}
	}
	return RepoID(s), nil
}

// String returns the identifier as typed
func (r RepoID) String() string {
	return string(r)
}

// ShortName returns the repository name without its owner, used as the download folder name
func (r RepoID) ShortName() string {
	s := string(r)
	if idx := strings.LastIndex(s, "/"); idx >= 0 {
		return s[idx+1:]
	}
	return s
}

// RemoteFile is a single file reported by the repository listing
type RemoteFile struct {
	Path string `json:"path" yaml:"path"`
	Size int64  `json:"size" yaml:"size"`
	URL  string `json:"url" yaml:"-"`
	LFS  bool   `json:"lfs" yaml:"-"`
}
