package model

import (
	"path/filepath"
	"regexp"
	"strings"
)

// PathMatcher reports whether a repository path matches a user pattern
type PathMatcher interface {
	Match(path string) bool
	Pattern() string
}

// globMatcher uses filepath.Match against the base name first, then the full path
type globMatcher struct {
	glob string
}

func (g *globMatcher) Match(path string) bool {
	if ok, _ := filepath.Match(g.glob, filepath.Base(path)); ok {
		return true
	}
	ok, _ := filepath.Match(g.glob, path)
	return ok
}

func (g *globMatcher) Pattern() string {
	return g.glob
}

// regexMatcher is used for patterns enclosed in slashes, e.g. /q4_.*\.gguf$/
type regexMatcher struct {
	regex *regexp.Regexp
	text  string
}

func (r *regexMatcher) Match(path string) bool {
	return r.regex.MatchString(path)
}

func (r *regexMatcher) Pattern() string {
	return r.text
}

// substringMatcher matches case-insensitively anywhere in the path
type substringMatcher struct {
	needle string
}

func (s *substringMatcher) Match(path string) bool {
	return strings.Contains(strings.ToLower(path), s.needle)
}

func (s *substringMatcher) Pattern() string {
	return s.needle
}

// NewPathMatcher builds a matcher from a pattern.
// "/.../" is a regular expression, anything with glob metacharacters is a glob,
// everything else is a case-insensitive substring.
func NewPathMatcher(pattern string) (PathMatcher, error) {
	pattern = strings.TrimSpace(pattern)

	if len(pattern) > 2 && strings.HasPrefix(pattern, "/") && strings.HasSuffix(pattern, "/") {
		re, err := regexp.Compile(pattern[1 : len(pattern)-1])
		if err != nil {
			return nil, err
		}
		return &regexMatcher{regex: re, text: pattern}, nil
	}

	if strings.ContainsAny(pattern, "*?[") {
		if _, err := filepath.Match(pattern, ""); err != nil {
			return nil, err
		}
		return &globMatcher{glob: pattern}, nil
	}

	return &substringMatcher{needle: strings.ToLower(pattern)}, nil
}
