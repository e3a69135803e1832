package download

import (
	"fmt"
	"regexp"
	"strings"
)

var rateLimitPattern = regexp.MustCompile(`^[0-9]+[KM]?$`)

// NormalizeRateLimit validates an aria2 --max-download-limit value.
// Empty input means unlimited and returns "".
func NormalizeRateLimit(s string) (string, error) {
	s = strings.ToUpper(strings.TrimSpace(s))
	if s == "" {
		return "", nil
	}
	if !rateLimitPattern.MatchString(s) || strings.TrimLeft(strings.TrimRight(s, "KM"), "0") == "" {
		return "", fmt.Errorf("%w: %q", ErrInvalidRateLimit, s)
	}
	return s, nil
}
