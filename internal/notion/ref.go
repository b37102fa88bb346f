package notion

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/google/uuid"
)

// ParseDatabaseRef accepts a database id (dashed or bare hex) or a Notion URL
// and returns the canonical dashed id.
func ParseDatabaseRef(raw string) (string, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return "", fmt.Errorf("empty database reference")
	}
	if id, err := uuid.Parse(trimmed); err == nil {
		return id.String(), nil
	}

	parsed, err := url.Parse(trimmed)
	if err != nil || parsed.Host == "" {
		return "", fmt.Errorf("not a database id or url: %q", raw)
	}
	segments := strings.Split(strings.Trim(parsed.Path, "/"), "/")
	last := segments[len(segments)-1]

	candidates := []string{last}
	if i := strings.LastIndex(last, "-"); i >= 0 {
		candidates = append(candidates, last[i+1:])
	}
	for _, candidate := range candidates {
		if id, err := uuid.Parse(candidate); err == nil {
			return id.String(), nil
		}
	}
	return "", fmt.Errorf("not a database id or url: %q", raw)
}
