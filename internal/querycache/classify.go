package querycache

import (
	"regexp"
	"strings"
)

// Write markers. Matching is by substring on the upper-cased query, so
// identifiers such as created_at or OFFSET also count as writes.
var mutatingMarkers = []string{"CREATE", "MERGE", "SET", "DELETE", "REMOVE", "DROP"}

var readMarkers = []string{
	"MATCH",
	"RETURN",
	"WITH",
	"UNWIND",
	"CALL DB.LABELS()",
	"CALL DB.RELATIONSHIPTYPES()",
	"CALL DB.SCHEMA",
}

// volatileMarkers select the shorter TTL. Matched on the lower-cased query.
var volatileMarkers = []string{"timestamp"}

var labelPattern = regexp.MustCompile(`:(\w+)`)

// IsMutating reports whether query contains a write marker.
func IsMutating(query string) bool {
	return containsAny(strings.ToUpper(query), mutatingMarkers)
}

// IsCacheable reports whether query is a read whose result may be cached.
func IsCacheable(query string) bool {
	upper := strings.ToUpper(strings.TrimSpace(query))
	if containsAny(upper, mutatingMarkers) {
		return false
	}
	return containsAny(upper, readMarkers)
}

// IsVolatile reports whether query reads fields that change with wall-clock time.
func IsVolatile(query string) bool {
	return containsAny(strings.ToLower(query), volatileMarkers)
}

// ExtractLabels returns the distinct ":Name" tokens in query, in order of
// appearance. This is a textual scan, not a parse: relationship types and
// anything else following a colon are included.
func ExtractLabels(query string) []string {
	matches := labelPattern.FindAllStringSubmatch(query, -1)
	if len(matches) == 0 {
		return nil
	}

	seen := make(map[string]struct{}, len(matches))
	labels := make([]string, 0, len(matches))
	for _, m := range matches {
		if _, ok := seen[m[1]]; ok {
			continue
		}
		seen[m[1]] = struct{}{}
		labels = append(labels, m[1])
	}
	return labels
}

func containsAny(s string, markers []string) bool {
	for _, marker := range markers {
		if strings.Contains(s, marker) {
			return true
		}
	}
	return false
}
