//go:build !integration

package repository

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGlobToRegex(t *testing.T) {
	tests := []struct {
		name    string
		pattern string
		key     string
		want    bool
	}{
		{name: "substring match", pattern: "query:*Person*", key: "query:abcPersondef", want: true},
		{name: "prefix only", pattern: "query:**", key: "query:abc", want: true},
		{name: "wrong prefix", pattern: "query:*Person*", key: "other:Person", want: false},
		{name: "metacharacters quoted", pattern: "query:*a.b*", key: "query:axb", want: false},
		{name: "literal dot", pattern: "query:*a.b*", key: "query:a.b", want: true},
		{name: "escaped star is literal", pattern: `query:*a\*b*`, key: "query:axxb", want: false},
		{name: "escaped star matches star", pattern: `query:*a\*b*`, key: "query:a*b", want: true},
		{name: "escaped question mark", pattern: `query:*a\?b*`, key: "query:a?b", want: true},
		{name: "question mark is not a wildcard", pattern: `query:*a\?b*`, key: "query:axb", want: false},
		{name: "escaped brackets", pattern: `query:*\[x\]*`, key: "query:[x]", want: true},
		{name: "escaped backslash", pattern: `query:*a\\b*`, key: `query:a\b`, want: true},
		{name: "trailing backslash", pattern: `query:a\`, key: `query:a\`, want: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			re := regexp.MustCompile(globToRegex(tt.pattern))
			assert.Equal(t, tt.want, re.MatchString(tt.key))
		})
	}
}
