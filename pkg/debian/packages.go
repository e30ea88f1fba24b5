package debian

import (
	"errors"
	"regexp"
	"strings"
)

// regexpQualifier matches version constraints "(>= 1.0)",
// architecture restrictions "[amd64]" and build profiles "<!nocheck>".
var regexpQualifier = regexp.MustCompile(`\([^)]*\)|\[[^\]]*\]|<[^>]*>`)

var ErrNoNames = errors.New("relation names no packages")

// ParseRelation parses one comma-separated entry of a relationship
// field such as "Depends". Each "|" alternative is reduced to its
// package name.
//
// https://www.debian.org/doc/debian-policy/ch-relationships.html
func ParseRelation(s string) (*Relation, error) {
	var names []string
	for _, alt := range strings.Split(s, "|") {
		fields := strings.Fields(regexpQualifier.ReplaceAllString(alt, " "))
		if len(fields) == 0 {
			continue
		}
		// "libc6:any" names libc6
		name, _, _ := strings.Cut(fields[0], ":")
		if name == "" {
			continue
		}
		names = append(names, name)
	}
	if len(names) == 0 {
		return nil, ErrNoNames
	}
	return &Relation{Names: names}, nil
}
