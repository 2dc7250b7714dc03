package narrative

import (
	"fmt"
	"strings"
)

// paragraph collects sentences and skips the empty ones.
type paragraph []string

func (p *paragraph) add(s string) {
	if s == "" {
		return
	}
	*p = append(*p, s)
}

func (p *paragraph) addf(format string, args ...any) {
	p.add(fmt.Sprintf(format, args...))
}

func (p paragraph) String() string {
	return strings.Join(p, " ")
}

func joinParagraphs(parts ...string) string {
	out := make([]string, 0, len(parts))
	for _, s := range parts {
		if s != "" {
			out = append(out, s)
		}
	}
	return strings.Join(out, "\n\n")
}
