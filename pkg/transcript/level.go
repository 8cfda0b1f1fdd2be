package transcript

import "fmt"

// Source identifies the publisher of the materials, which decides how
// levels are labelled.
type Source string

const (
	VOA   Source = "voa"
	ELLLO Source = "elllo"
)

// ParseSource parses a source name.
func ParseSource(s string) (Source, error) {
	switch Source(s) {
	case VOA, ELLLO:
		return Source(s), nil
	}
	return "", fmt.Errorf("unknown source %q", s)
}

// UnknownLevel labels IDs whose level cannot be read.
const UnknownLevel = "unknown"

var levelLabels = map[Source][]string{
	VOA:   {"beginner", "intermediate", "advanced"},
	ELLLO: {"low beg", "mid beg", "high beg", "low int", "mid int", "high int", "adv"},
}

// Level returns the numeric level encoded as the last character of id.
func Level(id string) (int, bool) {
	if id == "" {
		return 0, false
	}
	c := id[len(id)-1]
	if c < '0' || c > '9' {
		return 0, false
	}
	return int(c - '0'), true
}

// LevelLabel returns the label of id's level for src, or UnknownLevel.
func LevelLabel(src Source, id string) string {
	n, ok := Level(id)
	labels := levelLabels[src]
	if !ok || n < 1 || n > len(labels) {
		return UnknownLevel
	}
	return labels[n-1]
}
