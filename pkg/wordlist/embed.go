package wordlist

import (
	_ "embed"
	"strings"
)

//go:embed data/stopwords.txt
var stopwordsData string

//go:embed data/prefixes.txt
var prefixesData string

//go:embed data/dep_markers.txt
var depMarkersData string

// DefaultStopwords returns the built-in English stop word set.
func DefaultStopwords() WordSet {
	return NewWordSet(splitCommaList(stopwordsData)...)
}

// DefaultPrefixes returns the built-in list of English prefixes.
func DefaultPrefixes() []string { return splitCommaList(prefixesData) }

// DefaultDepMarkers returns the built-in dependent clause markers.
func DefaultDepMarkers() []string { return splitCommaList(depMarkersData) }

func splitCommaList(s string) []string {
	var out []string
	for _, f := range strings.Split(s, ",") {
		if f = strings.TrimSpace(f); f != "" {
			out = append(out, f)
		}
	}
	return out
}
