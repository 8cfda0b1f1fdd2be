// Package transcript loads spoken-material transcripts and derives their
// proficiency levels from their IDs.
package transcript

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
)

// Transcript is one utterance or document.
type Transcript struct {
	ID   string
	Text string
}

var (
	reNoise  = regexp.MustCompile(`\[NOISE\]`)
	reSpaces = regexp.MustCompile(` +`)
)

// LoadDir reads every *.txt file in dir, sorted by name. The ID is the file
// name without its extension; newlines become spaces.
func LoadDir(dir string) ([]Transcript, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.Type().IsRegular() && strings.HasSuffix(e.Name(), ".txt") {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)

	out := make([]Transcript, 0, len(names))
	for _, name := range names {
		b, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			return nil, err
		}
		out = append(out, Transcript{
			ID:   strings.TrimSuffix(name, filepath.Ext(name)),
			Text: strings.TrimSpace(strings.ReplaceAll(string(b), "\n", " ")),
		})
	}
	return out, nil
}

// ReadList parses lines of the form "<utt_id> <transcript>". Noise markers
// are removed and runs of spaces collapsed. Blank lines are skipped.
func ReadList(r io.Reader) ([]Transcript, error) {
	var out []Transcript
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 64*1024), 4*1024*1024)
	for line := 1; sc.Scan(); line++ {
		text := strings.TrimSpace(sc.Text())
		if text == "" {
			continue
		}
		id, body, ok := strings.Cut(text, " ")
		if !ok {
			return nil, fmt.Errorf("line %d: want \"<id> <transcript>\", got %q", line, text)
		}
		body = reNoise.ReplaceAllString(body, "")
		body = reSpaces.ReplaceAllString(body, " ")
		out = append(out, Transcript{ID: id, Text: body})
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// LoadList reads a transcript list file.
func LoadList(path string) ([]Transcript, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	ts, err := ReadList(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return ts, nil
}

// ByID indexes transcripts by ID. Later duplicates replace earlier ones.
func ByID(ts []Transcript) map[string]Transcript {
	m := make(map[string]Transcript, len(ts))
	for _, t := range ts {
		m[t.ID] = t
	}
	return m
}
