package readability

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"unicode"
)

// Syllables counts syllables, preferring a pronunciation dictionary and
// falling back to counting vowel groups.
type Syllables struct {
	counts map[string]int
}

// NewSyllables returns a counter without a dictionary.
func NewSyllables() *Syllables { return &Syllables{counts: map[string]int{}} }

// ReadSyllables parses a pronunciation dictionary. Each line holds a word
// followed either by syllable counts ("HELLO 2") or by CMU phones
// ("HELLO  HH AH0 L OW1"), in which case the stressed vowels are counted.
// Lines starting with ";;;" are comments. Alternate pronunciations such as
// "HELLO(1)" are ignored.
func ReadSyllables(r io.Reader) (*Syllables, error) {
	s := NewSyllables()
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 64*1024), 1024*1024)
	for line := 1; sc.Scan(); line++ {
		text := strings.TrimSpace(sc.Text())
		if text == "" || strings.HasPrefix(text, ";;;") {
			continue
		}
		fields := strings.Fields(text)
		if len(fields) < 2 || strings.HasSuffix(fields[0], ")") {
			continue
		}
		word := strings.ToUpper(fields[0])
		if _, seen := s.counts[word]; seen {
			continue
		}
		if n, err := strconv.Atoi(fields[1]); err == nil {
			s.counts[word] = n
			continue
		}
		n := 0
		for _, ph := range fields[1:] {
			if last := ph[len(ph)-1]; last >= '0' && last <= '2' {
				n++
			}
		}
		if n == 0 {
			return nil, fmt.Errorf("line %d: no vowels in %q", line, text)
		}
		s.counts[word] = n
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	return s, nil
}

// LoadSyllables reads a pronunciation dictionary from path.
func LoadSyllables(path string) (*Syllables, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	s, err := ReadSyllables(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return s, nil
}

// Len returns the number of dictionary entries.
func (s *Syllables) Len() int { return len(s.counts) }

// Count returns the syllables in a single word. Words without letters have
// none.
func (s *Syllables) Count(word string) int {
	w := strings.ToUpper(strings.Trim(word, "'"))
	if w == "" {
		return 0
	}
	if n, ok := s.lookup(w); ok {
		return n
	}
	return heuristic(strings.ToLower(w))
}

func (s *Syllables) lookup(w string) (int, bool) {
	if n, ok := s.counts[w]; ok {
		return n, true
	}
	if len(w) < 2 {
		return 0, false
	}
	switch w[len(w)-1] {
	case 'Y':
		if n, ok := s.counts[w[:len(w)-1]]; ok {
			return n + 1, true
		}
	case 'S':
		if n, ok := s.counts[w[:len(w)-1]]; ok {
			return n, true
		}
	}
	return 0, false
}

// CountText sums the syllables of every word of text.
func (s *Syllables) CountText(text string) int {
	n := 0
	for _, w := range Words(text) {
		n += s.Count(w)
	}
	return n
}

func heuristic(w string) int {
	letters := 0
	groups := 0
	prevVowel := false
	for _, r := range w {
		if !unicode.IsLetter(r) {
			prevVowel = false
			continue
		}
		letters++
		v := strings.ContainsRune("aeiouy", r)
		if v && !prevVowel {
			groups++
		}
		prevVowel = v
	}
	if letters == 0 {
		return 0
	}
	// silent final e, but not "-le" as in "table"
	if strings.HasSuffix(w, "e") && !strings.HasSuffix(w, "le") && groups > 1 {
		groups--
	}
	return max(1, groups)
}
