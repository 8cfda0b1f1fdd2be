package wordlist

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strings"
)

// Compounds maps a compound word to its constituents, left to right.
type Compounds map[string][]string

// Parts returns the constituents of a registered compound.
func (c Compounds) Parts(compound string) ([]string, bool) {
	p, ok := c[compound]
	return p, ok
}

// ReadCompounds parses lines of the form `compound,"w1 w2 ..."`. There is no
// header row. A compound listed twice keeps its last entry.
func ReadCompounds(r io.Reader) (Compounds, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	out := make(Compounds)
	for line := 1; ; line++ {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		if len(rec) < 2 {
			return nil, fmt.Errorf("line %d: want compound and constituents, got %d fields", line, len(rec))
		}
		compound := strings.ToLower(strings.TrimSpace(rec[0]))
		parts := strings.Fields(strings.ToLower(rec[1]))
		if compound == "" || len(parts) == 0 {
			return nil, fmt.Errorf("line %d: empty compound entry", line)
		}
		out[compound] = parts
	}
	return out, nil
}

// LoadCompounds reads a compound dictionary from path.
func LoadCompounds(path string) (Compounds, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	c, err := ReadCompounds(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return c, nil
}
