package nlp

import (
	"fmt"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/jdkato/prose/v2"
)

// DefaultEntityCacheSize bounds the number of texts whose entities are kept.
const DefaultEntityCacheSize = 4096

// Prose tags, segments and extracts entities with the prose models. It is
// safe for concurrent use.
type Prose struct {
	entities *lru.Cache[string, []Entity]
}

// NewProse returns a Prose backend. cacheSize <= 0 uses
// DefaultEntityCacheSize.
func NewProse(cacheSize int) (*Prose, error) {
	if cacheSize <= 0 {
		cacheSize = DefaultEntityCacheSize
	}
	c, err := lru.New[string, []Entity](cacheSize)
	if err != nil {
		return nil, fmt.Errorf("entity cache: %w", err)
	}
	return &Prose{entities: c}, nil
}

// Tag tokenizes text and returns Penn Treebank tags for each token.
func (p *Prose) Tag(text string) ([]TaggedToken, error) {
	doc, err := prose.NewDocument(text,
		prose.WithSegmentation(false),
		prose.WithExtraction(false))
	if err != nil {
		return nil, fmt.Errorf("tag: %w", err)
	}
	toks := doc.Tokens()
	out := make([]TaggedToken, 0, len(toks))
	for _, t := range toks {
		out = append(out, TaggedToken{Text: t.Text, Tag: t.Tag})
	}
	return out, nil
}

// Sentences splits text into sentences.
func (p *Prose) Sentences(text string) ([]string, error) {
	doc, err := prose.NewDocument(text,
		prose.WithTagging(false),
		prose.WithExtraction(false))
	if err != nil {
		return nil, fmt.Errorf("segment: %w", err)
	}
	sents := doc.Sentences()
	out := make([]string, 0, len(sents))
	for _, s := range sents {
		out = append(out, s.Text)
	}
	return out, nil
}

// Entities returns the named entities found in text. Results are cached per
// text.
func (p *Prose) Entities(text string) ([]Entity, error) {
	if ents, ok := p.entities.Get(text); ok {
		return ents, nil
	}
	doc, err := prose.NewDocument(text, prose.WithSegmentation(false))
	if err != nil {
		return nil, fmt.Errorf("entities: %w", err)
	}
	var out []Entity
	for _, e := range doc.Entities() {
		out = append(out, Entity{Text: e.Text, Label: e.Label})
	}
	p.entities.Add(text, out)
	return out, nil
}
