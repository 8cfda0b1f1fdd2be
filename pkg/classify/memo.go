package classify

import (
	"strings"
	"time"

	"github.com/japaniel/listenability/pkg/nlp"
	"github.com/patrickmn/go-cache"
)

// Memo caches classifications. Classification only depends on the
// lowercase word and the tag's category, so that pair is the cache key.
type Memo struct {
	c     *Classifier
	cache *cache.Cache
}

// NewMemo wraps c. A ttl of zero keeps entries forever.
func NewMemo(c *Classifier, ttl time.Duration) *Memo {
	if ttl <= 0 {
		ttl = cache.NoExpiration
	}
	return &Memo{c: c, cache: cache.New(ttl, 10*time.Minute)}
}

func (m *Memo) Classify(word, tag string) Class {
	return m.get("w", word, tag, m.c.Classify)
}

func (m *Memo) Resolve(word, tag string) Class {
	return m.get("r", word, tag, m.c.Resolve)
}

// Len returns the number of cached entries.
func (m *Memo) Len() int { return m.cache.ItemCount() }

func (m *Memo) get(kind, word, tag string, fn func(string, string) Class) Class {
	key := kind + "/" + string(nlp.CategoryFor(tag)) + "/" + strings.ToLower(word)
	if v, ok := m.cache.Get(key); ok {
		return v.(Class)
	}
	class := fn(word, tag)
	m.cache.SetDefault(key, class)
	return class
}
