// Package config reads listenability settings from defaults, an optional
// listenability.yaml file and LISTENABILITY_* environment variables, in
// increasing order of precedence. Command-line flags bound to the same keys
// override all three.
package config

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/japaniel/listenability/pkg/classify"
	"github.com/japaniel/listenability/pkg/transcript"
	"github.com/japaniel/listenability/pkg/wordlist"
)

// EnvPrefix prefixes every environment variable; dots in keys become
// underscores, so score.workers is LISTENABILITY_SCORE_WORKERS.
const EnvPrefix = "LISTENABILITY"

// Keys.
const (
	KeyHeadwords     = "resources.headwords"
	KeyHeadwordsURL  = "resources.headwords_url"
	KeyFamiliar      = "resources.familiar"
	KeyFamiliarURL   = "resources.familiar_url"
	KeyStopwords     = "resources.stopwords"
	KeyPrefixes      = "resources.prefixes"
	KeyCompounds     = "resources.compounds"
	KeyRoots         = "resources.roots"
	KeyRootsURL      = "resources.roots_url"
	KeyDepMarkers    = "resources.dep_markers"
	KeySyllables     = "resources.syllables"
	KeyDBPath        = "db.path"
	KeyWorkers       = "score.workers"
	KeyBatchSize     = "score.batch_size"
	KeyLimit         = "score.limit"
	KeyKeepSentences = "score.keep_sentences"
	KeyHardClass     = "score.hard_class"
	KeySource        = "score.source"
	KeyCacheTTL      = "cache.ttl"
	KeyNERCacheSize  = "cache.ner_size"
	KeyDebug         = "debug"
)

// Config is the materialised configuration.
type Config struct {
	Resources    wordlist.Paths
	HeadwordsURL string
	FamiliarURL  string
	RootsURL     string
	// Syllables is an optional pronunciation dictionary.
	Syllables string

	DBPath        string
	Workers       int
	BatchSize     int
	Limit         int
	KeepSentences bool
	HardClass     classify.Class
	Source        transcript.Source

	// CacheTTL bounds classification memo entries; zero keeps them forever.
	CacheTTL     time.Duration
	NERCacheSize int
	Debug        bool
}

// New returns a viper instance carrying the defaults and reading the
// environment.
func New() *viper.Viper {
	v := viper.New()
	v.SetDefault(KeyHeadwords, "")
	v.SetDefault(KeyHeadwordsURL, "")
	v.SetDefault(KeyFamiliar, "")
	v.SetDefault(KeyFamiliarURL, "")
	v.SetDefault(KeyStopwords, "")
	v.SetDefault(KeyPrefixes, "")
	v.SetDefault(KeyCompounds, "")
	v.SetDefault(KeyRoots, "")
	v.SetDefault(KeyRootsURL, "")
	v.SetDefault(KeyDepMarkers, "")
	v.SetDefault(KeySyllables, "")
	v.SetDefault(KeyDBPath, "./listenability.sqlite3")
	v.SetDefault(KeyWorkers, 4)
	v.SetDefault(KeyBatchSize, 50)
	v.SetDefault(KeyLimit, 0)
	v.SetDefault(KeyKeepSentences, false)
	v.SetDefault(KeyHardClass, 5.0)
	v.SetDefault(KeySource, "")
	v.SetDefault(KeyCacheTTL, "0s")
	v.SetDefault(KeyNERCacheSize, 4096)
	v.SetDefault(KeyDebug, false)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

// ReadFile merges a config file into v. An empty path searches for
// listenability.yaml in the working directory and $HOME/.config/listenability,
// and a missing file is not an error.
func ReadFile(v *viper.Viper, path string) error {
	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return fmt.Errorf("read config %s: %w", path, err)
		}
		return nil
	}
	v.SetConfigName("listenability")
	v.AddConfigPath(".")
	v.AddConfigPath("$HOME/.config/listenability")
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			if v.GetBool(KeyDebug) {
				log.Println("no config file found, using defaults")
			}
			return nil
		}
		return fmt.Errorf("read config: %w", err)
	}
	return nil
}

// Load materialises v into a Config and validates it.
func Load(v *viper.Viper) (Config, error) {
	c := Config{
		Resources: wordlist.Paths{
			Headwords:  v.GetString(KeyHeadwords),
			Familiar:   v.GetString(KeyFamiliar),
			Stopwords:  v.GetString(KeyStopwords),
			Prefixes:   v.GetString(KeyPrefixes),
			Compounds:  v.GetString(KeyCompounds),
			Roots:      v.GetString(KeyRoots),
			DepMarkers: v.GetString(KeyDepMarkers),
		},
		HeadwordsURL:  v.GetString(KeyHeadwordsURL),
		FamiliarURL:   v.GetString(KeyFamiliarURL),
		RootsURL:      v.GetString(KeyRootsURL),
		Syllables:     v.GetString(KeySyllables),
		DBPath:        v.GetString(KeyDBPath),
		Workers:       v.GetInt(KeyWorkers),
		BatchSize:     v.GetInt(KeyBatchSize),
		Limit:         v.GetInt(KeyLimit),
		KeepSentences: v.GetBool(KeyKeepSentences),
		HardClass:     classify.Class(v.GetFloat64(KeyHardClass)),
		CacheTTL:      v.GetDuration(KeyCacheTTL),
		NERCacheSize:  v.GetInt(KeyNERCacheSize),
		Debug:         v.GetBool(KeyDebug),
	}

	if c.Workers < 1 {
		return Config{}, fmt.Errorf("%s must be at least 1, got %d", KeyWorkers, c.Workers)
	}
	if c.BatchSize < 1 {
		return Config{}, fmt.Errorf("%s must be at least 1, got %d", KeyBatchSize, c.BatchSize)
	}
	if c.Limit < 0 {
		return Config{}, fmt.Errorf("%s must not be negative, got %d", KeyLimit, c.Limit)
	}
	if c.HardClass < classify.Easiest || c.HardClass > classify.Unknown {
		return Config{}, fmt.Errorf("%s must be within [%v, %v], got %v", KeyHardClass, classify.Easiest, classify.Unknown, c.HardClass)
	}
	if c.CacheTTL < 0 {
		return Config{}, fmt.Errorf("%s must not be negative, got %v", KeyCacheTTL, c.CacheTTL)
	}
	if s := v.GetString(KeySource); s != "" {
		src, err := transcript.ParseSource(s)
		if err != nil {
			return Config{}, fmt.Errorf("%s: %w", KeySource, err)
		}
		c.Source = src
	}
	return c, nil
}

// EnsureResources downloads the headword table, familiar list and root
// wordlist when their paths are missing and a URL is configured.
func (c Config) EnsureResources(ctx context.Context) error {
	for _, r := range []struct{ path, url string }{
		{c.Resources.Headwords, c.HeadwordsURL},
		{c.Resources.Familiar, c.FamiliarURL},
		{c.Resources.Roots, c.RootsURL},
	} {
		if r.path == "" || r.url == "" {
			continue
		}
		if err := wordlist.EnsureResource(ctx, r.path, r.url); err != nil {
			return err
		}
	}
	return nil
}
