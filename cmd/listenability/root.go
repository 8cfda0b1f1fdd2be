package main

import (
	"context"
	"fmt"
	"io"
	"log"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/japaniel/listenability/pkg/classify"
	"github.com/japaniel/listenability/pkg/config"
	"github.com/japaniel/listenability/pkg/nlp"
	"github.com/japaniel/listenability/pkg/readability"
	"github.com/japaniel/listenability/pkg/wordlist"
)

// app carries what the subcommands share.
type app struct {
	v      *viper.Viper
	cfg    config.Config
	logger *log.Logger
}

func newRootCmd() *cobra.Command {
	a := &app{v: config.New()}
	var cfgFile string

	root := &cobra.Command{
		Use:   "listenability",
		Short: "Score the listenability of English transcripts",
		Long: "listenability classifies words by difficulty and scores transcripts of spoken " +
			"learning materials with readability formulas adapted to listening.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := config.ReadFile(a.v, cfgFile); err != nil {
				return err
			}
			cfg, err := config.Load(a.v)
			if err != nil {
				return err
			}
			a.cfg = cfg
			if cfg.Debug {
				a.logger = log.New(cmd.ErrOrStderr(), "listenability: ", log.LstdFlags)
			}
			return nil
		},
	}

	pf := root.PersistentFlags()
	pf.StringVar(&cfgFile, "config", "", "config file (default ./listenability.yaml)")
	pf.String("db", "", "path to the SQLite database")
	pf.String("headwords", "", "headword table CSV")
	pf.String("familiar", "", "familiar word list CSV (Dale-Chall)")
	pf.String("compounds", "", "compound dictionary CSV")
	pf.String("roots", "", "root wordlist, one word per line")
	pf.String("syllables", "", "syllable dictionary")
	pf.Bool("debug", false, "log progress to stderr")
	a.bind(pf, map[string]string{
		config.KeyDBPath:    "db",
		config.KeyHeadwords: "headwords",
		config.KeyFamiliar:  "familiar",
		config.KeyCompounds: "compounds",
		config.KeyRoots:     "roots",
		config.KeySyllables: "syllables",
		config.KeyDebug:     "debug",
	})

	root.AddCommand(a.scoreCmd())
	root.AddCommand(a.classifyCmd())
	root.AddCommand(a.wordlistCmd())
	root.AddCommand(a.compareCmd())
	root.AddCommand(a.fetchCmd())
	root.AddCommand(versionCmd())
	return root
}

// bind ties config keys to flags of fs.
func (a *app) bind(fs *pflag.FlagSet, keys map[string]string) {
	for key, name := range keys {
		if err := a.v.BindPFlag(key, fs.Lookup(name)); err != nil {
			panic(fmt.Sprintf("bind %s: %v", name, err))
		}
	}
}

func (a *app) logf(format string, args ...interface{}) {
	if a.logger != nil {
		a.logger.Printf(format, args...)
	}
}

// resources downloads missing resources and loads them.
func (a *app) resources(ctx context.Context) (*wordlist.Resources, error) {
	if err := a.cfg.EnsureResources(ctx); err != nil {
		return nil, err
	}
	res, err := wordlist.Load(a.cfg.Resources)
	if err != nil {
		return nil, err
	}
	a.logf("loaded %d headwords, %d familiar words, %d compounds, %d roots",
		res.Headwords.Len(), res.Familiar.Len(), len(res.Compounds), len(res.Roots))
	return res, nil
}

// pipeline holds the analysers built from the resources.
type pipeline struct {
	prose    *nlp.Prose
	classes  *classify.Memo
	familiar *classify.Familiarity
	scorer   *readability.Scorer
}

// newPipeline builds the analysers. res may be nil, in which case only the
// formulas that need no word lists are meaningful.
func (a *app) newPipeline(res *wordlist.Resources) (*pipeline, error) {
	p := &pipeline{}
	var err error
	if p.prose, err = nlp.NewProse(a.cfg.NERCacheSize); err != nil {
		return nil, err
	}

	var syl *readability.Syllables
	if a.cfg.Syllables != "" {
		if syl, err = readability.LoadSyllables(a.cfg.Syllables); err != nil {
			return nil, err
		}
	}

	var resolver readability.Resolver
	markers := wordlist.DefaultDepMarkers()
	if res != nil {
		markers = res.DepMarkers
		p.classes = classify.NewMemo(classify.NewDefault(res), a.cfg.CacheTTL)
		resolver = p.classes
		if res.Familiar != nil {
			p.familiar = classify.NewFamiliarity(res.Familiar, nlp.NewMorphy(res.Roots), p.prose, p.prose)
		}
	}

	p.scorer = readability.NewScorer(
		readability.NewAnalyzerWith(p.prose, p.prose),
		syl, p.familiar, resolver,
		readability.Options{
			Limit:         a.cfg.Limit,
			KeepSentences: a.cfg.KeepSentences,
			HardClass:     a.cfg.HardClass,
			DepMarkers:    markers,
		})
	return p, nil
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintln(cmd.OutOrStdout(), "listenability", readability.Version())
		},
	}
}

// output returns stdout or the file at path.
func output(cmd *cobra.Command, path string) (io.Writer, func() error, error) {
	if path == "" || path == "-" {
		return cmd.OutOrStdout(), func() error { return nil }, nil
	}
	f, err := createFile(path)
	if err != nil {
		return nil, nil, err
	}
	return f, f.Close, nil
}
