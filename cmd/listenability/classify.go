package main

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/japaniel/listenability/pkg/classify"
	"github.com/japaniel/listenability/pkg/nlp"
)

func (a *app) classifyCmd() *cobra.Command {
	var text string
	var explain bool

	cmd := &cobra.Command{
		Use:   "classify [WORD[/TAG] ...]",
		Short: "Print the difficulty class of words",
		Long: "classify prints the difficulty class (1 easiest, 11 unknown) of each word. A word may " +
			"carry a Penn Treebank tag after a slash, e.g. running/VBG; untagged words are nouns. " +
			"With --text the words of a text are tagged automatically.",
		RunE: func(cmd *cobra.Command, args []string) error {
			if text == "" && len(args) == 0 {
				return errors.New("give words or --text")
			}
			res, err := a.resources(cmd.Context())
			if err != nil {
				return err
			}
			c := classify.NewDefault(res)

			var toks []nlp.TaggedToken
			for _, arg := range args {
				word, tag, _ := strings.Cut(arg, "/")
				toks = append(toks, nlp.TaggedToken{Text: word, Tag: tag})
			}
			if text != "" {
				p, err := nlp.NewProse(a.cfg.NERCacheSize)
				if err != nil {
					return err
				}
				tagged, err := p.Tag(text)
				if err != nil {
					return err
				}
				for _, t := range tagged {
					if hasLetter(t.Text) {
						toks = append(toks, t)
					}
				}
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			for _, t := range toks {
				class, source := c.Resolve(t.Text, t.Tag), "compound"
				r := c.Explain(t.Text, t.Tag)
				if !c.IsCompound(t.Text) {
					source = r.Source
				}
				if source == "" {
					source = "-"
				}
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s", t.Text, t.Tag, formatClass(class), source)
				if explain {
					fmt.Fprintf(tw, "\t%s\t%s", r.Stem, r.Lemma)
				}
				fmt.Fprintln(tw)
			}
			return tw.Flush()
		},
	}
	cmd.Flags().StringVar(&text, "text", "", "tag and classify the words of this text")
	cmd.Flags().BoolVar(&explain, "explain", false, "also print the stem and lemma consulted")
	return cmd
}

func formatClass(c classify.Class) string {
	return strconv.FormatFloat(float64(c), 'g', -1, 64)
}

func hasLetter(s string) bool {
	for _, r := range s {
		if 'a' <= r && r <= 'z' || 'A' <= r && r <= 'Z' {
			return true
		}
	}
	return false
}
