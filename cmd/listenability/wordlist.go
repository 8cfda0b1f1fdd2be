package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/japaniel/listenability/pkg/classify"
	"github.com/japaniel/listenability/pkg/db"
	"github.com/japaniel/listenability/pkg/ingest"
	"github.com/japaniel/listenability/pkg/nlp"
	"github.com/japaniel/listenability/pkg/wordlist"
)

func (a *app) wordlistCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "wordlist",
		Short: "Build word list resources",
	}

	var familiar bool
	expand := &cobra.Command{
		Use:   "expand IN OUT",
		Short: "Expand a plain word list into a headword table",
		Long: "expand reads 'word' or 'word,class' lines and writes a CSV with the stem and the " +
			"lemma of each word for every part of speech. With --familiar the class column is " +
			"omitted, producing a familiar word list.",
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			in, err := os.Open(args[0])
			if err != nil {
				return err
			}
			defer in.Close()
			entries, err := wordlist.ReadPlainList(in)
			if err != nil {
				return fmt.Errorf("%s: %w", args[0], err)
			}

			roots := wordlist.WordSet{}
			if a.cfg.Resources.Roots != "" {
				if roots, err = wordlist.LoadLines(a.cfg.Resources.Roots); err != nil {
					return err
				}
			}
			for _, e := range entries {
				roots[e.Word] = struct{}{}
			}
			prefixes := wordlist.DefaultPrefixes()
			if a.cfg.Resources.Prefixes != "" {
				if prefixes, err = wordlist.LoadCommaList(a.cfg.Resources.Prefixes); err != nil {
					return err
				}
			}

			rows := wordlist.Expand(entries,
				nlp.NewPrefixStemmer(prefixes, roots, nlp.Snowball{}),
				nlp.NewMorphy(roots))

			out, err := createFile(args[1])
			if err != nil {
				return err
			}
			if err := wordlist.WriteHeadwords(out, rows, !familiar); err != nil {
				out.Close()
				return err
			}
			if err := out.Close(); err != nil {
				return err
			}
			fmt.Fprintf(cmd.ErrOrStderr(), "Wrote %d rows to %s.\n", len(rows), args[1])
			return nil
		},
	}
	expand.Flags().BoolVar(&familiar, "familiar", false, "omit the class column")

	reclassify := &cobra.Command{
		Use:   "reclassify",
		Short: "Recompute the classes of the words stored in the database",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			res, err := a.resources(cmd.Context())
			if err != nil {
				return err
			}
			conn, err := db.Open(a.cfg.DBPath)
			if err != nil {
				return err
			}
			defer conn.Close()
			n, err := ingest.Reclassify(conn, classify.NewDefault(res))
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.ErrOrStderr(), "Updated the class of %d words.\n", n)
			return nil
		},
	}

	cmd.AddCommand(expand, reclassify)
	return cmd
}
