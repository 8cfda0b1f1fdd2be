package main

import (
	"errors"
	"fmt"
	"regexp"

	"github.com/spf13/cobra"

	"github.com/japaniel/listenability/pkg/article"
)

func (a *app) fetchCmd() *cobra.Command {
	var out, index, pattern string

	cmd := &cobra.Command{
		Use:   "fetch [URL]",
		Short: "Download an article or list the links of an index page",
		Long: "fetch downloads URL and prints its readable text, ready to be scored. With --index " +
			"it prints the links of the index page instead, filtered by --pattern.",
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f := article.NewFetcher()
			ctx := cmd.Context()

			if index != "" {
				var re *regexp.Regexp
				if pattern != "" {
					var err error
					if re, err = regexp.Compile(pattern); err != nil {
						return fmt.Errorf("--pattern: %w", err)
					}
				}
				links, err := f.Links(ctx, index, re)
				if err != nil {
					return err
				}
				for _, l := range links {
					fmt.Fprintln(cmd.OutOrStdout(), l)
				}
				return nil
			}

			if len(args) != 1 {
				return errors.New("give a URL or --index")
			}
			a.logf("Fetching %s...", args[0])
			art, err := f.Fetch(ctx, args[0])
			if err != nil {
				return err
			}
			a.logf("Title: %s, %d chars", art.Title, len(art.Text))

			w, closeOut, err := output(cmd, out)
			if err != nil {
				return err
			}
			if out == "" {
				fmt.Fprintf(w, "# %s\n\n", art.Title)
			}
			if _, err := fmt.Fprintln(w, art.Text); err != nil {
				closeOut()
				return err
			}
			return closeOut()
		},
	}
	cmd.Flags().StringVarP(&out, "out", "o", "", "write the text to this file (default stdout)")
	cmd.Flags().StringVar(&index, "index", "", "index page to collect links from")
	cmd.Flags().StringVar(&pattern, "pattern", "", "regular expression links must match")
	return cmd
}
