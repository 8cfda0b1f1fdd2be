package main

import (
	"encoding/csv"
	"errors"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/japaniel/listenability/pkg/asr"
	"github.com/japaniel/listenability/pkg/transcript"
)

func (a *app) compareCmd() *cobra.Command {
	var ref, hyp, out string
	var punctuation bool

	cmd := &cobra.Command{
		Use:   "compare",
		Short: "Compare ASR transcripts with references",
		Long: "compare reads two list files of '<id> <text>' lines and writes the word and " +
			"character error rates of every reference utterance. With --punctuation the F1 " +
			"score of the predicted punctuation is added.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if ref == "" || hyp == "" {
				return errors.New("--ref and --hyp are required")
			}
			refs, err := transcript.LoadList(ref)
			if err != nil {
				return err
			}
			hyps, err := transcript.LoadList(hyp)
			if err != nil {
				return err
			}
			byID := transcript.ByID(hyps)

			w, closeOut, err := output(cmd, out)
			if err != nil {
				return err
			}
			cw := csv.NewWriter(w)
			header := []string{"utt_id", "ref_words", "wer", "cer"}
			if punctuation {
				header = append(header, "punct_f1")
			}
			cw.Write(header)

			var wordErrs, words, charErrs, chars, missing int
			for _, r := range refs {
				h, ok := byID[r.ID]
				if !ok {
					missing++
					a.logf("no hypothesis for %s", r.ID)
					continue
				}
				wer, err := asr.WER(r.Text, h.Text)
				if err != nil {
					closeOut()
					return fmt.Errorf("%s: %w", r.ID, err)
				}
				cer := asr.CER(r.Text, h.Text)
				wordErrs += wer.Distance
				words += wer.RefLength
				charErrs += cer.Distance
				chars += cer.RefLength

				rec := []string{r.ID, strconv.Itoa(wer.RefLength), formatFloat(wer.Value), formatFloat(cer.Value)}
				if punctuation {
					ps, err := asr.PunctuationF1(r.Text, h.Text, asr.DefaultMarks)
					if err != nil {
						a.logf("%s: %v", r.ID, err)
						rec = append(rec, "")
					} else {
						rec = append(rec, formatFloat(ps.Micro))
					}
				}
				cw.Write(rec)
			}
			cw.Flush()
			if err := cw.Error(); err != nil {
				closeOut()
				return err
			}
			if err := closeOut(); err != nil {
				return err
			}

			fmt.Fprintf(cmd.ErrOrStderr(), "Corpus WER %.4f, CER %.4f over %d utterances (%d without hypothesis).\n",
				ratio(wordErrs, words), ratio(charErrs, chars), len(refs)-missing, missing)
			return nil
		},
	}
	f := cmd.Flags()
	f.StringVar(&ref, "ref", "", "reference list file")
	f.StringVar(&hyp, "hyp", "", "hypothesis list file")
	f.StringVarP(&out, "out", "o", "", "CSV output file (default stdout)")
	f.BoolVar(&punctuation, "punctuation", false, "add the punctuation F1 score")
	return cmd
}

func ratio(n, d int) float64 {
	if d == 0 {
		return 0
	}
	return float64(n) / float64(d)
}
