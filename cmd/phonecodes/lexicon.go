package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/example/go-phonecodes/internal/lexicon"
	"github.com/example/go-phonecodes/internal/phonecode"
	"github.com/example/go-phonecodes/internal/phonecodes"
	"github.com/spf13/cobra"
)

func newLexiconCmd() *cobra.Command {
	var (
		inPath  string
		outPath string
		from    string
		to      string
	)

	cmd := &cobra.Command{
		Use:   "lexicon",
		Short: "Convert every pronunciation of a lexicon file",
		Example: `  phonecodes lexicon --lexicon-format cmudict --in cmudict.dict --to ipa --out cmudict.ipa.tsv
  phonecodes lexicon --from disc --to ipa --language deu < celex.tsv`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := requireConfig()
			if err != nil {
				return err
			}

			format, err := lexicon.ParseFormat(cfg.Lexicon.Format)
			if err != nil {
				return err
			}

			// cmudict input is always ARPABET
			source := phonecode.ARPABET
			if format == lexicon.FormatTSV {
				source, err = phonecode.ParseAlphabet(from)
				if err != nil {
					return fmt.Errorf("--from: %w", err)
				}
			}
			target, err := phonecode.ParseAlphabet(to)
			if err != nil {
				return fmt.Errorf("--to: %w", err)
			}
			// the language selects the table of the non-IPA side
			side := source
			if source == phonecode.IPA {
				side = target
			}
			lang, err := side.ResolveLanguage(cfg.Convert.Language)
			if err != nil {
				return err
			}

			in := cmd.InOrStdin()
			if inPath != "" && inPath != "-" {
				f, err := os.Open(inPath)
				if err != nil {
					return fmt.Errorf("open lexicon: %w", err)
				}
				defer func() { _ = f.Close() }()
				in = f
			}

			entries, err := lexicon.Read(in, format, source, lang)
			if err != nil {
				return err
			}

			svc, err := phonecodes.NewServiceFromConfig(cfg)
			if err != nil {
				return err
			}
			d, err := loadMapping(svc, "", "", cfg.Convert.Reduction)
			if err != nil {
				return err
			}
			opts := []phonecodes.Option{phonecodes.WithLanguage(cfg.Convert.Language)}
			if d != nil {
				opts = append(opts, phonecodes.WithPostMapping(d))
			}

			converted, err := lexicon.ConvertAll(svc, entries, target, cfg.Lexicon.Workers, opts...)
			if err != nil {
				return err
			}

			return writeLexicon(cmd.OutOrStdout(), outPath, converted)
		},
	}

	cmd.Flags().StringVar(&inPath, "in", "", "Lexicon to read (stdin when empty or -)")
	cmd.Flags().StringVar(&outPath, "out", "", "TSV file to write (stdout when empty)")
	cmd.Flags().StringVar(&from, "from", "", "Alphabet of a tsv lexicon")
	cmd.Flags().StringVar(&to, "to", "ipa", "Target alphabet")

	return cmd
}

func writeLexicon(stdout io.Writer, path string, entries []lexicon.Entry) error {
	if path == "" {
		return lexicon.WriteTSV(stdout, entries)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := lexicon.WriteTSV(f, entries); err != nil {
		_ = f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close %s: %w", path, err)
	}
	slog.Info("lexicon written", "path", path, "entries", len(entries))
	return nil
}
