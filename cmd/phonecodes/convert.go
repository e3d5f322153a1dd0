package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/example/go-phonecodes/internal/phonecode"
	"github.com/example/go-phonecodes/internal/phonecodes"
	"github.com/example/go-phonecodes/internal/remap"
	"github.com/example/go-phonecodes/internal/text"
	"github.com/spf13/cobra"
)

func newConvertCmd() *cobra.Command {
	var (
		input       string
		from        string
		to          string
		mapping     string
		mappingFile string
		lines       bool
	)

	cmd := &cobra.Command{
		Use:   "convert",
		Short: "Convert a transcription from one alphabet to another",
		Example: `  phonecodes convert --from arpabet --to ipa --input "HH AH0 L OW1"
  echo "n i3 h ao3" | phonecodes convert --from callhome --to ipa --language cmn`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := requireConfig()
			if err != nil {
				return err
			}

			source, target, err := parsePair(from, to)
			if err != nil {
				return err
			}

			transcription, err := readInput(input, cmd.InOrStdin())
			if err != nil {
				return err
			}

			svc, err := phonecodes.NewServiceFromConfig(cfg)
			if err != nil {
				return err
			}

			d, err := loadMapping(svc, mapping, mappingFile, cfg.Convert.Reduction)
			if err != nil {
				return err
			}

			opts := []phonecodes.Option{phonecodes.WithLanguage(cfg.Convert.Language)}
			if d != nil {
				opts = append(opts, phonecodes.WithPostMapping(d))
			}

			out := cmd.OutOrStdout()
			if !lines {
				converted, err := svc.Convert(transcription, source, target, opts...)
				if err != nil {
					return err
				}
				_, err = fmt.Fprintln(out, converted)
				return err
			}

			converted, err := svc.ConvertList(splitLines(transcription), source, target, opts...)
			if err != nil {
				return err
			}
			for _, line := range converted {
				if _, err := fmt.Fprintln(out, line); err != nil {
					return err
				}
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&input, "input", "", "Transcription to convert (reads stdin when empty)")
	cmd.Flags().StringVar(&from, "from", "", "Source alphabet ("+strings.Join(phonecode.AlphabetNames(), "|")+")")
	cmd.Flags().StringVar(&to, "to", "", "Target alphabet")
	cmd.Flags().StringVar(&mapping, "mapping", "", "Remap rules for IPA output, e.g. \"ʌ=ə,ʔ=\"")
	cmd.Flags().StringVar(&mappingFile, "mapping-file", "", "TOML file with ordered remap pairs")
	cmd.Flags().BoolVar(&lines, "lines", false, "Convert each input line as a separate transcription")
	_ = cmd.MarkFlagRequired("from")
	_ = cmd.MarkFlagRequired("to")

	return cmd
}

func parsePair(from, to string) (phonecode.Alphabet, phonecode.Alphabet, error) {
	source, err := phonecode.ParseAlphabet(from)
	if err != nil {
		return 0, 0, fmt.Errorf("--from: %w", err)
	}
	target, err := phonecode.ParseAlphabet(to)
	if err != nil {
		return 0, 0, fmt.Errorf("--to: %w", err)
	}
	return source, target, nil
}

// readInput returns input, or stdin when input is blank.
func readInput(input string, stdin io.Reader) (string, error) {
	if strings.TrimSpace(input) != "" {
		return input, nil
	}

	b, err := io.ReadAll(stdin)
	if err != nil {
		return "", fmt.Errorf("read stdin: %w", err)
	}
	s, err := text.NormalizeInput(string(b), false)
	if err != nil {
		return "", fmt.Errorf("either provide --input or pipe a transcription on stdin: %w", err)
	}
	return strings.TrimSpace(s), nil
}

func splitLines(s string) []string {
	var out []string
	for _, line := range strings.Split(s, "\n") {
		line = strings.TrimSpace(line)
		if line != "" {
			out = append(out, line)
		}
	}
	return out
}

// loadMapping resolves at most one of inline rules, a mapping file or a
// named reduction. It returns nil when none is given.
func loadMapping(svc *phonecodes.Service, rules, file, reduction string) (*remap.Dictionary, error) {
	given := 0
	for _, s := range []string{rules, file, reduction} {
		if s != "" {
			given++
		}
	}
	if given > 1 {
		return nil, errors.New("--mapping, --mapping-file and --reduction are mutually exclusive")
	}

	switch {
	case rules != "":
		d, err := remap.ParseDictionary(rules)
		if err != nil {
			return nil, fmt.Errorf("--mapping: %w", err)
		}
		return d, nil
	case file != "":
		f, err := os.Open(file)
		if err != nil {
			return nil, fmt.Errorf("--mapping-file: %w", err)
		}
		defer func() { _ = f.Close() }()
		d, err := remap.LoadDictionary(f)
		if err != nil {
			return nil, fmt.Errorf("--mapping-file %s: %w", file, err)
		}
		return d, nil
	case reduction != "":
		red, ok := svc.Reduction(reduction)
		if !ok {
			return nil, fmt.Errorf("unknown reduction %q", reduction)
		}
		return red.Dictionary, nil
	default:
		return nil, nil
	}
}
