package main

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/example/go-phonecodes/internal/phonecodes"
	"github.com/example/go-phonecodes/internal/remap"
	"github.com/spf13/cobra"
)

func newRemapCmd() *cobra.Command {
	var (
		input       string
		mapping     string
		mappingFile string
	)

	cmd := &cobra.Command{
		Use:   "remap",
		Short: "Apply a remap dictionary to an IPA transcription",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := requireConfig()
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
			if d == nil {
				return errors.New("provide --mapping, --mapping-file or --reduction")
			}

			for _, c := range remap.CascadingKeys(d) {
				slog.Warn("cascading remap keys", "earlier", c.Earlier, "later", c.Later)
			}

			_, err = fmt.Fprintln(cmd.OutOrStdout(), strings.TrimSpace(remap.Apply(transcription, d)))
			return err
		},
	}

	cmd.Flags().StringVar(&input, "input", "", "IPA transcription (reads stdin when empty)")
	cmd.Flags().StringVar(&mapping, "mapping", "", "Remap rules, e.g. \"ʌ=ə,ʔ=\"")
	cmd.Flags().StringVar(&mappingFile, "mapping-file", "", "TOML file with ordered remap pairs")

	return cmd
}
