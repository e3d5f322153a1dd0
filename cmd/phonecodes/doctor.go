package main

import (
	"errors"
	"fmt"

	"github.com/example/go-phonecodes/internal/doctor"
	"github.com/example/go-phonecodes/internal/symtab"
	"github.com/spf13/cobra"
)

func newDoctorCmd() *cobra.Command {
	var mappingFiles []string

	cmd := &cobra.Command{
		Use:   "doctor",
		Short: "Check conversion tables and remap dictionaries",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := requireConfig()
			if err != nil {
				return err
			}

			dcfg := doctor.Config{
				Registry:     symtab.Default,
				MappingFiles: mappingFiles,
			}
			if dir := cfg.Tables.Dir; dir != "" {
				dcfg.Registry = func() (*symtab.Registry, error) { return symtab.Load(dir) }
			}

			out := cmd.OutOrStdout()
			result := doctor.Run(dcfg, out)
			if result.Failed() {
				for _, f := range result.Failures() {
					fmt.Fprintf(cmd.ErrOrStderr(), "FAIL: %s\n", f)
				}

				return errors.New("doctor checks failed")
			}

			_, _ = fmt.Fprintln(out, "doctor checks passed")

			return nil
		},
	}

	cmd.Flags().StringArrayVar(&mappingFiles, "mapping-file", nil, "Remap dictionary (TOML) to validate; repeatable")

	return cmd
}
