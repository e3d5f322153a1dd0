package main

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/example/go-phonecodes/internal/phonecode"
	"github.com/example/go-phonecodes/internal/phonecodes"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
)

type columnAlignment int

const (
	alignLeft columnAlignment = iota
	alignRight
)

func newTablesCmd() *cobra.Command {
	var reductions bool

	cmd := &cobra.Command{
		Use:   "tables",
		Short: "List conversion tables or remap reductions",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := requireConfig()
			if err != nil {
				return err
			}
			svc, err := phonecodes.NewServiceFromConfig(cfg)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if reductions {
				return writeRows(out, reductionRows(svc))
			}
			return writeRows(out, tableRows(svc))
		},
	}

	cmd.Flags().BoolVar(&reductions, "reductions", false, "List built-in remap reductions instead of tables")

	return cmd
}

type rows struct {
	headers []string
	aligns  []columnAlignment
	data    [][]string
}

func tableRows(svc *phonecodes.Service) rows {
	r := rows{
		headers: []string{"FROM", "TO", "LANGUAGE", "ENTRIES", "ORIGIN"},
		aligns:  []columnAlignment{alignLeft, alignLeft, alignLeft, alignRight, alignLeft},
	}
	for _, key := range svc.Pairs() {
		t, ok := svc.Registry().Lookup(key.Source, key.Target, key.Language)
		if !ok {
			continue
		}
		lang := "-"
		if key.Language != phonecode.LanguageUnspecified {
			lang = key.Language.String()
		}
		r.data = append(r.data, []string{
			key.Source.String(),
			key.Target.String(),
			lang,
			strconv.Itoa(t.Len()),
			t.Origin(),
		})
	}
	return r
}

func reductionRows(svc *phonecodes.Service) rows {
	r := rows{
		headers: []string{"NAME", "SOURCE", "PAIRS", "DESCRIPTION"},
		aligns:  []columnAlignment{alignLeft, alignLeft, alignRight, alignLeft},
	}
	for _, red := range svc.Reductions() {
		r.data = append(r.data, []string{
			red.Name,
			red.Source.String(),
			strconv.Itoa(red.Dictionary.Len()),
			red.Description,
		})
	}
	return r
}

// writeRows renders a boxed table on a terminal and tab separated lines
// everywhere else.
func writeRows(w io.Writer, r rows) error {
	if isTerminal(w) {
		_, err := fmt.Fprintln(w, renderTable(r.headers, r.data, r.aligns))
		return err
	}

	if _, err := fmt.Fprintln(w, strings.Join(r.headers, "\t")); err != nil {
		return err
	}
	for _, row := range r.data {
		if _, err := fmt.Fprintln(w, strings.Join(row, "\t")); err != nil {
			return err
		}
	}
	return nil
}

func isTerminal(w io.Writer) bool {
	file, ok := w.(*os.File)
	if !ok {
		return false
	}
	fd := file.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

func renderTable(headers []string, data [][]string, aligns []columnAlignment) string {
	columns := len(headers)
	if columns == 0 {
		return ""
	}

	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)

	header := make(table.Row, columns)
	for i := range columns {
		header[i] = headers[i]
	}
	tw.AppendHeader(header)

	for _, row := range data {
		r := make(table.Row, columns)
		for i := range columns {
			if i < len(row) {
				r[i] = row[i]
			} else {
				r[i] = ""
			}
		}
		tw.AppendRow(r)
	}

	configs := make([]table.ColumnConfig, 0, columns)
	for i := range columns {
		align := text.AlignLeft
		if i < len(aligns) && aligns[i] == alignRight {
			align = text.AlignRight
		}
		configs = append(configs, table.ColumnConfig{
			Number:      i + 1,
			Align:       align,
			AlignHeader: text.AlignLeft,
		})
	}
	tw.SetColumnConfigs(configs)

	return tw.Render()
}
