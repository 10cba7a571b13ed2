package main

import (
	"fmt"
	"io"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
)

type tableMode int

const (
	ascii tableMode = iota
	markdown
)

// tableWriter wraps a go-pretty writer with the column settings used by
// every command.
type tableWriter struct {
	w    table.Writer
	mode tableMode
}

func newTable(m tableMode) *tableWriter {
	w := table.NewWriter()
	if m == ascii {
		w.SetStyle(table.StyleLight)
	}
	return &tableWriter{w: w, mode: m}
}

func (t *tableWriter) header(cols ...any) {
	t.w.AppendHeader(table.Row(cols))
}

func (t *tableWriter) row(vals ...any) {
	t.w.AppendRow(table.Row(vals))
}

func (t *tableWriter) separator() {
	t.w.AppendSeparator()
}

// rightAlign right-aligns the given 1-based columns.
func (t *tableWriter) rightAlign(cols ...int) {
	cfgs := make([]table.ColumnConfig, 0, len(cols))
	for _, n := range cols {
		cfgs = append(cfgs, table.ColumnConfig{Number: n, Align: text.AlignRight})
	}
	t.w.SetColumnConfigs(cfgs)
}

func (t *tableWriter) render(out io.Writer) {
	if t.mode == markdown {
		fmt.Fprintln(out, t.w.RenderMarkdown())
		return
	}
	fmt.Fprintln(out, t.w.Render())
}
