package output

import (
	"encoding/json"
	"io"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
)

// Tabular is data that knows its table layout.
type Tabular interface {
	Header() table.Row
	Rows() []table.Row
}

// Footed tables add a totals row.
type Footed interface {
	Footer() table.Row
}

// Titled tables print a caption above the header.
type Titled interface {
	Title() string
}

// Valuer exposes the value JSON and YAML should encode in place of a view.
type Valuer interface {
	Value() any
}

func unwrap(data any) any {
	if v, ok := data.(Valuer); ok {
		return v.Value()
	}
	return data
}

// TableFormatter formats data as a table.
type TableFormatter struct {
	NoHeaders bool
}

// Format renders Tabular data with go-pretty. Anything else is printed as JSON.
func (f *TableFormatter) Format(w io.Writer, data any) error {
	t, ok := data.(Tabular)
	if !ok {
		encoder := json.NewEncoder(w)
		encoder.SetIndent("", "  ")
		return encoder.Encode(unwrap(data))
	}

	tw := table.NewWriter()
	tw.SetOutputMirror(w)
	tw.SetStyle(table.StyleLight)
	tw.Style().Format.Header = text.FormatUpper
	tw.Style().Format.Footer = text.FormatUpper
	if tt, ok := data.(Titled); ok && tt.Title() != "" {
		tw.SetTitle(tt.Title())
	}
	if !f.NoHeaders {
		tw.AppendHeader(t.Header())
	}
	tw.AppendRows(t.Rows())
	if ft, ok := data.(Footed); ok {
		tw.AppendFooter(ft.Footer())
	}
	tw.Render()
	return nil
}
