package commands

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"gopkg.in/yaml.v3"

	"github.com/leapstack-labs/sqlgate/internal/rows"
	"github.com/leapstack-labs/sqlgate/pkg/jsonapi"
)

func renderResults(w io.Writer, rs *rows.ResultSet, format string) error {
	switch format {
	case "json":
		return renderJSON(w, rs)
	case "yaml":
		return renderYAML(w, rs)
	case "csv":
		return renderCSV(w, rs)
	case "md", "markdown":
		return renderMarkdown(w, rs)
	default:
		return renderTable(w, rs)
	}
}

// newTableWriter loads rs into a go-pretty table writer mirrored to w.
func newTableWriter(w io.Writer, rs *rows.ResultSet) table.Writer {
	t := table.NewWriter()
	t.SetOutputMirror(w)

	header := make(table.Row, len(rs.Columns))
	for i, col := range rs.Columns {
		header[i] = col
	}
	t.AppendHeader(header)

	for _, r := range rs.Rows {
		row := make(table.Row, len(rs.Columns))
		for i, col := range rs.Columns {
			row[i] = formatValue(r[col])
		}
		t.AppendRow(row)
	}
	return t
}

func renderTable(w io.Writer, rs *rows.ResultSet) error {
	if rs.Len() == 0 {
		_, _ = fmt.Fprintln(w, "(0 rows)")
		return nil
	}

	t := newTableWriter(w, rs)
	t.SetStyle(table.StyleLight)
	t.Render()
	_, _ = fmt.Fprintf(w, "(%d rows)\n", rs.Len())
	return nil
}

func renderCSV(w io.Writer, rs *rows.ResultSet) error {
	if len(rs.Columns) == 0 {
		return nil
	}
	newTableWriter(w, rs).RenderCSV()
	return nil
}

func renderMarkdown(w io.Writer, rs *rows.ResultSet) error {
	if rs.Len() == 0 {
		_, _ = fmt.Fprintln(w, "(0 rows)")
		return nil
	}
	newTableWriter(w, rs).RenderMarkdown()
	return nil
}

// renderJSON prints an array of objects whose keys keep column order.
func renderJSON(w io.Writer, rs *rows.ResultSet) error {
	out := make([]*jsonapi.Attributes, 0, rs.Len())
	for _, r := range rs.Rows {
		attrs := jsonapi.NewAttributes(len(rs.Columns))
		for _, col := range rs.Columns {
			attrs.Set(col, r[col])
		}
		out = append(out, attrs)
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}

// renderYAML prints a sequence of mappings whose keys keep column order.
func renderYAML(w io.Writer, rs *rows.ResultSet) error {
	seq := &yaml.Node{Kind: yaml.SequenceNode, Tag: "!!seq"}
	for _, r := range rs.Rows {
		m := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
		for _, col := range rs.Columns {
			var v yaml.Node
			if err := v.Encode(yamlValue(r[col])); err != nil {
				return fmt.Errorf("failed to encode column %s: %w", col, err)
			}
			m.Content = append(m.Content,
				&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: col},
				&v,
			)
		}
		seq.Content = append(seq.Content, m)
	}
	if len(seq.Content) == 0 {
		seq.Style = yaml.FlowStyle
	}

	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(seq); err != nil {
		return err
	}
	return enc.Close()
}

func yamlValue(v any) any {
	if b, ok := v.([]byte); ok {
		return base64.StdEncoding.EncodeToString(b)
	}
	return v
}

func formatValue(v any) string {
	switch val := v.(type) {
	case nil:
		return "NULL"
	case []byte:
		return base64.StdEncoding.EncodeToString(val)
	case time.Time:
		return val.Format(time.RFC3339Nano)
	default:
		return fmt.Sprintf("%v", val)
	}
}
