package commands

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/sqlgate/internal/rows"
)

func sampleResultSet() *rows.ResultSet {
	return &rows.ResultSet{
		Columns: []string{"name", "id", "note"},
		Rows: []rows.Row{
			{"name": "alice", "id": int64(1), "note": nil},
			{"name": "bob, jr", "id": int64(2), "note": "hi"},
		},
	}
}

func TestRenderResults(t *testing.T) {
	tests := []struct {
		name   string
		format string
		check  func(t *testing.T, out string)
	}{
		{
			name:   "table",
			format: "table",
			check: func(t *testing.T, out string) {
				assert.Contains(t, out, "alice")
				assert.Contains(t, out, "NULL")
				assert.Contains(t, out, "(2 rows)")
			},
		},
		{
			name:   "json keeps column order",
			format: "json",
			check: func(t *testing.T, out string) {
				assert.JSONEq(t, `[{"name":"alice","id":1,"note":null},{"name":"bob, jr","id":2,"note":"hi"}]`, out)
				assert.Less(t, strings.Index(out, `"name"`), strings.Index(out, `"id"`))
			},
		},
		{
			name:   "yaml keeps column order",
			format: "yaml",
			check: func(t *testing.T, out string) {
				assert.True(t, strings.HasPrefix(out, "- name: alice\n  id: 1\n  note: null\n- name: "), out)
				assert.True(t, strings.HasSuffix(out, "\n  id: 2\n  note: hi\n"), out)
			},
		},
		{
			name:   "csv",
			format: "csv",
			check: func(t *testing.T, out string) {
				assert.Contains(t, out, "alice,1,NULL")
				assert.Contains(t, out, `"bob\, jr",2,hi`)
			},
		},
		{
			name:   "markdown",
			format: "md",
			check: func(t *testing.T, out string) {
				assert.True(t, strings.HasPrefix(out, "|"))
				assert.Contains(t, out, "alice")
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			require.NoError(t, renderResults(&buf, sampleResultSet(), tt.format))
			tt.check(t, buf.String())
		})
	}
}

func TestRenderResults_Empty(t *testing.T) {
	empty := &rows.ResultSet{}

	tests := []struct {
		format string
		want   string
	}{
		{"table", "(0 rows)\n"},
		{"md", "(0 rows)\n"},
		{"json", "[]\n"},
		{"yaml", "[]\n"},
		{"csv", ""},
	}

	for _, tt := range tests {
		t.Run(tt.format, func(t *testing.T) {
			var buf bytes.Buffer
			require.NoError(t, renderResults(&buf, empty, tt.format))
			assert.Equal(t, tt.want, buf.String())
		})
	}
}

func TestFormatValue(t *testing.T) {
	assert.Equal(t, "NULL", formatValue(nil))
	assert.Equal(t, "42", formatValue(int64(42)))
	assert.Equal(t, "text", formatValue("text"))
	assert.Equal(t, "AP8=", formatValue([]byte{0x00, 0xff}))
}
