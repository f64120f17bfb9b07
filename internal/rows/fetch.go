package rows

import (
	"context"
	"fmt"
	"strings"
	"unicode"

	"github.com/leapstack-labs/sqlgate/internal/schema"
)

// FetchPage reads one page of table. The table name must already have
// been checked with schema.TableExists.
//
// With a numeric limit the total comes from a separate COUNT(*) query on
// the same connection. The two statements do not share a snapshot, so the
// total can drift from the page under concurrent writes. With "all" no
// count query is made and the total is the number of rows returned.
func FetchPage(ctx context.Context, q Queryer, table string, req PageRequest) (*ResultSet, int64, error) {
	ident := schema.QuoteIdentifier(table)

	if req.Limit.All {
		rs, err := query(ctx, q, "SELECT * FROM "+ident)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to read %s: %w", ident, err)
		}
		return rs, int64(rs.Len()), nil
	}

	//nolint:gosec // identifier is validated by the caller and quoted above
	rs, err := query(ctx, q, "SELECT * FROM "+ident+" LIMIT ? OFFSET ?", req.Limit.N, req.Offset())
	if err != nil {
		return nil, 0, fmt.Errorf("failed to read %s: %w", ident, err)
	}

	var total int64
	if err := q.GetContext(ctx, &total, "SELECT COUNT(*) FROM "+ident); err != nil {
		return nil, 0, fmt.Errorf("failed to count %s: %w", ident, err)
	}

	return rs, total, nil
}

// ExecuteRaw runs arbitrary SQL text. There is no statement-type
// restriction: this is an intentionally unrestricted capability.
//
// Statements that produce result sets return their rows. Anything else is
// executed and reported as a single row of {affectedRows, insertId}.
func ExecuteRaw(ctx context.Context, q Queryer, sqlText string) (*ResultSet, error) {
	if strings.TrimSpace(sqlText) == "" {
		return nil, ErrEmptyQuery
	}

	if ReturnsRows(sqlText) {
		return query(ctx, q, sqlText)
	}

	res, err := q.ExecContext(ctx, sqlText)
	if err != nil {
		return nil, err
	}

	affected, _ := res.RowsAffected()
	insertID, _ := res.LastInsertId()

	return &ResultSet{
		Columns: []string{"affectedRows", "insertId"},
		Rows: []Row{{
			"affectedRows": affected,
			"insertId":     insertID,
		}},
	}, nil
}

func query(ctx context.Context, q Queryer, sqlText string, args ...any) (*ResultSet, error) {
	rows, err := q.QueryxContext(ctx, sqlText, args...)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	return scan(rows)
}

// rowKeywords are statement keywords that produce a result set.
var rowKeywords = map[string]bool{
	"SELECT":   true,
	"SHOW":     true,
	"DESCRIBE": true,
	"DESC":     true,
	"EXPLAIN":  true,
	"WITH":     true,
	"VALUES":   true,
	"TABLE":    true,
	"CALL":     true,
	"HELP":     true,

	// Table maintenance statements report one row per table.
	"ANALYZE":  true,
	"CHECK":    true,
	"CHECKSUM": true,
	"OPTIMIZE": true,
	"REPAIR":   true,
}

// ReturnsRows reports whether a statement's leading keyword produces a
// result set. Leading whitespace, comments and parentheses are skipped.
// HANDLER only returns rows in its READ form; OPEN and CLOSE do not.
func ReturnsRows(sqlText string) bool {
	kw, rest := leadingKeyword(sqlText)
	if kw == "HANDLER" {
		return handlerReads(rest)
	}
	return rowKeywords[kw]
}

// handlerReads reports whether the text after HANDLER is a READ, as in
// "HANDLER t READ FIRST".
func handlerReads(rest string) bool {
	fields := strings.Fields(rest)
	return len(fields) >= 2 && strings.EqualFold(fields[1], "READ")
}

// leadingKeyword returns the first keyword of s in upper case and the text
// following it.
func leadingKeyword(s string) (string, string) {
	for {
		s = strings.TrimLeftFunc(s, func(r rune) bool {
			return unicode.IsSpace(r) || r == '('
		})
		switch {
		case strings.HasPrefix(s, "--"), strings.HasPrefix(s, "#"):
			i := strings.IndexByte(s, '\n')
			if i < 0 {
				return "", ""
			}
			s = s[i+1:]
		case strings.HasPrefix(s, "/*"):
			i := strings.Index(s[2:], "*/")
			if i < 0 {
				return "", ""
			}
			s = s[i+4:]
		default:
			end := strings.IndexFunc(s, func(r rune) bool {
				return !unicode.IsLetter(r)
			})
			if end < 0 {
				end = len(s)
			}
			return strings.ToUpper(s[:end]), s[end:]
		}
	}
}
