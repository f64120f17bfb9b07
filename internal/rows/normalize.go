package rows

import (
	"strconv"
	"unicode/utf8"
)

// MaxSafeInteger is the largest integer a JSON number (IEEE-754 double)
// holds exactly: 2^53 - 1.
const MaxSafeInteger = 1<<53 - 1

// Normalize returns a copy of row with every value made JSON-safe.
// Normalizing an already-normalized row is a no-op.
func Normalize(row Row) Row {
	out := make(Row, len(row))
	for k, v := range row {
		out[k] = NormalizeValue(v)
	}
	return out
}

// NormalizeAll normalizes every row of rs in place.
func NormalizeAll(rs *ResultSet) {
	for i, row := range rs.Rows {
		rs.Rows[i] = Normalize(row)
	}
}

// NormalizeValue converts 64-bit integers outside the safe JSON range to
// decimal strings and UTF-8 byte slices to strings. Everything else is
// returned unchanged; non-UTF-8 bytes stay binary.
func NormalizeValue(v any) any {
	switch n := v.(type) {
	case int64:
		if n > MaxSafeInteger || n < -MaxSafeInteger {
			return strconv.FormatInt(n, 10)
		}
	case int:
		if int64(n) > MaxSafeInteger || int64(n) < -MaxSafeInteger {
			return strconv.Itoa(n)
		}
	case uint64:
		if n > MaxSafeInteger {
			return strconv.FormatUint(n, 10)
		}
	case uint:
		if uint64(n) > MaxSafeInteger {
			return strconv.FormatUint(uint64(n), 10)
		}
	case []byte:
		if utf8.Valid(n) {
			return string(n)
		}
	}
	return v
}
