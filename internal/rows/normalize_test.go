package rows

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeValue(t *testing.T) {
	ts := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name     string
		input    any
		expected any
	}{
		{"nil", nil, nil},
		{"small int64", int64(42), int64(42)},
		{"max safe int64", int64(MaxSafeInteger), int64(MaxSafeInteger)},
		{"min safe int64", int64(-MaxSafeInteger), int64(-MaxSafeInteger)},
		{"unsafe int64", int64(MaxSafeInteger + 1), "9007199254740992"},
		{"unsafe negative int64", int64(math.MinInt64), "-9223372036854775808"},
		{"small uint64", uint64(7), uint64(7)},
		{"unsafe uint64", uint64(math.MaxUint64), "18446744073709551615"},
		{"unsafe int", int(MaxSafeInteger + 10), "9007199254741001"},
		{"float", 3.5, 3.5},
		{"bool", true, true},
		{"string", "hello", "hello"},
		{"utf8 bytes", []byte("héllo"), "héllo"},
		{"decimal bytes", []byte("12345678901234567890.50"), "12345678901234567890.50"},
		{"binary bytes", []byte{0xff, 0xfe, 0x00}, []byte{0xff, 0xfe, 0x00}},
		{"time", ts, ts},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, NormalizeValue(tt.input))
		})
	}
}

func TestNormalize_Idempotent(t *testing.T) {
	row := Row{
		"id":      uint64(18446744073709551615),
		"balance": int64(-9007199254740993),
		"count":   int64(12),
		"name":    []byte("alice"),
		"blob":    []byte{0xc3, 0x28},
		"missing": nil,
	}

	once := Normalize(row)
	twice := Normalize(once)

	assert.Equal(t, once, twice)
	assert.Equal(t, "18446744073709551615", once["id"])
	assert.Equal(t, "-9007199254740993", once["balance"])
	assert.Equal(t, int64(12), once["count"])
	assert.Equal(t, "alice", once["name"])

	// the input row is not modified
	assert.Equal(t, uint64(18446744073709551615), row["id"])
}

func TestNormalizeAll(t *testing.T) {
	rs := &ResultSet{
		Columns: []string{"id"},
		Rows:    []Row{{"id": uint64(1 << 60)}, {"id": uint64(2)}},
	}
	NormalizeAll(rs)

	assert.Equal(t, "1152921504606846976", rs.Rows[0]["id"])
	assert.Equal(t, uint64(2), rs.Rows[1]["id"])
}
