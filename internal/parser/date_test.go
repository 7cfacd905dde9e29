package parser

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestParseDate(t *testing.T) {
	now := time.Date(2026, 3, 2, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name     string
		token    string
		expected string
		wantErr  bool
	}{
		{name: "full date", token: "2025/10/24", expected: "2025-10-24"},
		{name: "short date uses current year", token: "10/24", expected: "2026-10-24"},
		{name: "single digit parts", token: "3/5", expected: "2026-03-05"},
		{name: "no slash", token: "20251024", wantErr: true},
		{name: "three slashes", token: "2025/10/24/1", wantErr: true},
		{name: "not a real date", token: "2/30", wantErr: true},
		{name: "not numeric", token: "abc/def", wantErr: true},
		{name: "empty", token: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, err := ParseDate(tt.token, now)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tt.expected, d.Format("2006-01-02"))
		})
	}
}

func TestParseAmountLine(t *testing.T) {
	tests := []struct {
		name     string
		line     string
		kind     AmountLineKind
		code     string
		amount   float64
	}{
		{name: "dot separator", line: "2. 100", kind: AmountLineOK, code: "2", amount: 100},
		{name: "space separator", line: "2 100", kind: AmountLineOK, code: "2", amount: 100},
		{name: "dot without space", line: "2.100", kind: AmountLineOK, code: "2", amount: 100},
		{name: "decimal amount", line: "5. 85.5", kind: AmountLineOK, code: "5", amount: 85.5},
		{name: "free text without digits", line: "以上是今天的", kind: AmountLineBlank},
		{name: "empty", line: "", kind: AmountLineBlank},
		{name: "digits but bad shape", line: "2. 100元", kind: AmountLineMalformed},
		{name: "amount only", line: "100.", kind: AmountLineMalformed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			parsed, kind := ParseAmountLine(tt.line)
			assert.Equal(t, tt.kind, kind)
			if tt.kind == AmountLineOK {
				assert.Equal(t, tt.code, parsed.UserCode)
				assert.Equal(t, tt.amount, parsed.Amount)
			}
		})
	}
}
