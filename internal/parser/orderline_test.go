package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseOrderLine(t *testing.T) {
	tests := []struct {
		name     string
		line     string
		expected OrderLine
		ok       bool
	}{
		{
			name:     "dot form",
			line:     "2. 雞腿便當",
			expected: OrderLine{UserCode: "2", Items: "雞腿便當"},
			ok:       true,
		},
		{
			name:     "dot form without dot",
			line:     "2 雞腿便當",
			expected: OrderLine{UserCode: "2", Items: "雞腿便當"},
			ok:       true,
		},
		{
			name:     "hao form",
			line:     "2號 雞腿便當",
			expected: OrderLine{UserCode: "2", Items: "雞腿便當"},
			ok:       true,
		},
		{
			name:     "daihao form",
			line:     "代號2 雞腿便當",
			expected: OrderLine{UserCode: "2", Items: "雞腿便當"},
			ok:       true,
		},
		{
			name:     "daihao form with space",
			line:     "代號 2 雞腿便當",
			expected: OrderLine{UserCode: "2", Items: "雞腿便當"},
			ok:       true,
		},
		{
			name:     "trailing payer",
			line:     "2. 雞腿便當 15",
			expected: OrderLine{UserCode: "2", Items: "雞腿便當", PayerCode: "15"},
			ok:       true,
		},
		{
			name:     "single digit payer",
			line:     "5. 滷肉飯 9",
			expected: OrderLine{UserCode: "5", Items: "滷肉飯", PayerCode: "9"},
			ok:       true,
		},
		{
			// The surface pattern captures any whitespace-separated
			// digit tail as the explicit payer group; the <=2-digit
			// heuristic applies only when that group is absent.
			name:     "long digit tail is still an explicit payer",
			line:     "2. 雞腿便當 100",
			expected: OrderLine{UserCode: "2", Items: "雞腿便當", PayerCode: "100"},
			ok:       true,
		},
		{
			name:     "attached digit tail stays in items",
			line:     "2. 雞腿便當3",
			expected: OrderLine{UserCode: "2", Items: "雞腿便當3"},
			ok:       true,
		},
		{
			name:     "multi word items with payer",
			line:     "2. 大碗 牛肉麵 15",
			expected: OrderLine{UserCode: "2", Items: "大碗 牛肉麵", PayerCode: "15"},
			ok:       true,
		},
		{name: "no user code", line: "雞腿便當", ok: false},
		{name: "code only", line: "2.", ok: false},
		{name: "empty", line: "", ok: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			parsed, ok := ParseOrderLine(tt.line)
			assert.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.Equal(t, tt.expected, parsed)
			}
		})
	}
}

// The same order must parse identically through all three surface
// forms.
func TestParseOrderLine_SurfaceEquivalence(t *testing.T) {
	want := OrderLine{UserCode: "7", Items: "魚便當", PayerCode: "15"}
	for _, line := range []string{"7. 魚便當 15", "7號 魚便當 15", "代號7 魚便當 15"} {
		parsed, ok := ParseOrderLine(line)
		assert.True(t, ok, line)
		assert.Equal(t, want, parsed, line)
	}
}
