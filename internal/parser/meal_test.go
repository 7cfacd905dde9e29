package parser

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ycfang/orderbot/internal/config"
)

func newTestResolver(t *testing.T) *MealResolver {
	t.Helper()
	loc, err := time.LoadLocation("Asia/Taipei")
	require.NoError(t, err)
	return NewMealResolver(config.DefaultMealKeywords(), loc)
}

func at(t *testing.T, hour, minute int) time.Time {
	t.Helper()
	loc, err := time.LoadLocation("Asia/Taipei")
	require.NoError(t, err)
	return time.Date(2026, 3, 2, hour, minute, 0, 0, loc)
}

func TestMealResolver_ResolveKeyword(t *testing.T) {
	r := newTestResolver(t)

	tests := []struct {
		name     string
		text     string
		expected string
		found    bool
	}{
		{name: "breakfast word", text: "早餐", expected: "breakfast", found: true},
		{name: "breakfast short", text: "早", expected: "breakfast", found: true},
		{name: "lunch word", text: "午餐", expected: "lunch", found: true},
		{name: "lunch alt word", text: "中餐", expected: "lunch", found: true},
		{name: "dinner word", text: "晚餐", expected: "dinner", found: true},
		{name: "drink word", text: "飲料", expected: "drink", found: true},
		{name: "drink verb", text: "喝", expected: "drink", found: true},
		{name: "snack word", text: "點心", expected: "snack", found: true},
		{name: "keyword inside longer text", text: "今天的午餐", expected: "lunch", found: true},
		{name: "no keyword", text: "hello", found: false},
		{name: "empty", text: "", found: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			meal, ok := r.ResolveKeyword(tt.text)
			assert.Equal(t, tt.found, ok)
			if tt.found {
				assert.Equal(t, tt.expected, meal)
			}
		})
	}
}

// Table order is the tie-break. 早午餐 hits the 早 entry before any
// lunch keyword, and 下午茶 hits the 午 entry before its own dedicated
// entry further down, so it resolves to lunch.
func TestMealResolver_KeywordPriority(t *testing.T) {
	r := newTestResolver(t)

	meal, ok := r.ResolveKeyword("早午餐")
	assert.True(t, ok)
	assert.Equal(t, "breakfast", meal)

	meal, ok = r.ResolveKeyword("下午茶")
	assert.True(t, ok)
	assert.Equal(t, "lunch", meal)
}

func TestMealResolver_ByClock(t *testing.T) {
	r := newTestResolver(t)

	tests := []struct {
		name     string
		hour     int
		minute   int
		expected string
	}{
		{name: "early morning is breakfast", hour: 5, minute: 0, expected: "breakfast"},
		{name: "mid morning is breakfast", hour: 8, minute: 0, expected: "breakfast"},
		{name: "just before lunch window", hour: 10, minute: 29, expected: "breakfast"},
		{name: "lunch window opens", hour: 10, minute: 30, expected: "lunch"},
		{name: "noon is lunch", hour: 12, minute: 0, expected: "lunch"},
		{name: "snack window opens", hour: 14, minute: 30, expected: "snack"},
		{name: "late afternoon is snack", hour: 17, minute: 0, expected: "snack"},
		{name: "dinner window opens", hour: 17, minute: 30, expected: "dinner"},
		{name: "evening is dinner", hour: 20, minute: 59, expected: "dinner"},
		{name: "late night falls back to lunch", hour: 23, minute: 0, expected: "lunch"},
		{name: "deep night falls back to lunch", hour: 3, minute: 0, expected: "lunch"},
		{name: "just before breakfast window", hour: 4, minute: 59, expected: "lunch"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, r.ByClock(at(t, tt.hour, tt.minute)))
		})
	}
}

func TestMealResolver_Resolve(t *testing.T) {
	r := newTestResolver(t)

	// Keyword wins over the clock.
	assert.Equal(t, "dinner", r.Resolve("晚餐", at(t, 8, 0)))
	// No keyword, the clock decides.
	assert.Equal(t, "breakfast", r.Resolve("15", at(t, 8, 0)))
	assert.Equal(t, "lunch", r.Resolve("", at(t, 12, 0)))
}
