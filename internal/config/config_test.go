package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseClock(t *testing.T) {
	tests := []struct {
		input   string
		hour    int
		minute  int
		wantErr bool
	}{
		{input: "20:00", hour: 20, minute: 0},
		{input: "09:05", hour: 9, minute: 5},
		{input: "0:0", hour: 0, minute: 0},
		{input: "23:59", hour: 23, minute: 59},
		{input: "24:00", wantErr: true},
		{input: "12:60", wantErr: true},
		{input: "noon", wantErr: true},
		{input: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			hour, minute, err := ParseClock(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.hour, hour)
			assert.Equal(t, tt.minute, minute)
		})
	}
}

func TestValidate(t *testing.T) {
	valid := func() Config {
		return Config{
			Line: LineConfig{ChannelSecret: "s", ChannelToken: "t"},
			Web:  WebConfig{AdminAccessKey: "k"},
			Bot: BotConfig{
				DefaultPayerCode: "15",
				Timezone:         "Asia/Taipei",
				DigestTime:       "20:00",
			},
		}
	}

	cfg := valid()
	assert.NoError(t, cfg.Validate())

	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{name: "missing channel secret", mutate: func(c *Config) { c.Line.ChannelSecret = "" }},
		{name: "missing channel token", mutate: func(c *Config) { c.Line.ChannelToken = "" }},
		{name: "missing admin key", mutate: func(c *Config) { c.Web.AdminAccessKey = "" }},
		{name: "missing default payer", mutate: func(c *Config) { c.Bot.DefaultPayerCode = "" }},
		{name: "bad timezone", mutate: func(c *Config) { c.Bot.Timezone = "Mars/Olympus" }},
		{name: "bad digest time", mutate: func(c *Config) { c.Bot.DigestTime = "25:00" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(&cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}

func TestDefaultMealKeywords_LongFormsFirst(t *testing.T) {
	keywords := DefaultMealKeywords()

	index := make(map[string]int, len(keywords))
	for i, k := range keywords {
		index[k.Keyword] = i
	}
	// Single-rune shorthands must come after the long forms that
	// contain them, otherwise "早餐" would resolve through "早" etc.
	assert.Less(t, index["早餐"], index["早"])
	assert.Less(t, index["午餐"], index["午"])
	assert.Less(t, index["點心"], index["點"])

	names := DefaultMealNames()
	for _, k := range keywords {
		assert.Contains(t, names, k.Meal, "every keyword maps to a displayable meal type")
	}
}
