package data

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractJSON(t *testing.T) {
	answer := "Sure, here is the routing decision:\n{\"agent\": \"plan_agent\", \"priority\": 8}\nLet me know."

	block, err := ExtractJSON(answer)

	require.NoError(t, err)
	assert.Equal(t, `{"agent": "plan_agent", "priority": 8}`, block)
}

func TestExtractJSONNoObject(t *testing.T) {
	_, err := ExtractJSON("no structured data here")
	assert.Error(t, err)
}

func TestParseRoutingLines(t *testing.T) {
	content := "agent: health_agent\nDescription: check sleep habits\npriority: 7\nnote without colon value"

	fields := ParseRoutingLines(content)

	assert.Equal(t, "health_agent", fields.Agent)
	assert.Equal(t, "check sleep habits", fields.Description)
	assert.Equal(t, 7, fields.Priority)
	assert.True(t, fields.HasPriority)
}

func TestParseRoutingLinesMissingPriority(t *testing.T) {
	fields := ParseRoutingLines("agent: data_agent\npriority: high")

	assert.Equal(t, "data_agent", fields.Agent)
	assert.False(t, fields.HasPriority)
}

func TestDetectLanguage(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"오늘 일정 확인해줘", "Korean"},
		{"今日の予定を教えて", "Japanese"},
		{"今天的日程", "Chinese"},
		{"what's on my schedule today", "English"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, DetectLanguage(tt.input), tt.input)
	}
}

func TestTimezoneFor(t *testing.T) {
	assert.Equal(t, "Asia/Seoul", TimezoneFor("Korean"))
	assert.Equal(t, "America/New_York", TimezoneFor("English"))
	assert.Equal(t, "UTC", TimezoneFor("Klingon"))
}
