package tags

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want []string
	}{
		{"valid", `["go","db"]`, []string{"go", "db"}},
		{"empty", "", nil},
		{"blank", "   ", nil},
		{"malformed", "go,db", nil},
		{"wrong element type", `[1,2]`, nil},
		{"empty array", `[]`, []string{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Parse(tt.raw))
		})
	}
}

func TestAggregate(t *testing.T) {
	freq := Aggregate([]string{`["ai","ai","tech"]`, `["tech"]`})
	assert.Equal(t, map[string]int{"ai": 2, "tech": 2}, freq)
}

func TestAggregate_MalformedColumnIsSkipped(t *testing.T) {
	freq := Aggregate([]string{`["ai","ai","tech"]`, `not json`, `["tech"]`, ""})
	assert.Equal(t, map[string]int{"ai": 2, "tech": 2}, freq)
}

func TestEncode(t *testing.T) {
	assert.Equal(t, `["هوش مصنوعی","go"]`, Encode([]string{" هوش مصنوعی ", "", "go"}))
	assert.Equal(t, `[]`, Encode(nil))
}

func TestRanked(t *testing.T) {
	ranked := Ranked(map[string]int{"b": 1, "a": 1, "c": 3})
	assert.Equal(t, []TagCount{{"c", 3}, {"a", 1}, {"b", 1}}, ranked)
}

func TestContains(t *testing.T) {
	assert.True(t, Contains(`["React","Go"]`, "react"))
	assert.False(t, Contains(`["React"]`, "vue"))
	assert.False(t, Contains(`broken`, "react"))
}
