// Package tags owns the serialized tag column of posts: parsing, encoding and
// frequency aggregation. Every listing that counts tags goes through Aggregate.
package tags

import (
	"encoding/json"
	"sort"
	"strings"

	"github.com/samber/lo"
)

// TagCount is one row of an aggregated frequency table.
type TagCount struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

// Parse decodes a JSON-encoded tag list. Empty or malformed input yields nil.
func Parse(raw string) []string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}
	var list []string
	if err := json.Unmarshal([]byte(raw), &list); err != nil {
		return nil
	}
	return list
}

// Encode serializes tags for storage, trimming blanks.
func Encode(list []string) string {
	cleaned := lo.Filter(lo.Map(list, func(t string, _ int) string {
		return strings.TrimSpace(t)
	}), func(t string, _ int) bool {
		return t != ""
	})
	b, err := json.Marshal(cleaned)
	if err != nil {
		return "[]"
	}
	return string(b)
}

// Aggregate counts tag occurrences across raw tag columns. A column that fails
// to parse contributes nothing.
func Aggregate(raws []string) map[string]int {
	freq := make(map[string]int)
	for _, raw := range raws {
		for _, t := range Parse(raw) {
			t = strings.TrimSpace(t)
			if t == "" {
				continue
			}
			freq[t]++
		}
	}
	return freq
}

// Ranked orders a frequency table by count (desc), then name.
func Ranked(freq map[string]int) []TagCount {
	out := lo.MapToSlice(freq, func(name string, count int) TagCount {
		return TagCount{Name: name, Count: count}
	})
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Name < out[j].Name
	})
	return out
}

// Contains reports whether raw holds tag, ignoring case.
func Contains(raw, tag string) bool {
	return lo.ContainsBy(Parse(raw), func(t string) bool {
		return strings.EqualFold(strings.TrimSpace(t), tag)
	})
}
