package seed

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadFixture_BuiltIn(t *testing.T) {
	f, err := LoadFixture("")
	require.NoError(t, err)
	assert.NotEmpty(t, f.Authors)
	assert.NotEmpty(t, f.Publications)
	assert.NotEmpty(t, f.Posts)
}

func TestParseFixture_UnknownReferences(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{
			name: "post author",
			raw: `
authors: [{name: a, username: a, email: a@x.io}]
posts: [{title: t, author: b}]`,
		},
		{
			name: "publication owner",
			raw: `
authors: [{name: a, username: a, email: a@x.io}]
publications: [{name: p, slug: p, owner: z}]`,
		},
		{
			name: "post publication",
			raw: `
authors: [{name: a, username: a, email: a@x.io}]
posts: [{title: t, author: a, publication: nope}]`,
		},
		{
			name: "author without email",
			raw:  `authors: [{name: a, username: a}]`,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseFixture([]byte(tt.raw))
			assert.Error(t, err)
		})
	}
}

func TestParseFixture_Malformed(t *testing.T) {
	_, err := ParseFixture([]byte("authors: [unterminated"))
	assert.Error(t, err)
}
