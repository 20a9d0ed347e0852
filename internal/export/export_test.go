package export

import (
	"strings"
	"testing"
	"time"

	"nashr/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type row struct {
	ID     string            `json:"id"`
	Title  string            `json:"title"`
	Views  int               `json:"views"`
	Tags   []string          `json:"tags"`
	Author map[string]string `json:"author"`
	Draft  bool              `json:"draft"`
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in      string
		want    Format
		wantErr bool
	}{
		{"", FormatJSON, false},
		{"CSV", FormatCSV, false},
		{"markdown", FormatMarkdown, false},
		{"pdf", FormatPDF, false},
		{"docx", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseFormat(tt.in)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrUnknownFormat)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestPDFDegradesToMarkdown(t *testing.T) {
	assert.Equal(t, "text/markdown", FormatPDF.ContentType())
	assert.Equal(t, "md", FormatPDF.Extension())
}

func TestCSV(t *testing.T) {
	rows := []row{
		{ID: "1", Title: "ساده", Views: 3, Tags: []string{"a"}, Author: map[string]string{"name": "x"}},
		{ID: "2", Title: "با, ویرگول", Views: 0, Draft: true},
		{ID: "3", Title: `say "hi", ok`, Views: 9},
	}

	out, err := CSV(rows)
	require.NoError(t, err)

	lines := strings.Split(out, "\n")
	require.Len(t, lines, len(rows)+1)
	assert.Equal(t, "id,title,views,draft", lines[0])
	assert.Equal(t, "1,ساده,3,false", lines[1])
	assert.Equal(t, `2,"با, ویرگول",0,true`, lines[2])
	assert.Equal(t, `3,"say ""hi"", ok",9,false`, lines[3])
}

func TestCSV_SingleObjectAndEmpty(t *testing.T) {
	out, err := CSV(row{ID: "1", Title: "t"})
	require.NoError(t, err)
	assert.Equal(t, "id,title,views,draft\n1,t,0,false", out)

	out, err = CSV([]row{})
	require.NoError(t, err)
	assert.Equal(t, "", out)
}

func TestCSV_PostRowsKeepSparseColumns(t *testing.T) {
	created := time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)
	pub := "pub-1"
	posts := []models.Post{
		{ID: "p1", Title: "بی‌زیرعنوان", Content: "a", CreatedAt: created, UpdatedAt: created},
		{
			ID: "p2", Title: "کامل", Subtitle: "زیر", Content: "b", Excerpt: "خلاصه",
			CoverImage: "https://img/c.jpg", Tags: `["ai","go"]`, PublicationID: &pub,
			CreatedAt: created, UpdatedAt: created, LikesCount: 2,
		},
	}

	out, err := CSV(PostRows(posts))
	require.NoError(t, err)

	lines := strings.Split(out, "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "id,title,subtitle,content,excerpt,coverImage,published,featured,tags,views,readingTime,"+
		"authorId,publicationId,createdAt,updatedAt,likes,comments,bookmarks", lines[0])
	assert.Equal(t, "p1,بی‌زیرعنوان,,a,,,false,false,[],0,0,,,2024-05-01T09:00:00Z,2024-05-01T09:00:00Z,0,0,0", lines[1])
	assert.Equal(t, `p2,کامل,زیر,b,خلاصه,https://img/c.jpg,false,false,"[""ai"",""go""]",0,0,,pub-1,`+
		"2024-05-01T09:00:00Z,2024-05-01T09:00:00Z,2,0,0", lines[2])
}

func TestMarkdown(t *testing.T) {
	created := time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)
	post := models.Post{
		Title:      "عنوان",
		Subtitle:   "زیرعنوان",
		Content:    "بدنه",
		Published:  true,
		CreatedAt:  created,
		Author:     &models.User{Name: "نسرین"},
		LikesCount: 4,
		Comments: []models.Comment{
			{Content: "عالی بود", CreatedAt: created, Author: &models.User{Name: "کاوه"}},
		},
	}

	md := Markdown(post)
	assert.True(t, strings.HasPrefix(md, "# عنوان\n\n*زیرعنوان*\n\n**نویسنده:** نسرین\n\n"))
	assert.Contains(t, md, "**تاریخ انتشار:** ۱۴۰۳/۲/۱۲")
	assert.Contains(t, md, "**لایک‌ها:** 4 | **نظرات:** 1")
	assert.Contains(t, md, "---\n\nبدنه\n\n## نظرات\n\n### کاوه - ۱۴۰۳/۲/۱۲\n\nعالی بود\n\n")
}

func TestMarkdown_FallbacksAndJoin(t *testing.T) {
	md := Markdown(models.Post{Content: "a"}, models.Post{Content: "b"})
	parts := strings.Split(md, "\n\n---\n\n")
	require.Len(t, parts, 4)
	assert.True(t, strings.HasPrefix(parts[0], "# بدون عنوان\n\n**نویسنده:** ناشناس"))
	assert.NotContains(t, md, "## نظرات")
}

func TestFormatDate(t *testing.T) {
	tests := []struct {
		in   time.Time
		want string
	}{
		{time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC), "۱۴۰۳/۲/۱۲"},
		{time.Date(2025, 3, 21, 0, 0, 0, 0, time.UTC), "۱۴۰۴/۱/۱"},
		{time.Date(2025, 3, 20, 0, 0, 0, 0, time.UTC), "۱۴۰۳/۱۲/۳۰"},
		{time.Date(2023, 9, 23, 0, 0, 0, 0, time.UTC), "۱۴۰۲/۷/۱"},
		{time.Time{}, ""},
	}
	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, formatDate(tt.in))
		})
	}
}

func TestMarkdown_DraftHasNoPublishDate(t *testing.T) {
	md := Markdown(models.Post{Title: "t", CreatedAt: time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)})
	assert.Contains(t, md, "**تاریخ انتشار:** \n")
}

func TestRender(t *testing.T) {
	posts := []models.Post{{Title: "t", Content: "c"}}

	doc, err := Render(FormatPDF, "post-1", posts[0], posts)
	require.NoError(t, err)
	assert.Equal(t, "post-1.md", doc.Filename)
	assert.Equal(t, "text/markdown", doc.ContentType)
	assert.Contains(t, string(doc.Body), "# t")

	doc, err = Render(FormatCSV, "post-1", posts[0], posts)
	require.NoError(t, err)
	assert.Equal(t, "text/csv", doc.ContentType)
	assert.True(t, strings.HasPrefix(string(doc.Body), "id,title,subtitle,"))

	doc, err = Render(FormatJSON, "posts-u1", posts, posts)
	require.NoError(t, err)
	assert.Equal(t, "posts-u1.json", doc.Filename)
	assert.Contains(t, string(doc.Body), "\n  {\n    \"id\"")
}
