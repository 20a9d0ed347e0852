// Package export renders posts as downloadable JSON, CSV or Markdown documents.
package export

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"nashr/internal/models"
)

// Format is a requested export type.
type Format string

const (
	FormatJSON     Format = "json"
	FormatCSV      Format = "csv"
	FormatMarkdown Format = "markdown"
	// FormatPDF is accepted but rendered as Markdown.
	FormatPDF Format = "pdf"
)

// ErrUnknownFormat is returned by ParseFormat for anything outside the four types.
var ErrUnknownFormat = errors.New("unknown export format")

// ParseFormat defaults to JSON when s is empty.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case "":
		return FormatJSON, nil
	case FormatJSON, FormatCSV, FormatMarkdown, FormatPDF:
		return f, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownFormat, s)
	}
}

// Rendered is the format actually produced.
func (f Format) Rendered() Format {
	if f == FormatPDF {
		return FormatMarkdown
	}
	return f
}

func (f Format) ContentType() string {
	switch f.Rendered() {
	case FormatCSV:
		return "text/csv"
	case FormatMarkdown:
		return "text/markdown"
	default:
		return "application/json"
	}
}

func (f Format) Extension() string {
	switch f.Rendered() {
	case FormatCSV:
		return "csv"
	case FormatMarkdown:
		return "md"
	default:
		return "json"
	}
}

// Document is a rendered export ready to be sent as an attachment.
type Document struct {
	Filename    string
	ContentType string
	Body        []byte
}

// PostRow is the flat CSV shape of a post. Every column is always present and
// tags stay in their stored JSON form.
type PostRow struct {
	ID            string    `json:"id"`
	Title         string    `json:"title"`
	Subtitle      string    `json:"subtitle"`
	Content       string    `json:"content"`
	Excerpt       string    `json:"excerpt"`
	CoverImage    string    `json:"coverImage"`
	Published     bool      `json:"published"`
	Featured      bool      `json:"featured"`
	Tags          string    `json:"tags"`
	Views         int       `json:"views"`
	ReadingTime   int       `json:"readingTime"`
	AuthorID      string    `json:"authorId"`
	PublicationID string    `json:"publicationId"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
	Likes         int64     `json:"likes"`
	Comments      int64     `json:"comments"`
	Bookmarks     int64     `json:"bookmarks"`
}

// PostRows flattens posts for CSV.
func PostRows(posts []models.Post) []PostRow {
	rows := make([]PostRow, 0, len(posts))
	for _, p := range posts {
		row := PostRow{
			ID:          p.ID,
			Title:       p.Title,
			Subtitle:    p.Subtitle,
			Content:     p.Content,
			Excerpt:     p.Excerpt,
			CoverImage:  p.CoverImage,
			Published:   p.Published,
			Featured:    p.Featured,
			Tags:        p.Tags,
			Views:       p.Views,
			ReadingTime: p.ReadingTime,
			AuthorID:    p.AuthorID,
			CreatedAt:   p.CreatedAt,
			UpdatedAt:   p.UpdatedAt,
			Likes:       p.LikesCount,
			Comments:    p.CommentsCount,
			Bookmarks:   p.BookmarksCount,
		}
		if row.Tags == "" {
			row.Tags = "[]"
		}
		if p.PublicationID != nil {
			row.PublicationID = *p.PublicationID
		}
		rows = append(rows, row)
	}
	return rows
}

// Render formats v as JSON. CSV and Markdown are built from posts, so callers
// pass them separately.
func Render(f Format, basename string, v any, posts []models.Post) (*Document, error) {
	doc := &Document{
		Filename:    basename + "." + f.Extension(),
		ContentType: f.ContentType(),
	}
	switch f.Rendered() {
	case FormatCSV:
		out, err := CSV(PostRows(posts))
		if err != nil {
			return nil, err
		}
		doc.Body = []byte(out)
	case FormatMarkdown:
		doc.Body = []byte(Markdown(posts...))
	default:
		out, err := JSON(v)
		if err != nil {
			return nil, err
		}
		doc.Body = out
	}
	return doc, nil
}

// JSON pretty-prints v with two-space indentation.
func JSON(v any) ([]byte, error) {
	return json.MarshalIndent(v, "", "  ")
}

type field struct {
	key   string
	value json.RawMessage
}

// objectFields decodes one JSON object keeping key order.
func objectFields(raw json.RawMessage) ([]field, error) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	if tok, err := dec.Token(); err != nil || tok != json.Delim('{') {
		return nil, fmt.Errorf("csv: expected object")
	}
	var fields []field
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		key, _ := tok.(string)
		var value json.RawMessage
		if err := dec.Decode(&value); err != nil {
			return nil, err
		}
		fields = append(fields, field{key: key, value: value})
	}
	return fields, nil
}

// scalar reports whether raw is a string, number or boolean.
func scalar(raw json.RawMessage) bool {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return false
	}
	switch raw[0] {
	case '{', '[', 'n':
		return false
	}
	return true
}

func cell(raw json.RawMessage) string {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || raw[0] == 'n' {
		return ""
	}
	if raw[0] == '"' {
		var s string
		if err := json.Unmarshal(raw, &s); err == nil {
			return s
		}
	}
	return string(raw)
}

// CSV flattens v (one object or a list of objects) to CSV. The header is the
// scalar keys of the first object; nested objects and lists are dropped.
func CSV(v any) (string, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return "", err
	}
	b = bytes.TrimSpace(b)

	var objects []json.RawMessage
	if len(b) > 0 && b[0] == '[' {
		if err := json.Unmarshal(b, &objects); err != nil {
			return "", err
		}
	} else {
		objects = []json.RawMessage{b}
	}
	if len(objects) == 0 {
		return "", nil
	}

	first, err := objectFields(objects[0])
	if err != nil {
		return "", err
	}
	var header []string
	for _, f := range first {
		if scalar(f.value) {
			header = append(header, f.key)
		}
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write(header); err != nil {
		return "", err
	}
	for _, obj := range objects {
		fields, err := objectFields(obj)
		if err != nil {
			return "", err
		}
		byKey := make(map[string]json.RawMessage, len(fields))
		for _, f := range fields {
			byKey[f.key] = f.value
		}
		row := make([]string, len(header))
		for i, key := range header {
			row[i] = cell(byKey[key])
		}
		if err := w.Write(row); err != nil {
			return "", err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return "", err
	}
	return strings.TrimSuffix(buf.String(), "\n"), nil
}

// Markdown renders each post as an article with its comments. Posts are
// separated by horizontal rules.
func Markdown(posts ...models.Post) string {
	parts := make([]string, 0, len(posts))
	for _, p := range posts {
		parts = append(parts, postMarkdown(p))
	}
	return strings.Join(parts, "\n\n---\n\n")
}

func authorName(u *models.User) string {
	if u == nil || u.Name == "" {
		return "ناشناس"
	}
	return u.Name
}

func postMarkdown(p models.Post) string {
	var b strings.Builder

	title := p.Title
	if title == "" {
		title = "بدون عنوان"
	}
	fmt.Fprintf(&b, "# %s\n\n", title)
	if p.Subtitle != "" {
		fmt.Fprintf(&b, "*%s*\n\n", p.Subtitle)
	}
	fmt.Fprintf(&b, "**نویسنده:** %s\n\n", authorName(p.Author))

	published := ""
	if p.Published {
		published = formatDate(p.CreatedAt)
	}
	fmt.Fprintf(&b, "**تاریخ انتشار:** %s\n\n", published)

	comments := p.CommentsCount
	if comments == 0 {
		comments = int64(len(p.Comments))
	}
	fmt.Fprintf(&b, "**لایک‌ها:** %d | **نظرات:** %d\n\n", p.LikesCount, comments)
	b.WriteString("---\n\n")
	b.WriteString(p.Content)

	if len(p.Comments) > 0 {
		b.WriteString("\n\n## نظرات\n\n")
		for _, c := range p.Comments {
			fmt.Fprintf(&b, "### %s - %s\n\n%s\n\n", authorName(c.Author), formatDate(c.CreatedAt), c.Content)
		}
	}
	return b.String()
}

// formatDate renders t as a Persian calendar date with Persian digits, the way
// readers of the site see dates (e.g. ۱۴۰۳/۲/۱۲).
func formatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	y, m, d := jalali(t.Year(), int(t.Month()), t.Day())
	return persianDigits.Replace(fmt.Sprintf("%d/%d/%d", y, m, d))
}

var persianDigits = strings.NewReplacer(
	"0", "۰", "1", "۱", "2", "۲", "3", "۳", "4", "۴",
	"5", "۵", "6", "۶", "7", "۷", "8", "۸", "9", "۹",
)

var gregorianMonthStart = [12]int{0, 31, 59, 90, 120, 151, 181, 212, 243, 273, 304, 334}

// jalali converts a Gregorian date using the 33-year arithmetic cycle.
func jalali(gy, gm, gd int) (jy, jm, jd int) {
	leapYear := gy
	if gm > 2 {
		leapYear = gy + 1
	}
	days := 355666 + 365*gy + (leapYear+3)/4 - (leapYear+99)/100 + (leapYear+399)/400 + gd + gregorianMonthStart[gm-1]

	jy = -1595 + 33*(days/12053)
	days %= 12053
	jy += 4 * (days / 1461)
	days %= 1461
	if days > 365 {
		jy += (days - 1) / 365
		days = (days - 1) % 365
	}
	if days < 186 {
		return jy, 1 + days/31, 1 + days%31
	}
	return jy, 7 + (days-186)/30, 1 + (days-186)%30
}
