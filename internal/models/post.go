package models

import (
	"encoding/json"
	"time"

	"nashr/internal/tags"

	"gorm.io/gorm"
)

// Post is an article. Tags is the raw JSON array column; API payloads expose it as a list.
type Post struct {
	ID            string       `gorm:"primaryKey;size:36" json:"id"`
	Title         string       `gorm:"not null" json:"title"`
	Subtitle      string       `json:"subtitle,omitempty"`
	Content       string       `gorm:"type:text;not null" json:"content"`
	Excerpt       string       `gorm:"type:text" json:"excerpt,omitempty"`
	CoverImage    string       `json:"coverImage,omitempty"`
	Published     bool         `gorm:"index;default:false" json:"published"`
	Featured      bool         `gorm:"index;default:false" json:"featured"`
	Tags          string       `gorm:"type:text" json:"-"`
	Views         int          `gorm:"not null;default:0" json:"views"`
	ReadingTime   int          `gorm:"not null;default:0" json:"readingTime"`
	AuthorID      string       `gorm:"size:36;not null;index" json:"authorId"`
	Author        *User        `gorm:"foreignKey:AuthorID;constraint:OnDelete:CASCADE" json:"author,omitempty"`
	PublicationID *string      `gorm:"size:36;index" json:"publicationId,omitempty"`
	Publication   *Publication `gorm:"foreignKey:PublicationID;constraint:OnDelete:SET NULL" json:"publication,omitempty"`
	Comments      []Comment    `gorm:"foreignKey:PostID;constraint:OnDelete:CASCADE" json:"comments,omitempty"`
	CreatedAt     time.Time    `gorm:"index" json:"createdAt"`
	UpdatedAt     time.Time    `json:"updatedAt"`

	LikesCount     int64 `gorm:"->;-:migration" json:"likes"`
	CommentsCount  int64 `gorm:"->;-:migration" json:"commentsCount"`
	BookmarksCount int64 `gorm:"->;-:migration" json:"bookmarks"`
}

func (p *Post) BeforeCreate(*gorm.DB) error {
	assignID(&p.ID)
	if p.Tags == "" {
		p.Tags = "[]"
	}
	return nil
}

// TagList returns the parsed tag column.
func (p Post) TagList() []string {
	return tags.Parse(p.Tags)
}

func (p Post) MarshalJSON() ([]byte, error) {
	type alias Post
	list := p.TagList()
	if list == nil {
		list = []string{}
	}
	return json.Marshal(struct {
		alias
		Tags []string `json:"tags"`
	}{alias: alias(p), Tags: list})
}
