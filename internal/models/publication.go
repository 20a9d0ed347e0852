package models

import (
	"time"

	"gorm.io/gorm"
)

// MemberRole defines a member's role in a publication.
type MemberRole string

const (
	MemberRoleOwner       MemberRole = "OWNER"
	MemberRoleEditor      MemberRole = "EDITOR"
	MemberRoleAuthor      MemberRole = "AUTHOR"
	MemberRoleContributor MemberRole = "CONTRIBUTOR"
)

// Valid reports whether r is one of the known roles.
func (r MemberRole) Valid() bool {
	switch r {
	case MemberRoleOwner, MemberRoleEditor, MemberRoleAuthor, MemberRoleContributor:
		return true
	}
	return false
}

// CanManage reports whether the role may edit the publication and its members.
func (r MemberRole) CanManage() bool {
	return r == MemberRoleOwner || r == MemberRoleEditor
}

// Publication is a named multi-author collection.
type Publication struct {
	ID          string              `gorm:"primaryKey;size:36" json:"id"`
	Name        string              `gorm:"not null" json:"name"`
	Slug        string              `gorm:"size:160;uniqueIndex;not null" json:"slug"`
	Description string              `gorm:"type:text" json:"description,omitempty"`
	Avatar      string              `json:"avatar,omitempty"`
	Website     string              `json:"website,omitempty"`
	Twitter     string              `json:"twitter,omitempty"`
	Instagram   string              `json:"instagram,omitempty"`
	LinkedIn    string              `json:"linkedin,omitempty"`
	About       string              `gorm:"type:text" json:"about,omitempty"`
	IsPrivate   bool                `gorm:"default:false" json:"isPrivate"`
	OwnerID     string              `gorm:"size:36;not null;index" json:"ownerId"`
	Owner       *User               `gorm:"foreignKey:OwnerID;constraint:OnDelete:CASCADE" json:"owner,omitempty"`
	Members     []PublicationMember `gorm:"foreignKey:PublicationID;constraint:OnDelete:CASCADE" json:"members,omitempty"`
	Posts       []Post              `gorm:"foreignKey:PublicationID;constraint:OnDelete:SET NULL" json:"posts,omitempty"`
	CreatedAt   time.Time           `json:"createdAt"`
	UpdatedAt   time.Time           `json:"updatedAt"`

	PostsCount     int64 `gorm:"->;-:migration" json:"postsCount"`
	FollowersCount int64 `gorm:"->;-:migration" json:"followersCount"`
	MembersCount   int64 `gorm:"->;-:migration" json:"membersCount"`
}

func (p *Publication) BeforeCreate(*gorm.DB) error {
	assignID(&p.ID)
	return nil
}

// PublicationMember maps users to publications and tracks role.
type PublicationMember struct {
	ID            string       `gorm:"primaryKey;size:36" json:"id"`
	PublicationID string       `gorm:"size:36;not null;uniqueIndex:idx_publication_members_pair" json:"publicationId"`
	Publication   *Publication `gorm:"foreignKey:PublicationID;constraint:OnDelete:CASCADE" json:"publication,omitempty"`
	UserID        string       `gorm:"size:36;not null;uniqueIndex:idx_publication_members_pair;index" json:"userId"`
	User          *User        `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"user,omitempty"`
	Role          MemberRole   `gorm:"type:varchar(20);not null;default:'CONTRIBUTOR'" json:"role"`
	CreatedAt     time.Time    `json:"createdAt"`
}

func (m *PublicationMember) BeforeCreate(*gorm.DB) error {
	assignID(&m.ID)
	return nil
}

// PublicationFollower is a user's subscription to a publication.
type PublicationFollower struct {
	ID            string    `gorm:"primaryKey;size:36" json:"id"`
	PublicationID string    `gorm:"size:36;not null;uniqueIndex:idx_publication_followers_pair" json:"publicationId"`
	UserID        string    `gorm:"size:36;not null;uniqueIndex:idx_publication_followers_pair;index" json:"userId"`
	CreatedAt     time.Time `json:"createdAt"`

	Publication *Publication `gorm:"foreignKey:PublicationID;constraint:OnDelete:CASCADE" json:"-"`
}

func (f *PublicationFollower) BeforeCreate(*gorm.DB) error {
	assignID(&f.ID)
	return nil
}
