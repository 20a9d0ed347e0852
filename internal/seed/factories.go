// Package seed provides helpers to create demo data for the application
// database. These helpers are intended for development and testing only.
package seed

import (
	"fmt"
	"log"
	"math/rand"
	"strings"
	"time"

	"nashr/internal/models"
	"nashr/internal/service"
	"nashr/internal/tags"
	"nashr/internal/validation"

	"github.com/brianvoe/gofakeit/v6"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// DefaultPassword is the password of every generated account.
const DefaultPassword = "password123"

var topicPool = []string{
	"برنامه‌نویسی", "ادبیات", "کتاب", "سینما", "موسیقی", "سفر",
	"تاریخ", "فلسفه", "علم", "سلامتی", "کارآفرینی", "طراحی",
}

// Options tune the factory.
type Options struct {
	DryRun     bool
	// SkipBcrypt hashes with the minimum bcrypt cost.
	SkipBcrypt bool
	// MaxDays spreads created_at over the last N days.
	MaxDays int
}

// Factory builds domain entities and persists them to the database.
type Factory struct {
	db   *gorm.DB
	opts Options
	rng  *rand.Rand
	hash string
	// synthetic ID counter when running in DryRun mode
	nextID int
}

// NewFactory creates a new Factory bound to the provided Gorm DB.
func NewFactory(db *gorm.DB, opts Options) *Factory {
	seed := time.Now().UnixNano()
	gofakeit.Seed(seed)
	//nolint:gosec // Weak random number generator is fine for seeding
	return &Factory{db: db, opts: opts, rng: rand.New(rand.NewSource(seed)), nextID: 1000}
}

func (f *Factory) fakeID() string {
	f.nextID++
	return fmt.Sprintf("dry-%d", f.nextID)
}

func (f *Factory) backdate() time.Time {
	maxDays := f.opts.MaxDays
	if maxDays <= 0 {
		maxDays = 90
	}
	back := time.Duration(f.rng.Intn(maxDays))*24*time.Hour +
		time.Duration(f.rng.Intn(24))*time.Hour +
		time.Duration(f.rng.Intn(60))*time.Minute
	return time.Now().Add(-back)
}

// password hashes DefaultPassword once per factory. SkipBcrypt drops to the
// minimum cost so large seeds stay fast while logins keep working.
func (f *Factory) password() string {
	if f.hash == "" {
		cost := bcrypt.DefaultCost
		if f.opts.SkipBcrypt {
			cost = bcrypt.MinCost
		}
		hashed, _ := bcrypt.GenerateFromPassword([]byte(DefaultPassword), cost)
		f.hash = string(hashed)
	}
	return f.hash
}

func (f *Factory) create(label string, v any, id *string) error {
	if f.opts.DryRun {
		*id = f.fakeID()
		log.Printf("[dry-run] %s: %s", label, *id)
		return nil
	}
	return f.db.Create(v).Error
}

// CreateUser constructs and persists a sample user.
// Optional override functions may modify the generated user before saving.
func (f *Factory) CreateUser(overrides ...func(*models.User)) (*models.User, error) {
	first, last := gofakeit.FirstName(), gofakeit.LastName()
	user := &models.User{
		Name:     first + " " + last,
		Username: strings.ToLower(first+last) + fmt.Sprintf("%d", gofakeit.Number(100, 999)),
		Bio:      gofakeit.Sentence(10),
		Image:    fmt.Sprintf("https://i.pravatar.cc/150?u=%s", gofakeit.UUID()),
		Password: f.password(),
	}
	user.Email = user.Username + "@example.com"

	for _, override := range overrides {
		override(user)
	}
	if err := f.create("CreateUser", user, &user.ID); err != nil {
		return nil, err
	}
	return user, nil
}

// BuildPost constructs a post without persisting it.
func (f *Factory) BuildPost(author *models.User, overrides ...func(*models.Post)) *models.Post {
	content := gofakeit.Paragraph(3, 4, 12, "\n\n")
	picked := []string{
		topicPool[f.rng.Intn(len(topicPool))],
		topicPool[f.rng.Intn(len(topicPool))],
	}
	post := &models.Post{
		Title:       strings.TrimSuffix(gofakeit.Sentence(5), "."),
		Subtitle:    gofakeit.Sentence(8),
		Content:     content,
		CoverImage:  fmt.Sprintf("https://picsum.photos/seed/%s/1200/630", gofakeit.UUID()),
		Published:   f.rng.Intn(5) != 0,
		Featured:    f.rng.Intn(10) == 0,
		Tags:        tags.Encode(picked),
		Views:       f.rng.Intn(2000),
		ReadingTime: service.ReadingTime(content),
		Excerpt:     service.Excerpt(content),
		AuthorID:    author.ID,
		CreatedAt:   f.backdate(),
	}
	for _, override := range overrides {
		override(post)
	}
	return post
}

// CreatePost builds and persists a post.
func (f *Factory) CreatePost(author *models.User, overrides ...func(*models.Post)) (*models.Post, error) {
	post := f.BuildPost(author, overrides...)
	if err := f.create("CreatePost", post, &post.ID); err != nil {
		return nil, err
	}
	return post, nil
}

// CreatePostsBatch persists multiple posts in a single DB call.
func (f *Factory) CreatePostsBatch(posts []*models.Post) error {
	if f.opts.DryRun {
		for _, p := range posts {
			p.ID = f.fakeID()
		}
		log.Printf("[dry-run] CreatePostsBatch: %d posts (no DB write)", len(posts))
		return nil
	}
	if len(posts) == 0 {
		return nil
	}
	return f.db.CreateInBatches(posts, 100).Error
}

// CreateComment persists a comment on post, optionally as a reply.
func (f *Factory) CreateComment(author *models.User, post *models.Post, parent *models.Comment) (*models.Comment, error) {
	c := &models.Comment{
		Content:   gofakeit.Sentence(12),
		PostID:    post.ID,
		AuthorID:  author.ID,
		CreatedAt: post.CreatedAt.Add(time.Duration(f.rng.Intn(72)+1) * time.Hour),
	}
	if parent != nil {
		c.ParentID = &parent.ID
	}
	if err := f.create("CreateComment", c, &c.ID); err != nil {
		return nil, err
	}
	return c, nil
}

// CreateLike records user liking post.
func (f *Factory) CreateLike(user *models.User, post *models.Post) error {
	like := &models.Like{UserID: user.ID, PostID: post.ID}
	return f.create("CreateLike", like, &like.ID)
}

// CreateBookmark records user bookmarking post.
func (f *Factory) CreateBookmark(user *models.User, post *models.Post) error {
	mark := &models.Bookmark{UserID: user.ID, PostID: post.ID}
	return f.create("CreateBookmark", mark, &mark.ID)
}

// CreateFollow records follower following target.
func (f *Factory) CreateFollow(follower, target *models.User) error {
	follow := &models.Follow{FollowerID: follower.ID, FollowingID: target.ID}
	return f.create("CreateFollow", follow, &follow.ID)
}

// CreatePublication persists a publication owned by owner, with the owner as OWNER member.
func (f *Factory) CreatePublication(owner *models.User, overrides ...func(*models.Publication)) (*models.Publication, error) {
	name := gofakeit.Company()
	pub := &models.Publication{
		Name:        name,
		Slug:        validation.Slugify(name) + fmt.Sprintf("-%d", gofakeit.Number(100, 999)),
		Description: gofakeit.Sentence(12),
		OwnerID:     owner.ID,
	}
	for _, override := range overrides {
		override(pub)
	}
	if err := f.create("CreatePublication", pub, &pub.ID); err != nil {
		return nil, err
	}
	if err := f.AddMember(pub, owner, models.MemberRoleOwner); err != nil {
		return nil, err
	}
	return pub, nil
}

// AddMember adds user to pub with role.
func (f *Factory) AddMember(pub *models.Publication, user *models.User, role models.MemberRole) error {
	m := &models.PublicationMember{PublicationID: pub.ID, UserID: user.ID, Role: role}
	return f.create("AddMember", m, &m.ID)
}
