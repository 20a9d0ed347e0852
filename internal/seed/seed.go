package seed

import (
	"fmt"
	"log"
	"strings"

	"nashr/internal/database"
	"nashr/internal/models"
	"nashr/internal/service"
	"nashr/internal/tags"

	"gorm.io/gorm"
)

// Config controls a seeding run.
type Config struct {
	NumUsers    int
	NumPosts    int
	ShouldClean bool
	FixturePath string
	Options
}

// Summary counts what a run created.
type Summary struct {
	Users        int
	Posts        int
	Comments     int
	Likes        int
	Bookmarks    int
	Follows      int
	Publications int
}

// Seeder fills the database with fixture content followed by generated data.
type Seeder struct {
	db      *gorm.DB
	factory *Factory
}

// NewSeeder creates a seeder bound to db.
func NewSeeder(db *gorm.DB, opts Options) *Seeder {
	return &Seeder{db: db, factory: NewFactory(db, opts)}
}

// ClearAll deletes every row, children first.
func (s *Seeder) ClearAll() error {
	log.Println("🗑️  Clearing existing data...")
	tables := database.PersistentModels()
	for i := len(tables) - 1; i >= 0; i-- {
		if err := s.db.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(tables[i]).Error; err != nil {
			return fmt.Errorf("clear %T: %w", tables[i], err)
		}
	}
	return nil
}

// Run seeds fixture content and then cfg.NumUsers users writing cfg.NumPosts posts.
func (s *Seeder) Run(cfg Config) (*Summary, error) {
	log.Printf("🌱 Starting database seeding with %d users and %d posts...", cfg.NumUsers, cfg.NumPosts)
	sum := &Summary{}

	if cfg.ShouldClean {
		if err := s.ClearAll(); err != nil {
			return nil, err
		}
	}

	fixture, err := LoadFixture(cfg.FixturePath)
	if err != nil {
		return nil, err
	}
	authors, err := s.applyFixture(fixture, sum)
	if err != nil {
		return nil, fmt.Errorf("fixture: %w", err)
	}
	log.Printf("✓ fixture applied: %d authors, %d publications", len(authors), sum.Publications)

	users := authors
	for i := 0; i < cfg.NumUsers; i++ {
		u, err := s.factory.CreateUser()
		if err != nil {
			return nil, fmt.Errorf("failed to create users: %w", err)
		}
		users = append(users, u)
		sum.Users++
	}
	log.Printf("✓ %d users created", sum.Users)
	if len(users) == 0 {
		return sum, nil
	}

	posts := make([]*models.Post, 0, cfg.NumPosts)
	for i := 0; i < cfg.NumPosts; i++ {
		posts = append(posts, s.factory.BuildPost(users[i%len(users)]))
	}
	if err := s.factory.CreatePostsBatch(posts); err != nil {
		return nil, fmt.Errorf("failed to create posts: %w", err)
	}
	sum.Posts += len(posts)
	log.Printf("✓ %d posts created", len(posts))

	if err := s.engage(users, posts, sum); err != nil {
		return nil, err
	}

	log.Printf("🎉 Seeding completed: %+v", *sum)
	return sum, nil
}

func (s *Seeder) applyFixture(f *Fixture, sum *Summary) ([]*models.User, error) {
	byUsername := make(map[string]*models.User, len(f.Authors))
	authors := make([]*models.User, 0, len(f.Authors))
	for _, a := range f.Authors {
		u, err := s.factory.CreateUser(func(u *models.User) {
			u.Name = a.Name
			u.Username = a.Username
			u.Email = strings.ToLower(a.Email)
			u.Bio = a.Bio
		})
		if err != nil {
			return nil, err
		}
		byUsername[a.Username] = u
		authors = append(authors, u)
		sum.Users++
	}

	bySlug := make(map[string]*models.Publication, len(f.Publications))
	for _, p := range f.Publications {
		pub, err := s.factory.CreatePublication(byUsername[p.Owner], func(pub *models.Publication) {
			pub.Name = p.Name
			pub.Slug = p.Slug
			pub.Description = p.Description
		})
		if err != nil {
			return nil, err
		}
		for _, m := range p.Members {
			if err := s.factory.AddMember(pub, byUsername[m.Username], m.Role); err != nil {
				return nil, err
			}
		}
		bySlug[p.Slug] = pub
		sum.Publications++
	}

	for _, p := range f.Posts {
		_, err := s.factory.CreatePost(byUsername[p.Author], func(post *models.Post) {
			post.Title = p.Title
			post.Subtitle = p.Subtitle
			post.Content = p.Content
			post.Excerpt = service.Excerpt(p.Content)
			post.ReadingTime = service.ReadingTime(p.Content)
			post.Tags = tags.Encode(p.Tags)
			post.Featured = p.Featured
			post.Published = !p.Draft
			if pub, ok := bySlug[p.Publication]; ok {
				post.PublicationID = &pub.ID
			}
		})
		if err != nil {
			return nil, err
		}
		sum.Posts++
	}
	return authors, nil
}

// engage wires deterministic social activity: each user follows the next two,
// and every published post gets likes, a bookmark and a short comment thread from other users.
func (s *Seeder) engage(users []*models.User, posts []*models.Post, sum *Summary) error {
	n := len(users)
	for i, u := range users {
		for step := 1; step <= 2 && step < n; step++ {
			if err := s.factory.CreateFollow(u, users[(i+step)%n]); err != nil {
				return fmt.Errorf("follow: %w", err)
			}
			sum.Follows++
		}
	}

	for i, p := range posts {
		if !p.Published {
			continue
		}
		var thread *models.Comment
		for step := 1; step <= 3 && step < n; step++ {
			reader := users[(i+step)%n]
			if reader.ID == p.AuthorID {
				continue
			}
			if err := s.factory.CreateLike(reader, p); err != nil {
				return fmt.Errorf("like: %w", err)
			}
			sum.Likes++
			switch step {
			case 1:
				c, err := s.factory.CreateComment(reader, p, nil)
				if err != nil {
					return fmt.Errorf("comment: %w", err)
				}
				thread = c
				sum.Comments++
			case 2:
				if err := s.factory.CreateBookmark(reader, p); err != nil {
					return fmt.Errorf("bookmark: %w", err)
				}
				sum.Bookmarks++
				if thread != nil {
					if _, err := s.factory.CreateComment(reader, p, thread); err != nil {
						return fmt.Errorf("reply: %w", err)
					}
					sum.Comments++
				}
			}
		}
	}
	log.Printf("✓ engagement: %d follows, %d likes, %d comments", sum.Follows, sum.Likes, sum.Comments)
	return nil
}
