package seed

import (
	_ "embed"
	"fmt"
	"os"

	"nashr/internal/models"

	"gopkg.in/yaml.v3"
)

//go:embed fixtures/default.yaml
var defaultFixture []byte

// Fixture is hand written demo content: named authors, publications and posts
// that reference each other by username and slug.
type Fixture struct {
	Authors      []FixtureAuthor      `yaml:"authors"`
	Publications []FixturePublication `yaml:"publications"`
	Posts        []FixturePost        `yaml:"posts"`
}

type FixtureAuthor struct {
	Name     string `yaml:"name"`
	Username string `yaml:"username"`
	Email    string `yaml:"email"`
	Bio      string `yaml:"bio"`
}

type FixtureMember struct {
	Username string            `yaml:"username"`
	Role     models.MemberRole `yaml:"role"`
}

type FixturePublication struct {
	Name        string          `yaml:"name"`
	Slug        string          `yaml:"slug"`
	Description string          `yaml:"description"`
	Owner       string          `yaml:"owner"`
	Members     []FixtureMember `yaml:"members"`
}

type FixturePost struct {
	Title       string   `yaml:"title"`
	Subtitle    string   `yaml:"subtitle"`
	Author      string   `yaml:"author"`
	Publication string   `yaml:"publication"`
	Tags        []string `yaml:"tags"`
	Featured    bool     `yaml:"featured"`
	Draft       bool     `yaml:"draft"`
	Content     string   `yaml:"content"`
}

// LoadFixture reads a fixture file; an empty path loads the built-in one.
func LoadFixture(path string) (*Fixture, error) {
	raw := defaultFixture
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read fixture: %w", err)
		}
		raw = data
	}
	return ParseFixture(raw)
}

// ParseFixture decodes and cross-checks fixture references.
func ParseFixture(raw []byte) (*Fixture, error) {
	var f Fixture
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return nil, fmt.Errorf("parse fixture: %w", err)
	}

	authors := make(map[string]bool, len(f.Authors))
	for _, a := range f.Authors {
		if a.Username == "" || a.Email == "" {
			return nil, fmt.Errorf("fixture author %q needs username and email", a.Name)
		}
		authors[a.Username] = true
	}

	pubs := make(map[string]bool, len(f.Publications))
	for _, p := range f.Publications {
		if !authors[p.Owner] {
			return nil, fmt.Errorf("publication %q: unknown owner %q", p.Slug, p.Owner)
		}
		for _, m := range p.Members {
			if !authors[m.Username] {
				return nil, fmt.Errorf("publication %q: unknown member %q", p.Slug, m.Username)
			}
		}
		pubs[p.Slug] = true
	}

	for _, p := range f.Posts {
		if !authors[p.Author] {
			return nil, fmt.Errorf("post %q: unknown author %q", p.Title, p.Author)
		}
		if p.Publication != "" && !pubs[p.Publication] {
			return nil, fmt.Errorf("post %q: unknown publication %q", p.Title, p.Publication)
		}
	}
	return &f, nil
}
