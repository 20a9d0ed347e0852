// Command main runs the database seeder for Nashr.
package main

import (
	"flag"
	"log"

	"nashr/internal/config"
	"nashr/internal/database"
	"nashr/internal/seed"
)

func main() {
	numUsers := flag.Int("users", 50, "Number of generated users")
	numPosts := flag.Int("posts", 200, "Number of generated posts")
	shouldClean := flag.Bool("clean", true, "Clean database before seeding")
	fixture := flag.String("fixture", "", "YAML fixture file (built-in demo fixture when empty)")
	fast := flag.Bool("fast", false, "Hash passwords with the minimum bcrypt cost")
	dryRun := flag.Bool("dry-run", false, "Log what would be created without writing")
	flag.Parse()

	log.Println("🌱 Database Seeder")
	log.Println("==================")
	log.Printf("Target: %d users, %d posts, clean=%v\n", *numUsers, *numPosts, *shouldClean)

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	if cfg.IsProduction() {
		log.Fatal("❌ refusing to seed a production database")
	}

	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	s := seed.NewSeeder(db, seed.Options{DryRun: *dryRun, SkipBcrypt: *fast, MaxDays: 90})
	sum, err := s.Run(seed.Config{
		NumUsers:    *numUsers,
		NumPosts:    *numPosts,
		ShouldClean: *shouldClean && !*dryRun,
		FixturePath: *fixture,
	})
	if err != nil {
		log.Fatalf("❌ Seeding failed: %v", err)
	}

	log.Printf("✨ All done! %d users, %d posts, %d publications.", sum.Users, sum.Posts, sum.Publications)
	log.Printf("📧 All generated users have the password: %s", seed.DefaultPassword)
}
