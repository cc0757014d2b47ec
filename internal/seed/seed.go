package seed

import (
	"fmt"
	"log"

	"plume/internal/models"

	"github.com/brianvoe/gofakeit/v6"
	"gorm.io/gorm"
)

// Options configuration for the seeder
type Options struct {
	NumUsers    int
	NumPosts    int
	ShouldClean bool
	SkipBcrypt  bool
	MaxDays     int
}

// Seed populates the database with test data: users wired into a follow
// graph, posts with comments, and likes with their notifications.
func Seed(db *gorm.DB, opts Options) error {
	log.Printf("Starting database seeding with %d users and %d posts...", opts.NumUsers, opts.NumPosts)

	if opts.ShouldClean {
		if err := clearData(db); err != nil {
			log.Println("Warning: could not clear all existing data, continuing anyway...")
		}
	}

	f := NewFactory(db, opts)

	users := make([]*models.User, 0, opts.NumUsers)
	for i := 0; i < opts.NumUsers; i++ {
		user, err := f.CreateUser()
		if err != nil {
			log.Printf("Failed to create user: %v", err)
			continue
		}
		users = append(users, user)
	}
	if len(users) == 0 {
		return fmt.Errorf("no users created")
	}
	log.Printf("Created %d users", len(users))

	// Each user follows a handful of others.
	follows := 0
	for _, u := range users {
		for n := gofakeit.Number(0, 5); n > 0; n-- {
			target := users[gofakeit.Number(0, len(users)-1)]
			if err := f.CreateFollow(u, target); err == nil && u.ID != target.ID {
				follows++
			}
		}
	}
	log.Printf("Created %d follows", follows)

	posts := make([]*models.Post, 0, opts.NumPosts)
	for i := 0; i < opts.NumPosts; i++ {
		author := users[gofakeit.Number(0, len(users)-1)]
		post, err := f.CreatePost(author)
		if err != nil {
			return fmt.Errorf("failed to create post: %w", err)
		}
		posts = append(posts, post)
	}
	log.Printf("Created %d posts", len(posts))

	likes, comments := 0, 0
	for _, post := range posts {
		for n := gofakeit.Number(0, 8); n > 0; n-- {
			if err := f.CreateLike(users[gofakeit.Number(0, len(users)-1)], post); err == nil {
				likes++
			}
		}
		for n := gofakeit.Number(0, 4); n > 0; n-- {
			if _, err := f.CreateComment(users[gofakeit.Number(0, len(users)-1)], post); err == nil {
				comments++
			}
		}
	}
	log.Printf("Created %d likes and %d comments", likes, comments)

	log.Println("Database seeding completed successfully")
	return nil
}

func clearData(db *gorm.DB) error {
	log.Println("Clearing existing data...")
	sql := `TRUNCATE TABLE notifications, comments, likes, follows, posts, users RESTART IDENTITY CASCADE;`
	return db.Exec(sql).Error
}
