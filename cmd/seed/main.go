// Command main runs the database seeder for Plume.
package main

import (
	"flag"
	"log"

	"plume/internal/config"
	"plume/internal/database"
	"plume/internal/seed"
)

func main() {
	numUsers := flag.Int("users", 50, "Number of users to create")
	numPosts := flag.Int("posts", 200, "Number of posts to create")
	shouldClean := flag.Bool("clean", true, "Clean database before seeding")
	skipBcrypt := flag.Bool("skip-bcrypt", false, "Store plaintext passwords (fast dev mode)")
	flag.Parse()

	log.Println("Database Seeder")
	log.Printf("Target: %d users, %d posts, clean=%v\n", *numUsers, *numPosts, *shouldClean)

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	if err := seed.Seed(db, seed.Options{
		NumUsers:    *numUsers,
		NumPosts:    *numPosts,
		ShouldClean: *shouldClean,
		SkipBcrypt:  *skipBcrypt,
	}); err != nil {
		log.Fatalf("Seeding failed: %v", err)
	}

	log.Println("All done! Your database is now populated with test data.")
	log.Println("All test users have the password: password123")
}
