// Command main loads categories and optional demo content into the blog database.
package main

import (
	"context"
	"flag"
	"log"

	"blogapi/internal/auth"
	"blogapi/internal/config"
	"blogapi/internal/database"
	"blogapi/internal/middleware"
	"blogapi/internal/seed"
)

func main() {
	catalogPath := flag.String("categories", "", "YAML category catalog (built-in list when empty)")
	numUsers := flag.Int("users", 0, "Number of demo users to create")
	postsPerUser := flag.Int("posts", 3, "Posts per demo user")
	commentsPerPost := flag.Int("comments", 4, "Maximum comments per demo post")
	password := flag.String("password", seed.DefaultPassword, "Password for every demo user")
	clean := flag.Bool("clean", false, "Remove users, posts and comments before seeding")
	randSeed := flag.Int64("seed", 0, "Faker seed (0 picks a random one)")
	flag.Parse()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	middleware.InitLogger(cfg.Env)

	catalog := &seed.DefaultCatalog
	if *catalogPath != "" {
		catalog, err = seed.LoadCatalog(*catalogPath)
		if err != nil {
			log.Fatalf("Failed to load category catalog: %v", err)
		}
	}

	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	s := seed.NewSeeder(db, auth.NewPasswordHasher(cfg.BcryptCost), *randSeed)
	sum, err := s.Run(context.Background(), catalog, seed.Options{
		Users:           *numUsers,
		PostsPerUser:    *postsPerUser,
		CommentsPerPost: *commentsPerPost,
		Password:        *password,
		Clean:           *clean,
	})
	if err != nil {
		log.Fatalf("Seeding failed: %v", err)
	}

	middleware.Logger.Info("seeding complete",
		"categories", sum.Categories,
		"users", sum.Users,
		"posts", sum.Posts,
		"comments", sum.Comments,
	)
	if sum.Users > 0 {
		middleware.Logger.Info("demo users share one password", "password", *password)
	}
}
