package main

import (
	"flag"
	"math/rand"
	"time"

	"github.com/brianvoe/gofakeit/v6"

	"github.com/arnab42/socialite/backend/internal/auth"
	"github.com/arnab42/socialite/backend/internal/models"
	"github.com/arnab42/socialite/backend/internal/repositories"
	"github.com/arnab42/socialite/backend/pkg/config"
	"github.com/arnab42/socialite/backend/pkg/logger"
)

// Development seeder. Fills the database with fake users, posts, comments
// and likes. Every seeded user logs in with the shared password below.
const seedPassword = "password123"

func main() {
	userCount := flag.Int("users", 10, "number of users to create")
	postsPerUser := flag.Int("posts", 3, "posts per user")
	flag.Parse()

	cfg := config.Load()
	db, err := config.InitDB(cfg.PostgresURL)
	if err != nil {
		logger.Error.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.CloseDB()

	if err := db.Postgres.AutoMigrate(
		&models.User{}, &models.Post{}, &models.Comment{}, &models.Like{},
	); err != nil {
		logger.Error.Fatalf("Failed to migrate schema: %v", err)
	}

	userRepo := repositories.NewPostgresUserRepository(db.Postgres)
	postRepo := repositories.NewPostgresPostRepository(db.Postgres)
	commentRepo := repositories.NewPostgresCommentRepository(db.Postgres)
	likeRepo := repositories.NewPostgresLikeRepository(db.Postgres)

	hashed, err := auth.HashPassword(seedPassword)
	if err != nil {
		logger.Error.Fatalf("Failed to hash seed password: %v", err)
	}

	genders := []string{models.GenderMale, models.GenderFemale, models.GenderOther}

	var users []*models.User
	for i := 0; i < *userCount; i++ {
		user := &models.User{
			FirstName:   gofakeit.FirstName(),
			LastName:    gofakeit.LastName(),
			DateOfBirth: gofakeit.DateRange(time.Date(1960, 1, 1, 0, 0, 0, 0, time.UTC), time.Date(2005, 12, 31, 0, 0, 0, 0, time.UTC)),
			Gender:      genders[rand.Intn(len(genders))],
			Email:       gofakeit.Email(),
			Password:    hashed,
		}
		if err := userRepo.CreateUser(user); err != nil {
			logger.Warn.Printf("Skipping user %s: %v", user.Email, err)
			continue
		}
		users = append(users, user)
	}
	logger.Info.Printf("Created %d users.", len(users))

	var posts []*models.Post
	for _, user := range users {
		for i := 0; i < *postsPerUser; i++ {
			post := &models.Post{
				UserID:  user.ID,
				Title:   gofakeit.Sentence(5),
				Content: gofakeit.Paragraph(1, 3, 12, " "),
			}
			if err := postRepo.CreatePost(post); err != nil {
				logger.Warn.Printf("Skipping post for user %d: %v", user.ID, err)
				continue
			}
			posts = append(posts, post)
		}
	}
	logger.Info.Printf("Created %d posts.", len(posts))

	comments, likes := 0, 0
	for _, post := range posts {
		for _, user := range users {
			if rand.Intn(3) == 0 {
				comment := &models.Comment{
					PostID:  post.ID,
					UserID:  user.ID,
					Content: gofakeit.Sentence(10),
				}
				if err := commentRepo.CreateComment(comment); err == nil {
					comments++
				}
			}
			// At most one like per (user, post) pair
			if rand.Intn(2) == 0 {
				like := &models.Like{PostID: post.ID, UserID: user.ID}
				if err := likeRepo.CreateLike(like); err == nil {
					likes++
				}
			}
		}
	}
	logger.Info.Printf("Created %d comments and %d likes.", comments, likes)
}
