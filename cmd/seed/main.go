package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"golang.org/x/crypto/bcrypt"

	"securesphere/internal/config"
	"securesphere/internal/model"
	"securesphere/internal/repository"
)

// Seeds the default superuser plus demo lead and client accounts. Existing
// usernames are left untouched, so the command is safe to re-run.
func main() {
	cfg := config.Load()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.MongoURI))
	if err != nil {
		log.Fatalf("Failed to connect to MongoDB: %v", err)
	}
	defer client.Disconnect(ctx)

	db := client.Database(cfg.MongoDB)
	userRepo := repository.NewUserRepo(db)

	adminPassword := os.Getenv("ADMIN_PASSWORD")
	if adminPassword == "" {
		adminPassword = "ChangeMe123"
	}

	seeds := []struct {
		username string
		email    string
		password string
		role     model.Role
		first    string
		last     string
	}{
		{"admin", "admin@securesphere.com", adminPassword, model.RoleSuperuser, "System", "Administrator"},
		{"demo_lead", "lead@securesphere.com", "DemoLead123", model.RoleLead, "Demo", "Lead"},
		{"demo_client", "client@securesphere.com", "DemoClient123", model.RoleClient, "Demo", "Client"},
	}

	for _, seed := range seeds {
		existing, err := userRepo.GetByUsername(ctx, seed.username)
		if err != nil {
			log.Fatalf("Failed to check user %s: %v", seed.username, err)
		}
		if existing != nil {
			fmt.Printf("User '%s' already exists, skipping\n", seed.username)
			continue
		}

		hash, err := bcrypt.GenerateFromPassword([]byte(seed.password), bcrypt.DefaultCost)
		if err != nil {
			log.Fatalf("Failed to hash password: %v", err)
		}

		user := &model.User{
			Username:     seed.username,
			Email:        seed.email,
			PasswordHash: string(hash),
			Role:         seed.role,
			FirstName:    seed.first,
			LastName:     seed.last,
			IsActive:     true,
			FirstLogin:   true,
		}
		if err := userRepo.Create(ctx, user); err != nil {
			log.Fatalf("Failed to create user %s: %v", seed.username, err)
		}
		fmt.Printf("Created %s user '%s'\n", seed.role, seed.username)
	}

	// Unique usernames and emails at the database level.
	users := db.Collection("users")
	_, err = users.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "username", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "email", Value: 1}}, Options: options.Index().SetUnique(true)},
	})
	if err != nil {
		log.Fatalf("Failed to create user indexes: %v", err)
	}
	fmt.Println("User indexes ensured")
}
