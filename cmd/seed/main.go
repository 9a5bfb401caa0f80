package main

import (
	"context"
	"errors"
	"log"
	"time"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"shoplist/internal/config"
	"shoplist/internal/db"
	"shoplist/internal/model"
	"shoplist/internal/repository"
)

// Demo fixtures for local development: three users sharing one list
// with one role of each kind.
type seedUser struct {
	username string
	password string
	role     model.Role
}

var seedUsers = []seedUser{
	{username: "alice", password: "alice123", role: model.RoleOwner},
	{username: "bob", password: "bob123", role: model.RoleWrite},
	{username: "carol", password: "carol123", role: model.RoleRead},
}

var seedItems = []struct {
	title    string
	quantity int
	unit     string
}{
	{title: "Milk", quantity: 2, unit: "l"},
	{title: "Bread", quantity: 1, unit: "loaf"},
	{title: "Apples", quantity: 6, unit: "pcs"},
}

func main() {
	log.Println("Starting seed script...")

	cfg := config.Load()

	gormDB, err := db.NewMySQL(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	log.Println("Connected to database")

	if err := gormDB.AutoMigrate(
		&model.User{},
		&model.List{},
		&model.Membership{},
		&model.Item{},
		&model.ItemHistory{},
	); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}
	log.Println("Database migrations completed")

	userRepo := repository.NewUserRepository(gormDB)
	listRepo := repository.NewListRepository(gormDB)
	membershipRepo := repository.NewMembershipRepository(gormDB)
	itemRepo := repository.NewItemRepository(gormDB)

	ctx := context.Background()

	users := make(map[string]*model.User, len(seedUsers))
	for _, su := range seedUsers {
		user, err := ensureUser(ctx, userRepo, su.username, su.password)
		if err != nil {
			log.Fatalf("Failed to seed user %s: %v", su.username, err)
		}
		users[su.username] = user
	}

	owner := users["alice"]

	list := &model.List{Title: "Weekend groceries"}
	if err := listRepo.CreateWithOwner(ctx, list, owner.ID); err != nil {
		log.Fatalf("Failed to create list: %v", err)
	}
	log.Printf("Created list %q (%s)", list.Title, list.ID)

	for _, su := range seedUsers {
		if su.role == model.RoleOwner {
			continue
		}
		membership := &model.Membership{
			ListID: list.ID,
			UserID: users[su.username].ID,
			Role:   su.role,
		}
		if err := membershipRepo.Create(ctx, membership); err != nil {
			log.Fatalf("Failed to add member %s: %v", su.username, err)
		}
	}

	for _, si := range seedItems {
		now := time.Now().UTC()
		item := &model.Item{
			ListID:      list.ID,
			Title:       si.title,
			Quantity:    si.quantity,
			Unit:        si.unit,
			Status:      model.ItemStatusOpen,
			LastUpdated: now,
			AuthorID:    &owner.ID,
		}
		entry := &model.ItemHistory{
			Date:     now,
			Title:    si.title,
			Quantity: si.quantity,
			Unit:     si.unit,
			Status:   model.ItemStatusOpen,
			Username: owner.Username,
		}
		if err := itemRepo.CreateWithHistory(ctx, item, entry); err != nil {
			log.Fatalf("Failed to create item %s: %v", si.title, err)
		}
	}

	log.Printf("Seed completed successfully!")
	log.Printf("  - Users: %d (alice/bob/carol)", len(seedUsers))
	log.Printf("  - Items: %d on list %s", len(seedItems), list.ID)
}

// ensureUser creates the user if missing; an existing user is reused
// so the script can be re-run.
func ensureUser(ctx context.Context, repo repository.UserRepository, username, password string) (*model.User, error) {
	existing, err := repo.FindByUsername(ctx, username)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}
	if existing != nil {
		log.Printf("User %s already exists, reusing", username)
		return existing, nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := &model.User{Username: username, PasswordHash: string(hash)}
	if err := repo.Create(ctx, user); err != nil {
		return nil, err
	}
	log.Printf("Created user %s", username)
	return user, nil
}
