package main

import (
	"log"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"ratehub/internal/config"
	"ratehub/internal/db"
	"ratehub/internal/model"
)

// Seeds an admin account, two provisioned stores with owners, and a handful
// of user accounts with ratings. Safe to re-run: rows are matched by email.

type seedStore struct {
	store model.Store
	owner model.Account
}

func main() {
	log.Println("Starting seed script...")

	cfg := config.Load()

	gormDB, err := db.NewMySQL(cfg.MySQLDSN)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	log.Println("Connected to database")

	if err := gormDB.AutoMigrate(&model.Account{}, &model.Store{}, &model.Rating{}); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}
	log.Println("Database migrations completed")

	admin := model.Account{
		Name:         "Platform Administrator Account",
		Email:        "admin@ratehub.local",
		PasswordHash: mustHash("Admin@1234"),
		Address:      "1 Admin Plaza",
		Role:         model.RoleAdmin,
	}
	if err := upsertAccount(gormDB, &admin); err != nil {
		log.Fatalf("Failed to seed admin: %v", err)
	}

	stores := []seedStore{
		{
			store: model.Store{
				Name:    "Greenfield Grocery and Deli",
				Email:   "contact@greenfieldgrocery.local",
				Address: "12 Market Street",
			},
			owner: model.Account{
				Name:         "Greenfield Grocery Proprietor",
				Email:        "owner@greenfieldgrocery.local",
				PasswordHash: mustHash("Owner@1234"),
				Address:      "12 Market Street",
				Role:         model.RoleStoreOwner,
			},
		},
		{
			store: model.Store{
				Name:    "Riverside Books and Records",
				Email:   "contact@riversidebooks.local",
				Address: "88 Riverside Avenue",
			},
			owner: model.Account{
				Name:         "Riverside Books Shop Keeper",
				Email:        "owner@riversidebooks.local",
				PasswordHash: mustHash("Owner@1234"),
				Address:      "88 Riverside Avenue",
				Role:         model.RoleStoreOwner,
			},
		},
	}

	storeIDs := make([]uint, 0, len(stores))
	for i := range stores {
		if err := seedStoreWithOwner(gormDB, &stores[i]); err != nil {
			log.Fatalf("Failed to seed store %q: %v", stores[i].store.Name, err)
		}
		storeIDs = append(storeIDs, stores[i].store.ID)
	}

	users := []model.Account{
		{
			Name:         "Jonathan Quincy Ratingsmith",
			Email:        "jonathan@example.local",
			PasswordHash: mustHash("User@12345"),
			Address:      "5 Elm Street",
			Role:         model.RoleUser,
		},
		{
			Name:         "Margaret Penelope Storegoer",
			Email:        "margaret@example.local",
			PasswordHash: mustHash("User@12345"),
			Address:      "7 Oak Street",
			Role:         model.RoleUser,
		},
	}
	for i := range users {
		if err := upsertAccount(gormDB, &users[i]); err != nil {
			log.Fatalf("Failed to seed user %q: %v", users[i].Email, err)
		}
	}

	values := []int{5, 3, 4, 2}
	idx := 0
	for _, user := range users {
		for _, storeID := range storeIDs {
			rating := model.Rating{AccountID: user.ID, StoreID: storeID, Value: values[idx%len(values)]}
			idx++
			err := gormDB.Where("account_id = ? AND store_id = ?", rating.AccountID, rating.StoreID).
				FirstOrCreate(&rating).Error
			if err != nil {
				log.Fatalf("Failed to seed rating: %v", err)
			}
		}
	}

	log.Println("Seed completed")
}

func mustHash(password string) string {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), 10)
	if err != nil {
		log.Fatalf("Failed to hash password: %v", err)
	}
	return string(hash)
}

func upsertAccount(db *gorm.DB, account *model.Account) error {
	return db.Where("email = ?", account.Email).FirstOrCreate(account).Error
}

func seedStoreWithOwner(db *gorm.DB, s *seedStore) error {
	return db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("email = ?", s.store.Email).FirstOrCreate(&s.store).Error; err != nil {
			return err
		}
		s.owner.StoreID = &s.store.ID
		if err := tx.Where("email = ?", s.owner.Email).FirstOrCreate(&s.owner).Error; err != nil {
			return err
		}
		return tx.Model(&s.store).Update("owner_id", s.owner.ID).Error
	})
}
