package main

import (
	"flag"
	"log"

	"go-shoplist/internal/model"
	"go-shoplist/pkg/database"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
)

// Bootstrap utility: creates an account directly in the database, for
// environments where sign-up is not exposed yet.
func main() {
	email := flag.String("email", "", "account email")
	password := flag.String("password", "", "account password (min 6 characters)")
	flag.Parse()

	if *email == "" || *password == "" {
		log.Fatal("usage: create-user -email <email> -password <password>")
	}
	if len(*password) < 6 {
		log.Fatal("password must be at least 6 characters")
	}

	// 1. Load Env
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found, relying on system env")
	}

	// 2. Setup Database
	db := database.ConnectDB()
	db.AutoMigrate(&model.User{}, &model.Product{})

	// 3. Refuse duplicates
	var existing model.User
	if err := db.Where("email = ?", *email).First(&existing).Error; err == nil {
		log.Fatalf("User %s already exists", *email)
	}

	// 4. Create
	user := &model.User{
		Email:        *email,
		IsActive:     true,
		TokenVersion: uuid.New().String(),
	}
	if err := user.SetPassword(*password); err != nil {
		log.Fatalf("Failed to hash password: %v", err)
	}

	if err := db.Create(user).Error; err != nil {
		log.Fatalf("Failed to create user: %v", err)
	}

	log.Printf("User created: %s (%s)", user.Email, user.ID)
}
