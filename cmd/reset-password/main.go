package main

import (
	"flag"
	"log"

	"go-pos-core/internal/config"
	"go-pos-core/internal/repository"
	"go-pos-core/pkg/credential"
	"go-pos-core/pkg/database"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
)

func main() {
	username := flag.String("username", "admin", "account to reset")
	password := flag.String("password", "", "new password (required)")
	flag.Parse()

	if len(*password) < 6 {
		log.Fatal("❌ -password is required and must be at least 6 characters")
	}

	// 1. Load Env
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found, relying on system env")
	}

	// 2. Setup Database
	db, err := database.ConnectDB(config.Load().Database)
	if err != nil {
		log.Fatalf("❌ Failed to connect database: %v", err)
	}
	accounts := repository.NewAccountRepo(db)

	// 3. Find Account
	account, err := accounts.FindByUsername(*username)
	if err != nil {
		log.Fatalf("❌ Account %s not found in database: %v", *username, err)
	}

	// 4. Hash new password
	hash, err := credential.NewBcrypt(0).Hash(*password)
	if err != nil {
		log.Fatalf("❌ Failed to hash password: %v", err)
	}

	// 5. Update, and end every open session
	if err := accounts.UpdatePassword(account.ID, hash); err != nil {
		log.Fatalf("❌ Failed to update password in DB: %v", err)
	}
	if err := accounts.UpdateTokenVersion(account.ID, uuid.NewString()); err != nil {
		log.Fatalf("❌ Failed to revoke sessions: %v", err)
	}

	log.Printf("✅ Success! Password for %s has been reset", account.Username)
}
