package main

import (
	"log"
	"os"
	"time"

	"booton-be/internal/model"
	"booton-be/pkg/database"

	"github.com/fatih/color"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"gorm.io/gorm"
)

func main() {
	// Load Environment Variables
	if err := godotenv.Load(); err != nil {
		log.Println("Info: No .env file found, using system env")
	}

	dsn := os.Getenv("DB_CONNECTION_STRING")
	if dsn == "" {
		log.Fatal("Error: DB_CONNECTION_STRING is not set")
	}

	db, err := database.NewGormDBFromDSN(dsn)
	if err != nil {
		log.Fatal("Error: Failed to connect to database:", err)
	}

	log.Println("Seeding demo users and coaches...")

	users := []model.User{
		{Id: uuid.MustParse("6f1d9f6a-0a50-4a53-9c10-000000000001"), FullName: "Andi Pratama", Email: "andi@booton.dev", Role: "player", City: "Jakarta"},
		{Id: uuid.MustParse("6f1d9f6a-0a50-4a53-9c10-000000000002"), FullName: "Budi Santoso", Email: "budi@booton.dev", Role: "coach", City: "Jakarta"},
		{Id: uuid.MustParse("6f1d9f6a-0a50-4a53-9c10-000000000003"), FullName: "Citra Lestari", Email: "citra@booton.dev", Role: "coach", City: "Bandung"},
	}

	for _, u := range users {
		var existing model.User
		if err := db.Where("email = ?", u.Email).First(&existing).Error; err == nil {
			log.Printf("User '%s' already exists, skipping...", u.Email)
			continue
		} else if err != gorm.ErrRecordNotFound {
			log.Fatalf("Error checking user '%s': %v", u.Email, err)
		}

		if err := db.Create(&u).Error; err != nil {
			color.Red("Error creating user '%s': %v", u.Email, err)
		} else {
			color.Green("Created user: %s (%s)", u.FullName, u.Role)
		}
	}

	coaches := []model.Coach{
		{
			UserId:       uuid.MustParse("6f1d9f6a-0a50-4a53-9c10-000000000002"),
			Bio:          "Former professional striker, 10 years of youth coaching.",
			Specialty:    "striker",
			City:         "Jakarta",
			PricePerHour: 250000,
		},
		{
			UserId:       uuid.MustParse("6f1d9f6a-0a50-4a53-9c10-000000000003"),
			Bio:          "Goalkeeper coach, licensed and active in regional leagues.",
			Specialty:    "goalkeeper",
			City:         "Bandung",
			PricePerHour: 200000,
		},
	}

	for _, c := range coaches {
		var existing model.Coach
		if err := db.Where("user_id = ?", c.UserId).First(&existing).Error; err == nil {
			log.Printf("Coach profile for user %s already exists, skipping...", c.UserId)
			continue
		} else if err != gorm.ErrRecordNotFound {
			log.Fatalf("Error checking coach profile for %s: %v", c.UserId, err)
		}

		if err := db.Create(&c).Error; err != nil {
			color.Red("Error creating coach profile for %s: %v", c.UserId, err)
		} else {
			color.Green("Created coach profile: %s (%s)", c.Specialty, c.City)
		}
	}

	if secret := os.Getenv("JWT_SECRET"); secret != "" {
		log.Println("Demo tokens (24h):")
		for _, u := range users {
			token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
				"user_id": u.Id.String(),
				"role":    u.Role,
				"exp":     time.Now().Add(24 * time.Hour).Unix(),
			})
			signed, err := token.SignedString([]byte(secret))
			if err != nil {
				color.Red("Error signing token for %s: %v", u.Email, err)
				continue
			}
			color.Yellow("  %s: %s", u.Email, signed)
		}
	}

	color.Cyan("Seeding completed!")
}
