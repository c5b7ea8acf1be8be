package main

import (
	"flag"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/example/bazaar/internal/config"
	"github.com/example/bazaar/internal/database"
	"github.com/example/bazaar/internal/models"
	"github.com/example/bazaar/internal/utils"
)

// Bootstrap command that creates an active staff+superuser account, since
// category management requires one and the API offers no way to create it.
func main() {
	email := flag.String("email", "", "email for the superuser account")
	username := flag.String("username", "", "username for the superuser account")
	password := flag.String("password", "", "password for the superuser account")
	flag.Parse()

	if *email == "" || *password == "" {
		logrus.Fatal("email and password are required")
	}

	cfg := config.Load()
	db := database.Connect(cfg.DatabaseURL)

	var existing models.User
	if err := db.Where("email = ?", *email).First(&existing).Error; err == nil {
		logrus.Fatalf("user %s already exists", *email)
	} else if err != gorm.ErrRecordNotFound {
		logrus.Fatalf("failed to check existing user: %v", err)
	}

	passwordHash, err := utils.HashPassword(*password)
	if err != nil {
		logrus.Fatalf("failed to hash password: %v", err)
	}

	user := models.User{
		Email:        *email,
		PasswordHash: passwordHash,
		IsActive:     true,
		IsStaff:      true,
		IsSuperuser:  true,
	}
	if *username != "" {
		user.Username = username
	}

	if err := db.Create(&user).Error; err != nil {
		logrus.Fatalf("failed to create superuser: %v", err)
	}

	logrus.Infof("superuser %s created", *email)
}
