package db

import (
	"log"

	"chirp/internal/models"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// Open connects to Postgres and migrates the schema. The handle is returned
// to the caller and passed down explicitly; there is no package-level DB.
func Open(dsn string) (*gorm.DB, error) {
	conn, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		// Unique violations come back as gorm.ErrDuplicatedKey so the
		// store can map them to ErrConflict.
		TranslateError: true,
	})
	if err != nil {
		return nil, err
	}

	log.Println("Database connection established")

	err = conn.AutoMigrate(
		&models.User{},
		&models.Profile{},
		&models.Post{},
		&models.Like{},
		&models.Repost{},
		&models.Follow{},
	)
	if err != nil {
		return nil, err
	}
	log.Println("Database migration completed")

	return conn, nil
}
