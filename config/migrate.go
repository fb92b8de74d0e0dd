package config

import (
	"errors"
	"fmt"

	"hotel-pms/models"

	"github.com/rs/zerolog"
	"gorm.io/gorm"
)

// Migrate creates the schema and the locations every request relies on.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(models.All()...); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}
	if _, err := EnsureCentralStorage(db); err != nil {
		return err
	}
	return nil
}

// EnsureCentralStorage guarantees exactly one central storage location exists.
func EnsureCentralStorage(db *gorm.DB) (*models.Location, error) {
	var loc models.Location
	err := db.Where("name = ?", models.CentralStorageName).First(&loc).Error
	if err == nil {
		return &loc, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("lookup central storage: %w", err)
	}

	loc = models.Location{Name: models.CentralStorageName}
	if err := db.Create(&loc).Error; err != nil {
		// lost a race with another instance starting up
		var existing models.Location
		if fErr := db.Where("name = ?", models.CentralStorageName).First(&existing).Error; fErr == nil {
			return &existing, nil
		}
		return nil, fmt.Errorf("create central storage: %w", err)
	}
	return &loc, nil
}

// SeedDatabase inserts the default rate plan on an empty database.
func SeedDatabase(db *gorm.DB, log zerolog.Logger) error {
	var planCount int64
	if err := db.Model(&models.RatePlan{}).Count(&planCount).Error; err != nil {
		return fmt.Errorf("count rate plans: %w", err)
	}
	if planCount == 0 {
		plan := models.RatePlan{Name: "Standard", Description: "Flexible rate with free cancellation"}
		if err := db.Create(&plan).Error; err != nil {
			return fmt.Errorf("seed rate plan: %w", err)
		}
		log.Info().Uint("rate_plan_id", plan.ID).Msg("default rate plan seeded")
	}
	return nil
}
