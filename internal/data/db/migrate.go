package db

import (
	"fmt"

	"gorm.io/gorm"

	types "github.com/yungbote/tutorialhub-backend/internal/domain"
)

func AutoMigrateAll(db *gorm.DB) error {
	if err := db.AutoMigrate(types.Models()...); err != nil {
		return fmt.Errorf("automigrate: %w", err)
	}
	return nil
}

func (s *Service) AutoMigrateAll() error {
	if err := AutoMigrateAll(s.db); err != nil {
		return err
	}
	s.log.Info("Schema migrated")
	return nil
}
