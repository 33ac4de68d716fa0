package db

import (
	"fmt"

	"github.com/amitanshusahu/NexSync/db/models"
	"gorm.io/gorm"
)

func AutoMigrate(gdb *gorm.DB) error {
	if gdb == nil {
		return fmt.Errorf("nil gorm db")
	}
	return gdb.AutoMigrate(
		&models.User{},
		&models.Project{},
		&models.Task{},
		&models.Note{},
		&models.AuthKey{},
	)
}
