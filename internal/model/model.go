package model

import (
	"gorm.io/gorm"
)

// AutoMigrate 按模型名执行自动迁移
func AutoMigrate(db *gorm.DB, key string) error {
	switch key {

	case "UsageCounter":
		return db.AutoMigrate(UsageCounter{})

	case "Resource":
		return db.AutoMigrate(Resource{})

	case "":
		return db.AutoMigrate(UsageCounter{}, Resource{})
	}
	return nil
}
