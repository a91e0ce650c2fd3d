// Package db 地图与用户的 PostgreSQL 持久化 (gorm)
package db

import (
	"fmt"
	"time"

	"campus-map/logger"
	"campus-map/model"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var DB *gorm.DB

// 数据库连接重试参数 (Docker 启动时数据库可能还没准备好)
const (
	maxRetries    = 30
	retryInterval = 2 * time.Second
)

// InitDB 连接数据库并自动迁移表结构
func InitDB(dsn string) error {
	var err error
	for i := 0; i < maxRetries; i++ {
		DB, err = gorm.Open(postgres.Open(dsn), &gorm.Config{TranslateError: true})
		if err == nil {
			break
		}
		logger.L().Warn("db_wait", "attempt", i+1, "max", maxRetries, "err", err)
		time.Sleep(retryInterval)
	}
	if err != nil {
		return fmt.Errorf("无法连接数据库: %w", err)
	}

	if err := Migrate(DB); err != nil {
		return err
	}
	logger.L().Info("db_ready")
	return nil
}

// Migrate 自动迁移 (自动创建表结构)
func Migrate(db *gorm.DB) error {
	err := db.AutoMigrate(
		&model.User{},
		&BuildingRow{}, &NodeRow{}, &EdgeRow{}, &MPORow{}, &SavedPathRow{},
	)
	if err != nil {
		return fmt.Errorf("数据库迁移失败: %w", err)
	}
	return nil
}
