package mysql

import (
	"fmt"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"gitlab.apk-group.net/siem/backend/project-analyzer/pkg/adapter/storage/types"
	pkgLogger "gitlab.apk-group.net/siem/backend/project-analyzer/pkg/logger"
)

type DBConnOptions struct {
	Host     string
	Port     uint
	Username string
	Password string
	Database string
}

func NewMysqlConnection(cfg DBConnOptions) (*gorm.DB, error) {
	dsn := fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=utf8mb4&parseTime=True&loc=Local",
		cfg.Username,
		cfg.Password,
		cfg.Host,
		cfg.Port,
		cfg.Database,
	)
	return gorm.Open(mysql.Open(dsn), &gorm.Config{
		Logger: logger.Discard,
	})
}

func GormMigrations(db *gorm.DB) {
	err := db.AutoMigrate(
		&types.Job{},
	)
	if err != nil {
		pkgLogger.Fatal("failed to migrate models: %v", err)
	}
}
