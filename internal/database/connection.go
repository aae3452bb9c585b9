// internal/database/connection.go
package database

import (
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/farmdirect/farmdirect-backend/internal/config"
	"github.com/farmdirect/farmdirect-backend/internal/models"
)

func Initialize(cfg config.DatabaseConfig) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(cfg.DSN()), GormConfig(cfg.LogLevel))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// Get underlying sql.DB
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}

	// Configure connection pool
	sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(time.Duration(cfg.MaxLifetime) * time.Second)

	if err := sqlDB.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	logrus.WithFields(logrus.Fields{
		"host": cfg.Host,
		"db":   cfg.Database,
	}).Info("Database connection established")
	return db, nil
}

// GormConfig translates driver errors (duplicate keys surface as
// gorm.ErrDuplicatedKey) and leaves foreign keys to RunMigrations.
func GormConfig(logLevel string) *gorm.Config {
	return &gorm.Config{
		Logger:                                   logger.Default.LogMode(parseLogLevel(logLevel)),
		TranslateError:                           true,
		DisableForeignKeyConstraintWhenMigrating: true,
	}
}

func parseLogLevel(level string) logger.LogLevel {
	switch level {
	case "silent":
		return logger.Silent
	case "error":
		return logger.Error
	case "info":
		return logger.Info
	default:
		return logger.Warn
	}
}

func Close(db *gorm.DB) {
	sqlDB, err := db.DB()
	if err != nil {
		logrus.WithError(err).Error("Error getting underlying sql.DB")
		return
	}

	if err := sqlDB.Close(); err != nil {
		logrus.WithError(err).Error("Error closing database connection")
	} else {
		logrus.Info("Database connection closed")
	}
}

// foreignKeys lists the constraints we want. order_items.product_id is
// intentionally absent so product deletion never touches order history.
var foreignKeys = []struct {
	model interface{}
	name  string
}{
	{&models.Product{}, "Farmer"},
	{&models.Order{}, "Items"},
	{&models.Order{}, "Outbox"},
}

func RunMigrations(db *gorm.DB) error {
	logrus.Info("Running database migrations...")

	err := db.AutoMigrate(
		&models.Farmer{},
		&models.Product{},
		&models.Order{},
		&models.OrderItem{},
		&models.EmailOutbox{},
	)
	if err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	migrator := db.Migrator()
	for _, fk := range foreignKeys {
		if migrator.HasConstraint(fk.model, fk.name) {
			continue
		}
		if err := migrator.CreateConstraint(fk.model, fk.name); err != nil {
			return fmt.Errorf("failed to create constraint %s: %w", fk.name, err)
		}
	}

	if err := createIndexes(db); err != nil {
		return fmt.Errorf("failed to create indexes: %w", err)
	}

	logrus.Info("Database migrations completed")
	return nil
}

func createIndexes(db *gorm.DB) error {
	indexes := []string{
		"CREATE INDEX IF NOT EXISTS idx_products_farmer_category ON products(farmer_id, category)",
		"CREATE INDEX IF NOT EXISTS idx_orders_created_at ON orders(created_at DESC)",
		"CREATE INDEX IF NOT EXISTS idx_products_search ON products USING GIN(to_tsvector('simple', name || ' ' || coalesce(description, '')))",
	}

	for _, index := range indexes {
		if err := db.Exec(index).Error; err != nil {
			// Continue with other indexes instead of failing completely
			logrus.WithError(err).WithField("index", index).Warn("Failed to create index")
		}
	}

	return nil
}

// ResetCatalog clears farmers and their products. With includeOrders it also
// clears orders, their items and queued emails.
func ResetCatalog(db *gorm.DB, includeOrders bool) error {
	return WithTransaction(db, func(tx *gorm.DB) error {
		if includeOrders {
			for _, model := range []interface{}{&models.EmailOutbox{}, &models.OrderItem{}, &models.Order{}} {
				if err := tx.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(model).Error; err != nil {
					return fmt.Errorf("failed to clear orders: %w", err)
				}
			}
		}
		if err := tx.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(&models.Product{}).Error; err != nil {
			return fmt.Errorf("failed to clear products: %w", err)
		}
		if err := tx.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(&models.Farmer{}).Error; err != nil {
			return fmt.Errorf("failed to clear farmers: %w", err)
		}
		return nil
	})
}

// Transaction helper
func WithTransaction(db *gorm.DB, fn func(*gorm.DB) error) error {
	tx := db.Begin()
	if tx.Error != nil {
		return tx.Error
	}

	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
			panic(r)
		}
	}()

	if err := fn(tx); err != nil {
		tx.Rollback()
		return err
	}

	return tx.Commit().Error
}
