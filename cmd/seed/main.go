// cmd/seed/main.go
package main

import (
	"flag"

	"github.com/sirupsen/logrus"

	"github.com/farmdirect/farmdirect-backend/internal/config"
	"github.com/farmdirect/farmdirect-backend/internal/database"
)

func main() {
	includeOrders := flag.Bool("orders", false, "also clear orders, order items and queued emails")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		logrus.WithError(err).Fatal("Failed to load configuration")
	}

	db, err := database.Initialize(cfg.Database)
	if err != nil {
		logrus.WithError(err).Fatal("Failed to initialize database")
	}
	defer database.Close(db)

	if err := database.RunMigrations(db); err != nil {
		logrus.WithError(err).Fatal("Failed to run migrations")
	}

	if err := database.ResetCatalog(db, *includeOrders); err != nil {
		logrus.WithError(err).Fatal("Failed to reset catalog")
	}

	logrus.WithField("orders", *includeOrders).Info("Database cleared. Ready for real data.")
}
