// @title           Portero Virtual API
// @version         1.0
// @description     Intercom service for a building doorman: department directory, video call workflow and realtime relay

// @contact.name   API Support

// @license.name  MIT

// @host      localhost:3001
// @BasePath  /api
package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"portero-http-service/config"
	"portero-http-service/models"
	"portero-http-service/routes"
)

func main() {
	if err := config.SetupLogger(); err != nil {
		fmt.Printf("failed to set up logging: %v\n", err)
		os.Exit(1)
	}

	// A missing .env is fine, the environment may already be set
	if err := godotenv.Load(); err != nil {
		config.Warning("no .env file loaded: %v", err)
	} else {
		config.Info(".env file loaded")
	}

	cfg := config.GetConfig()

	db, err := initDB(cfg)
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}

	if err := autoMigrate(db); err != nil {
		log.Fatalf("database migration failed: %v", err)
	}

	if err := seedDepartments(db); err != nil {
		log.Fatalf("seeding departments failed: %v", err)
	}

	r, serviceContainer := routes.SetupRouter(db, cfg)

	srv := &http.Server{
		Addr:    ":" + cfg.ServerPort,
		Handler: r,
	}

	go func() {
		config.Info("server listening on http://localhost:%s", cfg.ServerPort)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			config.Error("server failed: %v", err)
			os.Exit(1)
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	config.Info("shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		config.Error("server shutdown failed: %v", err)
	}
	serviceContainer.Shutdown()
}

// initDB opens the SQLite database, creating its directory on first run
func initDB(cfg *config.Config) (*gorm.DB, error) {
	if dir := filepath.Dir(cfg.SQLitePath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create data directory: %w", err)
		}
	}

	db, err := gorm.Open(sqlite.Open(cfg.GetSQLiteDSN()), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	config.Info("database ready at %s", cfg.SQLitePath)
	return db, nil
}

// autoMigrate creates or extends the schema from the models
func autoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.Department{},
		&models.CallHistory{},
	)
}

// seedDepartments inserts the initial directory on an empty database
func seedDepartments(db *gorm.DB) error {
	var count int64
	if err := db.Model(&models.Department{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	seeds := []models.Department{
		{Name: "Administración", Password: "admin123", Status: models.DepartmentStatusAvailable},
		{Name: "Ventas", Password: "ventas123", Status: models.DepartmentStatusAvailable},
		{Name: "Soporte", Password: "soporte123", Status: models.DepartmentStatusAvailable},
		{Name: "Recursos Humanos", Password: "rrhh123", Status: models.DepartmentStatusAvailable},
	}

	return db.Transaction(func(tx *gorm.DB) error {
		for i := range seeds {
			if err := tx.Create(&seeds[i]).Error; err != nil {
				return err
			}
		}
		config.Info("seeded %d departments", len(seeds))
		return nil
	})
}
