package main

import (
	"log"

	"portfolio-be/internal/config"
	"portfolio-be/internal/model"
	"portfolio-be/pkg/database"
)

func main() {
	// 1. Load Environment Variables
	cfg := config.Load()
	if cfg.Database.Connection == "" {
		log.Fatal("Error: DB_CONNECTION_STRING is not set")
	}

	// 2. Connect to Database using existing GORM helpers
	db, err := database.NewGormDBFromDSN(cfg.Database.Connection, true)
	if err != nil {
		log.Fatal("Error: Failed to connect to database:", err)
	}

	// 3. Extensions (AutoMigrate does not create them)
	log.Println("Step 1: Enabling pgvector...")
	if err := db.Exec(`CREATE EXTENSION IF NOT EXISTS vector;`).Error; err != nil {
		log.Fatalf("Error: Failed to enable the vector extension: %v", err)
	}

	// 4. Tables
	log.Println("Step 2: Running AutoMigrate for vector_entries...")
	if err := db.AutoMigrate(&model.VectorEntry{}); err != nil {
		log.Fatalf("Error: AutoMigrate failed: %v", err)
	}

	log.Println("Success: Database migration completed.")
}
