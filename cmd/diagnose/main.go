package main

import (
	"context"
	"fmt"
	"log"

	"github.com/joho/godotenv"

	"github.com/AyushS-03/IndieMentor-AI/internal/config"
	"github.com/AyushS-03/IndieMentor-AI/internal/infrastructure/database"
)

// Connectivity probe for local environment setup. Checks the hosted store
// and the session store and runs the schema migration.
func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	fmt.Println("IndieMentor environment check")
	fmt.Println("=============================")

	db, err := database.Open(cfg.DSN)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		log.Fatalf("Failed to get underlying sql.DB: %v", err)
	}
	defer sqlDB.Close()
	if err := sqlDB.Ping(); err != nil {
		log.Fatalf("Failed to ping database: %v", err)
	}
	fmt.Println("ok: database connection")

	if err := database.AutoMigrate(db); err != nil {
		log.Fatalf("Failed to run auto-migration: %v", err)
	}
	fmt.Println("ok: schema migration")

	var mentorCount int64
	if err := db.Raw("SELECT COUNT(*) FROM mentors").Scan(&mentorCount).Error; err != nil {
		log.Fatalf("Failed to query mentors table: %v", err)
	}
	fmt.Printf("ok: mentors table accessible (current count: %d)\n", mentorCount)

	var policyCount int64
	if err := db.Raw("SELECT COUNT(*) FROM casbin_rule").Scan(&policyCount).Error; err != nil {
		log.Fatalf("Failed to query casbin_rule table: %v", err)
	}
	fmt.Printf("ok: casbin rules table accessible (current count: %d)\n", policyCount)

	rdb := database.NewRedis(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
	if err := rdb.Ping(context.Background()); err != nil {
		log.Fatalf("Failed to ping redis: %v", err)
	}
	fmt.Println("ok: session store connection")

	fmt.Println("\nEnvironment is ready.")
}
