package main

import (
	"flag"
	"log"

	"github.com/Subasree2717/agropredictor/config"
	"github.com/Subasree2717/agropredictor/internal/database"
)

func main() {
	check := flag.Bool("check", false, "Only report whether the migrated tables exist")
	flag.Parse()

	if err := config.LoadDotEnv(); err != nil {
		log.Printf("Warning: could not read .env: %v", err)
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	db, err := database.New(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	if *check {
		missing := database.MissingTables(db)
		for _, table := range missing {
			log.Printf("[Migrate] Missing table %s", table)
		}
		if len(missing) > 0 {
			log.Fatalf("[Migrate] %d table(s) missing", len(missing))
		}
		log.Println("[Migrate] Schema is up to date")
		return
	}

	if err := database.RunMigrations(db); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}
	log.Println("[Migrate] Done")
}
