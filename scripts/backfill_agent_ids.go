//go:build ignore
// +build ignore

package main

import (
	"fmt"
	"log"
	"os"

	"github.com/joho/godotenv"
	"github.com/rehbar-pk/directory-api/database"
	"github.com/rehbar-pk/directory-api/model"
	"github.com/rehbar-pk/directory-api/utils/agentid"
	"gorm.io/gorm"
)

// This script backfills agent IDs for listings imported before the agent ID
// column existed
// Usage: go run scripts/backfill_agent_ids.go [--dry-run]

func main() {
	dryRun := false
	for _, arg := range os.Args[1:] {
		if arg == "--dry-run" {
			dryRun = true
		}
	}

	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found, using system environment variables")
	}

	store, err := database.StartGORM()
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer store.Close()

	db := store.GetDB().(*gorm.DB)

	var institutes []model.Institute
	if err := db.Where("agent_id = '' OR agent_id IS NULL").Find(&institutes).Error; err != nil {
		log.Fatalf("Failed to load institutes: %v", err)
	}

	var shops []model.Shop
	if err := db.Where("agent_id = '' OR agent_id IS NULL").Find(&shops).Error; err != nil {
		log.Fatalf("Failed to load shops: %v", err)
	}

	fmt.Printf("Found %d institutes and %d shops without agent IDs\n", len(institutes), len(shops))

	for i := range institutes {
		newID := agentid.Generate(institutes[i].Name)
		if dryRun {
			fmt.Printf("[dry-run] institute %d (%s) -> %s\n", institutes[i].ID, institutes[i].Name, newID)
			continue
		}
		if err := db.Model(&institutes[i]).Update("agent_id", newID).Error; err != nil {
			log.Printf("Failed to update institute %d: %v", institutes[i].ID, err)
		}
	}

	for i := range shops {
		newID := agentid.Generate(shops[i].Name)
		if dryRun {
			fmt.Printf("[dry-run] shop %d (%s) -> %s\n", shops[i].ID, shops[i].Name, newID)
			continue
		}
		if err := db.Model(&shops[i]).Update("agent_id", newID).Error; err != nil {
			log.Printf("Failed to update shop %d: %v", shops[i].ID, err)
		}
	}

	if dryRun {
		fmt.Println("Dry run complete, nothing written")
	} else {
		fmt.Println("Backfill complete")
	}
}
