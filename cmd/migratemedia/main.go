package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/rehbar-pk/directory-api/config"
	"github.com/rehbar-pk/directory-api/database"
	"github.com/rehbar-pk/directory-api/services"
	"github.com/rehbar-pk/directory-api/services/digitalocean"
	"gorm.io/gorm"
)

// One-shot sweep of legacy /uploads/ media references onto the cloud media
// host. Safe to re-run: already-migrated records are skipped, and failed or
// missing files keep their original references for the next run.
func main() {
	timeout := flag.Duration("timeout", 30*time.Minute, "overall migration timeout")
	flag.Parse()

	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found, using system environment variables")
	}

	getEnv, err := config.Get()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	if getEnv.DO_SPACES_KEY == "" {
		log.Fatal("DO_SPACES_KEY is not set; nowhere to migrate media to")
	}

	store, err := database.StartGORM()
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer store.Close()

	db := store.GetDB().(*gorm.DB)

	spaces, err := digitalocean.NewSpacesClient(digitalocean.SpacesConfig{
		AccessKey: getEnv.DO_SPACES_KEY,
		SecretKey: getEnv.DO_SPACES_SECRET,
		Bucket:    getEnv.DO_SPACES_BUCKET,
		Region:    getEnv.DO_SPACES_REGION,
		Endpoint:  getEnv.DO_SPACES_ENDPOINT,
		CDNURL:    getEnv.DO_SPACES_CDN_URL,
	})
	if err != nil {
		log.Fatalf("Failed to initialize Spaces client: %v", err)
	}

	migration := services.NewMediaMigrationService(db, spaces, getEnv.UPLOADS_DIR)

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	summary, err := migration.MigrateAll(ctx)
	if err != nil {
		log.Fatalf("Migration failed: %v", err)
	}

	fmt.Println("Media migration complete")
	fmt.Printf("  records scanned:    %d\n", summary.RecordsScanned)
	fmt.Printf("  records updated:    %d\n", summary.RecordsUpdated)
	fmt.Printf("  legacy institutes:  %d\n", summary.LegacyInstitutes)
	fmt.Printf("  legacy shops:       %d\n", summary.LegacyShops)
	fmt.Printf("  logos migrated:     %d\n", summary.LogosMigrated)
	fmt.Printf("  banners migrated:   %d\n", summary.BannersMigrated)
	fmt.Printf("  gallery migrated:   %d\n", summary.GalleryMigrated)
	fmt.Printf("  faculty migrated:   %d\n", summary.FacultyMigrated)
	fmt.Printf("  files missing:      %d\n", summary.FilesMissing)
	fmt.Printf("  upload failures:    %d\n", summary.UploadFailures)
	fmt.Printf("  save failures:      %d\n", summary.SaveFailures)
}
