package app

import (
	"fmt"
	"os"

	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/rehbar-pk/directory-api/api"
	"github.com/rehbar-pk/directory-api/config"
	"github.com/rehbar-pk/directory-api/database"
	"github.com/rehbar-pk/directory-api/router"
	"github.com/rehbar-pk/directory-api/services"
	"github.com/rehbar-pk/directory-api/services/cron"
	"github.com/rehbar-pk/directory-api/services/digitalocean"
	"gorm.io/gorm"
)

func SetupAndRunServer() error {

	// Load ENV
	if err := config.LoadENV(); err != nil {
		return err
	}

	getEnv, err := config.Get()
	if err != nil {
		return err
	}

	// Initialize GORM database connection
	store, err := database.StartGORM()
	if err != nil {
		print("Check whether the Postgres is running or not\n")
		print("If not running, run the following command:\n")
		print("  make docker-up   (for Docker setup)\n")
		print("  make db-up       (for local PostgreSQL)\n")
		return err
	}

	if err := store.Init(); err != nil {
		print("Failed to initialize database tables\n")
		print("Error running migrations:\n")
		return err
	}

	emailService := services.NewEmailService()

	// Media migration service needs a Spaces client; without credentials the
	// cron sweep simply skips itself
	var migrationService *services.MediaMigrationService
	db, dbOK := store.GetDB().(*gorm.DB)
	if dbOK && getEnv.DO_SPACES_KEY != "" {
		spaces, err := digitalocean.NewSpacesClient(digitalocean.SpacesConfig{
			AccessKey: getEnv.DO_SPACES_KEY,
			SecretKey: getEnv.DO_SPACES_SECRET,
			Bucket:    getEnv.DO_SPACES_BUCKET,
			Region:    getEnv.DO_SPACES_REGION,
			Endpoint:  getEnv.DO_SPACES_ENDPOINT,
			CDNURL:    getEnv.DO_SPACES_CDN_URL,
		})
		if err != nil {
			print("Warning: Failed to initialize Spaces client\n")
		} else {
			migrationService = services.NewMediaMigrationService(db, spaces, getEnv.UPLOADS_DIR)
		}
	}

	// Initialize Cron Manager (only if enabled via environment variable)
	var cronManager *cron.CronManager
	if os.Getenv("CRON_ENABLED") != "false" { // Default to enabled
		if !dbOK {
			print("Warning: Failed to get database connection for cron jobs\n")
		} else {
			cronManager = cron.NewCronManager(db, migrationService)
			if err := cronManager.Start(); err != nil {
				print("Warning: Failed to start cron jobs\n")
				print("Error: ", err.Error(), "\n")
				// Don't fail the app, just log the warning
			}
		}
	}

	// Defer Closing DB and stopping cron jobs
	defer func() {
		if cronManager != nil {
			cronManager.Stop()
		}
		store.Close()
	}()

	// Init API
	var server *api.APIServer = api.NewAPIServer(fmt.Sprintf(":%d", getEnv.PORT))
	app := server.GetEngine()

	// Attach Middleware
	// Custom Logger
	app.Use(logger.New())

	app.Use(recover.New())

	// Setup Routes
	router.SetupRoutes(app, store, emailService)

	// Get the PORT & Start the Server
	return server.Run()

}
