package database

import (
	"fmt"
	"log"
	"time"

	"github.com/rehbar-pk/directory-api/config"
	"github.com/rehbar-pk/directory-api/model"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type GORMStore struct {
	db *gorm.DB
}

// StartGORM initializes a GORM connection to PostgreSQL
func StartGORM() (*GORMStore, error) {
	getEnv, err := config.Get()
	if err != nil {
		return nil, err
	}

	// Build DSN (Data Source Name)
	dsn := fmt.Sprintf(
		"host=%s user=%s password=%s dbname=%s port=%s sslmode=%s TimeZone=UTC",
		getEnv.DB_HOST,
		getEnv.DB_USER_NAME,
		getEnv.DB_PASSWORD,
		getEnv.DB_NAME,
		getEnv.DB_PORT,
		getEnv.DB_SSL_MODE,
	)

	// Configure GORM logger
	gormLogger := logger.Default.LogMode(logger.Info)
	if getEnv.GO_ENV == "production" {
		gormLogger = logger.Default.LogMode(logger.Error)
	}

	// Open GORM connection
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger:                 gormLogger,
		SkipDefaultTransaction: false,
		PrepareStmt:            true,
	})
	if err != nil {
		log.Println("Unable to connect to PostgreSQL with GORM:", err)
		return nil, err
	}

	// Get underlying *sql.DB to configure connection pool
	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}

	// Connection pool settings
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetMaxOpenConns(100)
	sqlDB.SetConnMaxLifetime(time.Hour)

	log.Println("Successfully connected to PostgreSQL Database with GORM.")

	return &GORMStore{db: db}, nil
}

// Init runs the AutoMigrate to create/update tables
func (s *GORMStore) Init() error {
	log.Println("Running GORM AutoMigrate for all models...")

	err := s.db.AutoMigrate(
		// User-related models
		&model.User{},
		&model.EmailVerificationToken{},
		&model.PasswordResetToken{},
		&model.JWTTokenBlacklist{},

		// Directory listing models
		&model.Institute{},
		&model.Shop{},

		// Application settings
		&model.AppSetting{},

		// Audit & logging models
		&model.CronJobLog{},
		&model.AdminAuditLog{},
	)

	if err != nil {
		log.Println("Error running AutoMigrate:", err)
		return err
	}

	// The inquiry table predates GORM and is still owned by the legacy raw
	// SQL store; make sure it exists when bootstrapping through GORM.
	if err := s.db.Exec(inquiryTableDDL).Error; err != nil {
		log.Println("Error creating inquiry table:", err)
		return err
	}

	log.Println("GORM AutoMigrate completed successfully!")
	return nil
}

// Close closes the database connection
func (s *GORMStore) Close() error {
	log.Println("Closing GORM PostgreSQL connection...")
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// GetDB returns the GORM DB instance for use in handlers and services
func (s *GORMStore) GetDB() interface{} {
	return s.db
}

// HealthCheck verifies the database connection is alive
func (s *GORMStore) HealthCheck() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Ping()
}

// GetOrCreateSetting fetches an app setting by key, creating it with the
// supplied defaults on first access. Settings are never read through a
// process-global; handlers go through this accessor.
func (s *GORMStore) GetOrCreateSetting(key, defaultValue, category, description string) (*model.AppSetting, error) {
	setting := model.AppSetting{
		Key:         key,
		Value:       defaultValue,
		Category:    category,
		Description: description,
	}
	err := s.db.Where(model.AppSetting{Key: key}).FirstOrCreate(&setting).Error
	if err != nil {
		return nil, err
	}
	return &setting, nil
}

// Inquiry methods are served by the legacy raw SQL store; the GORM store
// falls back to it so both implementations satisfy Storage.

// GetInquiries lists inquiries through GORM's generic SQL interface
func (s *GORMStore) GetInquiries() ([]model.Inquiry, error) {
	var inquiries []model.Inquiry
	err := s.db.Raw(`SELECT id, name, email, subject, message, status, createdat AS created_at FROM inquiry ORDER BY id DESC`).
		Scan(&inquiries).Error
	return inquiries, err
}

// AddInquiry inserts an inquiry row
func (s *GORMStore) AddInquiry(inquiry model.Inquiry) error {
	return s.db.Exec(`INSERT INTO inquiry(name, email, subject, message, status) VALUES(?, ?, ?, ?, 'new')`,
		inquiry.Name, inquiry.Email, inquiry.Subject, inquiry.Message).Error
}

// UpdateInquiry updates the status of an inquiry
func (s *GORMStore) UpdateInquiry(inquiry model.Inquiry) error {
	return s.db.Exec(`UPDATE inquiry SET status = ? WHERE id = ?`, inquiry.Status, inquiry.ID).Error
}

// DeleteInquiry removes an inquiry row
func (s *GORMStore) DeleteInquiry(id int64) error {
	return s.db.Exec(`DELETE FROM inquiry WHERE id = ?`, id).Error
}
