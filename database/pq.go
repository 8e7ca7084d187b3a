package database

import (
	"database/sql"
	"fmt"
	"log"

	_ "github.com/lib/pq"
	"github.com/rehbar-pk/directory-api/config"
	"github.com/rehbar-pk/directory-api/model"
)

// Storage defines the interface that all database implementations must satisfy
type Storage interface {
	// Lifecycle methods
	Init() error
	Close() error
	HealthCheck() error

	// GORM DB access
	GetDB() interface{} // Returns *gorm.DB for GORMStore, *sql.DB for PostgreSQLStore

	// App settings, accessed through get-or-create (no process globals)
	GetOrCreateSetting(key, defaultValue, category, description string) (*model.AppSetting, error)

	// Inquiry methods (legacy raw SQL path)
	GetInquiries() ([]model.Inquiry, error)
	AddInquiry(inquiry model.Inquiry) error
	UpdateInquiry(inquiry model.Inquiry) error
	DeleteInquiry(id int64) error
}

const inquiryTableDDL = `
	CREATE TABLE IF NOT EXISTS inquiry (
		id SERIAL PRIMARY KEY,
		name VARCHAR(255) NOT NULL,
		email VARCHAR(255) NOT NULL,
		subject VARCHAR(255),
		message TEXT NOT NULL,
		status inquiry_status DEFAULT 'new',
		createdat TIMESTAMP DEFAULT NOW()
	);
`

type PostgreSQLStore struct {
	db *sql.DB
}

func Start() (*PostgreSQLStore, error) {
	getEnv, err := config.Get()

	if err != nil {
		return nil, err
	}

	connectStr := fmt.Sprintf("user=%s password=%s dbname=%s sslmode=%s", getEnv.DB_USER_NAME, getEnv.DB_PASSWORD, getEnv.DB_NAME, getEnv.DB_SSL_MODE)

	db, err := sql.Open("postgres", connectStr)
	if err != nil {
		fmt.Println("Unable to Start PostgresSQL Databse.")
		return nil, err
	}

	log.Println("Successfully connected to PostgresSQL Database.")
	return &PostgreSQLStore{
		db: db,
	}, nil
}

func (s *PostgreSQLStore) Init() error {
	log.Println("Initializing PostgresSQL Database.")

	if err := s.InitEnums(); err != nil {
		return err
	}
	return s.InitTables()
}

// InitEnums creates the enum types used by the raw SQL tables
func (s *PostgreSQLStore) InitEnums() error {
	query := `
		DO $$
		BEGIN
			IF NOT EXISTS (SELECT 1 FROM pg_type WHERE typname = 'inquiry_status') THEN
				CREATE TYPE inquiry_status AS ENUM ('new', 'read', 'resolved');
			END IF;
		END $$;
	`
	_, err := s.db.Exec(query)
	return err
}

// InitTables creates the raw SQL tables
func (s *PostgreSQLStore) InitTables() error {
	_, err := s.db.Exec(inquiryTableDDL)
	return err
}

func (s *PostgreSQLStore) Close() error {
	log.Println("Closing PostgresSQL connection...")
	return s.db.Close()
}

func (s *PostgreSQLStore) HealthCheck() error {
	return s.db.Ping()
}

// GetDB returns the raw *sql.DB instance
func (s *PostgreSQLStore) GetDB() interface{} {
	return s.db
}

// GetOrCreateSetting fetches an app setting by key, inserting the defaults
// on first access
func (s *PostgreSQLStore) GetOrCreateSetting(key, defaultValue, category, description string) (*model.AppSetting, error) {
	setting := &model.AppSetting{}
	row := s.db.QueryRow(`SELECT id, key, value, category, description FROM app_settings WHERE key = $1`, key)
	err := row.Scan(&setting.ID, &setting.Key, &setting.Value, &setting.Category, &setting.Description)
	if err == nil {
		return setting, nil
	}
	if err != sql.ErrNoRows {
		return nil, err
	}

	row = s.db.QueryRow(
		`INSERT INTO app_settings(key, value, category, description) VALUES($1, $2, $3, $4) RETURNING id`,
		key, defaultValue, category, description,
	)
	if err := row.Scan(&setting.ID); err != nil {
		return nil, err
	}
	setting.Key = key
	setting.Value = defaultValue
	setting.Category = category
	setting.Description = description
	return setting, nil
}
