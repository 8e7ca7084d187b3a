package database

import (
	"fmt"
	"log"
	"os"
	"time"

	"github.com/rehbar-pk/directory-api/model"
	"github.com/rehbar-pk/directory-api/utils/agentid"
	"github.com/rehbar-pk/directory-api/utils/auth"
	"github.com/rehbar-pk/directory-api/utils/crypto"
	"gorm.io/gorm"
)

// Seeder handles database seeding operations
type Seeder struct {
	db *gorm.DB
}

// NewSeeder creates a new seeder instance
func NewSeeder(db *gorm.DB) *Seeder {
	return &Seeder{db: db}
}

// RunSeeds runs all seeders against the given connection
func RunSeeds(db *gorm.DB) error {
	return NewSeeder(db).SeedAll()
}

// SeedAll runs all seed functions
func (s *Seeder) SeedAll() error {
	log.Println("Starting database seeding...")

	if err := s.SeedAdminUser(); err != nil {
		return fmt.Errorf("failed to seed admin user: %w", err)
	}

	if err := s.SeedInstitutes(); err != nil {
		return fmt.Errorf("failed to seed institutes: %w", err)
	}

	if err := s.SeedAppSettings(); err != nil {
		return fmt.Errorf("failed to seed app settings: %w", err)
	}

	log.Println("Database seeding completed successfully!")
	return nil
}

// SeedAdminUser creates the default admin user from ADMIN_EMAIL and
// ADMIN_PASSWORD; skipped when the variables are not set.
func (s *Seeder) SeedAdminUser() error {
	adminEmail := os.Getenv("ADMIN_EMAIL")
	adminPassword := os.Getenv("ADMIN_PASSWORD")
	if adminEmail == "" || adminPassword == "" {
		log.Println("ADMIN_EMAIL / ADMIN_PASSWORD not set, skipping admin seed")
		return nil
	}

	var count int64
	if err := s.db.Model(&model.User{}).Where("email = ?", adminEmail).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		log.Println("Admin user already exists, skipping")
		return nil
	}

	salt, err := crypto.GenerateSalt()
	if err != nil {
		return err
	}
	hash, err := auth.HashPassword(adminPassword, salt)
	if err != nil {
		return err
	}

	now := time.Now()
	admin := model.User{
		Email:           adminEmail,
		PasswordHash:    hash,
		PasswordSalt:    salt,
		Name:            "Administrator",
		Role:            "admin",
		EmailVerifiedAt: &now,
	}
	if err := s.db.Create(&admin).Error; err != nil {
		return err
	}

	log.Printf("Seeded admin user %s", adminEmail)
	return nil
}

// SeedInstitutes creates a handful of approved sample listings so public
// endpoints return data on a fresh install
func (s *Seeder) SeedInstitutes() error {
	var count int64
	if err := s.db.Model(&model.Institute{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		log.Println("Institutes already present, skipping sample seed")
		return nil
	}

	var admin model.User
	if err := s.db.Where("role = ?", "admin").First(&admin).Error; err != nil {
		log.Println("No admin user found, skipping sample institutes")
		return nil
	}

	now := time.Now()
	samples := []model.Institute{
		{
			Name:     "Punjab Science College",
			Domain:   model.DomainEducation,
			Type:     "College",
			City:     "Lahore",
			Province: "Punjab",
			Location: "Lahore, Punjab",
		},
		{
			Name:     "Indus Valley Hospital",
			Domain:   model.DomainHealthcare,
			Type:     "Hospital",
			City:     "Karachi",
			Province: "Sindh",
			Location: "Karachi, Sindh",
		},
	}

	for i := range samples {
		inst := &samples[i]
		inst.OwnerID = admin.ID
		inst.OwnerName = admin.Name
		inst.OwnerEmail = admin.Email
		inst.AgentID = agentid.Generate(inst.Name)
		inst.ApprovalStatus = model.ApprovalPending
		if err := inst.Approve(admin.ID, "seed data", now); err != nil {
			return err
		}
		if err := s.db.Create(inst).Error; err != nil {
			return err
		}
	}

	log.Printf("Seeded %d sample institutes", len(samples))
	return nil
}

// SeedAppSettings creates the default application settings
func (s *Seeder) SeedAppSettings() error {
	defaults := []model.AppSetting{
		{Key: "directory.listings_per_page", Value: "10", Type: "int", Category: "directory", IsPublic: true},
		{Key: "directory.featured_city", Value: "Lahore", Type: "string", Category: "directory", IsPublic: true},
		{Key: "media.migration_enabled", Value: "true", Type: "bool", Category: "media"},
		{Key: "auth.email_verification_required", Value: "false", Type: "bool", Category: "auth"},
	}

	for _, setting := range defaults {
		err := s.db.Where(model.AppSetting{Key: setting.Key}).FirstOrCreate(&setting).Error
		if err != nil {
			return err
		}
	}

	log.Printf("Seeded %d default app settings", len(defaults))
	return nil
}
