package services

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/rehbar-pk/directory-api/model"
	"github.com/rehbar-pk/directory-api/services/digitalocean"
	"gorm.io/gorm"
)

// legacyPrefix marks media references that still point at local disk.
// Anything else (cloud URLs, placeholders, empty slots) is already done,
// which is what makes the whole sweep re-runnable.
const legacyPrefix = "/uploads/"

// Uploader is the slice of the Spaces client the migration needs. The
// tests substitute a fake; production wires *digitalocean.SpacesClient.
type Uploader interface {
	UploadFile(ctx context.Context, key string, data io.Reader, contentType string) (string, error)
}

// MigrationSummary reports the outcome of one migration sweep
type MigrationSummary struct {
	RecordsScanned int `json:"records_scanned"`
	RecordsUpdated int `json:"records_updated"`

	// Records found still holding at least one legacy reference, per category
	LegacyInstitutes int `json:"legacy_institutes"`
	LegacyShops      int `json:"legacy_shops"`

	LogosMigrated   int `json:"logos_migrated"`
	BannersMigrated int `json:"banners_migrated"`
	GalleryMigrated int `json:"gallery_migrated"`
	FacultyMigrated int `json:"faculty_migrated"`

	FilesMissing   int `json:"files_missing"`
	UploadFailures int `json:"upload_failures"`
	SaveFailures   int `json:"save_failures"`
}

// MediaMigrationService moves legacy local-disk media references onto the
// cloud media host, rewriting each record's URLs in place
type MediaMigrationService struct {
	db         *gorm.DB
	uploader   Uploader
	uploadsDir string

	// Seams for tests
	fileExists func(path string) bool
	openFile   func(path string) (io.ReadCloser, error)
	persist    func(ctx context.Context, record interface{}, changes map[string]interface{}) error
}

// NewMediaMigrationService creates a migration service. uploadsDir is the
// local directory that legacy /uploads/ paths resolve against.
func NewMediaMigrationService(db *gorm.DB, uploader Uploader, uploadsDir string) *MediaMigrationService {
	m := &MediaMigrationService{
		db:         db,
		uploader:   uploader,
		uploadsDir: uploadsDir,
		fileExists: func(path string) bool {
			info, err := os.Stat(path)
			return err == nil && !info.IsDir()
		},
		openFile: func(path string) (io.ReadCloser, error) {
			return os.Open(path)
		},
	}
	m.persist = func(ctx context.Context, record interface{}, changes map[string]interface{}) error {
		return m.db.WithContext(ctx).Model(record).Updates(changes).Error
	}
	return m
}

// IsLegacyRef reports whether a media reference still points at local disk
func IsLegacyRef(ref string) bool {
	return strings.HasPrefix(ref, legacyPrefix)
}

// MigrateAll sweeps every institute and shop. Records are processed
// sequentially so a large backlog does not hammer the media host.
func (m *MediaMigrationService) MigrateAll(ctx context.Context) (*MigrationSummary, error) {
	summary := &MigrationSummary{}

	var institutes []model.Institute
	if err := m.db.WithContext(ctx).Find(&institutes).Error; err != nil {
		return nil, fmt.Errorf("failed to load institutes: %w", err)
	}
	m.migrateInstitutes(ctx, institutes, summary)

	var shops []model.Shop
	if err := m.db.WithContext(ctx).Find(&shops).Error; err != nil {
		return summary, fmt.Errorf("failed to load shops: %w", err)
	}
	m.migrateShops(ctx, shops, summary)

	log.Printf("media migration: scanned %d, updated %d, missing %d, upload failures %d, save failures %d",
		summary.RecordsScanned, summary.RecordsUpdated, summary.FilesMissing,
		summary.UploadFailures, summary.SaveFailures)
	return summary, nil
}

// migrateInstitutes processes one category of records. A failed save is
// counted and the sweep moves on; the record's legacy references survive
// untouched for the next run.
func (m *MediaMigrationService) migrateInstitutes(ctx context.Context, institutes []model.Institute, summary *MigrationSummary) {
	for i := range institutes {
		summary.RecordsScanned++
		if instituteHasLegacyMedia(&institutes[i]) {
			summary.LegacyInstitutes++
		}
		changes := m.migrateInstitute(ctx, &institutes[i], summary)
		if len(changes) == 0 {
			continue
		}
		if err := m.persist(ctx, &institutes[i], changes); err != nil {
			summary.SaveFailures++
			log.Printf("media migration: failed to save institute %d: %v", institutes[i].ID, err)
			continue
		}
		summary.RecordsUpdated++
	}
}

func (m *MediaMigrationService) migrateShops(ctx context.Context, shops []model.Shop, summary *MigrationSummary) {
	for i := range shops {
		summary.RecordsScanned++
		if shopHasLegacyMedia(&shops[i]) {
			summary.LegacyShops++
		}
		changes := m.migrateShop(ctx, &shops[i], summary)
		if len(changes) == 0 {
			continue
		}
		if err := m.persist(ctx, &shops[i], changes); err != nil {
			summary.SaveFailures++
			log.Printf("media migration: failed to save shop %d: %v", shops[i].ID, err)
			continue
		}
		summary.RecordsUpdated++
	}
}

func instituteHasLegacyMedia(inst *model.Institute) bool {
	if IsLegacyRef(inst.Logo) || IsLegacyRef(inst.Banner) {
		return true
	}
	for _, ref := range inst.Gallery {
		if IsLegacyRef(ref) {
			return true
		}
	}
	for _, f := range inst.Faculty {
		if IsLegacyRef(f.Image) {
			return true
		}
	}
	return false
}

func shopHasLegacyMedia(shop *model.Shop) bool {
	if IsLegacyRef(shop.Logo) || IsLegacyRef(shop.Banner) {
		return true
	}
	for _, ref := range shop.Gallery {
		if IsLegacyRef(ref) {
			return true
		}
	}
	return false
}

// migrateInstitute rewrites every legacy slot of one institute and returns
// the changed media columns for a partial update. Each slot migrates
// independently; one failed upload never blocks the others.
func (m *MediaMigrationService) migrateInstitute(ctx context.Context, inst *model.Institute, summary *MigrationSummary) map[string]interface{} {
	changes := map[string]interface{}{}

	if url, ok := m.migrateRef(ctx, inst.Logo, "institutes/logos", summary); ok {
		inst.Logo = url
		summary.LogosMigrated++
		changes["logo"] = inst.Logo
	}
	if url, ok := m.migrateRef(ctx, inst.Banner, "institutes/banners", summary); ok {
		inst.Banner = url
		summary.BannersMigrated++
		changes["banner"] = inst.Banner
	}

	// Gallery order is part of the record; entries are rewritten in place
	for i, ref := range inst.Gallery {
		if url, ok := m.migrateRef(ctx, ref, "institutes/gallery", summary); ok {
			inst.Gallery[i] = url
			summary.GalleryMigrated++
			changes["gallery"] = inst.Gallery
		}
	}

	for i, f := range inst.Faculty {
		if url, ok := m.migrateRef(ctx, f.Image, "institutes/faculty", summary); ok {
			inst.Faculty[i].Image = url
			summary.FacultyMigrated++
			changes["faculty"] = inst.Faculty
		}
	}

	return changes
}

func (m *MediaMigrationService) migrateShop(ctx context.Context, shop *model.Shop, summary *MigrationSummary) map[string]interface{} {
	changes := map[string]interface{}{}

	if url, ok := m.migrateRef(ctx, shop.Logo, "shops/logos", summary); ok {
		shop.Logo = url
		summary.LogosMigrated++
		changes["logo"] = shop.Logo
	}
	if url, ok := m.migrateRef(ctx, shop.Banner, "shops/banners", summary); ok {
		shop.Banner = url
		summary.BannersMigrated++
		changes["banner"] = shop.Banner
	}
	for i, ref := range shop.Gallery {
		if url, ok := m.migrateRef(ctx, ref, "shops/gallery", summary); ok {
			shop.Gallery[i] = url
			summary.GalleryMigrated++
			changes["gallery"] = shop.Gallery
		}
	}

	return changes
}

// migrateRef uploads one legacy reference and returns the new URL. The
// second return is false when nothing should be rewritten: the ref is not
// legacy, the local file is gone, or the upload failed. A missing file or
// failed upload leaves the original reference untouched so a later run
// can retry it.
func (m *MediaMigrationService) migrateRef(ctx context.Context, ref, keyPrefix string, summary *MigrationSummary) (string, bool) {
	if !IsLegacyRef(ref) {
		return "", false
	}

	localPath := filepath.Join(m.uploadsDir, strings.TrimPrefix(ref, legacyPrefix))
	if !m.fileExists(localPath) {
		summary.FilesMissing++
		log.Printf("media migration: local file missing for %s", ref)
		return "", false
	}

	file, err := m.openFile(localPath)
	if err != nil {
		summary.UploadFailures++
		log.Printf("media migration: cannot open %s: %v", localPath, err)
		return "", false
	}
	defer file.Close()

	filename := filepath.Base(localPath)
	key := digitalocean.GenerateKey(keyPrefix, filename)
	url, err := m.uploader.UploadFile(ctx, key, file, digitalocean.GetContentType(filename))
	if err != nil {
		summary.UploadFailures++
		log.Printf("media migration: upload failed for %s: %v", ref, err)
		return "", false
	}

	return url, true
}
