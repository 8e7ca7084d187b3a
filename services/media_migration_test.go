package services

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/rehbar-pk/directory-api/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
)

// fakeUploader records uploads and can be told to fail
type fakeUploader struct {
	uploads []string
	fail    bool
}

func (f *fakeUploader) UploadFile(ctx context.Context, key string, data io.Reader, contentType string) (string, error) {
	if f.fail {
		return "", errors.New("connection reset")
	}
	f.uploads = append(f.uploads, key)
	return "https://cdn.rehbar.pk/" + key, nil
}

func newTestMigration(uploader Uploader, existing func(string) bool) *MediaMigrationService {
	m := NewMediaMigrationService(nil, uploader, "/srv/uploads")
	m.fileExists = existing
	m.openFile = func(path string) (io.ReadCloser, error) {
		return io.NopCloser(strings.NewReader("image bytes")), nil
	}
	m.persist = func(ctx context.Context, record interface{}, changes map[string]interface{}) error {
		return nil
	}
	return m
}

func allFilesExist(string) bool { return true }
func noFilesExist(string) bool  { return false }

func TestIsLegacyRef(t *testing.T) {
	assert.True(t, IsLegacyRef("/uploads/logo.png"))
	assert.False(t, IsLegacyRef("https://cdn.rehbar.pk/logo.png"))
	assert.False(t, IsLegacyRef(""))
	assert.False(t, IsLegacyRef("uploads/logo.png"))
}

func TestMigrateInstituteRewritesLegacySlots(t *testing.T) {
	uploader := &fakeUploader{}
	m := newTestMigration(uploader, allFilesExist)

	inst := &model.Institute{
		Logo:    "/uploads/logo.png",
		Banner:  "https://cdn.rehbar.pk/banner.png", // already migrated
		Gallery: datatypes.NewJSONSlice([]string{"/uploads/g1.jpg", "https://cdn.rehbar.pk/g2.jpg", "/uploads/g3.jpg"}),
		Faculty: datatypes.NewJSONSlice([]model.Faculty{
			{Name: "Dr. Aslam", Image: "/uploads/aslam.jpg"},
			{Name: "Dr. Sana"},
		}),
	}

	summary := &MigrationSummary{}
	changes := m.migrateInstitute(context.Background(), inst, summary)

	assert.ElementsMatch(t, []string{"logo", "gallery", "faculty"}, changeKeys(changes))
	assert.Equal(t, 1, summary.LogosMigrated)
	assert.Equal(t, 0, summary.BannersMigrated)
	assert.Equal(t, 2, summary.GalleryMigrated)
	assert.Equal(t, 1, summary.FacultyMigrated)
	assert.Equal(t, 0, summary.FilesMissing)
	assert.Equal(t, 0, summary.UploadFailures)

	// Every slot now points at the media host
	assert.True(t, strings.HasPrefix(inst.Logo, "https://cdn.rehbar.pk/"))
	assert.Equal(t, "https://cdn.rehbar.pk/banner.png", inst.Banner)
	for _, ref := range inst.Gallery {
		assert.True(t, strings.HasPrefix(ref, "https://"), ref)
	}
	assert.True(t, strings.HasPrefix(inst.Faculty[0].Image, "https://cdn.rehbar.pk/"))
	assert.Empty(t, inst.Faculty[1].Image)
}

func TestMigrateInstitutePreservesGalleryOrder(t *testing.T) {
	m := newTestMigration(&fakeUploader{}, allFilesExist)

	inst := &model.Institute{
		Gallery: datatypes.NewJSONSlice([]string{"/uploads/a.jpg", "/uploads/b.jpg", "/uploads/c.jpg"}),
	}

	m.migrateInstitute(context.Background(), inst, &MigrationSummary{})

	require.Len(t, inst.Gallery, 3)
	assert.Contains(t, inst.Gallery[0], "a.jpg")
	assert.Contains(t, inst.Gallery[1], "b.jpg")
	assert.Contains(t, inst.Gallery[2], "c.jpg")
}

func TestMigrateInstituteIdempotent(t *testing.T) {
	uploader := &fakeUploader{}
	m := newTestMigration(uploader, allFilesExist)

	inst := &model.Institute{
		Logo:    "/uploads/logo.png",
		Gallery: datatypes.NewJSONSlice([]string{"/uploads/g1.jpg"}),
	}

	first := m.migrateInstitute(context.Background(), inst, &MigrationSummary{})
	assert.NotEmpty(t, first)
	uploadsAfterFirst := len(uploader.uploads)

	// Second sweep finds nothing legacy and uploads nothing
	second := m.migrateInstitute(context.Background(), inst, &MigrationSummary{})
	assert.Empty(t, second)
	assert.Equal(t, uploadsAfterFirst, len(uploader.uploads))
}

func TestMigrateInstituteMissingFileKeepsRef(t *testing.T) {
	uploader := &fakeUploader{}
	m := newTestMigration(uploader, noFilesExist)

	inst := &model.Institute{Logo: "/uploads/gone.png"}

	summary := &MigrationSummary{}
	changes := m.migrateInstitute(context.Background(), inst, summary)

	assert.Empty(t, changes)
	assert.Equal(t, 1, summary.FilesMissing)
	assert.Empty(t, uploader.uploads)
	// Original reference stays so a later run can retry
	assert.Equal(t, "/uploads/gone.png", inst.Logo)
}

func TestMigrateInstituteUploadFailureIsIndependent(t *testing.T) {
	// First slot fails, the rest still migrate on this and later runs
	uploader := &fakeUploader{fail: true}
	m := newTestMigration(uploader, allFilesExist)

	inst := &model.Institute{
		Logo:   "/uploads/logo.png",
		Banner: "/uploads/banner.png",
	}

	summary := &MigrationSummary{}
	changes := m.migrateInstitute(context.Background(), inst, summary)

	assert.Empty(t, changes)
	assert.Equal(t, 2, summary.UploadFailures)
	assert.Equal(t, "/uploads/logo.png", inst.Logo)
	assert.Equal(t, "/uploads/banner.png", inst.Banner)

	// Retry with the uploader healthy again
	uploader.fail = false
	summary = &MigrationSummary{}
	changes = m.migrateInstitute(context.Background(), inst, summary)

	assert.NotEmpty(t, changes)
	assert.Equal(t, 1, summary.LogosMigrated)
	assert.Equal(t, 1, summary.BannersMigrated)
}

func TestMigrateShopRewritesLegacySlots(t *testing.T) {
	uploader := &fakeUploader{}
	m := newTestMigration(uploader, allFilesExist)

	shop := &model.Shop{
		Logo:    "/uploads/shop-logo.png",
		Gallery: datatypes.NewJSONSlice([]string{"/uploads/s1.jpg"}),
	}

	summary := &MigrationSummary{}
	changes := m.migrateShop(context.Background(), shop, summary)

	assert.ElementsMatch(t, []string{"logo", "gallery"}, changeKeys(changes))
	assert.Equal(t, 1, summary.LogosMigrated)
	assert.Equal(t, 1, summary.GalleryMigrated)
	assert.True(t, strings.HasPrefix(shop.Logo, "https://cdn.rehbar.pk/shops/logos/"))
}

func TestMigrateInstitutesContinuesAfterSaveFailure(t *testing.T) {
	uploader := &fakeUploader{}
	m := newTestMigration(uploader, allFilesExist)

	saves := 0
	m.persist = func(ctx context.Context, record interface{}, changes map[string]interface{}) error {
		saves++
		if saves == 1 {
			return errors.New("deadlock detected")
		}
		return nil
	}

	institutes := []model.Institute{
		{Logo: "/uploads/one.png"},
		{Logo: "/uploads/two.png"},
	}

	summary := &MigrationSummary{}
	m.migrateInstitutes(context.Background(), institutes, summary)

	// The failed save never stops the rest of the sweep
	assert.Equal(t, 2, summary.RecordsScanned)
	assert.Equal(t, 2, summary.LegacyInstitutes)
	assert.Equal(t, 1, summary.SaveFailures)
	assert.Equal(t, 1, summary.RecordsUpdated)
	assert.Equal(t, 2, saves)
	assert.True(t, strings.HasPrefix(institutes[1].Logo, "https://cdn.rehbar.pk/"))
}

func TestMigrateUpdatesOnlyMediaColumns(t *testing.T) {
	m := newTestMigration(&fakeUploader{}, allFilesExist)

	var captured []map[string]interface{}
	m.persist = func(ctx context.Context, record interface{}, changes map[string]interface{}) error {
		captured = append(captured, changes)
		return nil
	}

	institutes := []model.Institute{{
		Name:           "Punjab Science College",
		ApprovalStatus: model.ApprovalApproved,
		Logo:           "/uploads/logo.png",
	}}

	m.migrateInstitutes(context.Background(), institutes, &MigrationSummary{})

	require.Len(t, captured, 1)
	assert.ElementsMatch(t, []string{"logo"}, changeKeys(captured[0]))
}

func TestMigrateShopsCountsLegacyRecords(t *testing.T) {
	m := newTestMigration(&fakeUploader{}, allFilesExist)

	shops := []model.Shop{
		{Logo: "/uploads/a.png"},
		{Logo: "https://cdn.rehbar.pk/b.png"},
		{Gallery: datatypes.NewJSONSlice([]string{"/uploads/c.png"})},
	}

	summary := &MigrationSummary{}
	m.migrateShops(context.Background(), shops, summary)

	assert.Equal(t, 3, summary.RecordsScanned)
	assert.Equal(t, 2, summary.LegacyShops)
	assert.Equal(t, 2, summary.RecordsUpdated)
}

func changeKeys(changes map[string]interface{}) []string {
	keys := make([]string, 0, len(changes))
	for k := range changes {
		keys = append(keys, k)
	}
	return keys
}
