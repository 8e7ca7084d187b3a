package cron

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/rehbar-pk/directory-api/model"
)

// CleanupExpiredTokens removes auth tokens that can no longer be used:
// expired blacklist entries, and expired or consumed verification and
// password reset tokens.
func (m *CronManager) CleanupExpiredTokens() {
	jobName := "cleanup_expired_tokens"
	now := time.Now()
	total := int64(0)

	result := m.db.Unscoped().
		Where("expires_at < ?", now).
		Delete(&model.JWTTokenBlacklist{})
	if result.Error != nil {
		m.logJobError(jobName, result.Error)
		return
	}
	total += result.RowsAffected

	result = m.db.Unscoped().
		Where("expires_at < ? OR used_at IS NOT NULL", now).
		Delete(&model.EmailVerificationToken{})
	if result.Error != nil {
		m.logJobError(jobName, result.Error)
		return
	}
	total += result.RowsAffected

	result = m.db.Unscoped().
		Where("expires_at < ? OR used_at IS NOT NULL", now).
		Delete(&model.PasswordResetToken{})
	if result.Error != nil {
		m.logJobError(jobName, result.Error)
		return
	}
	total += result.RowsAffected

	m.logJobComplete(jobName, fmt.Sprintf("removed %d expired tokens", total))
}

// MediaMigrationSweep runs the legacy media migration when enabled. The
// media.migration_enabled setting acts as a kill switch so operators can
// pause the sweep without a deploy.
func (m *CronManager) MediaMigrationSweep() {
	jobName := "media_migration_sweep"

	if m.migration == nil {
		m.logJobComplete(jobName, "no media host configured, skipped")
		return
	}

	setting := model.AppSetting{
		Key:      "media.migration_enabled",
		Value:    "true",
		Type:     "bool",
		Category: "media",
	}
	if err := m.db.Where(model.AppSetting{Key: setting.Key}).FirstOrCreate(&setting).Error; err != nil {
		m.logJobError(jobName, err)
		return
	}
	if setting.Value != "true" {
		m.logJobComplete(jobName, "migration disabled by setting, skipped")
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Minute)
	defer cancel()

	summary, err := m.migration.MigrateAll(ctx)
	if err != nil {
		m.logJobError(jobName, err)
		return
	}

	m.logJobComplete(jobName, fmt.Sprintf(
		"scanned %d records, updated %d, %d files missing, %d upload failures, %d save failures",
		summary.RecordsScanned, summary.RecordsUpdated, summary.FilesMissing,
		summary.UploadFailures, summary.SaveFailures))
}

// CleanupOldData prunes aged operational rows
func (m *CronManager) CleanupOldData() {
	jobName := "cleanup_old_data"
	total := int64(0)

	// Cron job logs older than 90 days
	result := m.db.Unscoped().
		Where("created_at < ?", time.Now().AddDate(0, 0, -90)).
		Delete(&model.CronJobLog{})
	if result.Error != nil {
		m.logJobError(jobName, result.Error)
		return
	}
	total += result.RowsAffected

	// Admin audit logs older than 180 days
	result = m.db.Unscoped().
		Where("created_at < ?", time.Now().AddDate(0, 0, -180)).
		Delete(&model.AdminAuditLog{})
	if result.Error != nil {
		m.logJobError(jobName, result.Error)
		return
	}
	total += result.RowsAffected

	m.logJobComplete(jobName, fmt.Sprintf("removed %d old rows", total))
}

// AggregateDirectoryStats snapshots listing counts into app_settings so the
// admin dashboard reads one row instead of counting on every request
func (m *CronManager) AggregateDirectoryStats() {
	jobName := "aggregate_directory_stats"

	stats := map[string]int64{}
	counts := []struct {
		key   string
		model interface{}
		where []interface{}
	}{
		{"institutes_total", &model.Institute{}, nil},
		{"institutes_pending", &model.Institute{}, []interface{}{"approval_status = ?", model.ApprovalPending}},
		{"institutes_approved", &model.Institute{}, []interface{}{"approval_status = ?", model.ApprovalApproved}},
		{"shops_total", &model.Shop{}, nil},
		{"shops_pending", &model.Shop{}, []interface{}{"approval_status = ?", model.ApprovalPending}},
		{"users_total", &model.User{}, nil},
	}

	for _, c := range counts {
		var n int64
		q := m.db.Model(c.model)
		if c.where != nil {
			q = q.Where(c.where[0], c.where[1:]...)
		}
		if err := q.Count(&n).Error; err != nil {
			m.logJobError(jobName, err)
			return
		}
		stats[c.key] = n
	}

	payload, err := json.Marshal(map[string]interface{}{
		"generated_at": time.Now().Format(time.RFC3339),
		"counts":       stats,
	})
	if err != nil {
		m.logJobError(jobName, err)
		return
	}

	setting := model.AppSetting{
		Key:      "directory.stats_snapshot",
		Type:     "json",
		Category: "directory",
	}
	if err := m.db.Where(model.AppSetting{Key: setting.Key}).FirstOrCreate(&setting).Error; err != nil {
		m.logJobError(jobName, err)
		return
	}
	if err := m.db.Model(&setting).Update("value", string(payload)).Error; err != nil {
		m.logJobError(jobName, err)
		return
	}

	m.logJobComplete(jobName, fmt.Sprintf("snapshot of %d counters stored", len(stats)))
}
