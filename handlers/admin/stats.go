package admin

import (
	"encoding/json"

	"github.com/gofiber/fiber/v2"
	"github.com/rehbar-pk/directory-api/database"
	"github.com/rehbar-pk/directory-api/utils/response"
)

// GetDirectoryStats returns the latest aggregated directory counters.
// The snapshot is produced by the hourly stats cron job; an empty value
// means the job has not run yet.
// GET /admin/stats
func GetDirectoryStats(c *fiber.Ctx, store database.Storage) error {
	setting, err := store.GetOrCreateSetting("directory.stats_snapshot", "", "directory", "Hourly directory counters")
	if err != nil {
		return response.InternalServerError(c, "Failed to fetch statistics")
	}

	if setting.Value == "" {
		return response.Success(c, fiber.Map{
			"generated_at": nil,
			"counts":       fiber.Map{},
		})
	}

	var snapshot map[string]interface{}
	if err := json.Unmarshal([]byte(setting.Value), &snapshot); err != nil {
		return response.InternalServerError(c, "Stored statistics are corrupted")
	}

	return response.Success(c, snapshot)
}
